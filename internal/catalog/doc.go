// Package catalog holds the fixed, versioned registry of file templates and
// graft fragments the scaffolder works from. The definition (catalog.yaml)
// and every template body are embedded at build time and validated against a
// JSON Schema on first load; the catalog never scans a mutable directory at
// request time.
package catalog
