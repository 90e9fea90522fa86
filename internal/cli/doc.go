// Package cli defines the Cobra command tree for the stackgen CLI. Each file
// in this package registers one top-level command (new, add, list, etc.)
// with the root command. Command implementations delegate to internal packages
// for the scaffolding engine and only handle flag parsing and I/O formatting.
package cli
