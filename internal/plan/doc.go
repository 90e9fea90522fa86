// Package plan turns a caller-supplied descriptor into an ordered batch of
// scaffold operations and graft mutations. Planning is pure: every guard
// that can fail before touching disk (name validation, duplicate unit
// detection, template resolution, port allocation) runs here, so the
// executor only ever sees a plan worth applying.
package plan
