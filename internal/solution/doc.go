// Package solution defines the unit descriptors and on-disk layout of a
// generated solution, and implements the ledger: a read-only scan that
// derives which units already exist (and which ports they occupy) from the
// generated tree itself. There is no side database.
package solution
