// Package anchor implements the single edit primitive used to graft new
// fragments into already-generated files: locate a unique structural marker
// (a closing delimiter, a terminal statement) and insert an expanded
// fragment next to it, leaving every other byte of the file untouched.
//
// Both grafting paths (extending the workspace member list and extending
// the orchestrator registration block) go through this package, so the
// exactly-one-match rule is enforced in one place.
package anchor

import (
	"fmt"
	"os"
	"strings"

	"github.com/stackgen-labs/stackgen/internal/expand"
)

// Mode selects which side of the matched span the fragment lands on.
type Mode int

const (
	Before Mode = iota
	After
)

func (m Mode) String() string {
	if m == After {
		return "after"
	}
	return "before"
}

// Anchor describes a literal marker expected to occur exactly once in the
// target file. The pattern is matched as a plain substring, never as a
// regular expression.
type Anchor struct {
	Pattern string
	Mode    Mode
}

// NotFoundError reports an anchor pattern absent from its target file: the
// file's shape differs from what the mutator expects.
type NotFoundError struct {
	Path    string
	Pattern string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("anchor %q not found in %s", e.Pattern, e.Path)
}

// AmbiguousError reports an anchor pattern occurring more than once; the
// mutator refuses to guess which occurrence is meant.
type AmbiguousError struct {
	Path    string
	Pattern string
	Count   int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("anchor %q matches %d times in %s, expected exactly one", e.Pattern, e.Count, e.Path)
}

// Mutate expands fragment with b and inserts it immediately before or
// after the unique occurrence of a.Pattern in the file at path. The whole
// file is read, edited in memory, and written back in one pass; these are
// small project-descriptor files.
func Mutate(path string, a Anchor, fragment string, b expand.Bindings) error {
	if a.Pattern == "" {
		return fmt.Errorf("empty anchor pattern for %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	content := string(data)
	switch n := strings.Count(content, a.Pattern); {
	case n == 0:
		return &NotFoundError{Path: path, Pattern: a.Pattern}
	case n > 1:
		return &AmbiguousError{Path: path, Pattern: a.Pattern, Count: n}
	}

	expanded := expand.Expand(fragment, b)

	at := strings.Index(content, a.Pattern)
	if a.Mode == After {
		at += len(a.Pattern)
	}

	var sb strings.Builder
	sb.Grow(len(content) + len(expanded))
	sb.WriteString(content[:at])
	sb.WriteString(expanded)
	sb.WriteString(content[at:])

	if err := os.WriteFile(path, []byte(sb.String()), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
