// Package apply materializes a plan: it creates directories, expands each
// template, writes the results, and applies graft mutations. A batch either
// completes or fails fast on the exact operation that could not proceed;
// files already written are not rolled back (a clean retry after fixing the
// conflict is cheaper than a half-undone one).
package apply

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/stackgen-labs/stackgen/internal/anchor"
	"github.com/stackgen-labs/stackgen/internal/expand"
	"github.com/stackgen-labs/stackgen/internal/plan"
	"github.com/stackgen-labs/stackgen/internal/solution"
)

// ConflictError reports a destination file that already exists. The engine
// never silently overwrites generated or hand-edited files.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("destination %s already exists", e.Path)
}

// Result reports everything a completed batch did.
type Result struct {
	PlanID   string
	Written  []string
	Mutated  []string
	Warnings []string
}

// Execute applies every operation and mutation in p, in order. On error
// the batch stops at the failing step; the error names the offending path,
// template, or anchor.
func Execute(p *plan.Plan) (*Result, error) {
	result := &Result{PlanID: p.ID}

	for _, op := range p.Ops {
		if _, err := os.Stat(op.Destination); err == nil {
			return nil, &ConflictError{Path: op.Destination}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("checking %s: %w", op.Destination, err)
		}

		if err := os.MkdirAll(filepath.Dir(op.Destination), 0755); err != nil {
			return nil, fmt.Errorf("creating directory for %s: %w", op.Destination, err)
		}

		content := expand.Expand(op.Template.Body, op.Bindings)
		if err := os.WriteFile(op.Destination, []byte(content), 0644); err != nil {
			return nil, fmt.Errorf("writing %s (template %s): %w", op.Destination, op.Template.ID, err)
		}
		result.Written = append(result.Written, op.Destination)
	}

	for _, m := range p.Mutations {
		if err := anchor.Mutate(m.Path, m.Anchor, m.Fragment, m.Bindings); err != nil {
			return nil, err
		}
		result.Mutated = append(result.Mutated, m.Path)
	}

	// Check the unit descriptors we just wrote for structural
	// well-formedness; a bad one would poison every later ledger scan.
	for _, path := range result.Written {
		if filepath.Base(path) != solution.UnitFile {
			continue
		}
		res, err := solution.ValidateUnitFile(path)
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("could not validate %s: %v", path, err))
			continue
		}
		for _, issue := range res.Issues {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: %s", path, issue))
		}
	}

	return result, nil
}
