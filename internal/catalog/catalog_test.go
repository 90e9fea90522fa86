package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stackgen-labs/stackgen/internal/anchor"
	"github.com/stackgen-labs/stackgen/internal/expand"
)

func TestDefaultLoads(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if c.Version == "" {
		t.Error("catalog version should be set")
	}
	if len(c.IDs()) == 0 {
		t.Fatal("catalog should not be empty")
	}
}

func TestResolve(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	t.Run("known template", func(t *testing.T) {
		tmpl, err := c.Resolve("service/model")
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if tmpl.ID != "service/model" {
			t.Errorf("ID = %q", tmpl.ID)
		}
		if tmpl.Body == "" {
			t.Error("template body should not be empty")
		}
		if !strings.Contains(tmpl.Destination, "{{UNIT_NAME}}") {
			t.Errorf("destination %q should be unit-qualified", tmpl.Destination)
		}
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := c.Resolve("service/nonexistent")
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("error type = %T, want *NotFoundError", err)
		}
		if notFound.ID != "service/nonexistent" {
			t.Errorf("error id = %q", notFound.ID)
		}
	})
}

func TestResolveFragment(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	f, err := c.ResolveFragment("graft/workspace-member")
	if err != nil {
		t.Fatalf("ResolveFragment() error: %v", err)
	}
	if f.Target != "go.work" {
		t.Errorf("target = %q, want go.work", f.Target)
	}
	if f.Mode != anchor.Before {
		t.Errorf("mode = %v, want before", f.Mode)
	}
	if f.Pattern == "" {
		t.Error("fragment anchor pattern should not be empty")
	}

	if _, err := c.ResolveFragment("graft/nope"); err == nil {
		t.Error("unknown fragment id should fail")
	}
}

// Every template destination must expand to a placeholder-free relative
// path under a full binding set.
func TestDestinationsFullyBindable(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	b := expand.Bindings{
		"UNIT_NAME": "orders",
		"UNIT_DIR":  "services/orders",
	}
	for _, id := range c.IDs() {
		tmpl, err := c.Resolve(id)
		if err != nil {
			continue // fragment
		}
		dest := expand.Expand(tmpl.Destination, b)
		if expand.Has(dest) {
			t.Errorf("template %s destination %q leaves placeholders unbound", id, dest)
		}
		if strings.HasPrefix(dest, "/") || strings.Contains(dest, "..") {
			t.Errorf("template %s destination %q escapes the solution root", id, dest)
		}
	}
}

// The workspace template must contain its graft anchor exactly once, and
// likewise for the orchestrator registration source.
func TestFragmentAnchorsMatchTemplates(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		fragmentID string
		templateID string
	}{
		{"graft/workspace-member", "solution/workspace"},
		{"graft/orchestrator-register", "orchestrator/main"},
	}
	for _, tt := range tests {
		f, err := c.ResolveFragment(tt.fragmentID)
		if err != nil {
			t.Fatalf("ResolveFragment(%s): %v", tt.fragmentID, err)
		}
		tmpl, err := c.Resolve(tt.templateID)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", tt.templateID, err)
		}
		if n := strings.Count(tmpl.Body, f.Pattern); n != 1 {
			t.Errorf("template %s contains anchor %q %d times, want exactly 1", tt.templateID, f.Pattern, n)
		}
	}
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	// Guard the constraint itself: the embedded version must satisfy it.
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(c.Version, "1.") {
		t.Errorf("embedded catalog version %q outside supported major", c.Version)
	}
}
