package catalog

import (
	"fmt"
	"io/fs"

	"github.com/Masterminds/semver/v3"
	"github.com/stackgen-labs/stackgen/internal/anchor"
	"go.yaml.in/yaml/v3"
)

// supportedVersions is the catalog definition versions this build can
// consume. Bump the major bound together with breaking catalog changes.
const supportedVersions = ">=1.0.0 <2.0.0"

// Template is one named piece of placeholder-bearing text plus the
// destination path pattern it materializes under. Immutable after load.
type Template struct {
	ID          string
	Body        string
	Destination string
}

// Fragment is a template with no standalone destination: it is grafted
// into an existing generated file at the declared anchor.
type Fragment struct {
	ID      string
	Body    string
	Target  string // path relative to the solution root
	Pattern string // literal anchor pattern, must match exactly once
	Mode    anchor.Mode
}

// Catalog is the read-only registry of templates and graft fragments,
// populated once from the embedded definition.
type Catalog struct {
	Version   string
	templates map[string]*Template
	fragments map[string]*Fragment
	order     []string
}

// NotFoundError reports a template id absent from the catalog.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q not found in catalog", e.ID)
}

// catalogFile is the on-disk shape of catalog.yaml.
type catalogFile struct {
	Version   string `yaml:"version"`
	Templates []struct {
		ID          string `yaml:"id"`
		Source      string `yaml:"source"`
		Destination string `yaml:"destination"`
	} `yaml:"templates"`
	Fragments []struct {
		ID     string `yaml:"id"`
		Body   string `yaml:"body"`
		Target string `yaml:"target"`
		Anchor string `yaml:"anchor"`
		Mode   string `yaml:"mode"`
	} `yaml:"fragments"`
}

// Load parses and validates the embedded catalog definition. The catalog
// is fixed at build time; Load is cached behind Default.
func Load() (*Catalog, error) {
	res, err := validateDefinition(catalogBytes)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		return nil, fmt.Errorf("embedded catalog definition is invalid: %s", res.Issues[0])
	}

	var def catalogFile
	if err := yaml.Unmarshal(catalogBytes, &def); err != nil {
		return nil, fmt.Errorf("parsing catalog definition: %w", err)
	}

	ver, err := semver.NewVersion(def.Version)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog version %q: %w", def.Version, err)
	}
	constraint, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return nil, fmt.Errorf("invalid version constraint: %w", err)
	}
	if !constraint.Check(ver) {
		return nil, fmt.Errorf("catalog version %s is outside the supported range %s", def.Version, supportedVersions)
	}

	c := &Catalog{
		Version:   def.Version,
		templates: make(map[string]*Template, len(def.Templates)),
		fragments: make(map[string]*Fragment, len(def.Fragments)),
	}

	for _, t := range def.Templates {
		if _, dup := c.templates[t.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q in catalog", t.ID)
		}
		body, err := fs.ReadFile(catalogFS, t.Source)
		if err != nil {
			return nil, fmt.Errorf("reading template source %s: %w", t.Source, err)
		}
		c.templates[t.ID] = &Template{
			ID:          t.ID,
			Body:        string(body),
			Destination: t.Destination,
		}
		c.order = append(c.order, t.ID)
	}

	for _, f := range def.Fragments {
		if _, dup := c.fragments[f.ID]; dup {
			return nil, fmt.Errorf("duplicate fragment id %q in catalog", f.ID)
		}
		mode := anchor.Before
		if f.Mode == "after" {
			mode = anchor.After
		}
		c.fragments[f.ID] = &Fragment{
			ID:      f.ID,
			Body:    f.Body,
			Target:  f.Target,
			Pattern: f.Anchor,
			Mode:    mode,
		}
		c.order = append(c.order, f.ID)
	}

	return c, nil
}

// Resolve returns the template with the given id.
func (c *Catalog) Resolve(id string) (*Template, error) {
	t, ok := c.templates[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return t, nil
}

// ResolveFragment returns the graft fragment with the given id.
func (c *Catalog) ResolveFragment(id string) (*Fragment, error) {
	f, ok := c.fragments[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return f, nil
}

// IDs returns every template and fragment id in declaration order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}
