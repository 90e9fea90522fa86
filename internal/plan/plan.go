package plan

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stackgen-labs/stackgen/internal/anchor"
	"github.com/stackgen-labs/stackgen/internal/catalog"
	"github.com/stackgen-labs/stackgen/internal/expand"
	"github.com/stackgen-labs/stackgen/internal/ports"
	"github.com/stackgen-labs/stackgen/internal/solution"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*$`)

// ValidateName checks a solution or unit name against the allowed pattern.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid name %q: must match pattern [A-Za-z0-9][A-Za-z0-9-]*", name)
	}
	return nil
}

// Operation materializes one template into one destination file. Created
// here, consumed once by the executor, immutable in between.
type Operation struct {
	Template    *catalog.Template
	Destination string // absolute path
	Bindings    expand.Bindings
}

// Mutation grafts one expanded fragment into an existing generated file
// at a unique anchor.
type Mutation struct {
	Path     string // absolute path
	Anchor   anchor.Anchor
	Fragment string
	Bindings expand.Bindings
}

// Plan is an ordered batch of scaffold operations plus any graft
// mutations, ready for the executor.
type Plan struct {
	ID           string
	SolutionRoot string
	Ops          []Operation
	Mutations    []Mutation
	// Notes carries non-fatal signals raised while planning, e.g. a TLS
	// port chosen by fallback search instead of the fixed offset.
	Notes []string
}

// SolutionDescriptor is the caller-supplied input for a new solution.
type SolutionDescriptor struct {
	Name         string
	TargetDir    string // parent directory; the solution root is TargetDir/Name
	FirstService string
}

// UnitDescriptor is the caller-supplied input for grafting a new backend
// service into an existing solution.
type UnitDescriptor struct {
	SolutionRoot string
	SolutionName string
	Name         string
}

// DuplicateUnitError reports a unit name already taken (case-insensitively)
// within the solution. Raised before any filesystem write.
type DuplicateUnitError struct {
	Name string
}

func (e *DuplicateUnitError) Error() string {
	return fmt.Sprintf("unit %q already exists in this solution (names are case-insensitive)", e.Name)
}

// solutionBindings are the keys shared by every operation in a plan.
func solutionBindings(name string, svcName string, svc, web, orch ports.Pair) expand.Bindings {
	return expand.Bindings{
		"SOLUTION_NAME":     name,
		"SOLUTION_MODULE":   strings.ToLower(name),
		"SERVICE_NAME":      svcName,
		"SERVICE_HTTP_PORT": strconv.Itoa(svc.HTTP),
		"SERVICE_TLS_PORT":  strconv.Itoa(svc.TLS),
		"WEB_HTTP_PORT":     strconv.Itoa(web.HTTP),
		"WEB_TLS_PORT":      strconv.Itoa(web.TLS),
		"ORCH_HTTP_PORT":    strconv.Itoa(orch.HTTP),
		"ORCH_TLS_PORT":     strconv.Itoa(orch.TLS),
		"YEAR":              strconv.Itoa(time.Now().Year()),
	}
}

// unitBindings overlays the per-unit keys onto a copy of base.
func unitBindings(base expand.Bindings, kind solution.Kind, name string, dir string, pair ports.Pair) expand.Bindings {
	b := make(expand.Bindings, len(base)+5)
	for k, v := range base {
		b[k] = v
	}
	b["UNIT_KIND"] = string(kind)
	b["UNIT_NAME"] = name
	b["UNIT_DIR"] = dir
	b["HTTP_PORT"] = strconv.Itoa(pair.HTTP)
	b["TLS_PORT"] = strconv.Itoa(pair.TLS)
	return b
}

// addOp resolves a template id and appends the operation for it. The
// destination pattern is expanded with the same bindings as the body will
// be, then anchored under the solution root.
func (p *Plan) addOp(cat *catalog.Catalog, id string, b expand.Bindings) error {
	tmpl, err := cat.Resolve(id)
	if err != nil {
		return err
	}
	rel := expand.Expand(tmpl.Destination, b)
	p.Ops = append(p.Ops, Operation{
		Template:    tmpl,
		Destination: filepath.Join(p.SolutionRoot, filepath.FromSlash(rel)),
		Bindings:    b,
	})
	return nil
}

// addMutation resolves a fragment id and appends the graft mutation for it.
func (p *Plan) addMutation(cat *catalog.Catalog, id string, b expand.Bindings) error {
	f, err := cat.ResolveFragment(id)
	if err != nil {
		return err
	}
	p.Mutations = append(p.Mutations, Mutation{
		Path:     filepath.Join(p.SolutionRoot, filepath.FromSlash(f.Target)),
		Anchor:   anchor.Anchor{Pattern: f.Pattern, Mode: f.Mode},
		Fragment: f.Body,
		Bindings: b,
	})
	return nil
}

// notePortFallback records the signal for a fallback-chosen TLS port.
func (p *Plan) notePortFallback(unitName string, pair ports.Pair) {
	if pair.TLSFallback {
		p.Notes = append(p.Notes,
			fmt.Sprintf("unit %s: TLS port %d chosen by fallback search (offset-derived port was taken)", unitName, pair.TLS))
	}
}

// NewSolution plans a complete new solution: root files, orchestrator,
// web frontend, and one initial backend service. Nothing touches disk;
// the returned plan is executed separately.
func NewSolution(cat *catalog.Catalog, desc SolutionDescriptor, alloc ports.Allocator) (*Plan, error) {
	if err := ValidateName(desc.Name); err != nil {
		return nil, err
	}
	if err := ValidateName(desc.FirstService); err != nil {
		return nil, fmt.Errorf("invalid service name: %w", err)
	}

	root, err := filepath.Abs(filepath.Join(desc.TargetDir, desc.Name))
	if err != nil {
		return nil, fmt.Errorf("resolving solution root: %w", err)
	}

	// Draw the three port pairs in a fixed order so a clean scaffold is
	// reproducible. Each allocation sees the pairs drawn before it.
	var drawn []solution.Unit
	allocate := func(kind solution.Kind, name string) (ports.Pair, error) {
		pair, err := alloc.Allocate(drawn)
		if err != nil {
			return ports.Pair{}, fmt.Errorf("allocating ports for %s: %w", name, err)
		}
		drawn = append(drawn, solution.Unit{Kind: kind, Name: name, HTTPPort: pair.HTTP, TLSPort: pair.TLS})
		return pair, nil
	}

	orchPair, err := allocate(solution.KindOrchestrator, "orchestrator")
	if err != nil {
		return nil, err
	}
	webPair, err := allocate(solution.KindFrontend, "web")
	if err != nil {
		return nil, err
	}
	svcPair, err := allocate(solution.KindService, desc.FirstService)
	if err != nil {
		return nil, err
	}

	base := solutionBindings(desc.Name, desc.FirstService, svcPair, webPair, orchPair)

	p := &Plan{ID: uuid.NewString(), SolutionRoot: root}
	p.notePortFallback("orchestrator", orchPair)
	p.notePortFallback("web", webPair)
	p.notePortFallback(desc.FirstService, svcPair)

	// Root files precede unit subtrees; within a unit, sources precede
	// the descriptor so a failed batch is obvious from the missing
	// unit.yaml.
	type unitSpec struct {
		kind      solution.Kind
		name      string
		dir       string
		pair      ports.Pair
		templates []string
	}
	units := []unitSpec{
		{solution.KindOrchestrator, "orchestrator", solution.OrchestratorDir, orchPair,
			[]string{"orchestrator/main", "orchestrator/app"}},
		{solution.KindFrontend, "web", solution.FrontendDir, webPair,
			[]string{"web/app", "web/navbar"}},
		{solution.KindService, desc.FirstService, solution.ServicesDir + "/" + desc.FirstService, svcPair,
			[]string{"service/main", "service/model", "service/config"}},
	}

	for _, id := range []string{"solution/manifest", "solution/workspace", "solution/readme"} {
		if err := p.addOp(cat, id, base); err != nil {
			return nil, err
		}
	}

	for _, u := range units {
		b := unitBindings(base, u.kind, u.name, u.dir, u.pair)
		for _, id := range u.templates {
			if err := p.addOp(cat, id, b); err != nil {
				return nil, err
			}
		}
		for _, id := range []string{"unit/gomod", "unit/descriptor"} {
			if err := p.addOp(cat, id, b); err != nil {
				return nil, err
			}
		}
	}

	return p, nil
}

// AddUnit plans grafting one new backend service into an existing
// solution: the service subtree plus mutations extending the workspace
// member list and the orchestrator registration block.
func AddUnit(cat *catalog.Catalog, desc UnitDescriptor, existing []solution.Unit, alloc ports.Allocator) (*Plan, error) {
	if err := ValidateName(desc.Name); err != nil {
		return nil, err
	}
	if solution.HasName(existing, desc.Name) {
		return nil, &DuplicateUnitError{Name: desc.Name}
	}

	root, err := filepath.Abs(desc.SolutionRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving solution root: %w", err)
	}

	pair, err := alloc.Allocate(existing)
	if err != nil {
		return nil, fmt.Errorf("allocating ports for %s: %w", desc.Name, err)
	}

	base := expand.Bindings{
		"SOLUTION_NAME":   desc.SolutionName,
		"SOLUTION_MODULE": strings.ToLower(desc.SolutionName),
		"YEAR":            strconv.Itoa(time.Now().Year()),
	}
	dir := solution.ServicesDir + "/" + desc.Name
	b := unitBindings(base, solution.KindService, desc.Name, dir, pair)

	p := &Plan{ID: uuid.NewString(), SolutionRoot: root}
	p.notePortFallback(desc.Name, pair)

	for _, id := range []string{"service/main", "service/model", "service/config", "unit/gomod", "unit/descriptor"} {
		if err := p.addOp(cat, id, b); err != nil {
			return nil, err
		}
	}
	for _, id := range []string{"graft/workspace-member", "graft/orchestrator-register"} {
		if err := p.addMutation(cat, id, b); err != nil {
			return nil, err
		}
	}

	return p, nil
}
