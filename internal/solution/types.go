package solution

import (
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Kind identifies what role a unit plays in a solution.
type Kind string

const (
	KindSolutionRoot Kind = "solution-root"
	KindService      Kind = "service"
	KindFrontend     Kind = "frontend"
	KindOrchestrator Kind = "orchestrator"
)

// On-disk naming convention for a generated solution. The ledger derives
// everything from these names; there is no separate state file.
const (
	ManifestFile    = "solution.yaml"
	WorkspaceFile   = "go.work"
	UnitFile        = "unit.yaml"
	OrchestratorDir = "orchestrator"
	FrontendDir     = "web"
	ServicesDir     = "services"
)

// Unit describes one generated member of a solution: a backend service,
// the orchestrator, or the web frontend, together with the port pair
// recorded in its unit.yaml.
type Unit struct {
	Kind     Kind   `yaml:"kind"`
	Name     string `yaml:"name"`
	HTTPPort int    `yaml:"-"`
	TLSPort  int    `yaml:"-"`
}

// unitFile is the on-disk shape of unit.yaml.
type unitFile struct {
	Kind  Kind   `yaml:"kind"`
	Name  string `yaml:"name"`
	Ports struct {
		HTTP int `yaml:"http"`
		TLS  int `yaml:"tls"`
	} `yaml:"ports"`
}

// Manifest is the on-disk shape of solution.yaml at the solution root.
type Manifest struct {
	Name string `yaml:"name"`
}

// Dir returns the unit's directory relative to the solution root.
func (u Unit) Dir() string {
	switch u.Kind {
	case KindOrchestrator:
		return OrchestratorDir
	case KindFrontend:
		return FrontendDir
	default:
		return filepath.Join(ServicesDir, u.Name)
	}
}

// HasName reports whether any unit carries the given name, compared
// case-insensitively. This is the uniqueness check the planner relies on.
func HasName(units []Unit, name string) bool {
	for _, u := range units {
		if strings.EqualFold(u.Name, name) {
			return true
		}
	}
	return false
}

// UsedPorts returns every port recorded against the given units.
func UsedPorts(units []Unit) map[int]bool {
	used := make(map[int]bool, len(units)*2)
	for _, u := range units {
		if u.HTTPPort != 0 {
			used[u.HTTPPort] = true
		}
		if u.TLSPort != 0 {
			used[u.TLSPort] = true
		}
	}
	return used
}

// parseUnit decodes unit.yaml bytes into a Unit.
func parseUnit(data []byte) (Unit, error) {
	var f unitFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Unit{}, err
	}
	return Unit{
		Kind:     f.Kind,
		Name:     f.Name,
		HTTPPort: f.Ports.HTTP,
		TLSPort:  f.Ports.TLS,
	}, nil
}
