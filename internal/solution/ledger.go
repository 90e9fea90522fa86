package solution

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// IsRoot reports whether dir looks like a generated solution root, i.e.
// contains a solution.yaml manifest.
func IsRoot(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ManifestFile))
	return err == nil
}

// ReadManifest reads and parses solution.yaml under root.
func ReadManifest(root string) (*Manifest, error) {
	path := filepath.Join(root, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &m, nil
}

// Scan derives the list of existing units by walking the solution layout
// under root: orchestrator/, web/, and services/<name>/, each identified by
// its generated unit.yaml. Scan never writes; the generated tree is the only
// record of which units exist.
//
// A directory under services/ without a unit.yaml is not a unit and is
// skipped. A unit.yaml that is unreadable, malformed, or structurally
// invalid is an error: the tree has drifted from what this tool generates
// and guessing would risk corrupting it further.
func Scan(root string) ([]Unit, error) {
	if !IsRoot(root) {
		return nil, fmt.Errorf("%s is not a solution root (missing %s)", root, ManifestFile)
	}

	var units []Unit

	for _, dir := range []string{OrchestratorDir, FrontendDir} {
		u, ok, err := readUnit(filepath.Join(root, dir))
		if err != nil {
			return nil, err
		}
		if ok {
			units = append(units, u)
		}
	}

	servicesRoot := filepath.Join(root, ServicesDir)
	entries, err := os.ReadDir(servicesRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return units, nil
		}
		return nil, fmt.Errorf("reading %s: %w", servicesRoot, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		u, ok, err := readUnit(filepath.Join(servicesRoot, entry.Name()))
		if err != nil {
			return nil, err
		}
		if ok {
			units = append(units, u)
		}
	}

	return units, nil
}

// readUnit loads the unit.yaml inside dir. ok is false when the directory
// or its unit.yaml does not exist.
func readUnit(dir string) (u Unit, ok bool, err error) {
	path := filepath.Join(dir, UnitFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Unit{}, false, nil
		}
		return Unit{}, false, fmt.Errorf("reading %s: %w", path, err)
	}

	res, err := ValidateUnit(data)
	if err != nil {
		return Unit{}, false, fmt.Errorf("validating %s: %w", path, err)
	}
	if !res.Valid {
		return Unit{}, false, fmt.Errorf("%s is not a valid unit descriptor: %s", path, res.Issues[0])
	}

	u, err = parseUnit(data)
	if err != nil {
		return Unit{}, false, fmt.Errorf("parsing %s: %w", path, err)
	}
	return u, true, nil
}
