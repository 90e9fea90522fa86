package solution

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stackgen-labs/stackgen/internal/schema"
)

//go:embed schema/unit.schema.json
var unitSchemaBytes []byte

var (
	unitSchema  *jsonschema.Schema
	compileOnce sync.Once
	compileErr  error
)

// getUnitSchema compiles the embedded unit.yaml schema once.
func getUnitSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		unitSchema, compileErr = schema.Compile("unit.schema.json", unitSchemaBytes)
	})
	return unitSchema, compileErr
}

// ValidateUnit checks raw unit.yaml bytes for structural well-formedness.
// The error return is for parse or schema failures; validation issues are
// reported in the Result.
func ValidateUnit(data []byte) (*schema.Result, error) {
	s, err := getUnitSchema()
	if err != nil {
		return nil, fmt.Errorf("loading unit schema: %w", err)
	}
	return schema.ValidateYAML(s, data)
}

// ValidateUnitFile reads a unit.yaml and validates it.
func ValidateUnitFile(path string) (*schema.Result, error) {
	s, err := getUnitSchema()
	if err != nil {
		return nil, fmt.Errorf("loading unit schema: %w", err)
	}
	return schema.ValidateYAMLFile(s, path)
}
