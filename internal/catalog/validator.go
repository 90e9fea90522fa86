package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stackgen-labs/stackgen/internal/schema"
)

//go:embed schema/catalog.schema.json
var catalogSchemaBytes []byte

var (
	catalogSchema *jsonschema.Schema
	compileOnce   sync.Once
	compileErr    error
)

func getCatalogSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		catalogSchema, compileErr = schema.Compile("catalog.schema.json", catalogSchemaBytes)
	})
	return catalogSchema, compileErr
}

// validateDefinition checks raw catalog.yaml bytes against the catalog
// schema before any of it is trusted.
func validateDefinition(data []byte) (*schema.Result, error) {
	s, err := getCatalogSchema()
	if err != nil {
		return nil, fmt.Errorf("loading catalog schema: %w", err)
	}
	return schema.ValidateYAML(s, data)
}
