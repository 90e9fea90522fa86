package catalog

import (
	"embed"
	"sync"
)

//go:embed templates
var catalogFS embed.FS

//go:embed catalog.yaml
var catalogBytes []byte

var (
	loadOnce    sync.Once
	loadedCat   *Catalog
	loadedError error
)

// Default returns the embedded catalog, loading and validating it on
// first use.
func Default() (*Catalog, error) {
	loadOnce.Do(func() {
		loadedCat, loadedError = Load()
	})
	return loadedCat, loadedError
}
