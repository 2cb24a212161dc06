package schema

import (
	"embed"
	"sync"

	"github.com/achilleasa/wavefront/asset"
)

// DefaultPath is the resource path of the bundled work item schema.
const DefaultPath = asset.EmbeddedScheme + "://workitem.schema"

//go:embed workitem.schema
var bundled embed.FS

var registerOnce sync.Once

// Default loads the work item schema bundled with the binary.
func Default() (*Document, error) {
	registerOnce.Do(func() {
		asset.RegisterEmbedded(bundled)
	})
	return Load(DefaultPath)
}
