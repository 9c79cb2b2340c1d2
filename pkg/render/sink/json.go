package sink

import (
	"encoding/json"

	"github.com/plasmidmap/plasmidmap/pkg/render/layout"
)

// RenderJSON serializes the scene.
func RenderJSON(s layout.Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
