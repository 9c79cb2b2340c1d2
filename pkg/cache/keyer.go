package cache

import "fmt"

// Keyer derives cache keys from pipeline inputs.
type Keyer interface {
	// DatasetKey identifies a normalized dataset. inputHash covers the raw
	// bytes and the input format.
	DatasetKey(inputHash string, seed uint64) string

	// ArtifactKey identifies rendered output for a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render settings that change output bytes.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	DPI        float64 `json:"dpi,omitempty"`
	Background string  `json:"background,omitempty"`
}

// DefaultKeyer produces keys of the form "kind:hash".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) DatasetKey(inputHash string, seed uint64) string {
	return fmt.Sprintf("dataset:%s:%d", inputHash, seed)
}

func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
