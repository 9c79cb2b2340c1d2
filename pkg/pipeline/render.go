package pipeline

import (
	"fmt"

	"github.com/plasmidmap/plasmidmap/pkg/render/layout"
	"github.com/plasmidmap/plasmidmap/pkg/render/sink"
)

// Render encodes the scene in every requested format.
func Render(s layout.Scene, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	sinkOpts := opts.SinkOptions()
	for _, format := range opts.Formats {
		data, err := sink.Render(format, s, sinkOpts...)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
