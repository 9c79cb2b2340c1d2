// Package render draws plasmid maps.
//
// Rendering is split in two stages:
//
//   - [layout] computes a device-independent scene from elements and a
//     render config: boxes, arrows, promoter markers, connectors and labels
//     positioned in base pair space.
//   - [sink] encodes a scene as SVG, PNG, PDF or JSON.
//
// The split keeps geometry testable without decoding images, and lets the
// pipeline hash a scene to reuse rendered artifacts.
//
//	scene, err := layout.Build(elements, cfg)
//	if err != nil {
//	    return err
//	}
//	svg, err := sink.RenderSVG(scene)
//
// [layout]: https://pkg.go.dev/github.com/plasmidmap/plasmidmap/pkg/render/layout
// [sink]: https://pkg.go.dev/github.com/plasmidmap/plasmidmap/pkg/render/sink
package render
