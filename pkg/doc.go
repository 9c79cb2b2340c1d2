// Package pkg provides the libraries behind plasmidmap, a renderer for linear
// plasmid maps.
//
// # Overview
//
// A map is built in three steps, each in its own package:
//
//	GenBank / CSV / TSV / XLSX / YAML
//	         ↓
//	    [io] package (read and normalize into elements)
//	         ↓
//	    [render/layout] package (scene geometry)
//	         ↓
//	    [render/sink] package (SVG, PNG, PDF, JSON bytes)
//
// [pipeline] ties the steps together behind a [cache.Cache] and is what the
// CLI and the HTTP API call.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	opts := pipeline.Options{Path: "pUC19.gb", Formats: []string{"svg", "png"}}
//	if err := opts.ValidateAndSetDefaults(); err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("pUC19.svg", result.Artifacts["svg"], 0o644)
//
// # Main Packages
//
// [plasmid] - The element model: coordinates, sides, shapes, strands, render
// config, regions and per-element overrides.
//
// [annotation] - Vocabulary shared by the readers: legacy column values,
// GenBank feature types and their default shapes.
//
// [palette] - Named colors, legacy aliases and seeded default colors.
//
// [io] - Input adapters. [io/genbank] reads flat files; [io/table] reads
// feature tables and element lists and writes them back.
//
// [render/layout] - Pure scene construction, including label staggering.
//
// [render/sink] - Encoders for each output format.
//
// [cache] - File, Redis and null caches with content-addressed keys.
//
// [errors] - Coded errors with user-facing messages.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [fonts] - The embedded label font.
//
// [buildinfo] - Version information set at link time.
//
// [plasmid]: https://pkg.go.dev/github.com/plasmidmap/plasmidmap/pkg/plasmid
// [annotation]: https://pkg.go.dev/github.com/plasmidmap/plasmidmap/pkg/annotation
// [palette]: https://pkg.go.dev/github.com/plasmidmap/plasmidmap/pkg/palette
// [io]: https://pkg.go.dev/github.com/plasmidmap/plasmidmap/pkg/io
// [io/genbank]: https://pkg.go.dev/github.com/plasmidmap/plasmidmap/pkg/io/genbank
// [io/table]: https://pkg.go.dev/github.com/plasmidmap/plasmidmap/pkg/io/table
// [render/layout]: https://pkg.go.dev/github.com/plasmidmap/plasmidmap/pkg/render/layout
// [render/sink]: https://pkg.go.dev/github.com/plasmidmap/plasmidmap/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/plasmidmap/plasmidmap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/plasmidmap/plasmidmap/pkg/cache
// [cache.Cache]: https://pkg.go.dev/github.com/plasmidmap/plasmidmap/pkg/cache#Cache
// [errors]: https://pkg.go.dev/github.com/plasmidmap/plasmidmap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/plasmidmap/plasmidmap/pkg/observability
// [fonts]: https://pkg.go.dev/github.com/plasmidmap/plasmidmap/pkg/fonts
// [buildinfo]: https://pkg.go.dev/github.com/plasmidmap/plasmidmap/pkg/buildinfo
package pkg
