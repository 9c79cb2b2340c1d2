package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/plasmidmap/plasmidmap/pkg/cache"
	pio "github.com/plasmidmap/plasmidmap/pkg/io"
	"github.com/plasmidmap/plasmidmap/pkg/observability"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
	"github.com/plasmidmap/plasmidmap/pkg/render/layout"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner can serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer means DefaultKeyer, a nil cache
// disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs parse → layout → render. When nothing survives the filters
// the returned error wraps [layout.ErrNothingToRender] and the result still
// carries the parsed dataset.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Parse
	parseStart := time.Now()
	ds, hit, err := r.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Dataset = ds
	result.CacheInfo.DatasetHit = hit
	result.Stats.Elements = len(ds.Elements)
	result.Stats.ParseTime = time.Since(parseStart)

	r.Logger.Info("parsed annotation",
		"name", ds.Name,
		"elements", len(ds.Elements),
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, len(ds.Elements))
	els, scene, err := Layout(ds, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	observability.Pipeline().OnLayoutComplete(ctx, len(scene.Primitives), result.Stats.LayoutTime, err)
	result.Elements = els
	if err != nil {
		return result, fmt.Errorf("layout: %w", err)
	}
	result.Scene = scene
	result.Stats.Drawn = scene.Stats.Elements
	result.Stats.Filtered = scene.Stats.Filtered
	result.Stats.Widened = scene.Stats.Widened
	result.Stats.Primitives = len(scene.Primitives)

	r.Logger.Info("computed layout",
		"drawn", scene.Stats.Elements,
		"filtered", scene.Stats.Filtered,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, sceneHash, renderHit, err := r.RenderWithCacheInfo(ctx, scene, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.SceneHash = sceneHash
	result.CacheInfo.RenderHit = renderHit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ParseWithCacheInfo parses the input, consulting the dataset cache when the
// seed is fixed. A random seed gives a different palette every run, so those
// datasets are never cached.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (plasmid.Dataset, bool, error) {
	if err := opts.ValidateForParse(); err != nil {
		return plasmid.Dataset{}, false, err
	}
	source := opts.SourceName()
	start := time.Now()

	data, format, err := readInput(opts)
	if err != nil {
		return plasmid.Dataset{}, false, err
	}
	observability.Pipeline().OnParseStart(ctx, source, string(format))

	var key string
	if opts.Seed != 0 {
		key = r.Keyer.DatasetKey(inputHash(data, format), opts.Seed)
		if !opts.Refresh {
			if ds, ok := r.cachedDataset(ctx, key); ok {
				observability.Pipeline().OnParseComplete(ctx, source, len(ds.Elements), time.Since(start), nil)
				return ds, true, nil
			}
		}
	}

	ds, err := parseBytes(ctx, data, format, opts)
	observability.Pipeline().OnParseComplete(ctx, source, len(ds.Elements), time.Since(start), err)
	if err != nil {
		return plasmid.Dataset{}, false, err
	}

	if key != "" {
		if b, err := json.Marshal(ds); err == nil {
			r.set(ctx, "dataset", key, b, cache.TTLDataset)
		}
	}
	return ds, false, nil
}

// Parse is ParseWithCacheInfo without the cache flag.
func (r *Runner) Parse(ctx context.Context, opts Options) (plasmid.Dataset, error) {
	ds, _, err := r.ParseWithCacheInfo(ctx, opts)
	return ds, err
}

// RenderWithCacheInfo renders every requested format, serving the whole set
// from cache when possible. It also returns the scene hash used for keys.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s layout.Scene, opts Options) (map[string][]byte, string, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, "", false, err
	}
	sceneHash, err := cache.HashJSON(s)
	if err != nil {
		return nil, "", false, fmt.Errorf("hash scene: %w", err)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, sceneHash, true, nil
		}
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	rendered, err := Render(s, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}
	for format, data := range rendered {
		r.set(ctx, "artifact", r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	return rendered, sceneHash, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cachedDataset(ctx context.Context, key string) (plasmid.Dataset, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "dataset")
		return plasmid.Dataset{}, false
	}
	var ds plasmid.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		r.Logger.Debug("discarding unreadable dataset cache entry", "key", key, "err", err)
		observability.Cache().OnCacheMiss(ctx, "dataset")
		return plasmid.Dataset{}, false
	}
	observability.Cache().OnCacheHit(ctx, "dataset")
	return ds, true
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func inputHash(data []byte, format pio.Format) string {
	return cache.Hash(append([]byte(string(format)+"\x00"), data...))
}
