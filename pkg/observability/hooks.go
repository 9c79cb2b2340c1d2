// Package observability lets the binaries attach instrumentation to the
// render pipeline, the caches and the HTTP server without those packages
// depending on a metrics or tracing backend.
//
// Hooks default to no-ops. Register implementations once at startup:
//
//	observability.SetPipelineHooks(observability.NewLogHooks(logger))
//
// Libraries emit events through the accessors:
//
//	observability.Pipeline().OnParseStart(ctx, "pUC19.gb", "genbank")
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the render pipeline.
type PipelineHooks interface {
	OnParseStart(ctx context.Context, source, format string)
	OnParseComplete(ctx context.Context, source string, elements int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, elements int)
	OnLayoutComplete(ctx context.Context, primitives int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache events. keyType is "dataset" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, status int, duration time.Duration)
}

// NoopPipelineHooks ignores all pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string, string)                       {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                                 {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, time.Duration, error)        {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}

// NoopCacheHooks ignores all cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores all HTTP events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// slot holds the hooks of one kind. An empty slot yields the no-op value.
type slot[T any] struct {
	p    atomic.Pointer[T]
	noop T
}

func (s *slot[T]) load() T {
	if p := s.p.Load(); p != nil {
		return *p
	}
	return s.noop
}

func (s *slot[T]) store(h T) { s.p.Store(&h) }
func (s *slot[T]) clear()    { s.p.Store(nil) }

var (
	pipelineSlot = &slot[PipelineHooks]{noop: NoopPipelineHooks{}}
	cacheSlot    = &slot[CacheHooks]{noop: NoopCacheHooks{}}
	httpSlot     = &slot[HTTPHooks]{noop: NoopHTTPHooks{}}
)

// SetPipelineHooks registers pipeline hooks. nil is ignored, as are the
// setters below.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.store(h)
	}
}

func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.store(h)
	}
}

func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.store(h)
	}
}

func Pipeline() PipelineHooks { return pipelineSlot.load() }
func Cache() CacheHooks       { return cacheSlot.load() }
func HTTP() HTTPHooks         { return httpSlot.load() }

// Reset restores the no-op defaults. Tests call it in cleanup.
func Reset() {
	pipelineSlot.clear()
	cacheSlot.clear()
	httpSlot.clear()
}
