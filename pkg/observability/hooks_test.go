package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// recorder counts events of every kind.
type recorder struct {
	NoopPipelineHooks
	NoopCacheHooks
	NoopHTTPHooks

	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) OnLayoutStart(context.Context, int)       { r.add("layout") }
func (r *recorder) OnCacheMiss(_ context.Context, k string)  { r.add("miss:" + k) }
func (r *recorder) OnRequest(_ context.Context, m, p string) { r.add(m + " " + p) }

func TestRegistryDefaults(t *testing.T) {
	Reset()
	ctx := context.Background()

	// Events with nothing registered go nowhere.
	Pipeline().OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)
	Cache().OnCacheSet(ctx, "artifact", 1024)
	HTTP().OnResponse(ctx, "POST", "/api/v1/render", 200, time.Second)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T", Pipeline())
	}
}

func TestRegistry(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()

	r := &recorder{}
	SetPipelineHooks(r)
	SetCacheHooks(r)
	SetHTTPHooks(r)
	SetCacheHooks(nil)

	Pipeline().OnLayoutStart(ctx, 4)
	Cache().OnCacheMiss(ctx, "dataset")
	HTTP().OnRequest(ctx, "GET", "/healthz")

	want := []string{"layout", "miss:dataset", "GET /healthz"}
	if strings.Join(r.events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", r.events, want)
	}

	Reset()
	Cache().OnCacheMiss(ctx, "artifact")
	if len(r.events) != 3 {
		t.Errorf("event after Reset reached the recorder: %v", r.events)
	}
}

func TestRegistryConcurrent(t *testing.T) {
	t.Cleanup(Reset)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				SetCacheHooks(&recorder{})
			}
			Cache().OnCacheMiss(context.Background(), "dataset")
		}()
	}
	wg.Wait()
}

func TestLogHooks(t *testing.T) {
	t.Cleanup(Reset)

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	NewLogHooks(logger).Install()

	ctx := context.Background()
	Pipeline().OnParseComplete(ctx, "map.csv", 3, time.Millisecond, errors.New("bad row"))
	Cache().OnCacheHit(ctx, "artifact")
	HTTP().OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"parse done", "map.csv", "bad row", "cache hit", "artifact", "/healthz"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
