package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/plasmidmap/plasmidmap/pkg/cache"
	perrors "github.com/plasmidmap/plasmidmap/pkg/errors"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
	"github.com/plasmidmap/plasmidmap/pkg/render/layout"
)

const genbankFixture = "../io/genbank/testdata/puc_fragment.gb"

func quietLogger() *log.Logger { return log.NewWithOptions(io.Discard, log.Options{}) }

// memCache is an in-memory cache that counts operations.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"gif", true},
		{"SVG", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats should pass: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	got := ParseFormats(" SVG, png,svg ,")
	if len(got) != 2 || got[0] != "svg" || got[1] != "png" {
		t.Errorf("ParseFormats = %v", got)
	}
	if got := ParseFormats(""); len(got) != 1 || got[0] != FormatSVG {
		t.Errorf("ParseFormats(\"\") = %v", got)
	}
}

func TestValidateForParse(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		ok   bool
	}{
		{"path", Options{Path: "x.gb"}, true},
		{"data with filename", Options{Data: []byte("x"), Filename: "x.csv"}, true},
		{"data with format", Options{Data: []byte("x"), Format: "csv"}, true},
		{"nothing", Options{}, false},
		{"both", Options{Path: "x.gb", Data: []byte("x")}, false},
		{"anonymous data", Options{Data: []byte("x")}, false},
	}
	for _, tt := range tests {
		err := tt.opts.ValidateForParse()
		if (err == nil) != tt.ok {
			t.Errorf("%s: err = %v", tt.name, err)
		}
		if err != nil && !perrors.IsInput(err) {
			t.Errorf("%s: expected an input error, got %v", tt.name, err)
		}
	}
}

func TestValidateForRender(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if opts.DPI != DefaultDPI || opts.Background != DefaultBackground || opts.Config.FontSize != plasmid.DefaultFontSize {
		t.Errorf("defaults not applied: %+v", opts)
	}

	bad := []Options{
		{Formats: []string{"gif"}},
		{Config: plasmid.RenderConfig{FontSize: 30}},
		{Config: plasmid.RenderConfig{Region: &plasmid.Region{Start: 500, End: 100}}},
		{DPI: 5000},
	}
	for i, o := range bad {
		if err := o.ValidateForRender(); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{DPI: 150, Background: "white"}
	if k := opts.ArtifactKeyOpts(FormatSVG); k.DPI != 0 {
		t.Error("DPI should not affect vector keys")
	}
	if k := opts.ArtifactKeyOpts(FormatPNG); k.DPI != 150 {
		t.Error("DPI should be part of PNG keys")
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{
		Path:    genbankFixture,
		Seed:    3,
		Formats: []string{FormatSVG, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Dataset.Name != "pTEST" {
		t.Errorf("dataset name = %q", res.Dataset.Name)
	}
	if res.Stats.Elements != 4 || res.Stats.Drawn != 4 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if !bytes.Contains(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("missing svg artifact")
	}
	if len(res.Artifacts[FormatJSON]) == 0 {
		t.Error("missing json artifact")
	}
	if res.SceneHash == "" {
		t.Error("scene hash not set")
	}
}

func TestExecuteInlineData(t *testing.T) {
	data, err := os.ReadFile(genbankFixture)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{Data: data, Filename: "upload.gbk", Seed: 1})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Dataset.Name != "pTEST" {
		t.Errorf("name = %q", res.Dataset.Name)
	}
}

func TestExecuteCacheHits(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())
	opts := Options{Path: genbankFixture, Seed: 11, Formats: []string{FormatSVG, FormatPDF}}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.DatasetHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}
	if c.sets != 3 {
		t.Errorf("expected 1 dataset + 2 artifact writes, got %d", c.sets)
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.DatasetHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs")
	}

	opts.Refresh = true
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.DatasetHit || third.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestRandomSeedSkipsDatasetCache(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())
	if _, err := r.Parse(context.Background(), Options{Path: genbankFixture}); err != nil {
		t.Fatal(err)
	}
	if c.sets != 0 {
		t.Errorf("random-seed datasets must not be cached, got %d writes", c.sets)
	}
}

func TestExecuteOverrides(t *testing.T) {
	var o plasmid.Overrides
	o.SetVisible(plasmid.ElementKey{Index: 0, Name: "lac promoter"}, false)
	o.SetLabel(plasmid.ElementKey{Index: 1, Name: "bla"}, "AmpR")

	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{Path: genbankFixture, Seed: 5, Overrides: o})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Drawn != 3 || res.Stats.Filtered != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.Elements[1].Name != "AmpR" {
		t.Errorf("label override not applied: %q", res.Elements[1].Name)
	}
	if res.Dataset.Elements[1].Name != "bla" {
		t.Error("overrides must not modify the dataset")
	}
}

func TestExecuteHide(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{Path: genbankFixture, Seed: 5, Hide: []string{"ori", "bla"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Drawn != 2 {
		t.Errorf("drawn = %d, want 2", res.Stats.Drawn)
	}
	for _, e := range res.Elements {
		if (e.Name == "ori" || e.Name == "bla") && e.Visible {
			t.Errorf("%s should be hidden", e.Name)
		}
	}
}

func TestHideByKey(t *testing.T) {
	parsed := []plasmid.Element{
		{Name: "GFP", Visible: true},
		{Name: "GFP", Visible: true},
		{Name: "lac promoter", Visible: true},
	}
	relabel := plasmid.Overrides{Labels: map[plasmid.ElementKey]string{plasmid.KeyOf(parsed, 2): "Plac"}}

	tests := []struct {
		name    string
		entries []string
		want    []bool
	}{
		{"name hides all", []string{"GFP"}, []bool{false, false, true}},
		{"key hides one", []string{"1:GFP"}, []bool{true, false, true}},
		{"key uses parsed name", []string{"2:lac promoter"}, []bool{true, true, false}},
		{"name uses label", []string{"Plac"}, []bool{true, true, false}},
		{"old name after relabel", []string{"lac promoter"}, []bool{true, true, true}},
		{"key name mismatch", []string{"0:Plac"}, []bool{true, true, true}},
		{"key out of range", []string{"7:GFP"}, []bool{true, true, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			els := plasmid.Apply(parsed, relabel)
			hide(parsed, els, tt.entries)
			for i, e := range els {
				if e.Visible != tt.want[i] {
					t.Errorf("element %d visible = %v, want %v", i, e.Visible, tt.want[i])
				}
			}
		})
	}
}

func TestExecuteNothingToRender(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{
		Path:   genbankFixture,
		Seed:   5,
		Config: plasmid.RenderConfig{Region: &plasmid.Region{Start: 9000, End: 9500}},
	})
	if !errors.Is(err, layout.ErrNothingToRender) {
		t.Fatalf("expected ErrNothingToRender, got %v", err)
	}
	if res == nil || len(res.Dataset.Elements) != 4 {
		t.Error("result should still carry the parsed dataset")
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()

	_, err := r.Execute(ctx, Options{Path: "testdata/does-not-exist.gb"})
	if !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("missing file: %v", err)
	}

	_, err = r.Execute(ctx, Options{Data: []byte("Element,Start\nx,1\n"), Format: "csv"})
	if !perrors.Is(err, perrors.ErrCodeMissingColumn) {
		t.Errorf("missing column: %v", err)
	}

	_, err = r.Execute(ctx, Options{Path: "notes.txt"})
	if !perrors.Is(err, perrors.ErrCodeInvalidFormat) {
		t.Errorf("unknown extension: %v", err)
	}
}

func TestPrepareCopies(t *testing.T) {
	ds := plasmid.Dataset{Elements: []plasmid.Element{{Name: "a", Start: 1, End: 2, Visible: true}}}
	els := Prepare(ds, plasmid.Overrides{})
	els[0].Name = "changed"
	if ds.Elements[0].Name != "a" {
		t.Error("Prepare must not alias the dataset")
	}
}

var _ cache.Cache = (*memCache)(nil)
