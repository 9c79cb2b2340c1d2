// Package pipeline runs the parse → layout → render sequence shared by the
// CLI and the HTTP API.
//
// # Stages
//
//  1. Parse: read the input (GenBank, table or entry list) into a dataset
//  2. Layout: apply display overrides and lay the elements out as a scene
//  3. Render: encode the scene in each requested format
//
// Parse and render results are cached; layout is cheap and always recomputed.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "pUC19.gb",
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	})
//	if errors.Is(err, layout.ErrNothingToRender) {
//	    // all elements hidden or outside the region
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/plasmidmap/plasmidmap/pkg/cache"
	"github.com/plasmidmap/plasmidmap/pkg/errors"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
	"github.com/plasmidmap/plasmidmap/pkg/render/layout"
	"github.com/plasmidmap/plasmidmap/pkg/render/sink"
)

// Format constants for output formats.
const (
	FormatSVG  = sink.FormatSVG
	FormatPNG  = sink.FormatPNG
	FormatPDF  = sink.FormatPDF
	FormatJSON = sink.FormatJSON
)

// Defaults shared by the CLI and the API.
const (
	DefaultDPI        = sink.DefaultDPI
	DefaultBackground = "white"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Options configures a pipeline run. Exactly one of Path or Data is set.
type Options struct {
	// Input
	Path     string `json:"-"`
	Data     []byte `json:"-"`
	Filename string `json:"filename,omitempty"` // used for format detection and naming when Data is set
	Format   string `json:"format,omitempty"`   // explicit input format; overrides detection
	Seed     uint64 `json:"seed,omitempty"`     // default-color seed; 0 picks a random one and disables dataset caching
	Refresh  bool   `json:"refresh,omitempty"`

	// Display
	Overrides plasmid.Overrides    `json:"-"`
	Hide      []string             `json:"hide,omitempty"` // display names, or index:name keys, to hide
	Config    plasmid.RenderConfig `json:"config"`

	// Output
	Formats    []string `json:"formats,omitempty"`
	DPI        float64  `json:"dpi,omitempty"`
	Background string   `json:"background,omitempty"`

	validated bool
}

// Result holds everything a run produced.
type Result struct {
	Dataset   plasmid.Dataset
	Elements  []plasmid.Element // after overrides, in input order
	Scene     layout.Scene
	SceneHash string
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	Elements   int // parsed
	Drawn      int
	Filtered   int
	Widened    int
	Primitives int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which stages were served from cache.
type CacheInfo struct {
	DatasetHit bool
	RenderHit  bool // every requested artifact came from cache
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list, trimming and lowercasing each
// entry and dropping duplicates. An empty string means SVG.
func ParseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// ValidateAndSetDefaults checks the whole option set. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks the input fields.
func (o *Options) ValidateForParse() error {
	switch {
	case o.Path == "" && len(o.Data) == 0:
		return errors.New(errors.ErrCodeInvalidInput, "an input file is required")
	case o.Path != "" && len(o.Data) > 0:
		return errors.New(errors.ErrCodeInvalidInput, "set either a path or inline data, not both")
	case len(o.Data) > 0 && o.Filename == "" && o.Format == "":
		return errors.New(errors.ErrCodeInvalidInput, "inline data needs a filename or an explicit format")
	}
	return nil
}

// SetRenderDefaults fills in output defaults.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if o.Config.FontSize == 0 {
		o.Config.FontSize = plasmid.DefaultFontSize
	}
}

// ValidateForRender applies defaults and checks the display and output
// settings.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateFontSize(o.Config.FontSize); err != nil {
		return err
	}
	if r := o.Config.Region; r != nil {
		if err := errors.ValidateRegion(r.Start, r.End); err != nil {
			return err
		}
	}
	if o.DPI < 0 || o.DPI > sink.MaxDPI {
		return errors.New(errors.ErrCodeInvalidConfig, "dpi %g out of range (0, %g]", o.DPI, sink.MaxDPI)
	}
	return nil
}

// SourceName is the name used for logging and as the dataset fallback name.
func (o *Options) SourceName() string {
	if o.Path != "" {
		return o.Path
	}
	if o.Filename != "" {
		return o.Filename
	}
	return fmt.Sprintf("<%s input>", o.Format)
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Background: o.Background}
	if format == FormatPNG {
		k.DPI = o.DPI
	}
	return k
}

// SinkOptions converts the output settings to sink options.
func (o *Options) SinkOptions() []sink.Option {
	return []sink.Option{sink.WithDPI(o.DPI), sink.WithBackground(o.Background)}
}
