package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/plasmidmap/plasmidmap/pkg/errors"
	pio "github.com/plasmidmap/plasmidmap/pkg/io"
	"github.com/plasmidmap/plasmidmap/pkg/pipeline"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
	"github.com/plasmidmap/plasmidmap/pkg/render/layout"
)

// renderFlags holds the flags of the render command that viper does not
// track. Font size, orientation, sizes, DPI and formats are bound to the
// render.* config keys instead.
type renderFlags struct {
	output      string
	inputFormat string
	region      string
	overrides   string
	hide        []string
	seed        uint64
	background  string
	noCache     bool
	refresh     bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw a plasmid map as SVG, PNG, PDF or JSON",
		Long: `Draw a linear plasmid map from a GenBank file, a feature table (CSV, TSV, XLSX)
or an element list (YAML, JSON).

Settings not given as flags come from the config file (see "plasmidmap config").`,
		Example: `  plasmidmap render pUC19.gb
  plasmidmap render features.csv -f svg,png --dpi 600 --sizes
  plasmidmap render pUC19.gb --region 100-2000 --hide ori -o pUC19_detail.pdf
  plasmidmap render two_gfps.csv --hide 3:GFP`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeInputFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.renderOptions(args[0], flags)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringP("format", "f", "", "output format(s): svg, png, pdf, json (comma-separated)")
	f.Int("font-size", 0, fmt.Sprintf("label font size (%d-%d)", plasmid.MinFontSize, plasmid.MaxFontSize))
	f.String("orientation", "", "label orientation: horizontal, vertical")
	f.Bool("sizes", false, "show element sizes below the labels")
	f.Float64("dpi", 0, "PNG resolution")
	f.StringVar(&flags.inputFormat, "input-format", "", "input format, overriding the file extension: "+formatList())
	f.StringVar(&flags.region, "region", "", "only draw elements overlapping START-END")
	f.StringVar(&flags.overrides, "overrides", "", "overrides file written by \"plasmidmap edit\"")
	f.StringSliceVar(&flags.hide, "hide", nil, "element to hide: a name hides every element shown under it, INDEX:NAME exactly one (repeatable)")
	f.Uint64Var(&flags.seed, "seed", 0, "seed for default colors (0 picks a random palette)")
	f.StringVar(&flags.background, "background", pipeline.DefaultBackground, "PNG background color, or \"none\"")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable the render cache")
	f.BoolVar(&flags.refresh, "refresh", false, "ignore cached results")

	cmd.RegisterFlagCompletionFunc("format", completeFormats)
	cmd.RegisterFlagCompletionFunc("orientation", completeValues("horizontal", "vertical"))
	cmd.RegisterFlagCompletionFunc("input-format", completeValues(inputFormatNames()...))

	c.bindFlag("render.formats", f.Lookup("format"))
	c.bindFlag("render.font_size", f.Lookup("font-size"))
	c.bindFlag("render.orientation", f.Lookup("orientation"))
	c.bindFlag("render.show_sizes", f.Lookup("sizes"))
	c.bindFlag("render.dpi", f.Lookup("dpi"))

	return cmd
}

// renderOptions merges the config, flags and overrides file into pipeline
// options.
func (c *CLI) renderOptions(input string, flags renderFlags) (pipeline.Options, error) {
	s := c.settings().Render
	cfg, err := s.renderConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	if flags.region != "" {
		r, err := plasmid.ParseRegion(flags.region)
		if err != nil {
			return pipeline.Options{}, perrors.Wrap(perrors.ErrCodeInvalidRegion, err, "--region")
		}
		cfg.Region = &r
	}

	opts := pipeline.Options{
		Path:       input,
		Format:     flags.inputFormat,
		Seed:       flags.seed,
		Refresh:    flags.refresh,
		Hide:       flags.hide,
		Config:     cfg,
		Formats:    pipeline.ParseFormats(s.Formats),
		DPI:        s.DPI,
		Background: flags.background,
	}
	if flags.overrides != "" {
		o, err := pio.LoadOverrides(flags.overrides)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Overrides = o
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, flags renderFlags) error {
	logger := loggerFromContext(ctx)
	if flags.output == "-" {
		if len(opts.Formats) > 1 {
			return perrors.New(perrors.ErrCodeInvalidInput, "-o - writes a single format to stdout (got %s)", strings.Join(opts.Formats, ","))
		}
		// Keep stdout clean for the map itself.
		defer func(w io.Writer) { stdout = w }(stdout)
		stdout = os.Stderr
	}
	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := startSpinner(ctx, os.Stderr, "Rendering "+filepath.Base(opts.Path)+"...")
	result, err := runner.Execute(ctx, opts)

	switch {
	case errors.Is(err, layout.ErrNothingToRender):
		spin.stop()
		printWarning("Nothing to render: every element is hidden or outside the region")
		if result != nil {
			printDetail("%d elements parsed", len(result.Dataset.Elements))
		}
		return nil
	case err != nil:
		if spin.interrupted() {
			spin.stop()
		} else {
			spin.fail("Render failed")
		}
		return err
	}
	spin.succeed("Rendered " + StyleHighlight.Render(result.Dataset.Name))
	logger.Debug("render stats", "primitives", result.Stats.Primitives, "widened", result.Stats.Widened)

	paths := outputPaths(flags.output, opts.Path, opts.Formats)
	printStats(result.Stats.Drawn, result.Stats.Filtered, result.CacheInfo.RenderHit)
	for _, format := range opts.Formats {
		if err := writeOutput(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
		printFile(paths[format])
	}
	return nil
}

// outputPaths assigns a file to each format. A single format writes to
// output as given; otherwise output (or the input name) is a base path.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func formatList() string {
	names := make([]string, len(pio.Formats))
	for i, f := range pio.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
