package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/plasmidmap/plasmidmap/pkg/errors"
	pio "github.com/plasmidmap/plasmidmap/pkg/io"
	iotable "github.com/plasmidmap/plasmidmap/pkg/io/table"
	"github.com/plasmidmap/plasmidmap/pkg/pipeline"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
	"github.com/plasmidmap/plasmidmap/pkg/render/layout"
)

type inspectFlags struct {
	inputFormat string
	overrides   string
	seed        uint64
	export      string
}

func (c *CLI) inspectCommand() *cobra.Command {
	var flags inspectFlags

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print the normalized feature table",
		Long: `Print the features of an annotation as they will be drawn: names, coordinates,
sizes, sides, colors and shapes.

With --export the table is also written as CSV (.csv) or as an element list
(.yaml, .json) that can be edited by hand and rendered again.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeInputFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.inputFormat, "input-format", "", "input format, overriding the file extension: "+formatList())
	cmd.RegisterFlagCompletionFunc("input-format", completeValues(inputFormatNames()...))
	cmd.Flags().StringVar(&flags.overrides, "overrides", "", "overrides file to apply")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "seed for default colors (0 picks a random palette)")
	cmd.Flags().StringVar(&flags.export, "export", "", "also write the table to a .csv, .yaml or .json file")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, w io.Writer, input string, flags inspectFlags) error {
	runner, err := c.newRunner(false)
	if err != nil {
		return err
	}
	defer runner.Close()

	sw := startStopwatch(loggerFromContext(ctx))
	ds, err := runner.Parse(ctx, pipeline.Options{Path: input, Format: flags.inputFormat, Seed: flags.seed})
	if err != nil {
		return err
	}
	sw.done("Parsed "+ds.Name, "features", len(ds.Elements))

	var o plasmid.Overrides
	if flags.overrides != "" {
		if o, err = pio.LoadOverrides(flags.overrides); err != nil {
			return err
		}
	}
	elements := pipeline.Prepare(ds, o)

	fmt.Fprintln(w, StyleTitle.Render(ds.Name))
	if ds.Length > 0 {
		topology := "linear"
		if ds.Circular {
			topology = "circular"
		}
		fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("%d bp · %s", ds.Length, topology)))
	}
	fmt.Fprintln(w, featureTable(elements))

	if flags.export != "" {
		if err := exportElements(flags.export, ds.Name, elements); err != nil {
			return err
		}
		printFile(flags.export)
	}
	return nil
}

// featureTable renders elements as a bordered table. Hidden rows are dimmed.
func featureTable(elements []plasmid.Element) string {
	rows := make([][]string, len(elements))
	for i, e := range elements {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			e.Name,
			strconv.Itoa(e.Start),
			strconv.Itoa(e.End),
			layout.SizeText(e),
			e.Side.String(),
			e.Color,
			e.Shape.String(),
			strandText(e.Strand),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("#", "Element", "Start", "End", "Size", "Side", "Colour", "Shape", "Strand").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if !elements[row].Visible {
				return base.Foreground(colorFaint)
			}
			switch col {
			case 1:
				return base.Foreground(colorText)
			case 2, 3, 4:
				return base.Foreground(colorAccent).Align(lipgloss.Right)
			}
			return base.Foreground(colorMuted)
		}).
		Render()
}

func strandText(s plasmid.Strand) string {
	switch s {
	case plasmid.Forward:
		return "+"
	case plasmid.Reverse:
		return "-"
	}
	return ""
}

// exportElements writes elements as CSV or as an element list, by extension.
func exportElements(path, name string, elements []plasmid.Element) error {
	format, err := pio.DetectFormat(path)
	if err != nil {
		return err
	}
	var write func(io.Writer) error
	switch format {
	case pio.FormatCSV:
		write = func(w io.Writer) error { return iotable.WriteCSV(w, elements) }
	case pio.FormatEntries:
		if strings.EqualFold(filepath.Ext(path), ".json") {
			write = func(w io.Writer) error { return iotable.WriteEntriesJSON(w, name, elements) }
		} else {
			write = func(w io.Writer) error { return iotable.WriteEntries(w, name, elements) }
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "cannot export to %s (use .csv, .yaml or .json)", format)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
