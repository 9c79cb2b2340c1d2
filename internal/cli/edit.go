package cli

import (
	"context"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	pio "github.com/plasmidmap/plasmidmap/pkg/io"
	"github.com/plasmidmap/plasmidmap/pkg/pipeline"
)

type editFlags struct {
	output      string
	inputFormat string
	seed        uint64
}

func (c *CLI) editCommand() *cobra.Command {
	var flags editFlags

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Interactively hide, recolor, flip and relabel features",
		Long: `Open the features of an annotation in an interactive list. Changes are saved
to an overrides file (TOML) that "plasmidmap render --overrides" applies; the
input file is never modified.

The overrides file defaults to the input name with an .overrides.toml suffix.
If it already exists, editing continues from it.`,
		Example: `  plasmidmap edit pUC19.gb
  plasmidmap render pUC19.gb --overrides pUC19.overrides.toml`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeInputFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "overrides file to read and write")
	cmd.Flags().StringVar(&flags.inputFormat, "input-format", "", "input format, overriding the file extension: "+formatList())
	cmd.RegisterFlagCompletionFunc("input-format", completeValues(inputFormatNames()...))
	cmd.Flags().Uint64Var(&flags.seed, "seed", 1, "seed for default colors of elements without one")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, input string, flags editFlags) error {
	runner, err := c.newRunner(false)
	if err != nil {
		return err
	}
	defer runner.Close()

	ds, err := runner.Parse(ctx, pipeline.Options{Path: input, Format: flags.inputFormat, Seed: flags.seed})
	if err != nil {
		return err
	}

	path := flags.output
	if path == "" {
		path = overridesPath(input)
	}
	existing, err := pio.LoadOverrides(path)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewEditModel(ds.Name, ds.Elements, existing), tea.WithContext(ctx), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	m, ok := finalModel.(EditModel)
	if !ok || !m.Saved {
		printDetail("No changes saved")
		return nil
	}
	if err := pio.SaveOverrides(path, m.Overrides); err != nil {
		return err
	}
	printSuccess("Saved %d overrides", m.Overrides.Len())
	printFile(path)
	printNextStep("Render with", "plasmidmap render "+input+" --overrides "+path)
	return nil
}

// overridesPath returns the default overrides file for an input.
func overridesPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".overrides.toml"
}
