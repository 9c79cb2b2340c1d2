package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plasmidmap/plasmidmap/pkg/palette"
)

func (c *CLI) paletteCommand() *cobra.Command {
	var aliases bool

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Show the named colors",
		Long: `Show the extended palette used for default colors and the "Colour" column.
Any CSS color name or #rrggbb value is also accepted; unknown names draw black.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			writePalette(cmd.OutOrStdout(), aliases)
			return nil
		},
	}
	cmd.Flags().BoolVar(&aliases, "aliases", false, "also list legacy color names and what they map to")

	return cmd
}

func writePalette(w io.Writer, withAliases bool) {
	for _, g := range palette.Groups() {
		fmt.Fprintln(w, StyleTitle.Render(g.Name))
		for _, name := range g.Colors {
			fmt.Fprintln(w, "  "+swatch(name))
		}
		fmt.Fprintln(w)
	}
	if !withAliases {
		return
	}

	aliases := palette.Aliases()
	fmt.Fprintln(w, StyleTitle.Render("Aliases"))
	for _, name := range slices.Sorted(maps.Keys(aliases)) {
		pad := strings.Repeat(" ", max(1, 14-len(name)))
		fmt.Fprintln(w, "  "+StyleDim.Render(name)+pad+StyleDim.Render(iconArrow)+" "+swatch(aliases[name]))
	}
}
