package pipeline

import (
	"slices"

	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
	"github.com/plasmidmap/plasmidmap/pkg/render/layout"
)

// Prepare applies overrides to the dataset's elements. The dataset is not
// modified.
func Prepare(ds plasmid.Dataset, o plasmid.Overrides) []plasmid.Element {
	if o.Empty() {
		return slices.Clone(ds.Elements)
	}
	return plasmid.Apply(ds.Elements, o)
}

// Layout prepares the elements, applies Hide and builds the scene.
func Layout(ds plasmid.Dataset, opts Options) ([]plasmid.Element, layout.Scene, error) {
	els := Prepare(ds, opts.Overrides)
	hide(ds.Elements, els, opts.Hide)
	scene, err := layout.Build(els, opts.Config)
	return els, scene, err
}

// hide turns off the elements selected by entries. An "index:name" entry
// selects one element by its parsed identity; any other entry is a display
// name and selects every element currently shown under it.
func hide(parsed, els []plasmid.Element, entries []string) {
	for _, entry := range entries {
		if k, ok := plasmid.ParseElementKey(entry); ok {
			if k.Index < len(parsed) && plasmid.KeyOf(parsed, k.Index) == k {
				els[k.Index].Visible = false
			}
			continue
		}
		for i := range els {
			if els[i].Name == entry {
				els[i].Visible = false
			}
		}
	}
}
