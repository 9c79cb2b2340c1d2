// Package layout turns plasmid elements into a device-independent scene.
//
// The scene lives in "base pair space": x is a sequence coordinate, y is an
// abstract height centred on the baseline (y = 0). Elements sit in boxes
// [BoxHeight] tall directly above or below the baseline; their labels float
// [TextDistance] further out, joined to the box by a connector line.
//
// # Staggering
//
// With horizontal labels, neighbouring elements would print on top of each
// other. Elements are ranked by start coordinate and assigned one of
// [StaggerTiers] levels round-robin; each level pushes the label out by a
// further [StaggerFactor] of TextDistance. Vertical labels are narrow and are
// never staggered.
//
// # Usage
//
//	scene, err := layout.Build(elements, plasmid.DefaultConfig())
//	if errors.Is(err, layout.ErrNothingToRender) {
//	    // everything hidden or outside the region
//	}
//
// [Build] is pure: the same elements and config always yield the same scene.
// The scene is rendered to bytes by package sink.
package layout
