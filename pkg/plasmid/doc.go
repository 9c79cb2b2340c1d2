// Package plasmid defines the canonical data model shared by every stage of
// the map pipeline: elements, their display enums, render configuration,
// regions and the per-element override maps.
//
// Elements are created once by an input adapter and never mutated
// afterwards. Display changes (color, side, label, visibility) are expressed
// as [Overrides] keyed by [ElementKey] and applied with [Apply], which returns
// a fresh slice.
package plasmid
