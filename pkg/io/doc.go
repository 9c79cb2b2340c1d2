// Package io loads plasmid annotation sources and the overrides files that
// accompany them.
//
// # Sources
//
// [Load] picks an adapter from the file extension, [Read] takes an explicit
// [Format]:
//
//	.gb .gbk .genbank   GenBank flat file (see package genbank)
//	.csv .tsv .xlsx     element table (see package table)
//	.yaml .yml .json    manual entry list (see package table)
//
// Every adapter returns a [plasmid.Dataset] whose elements carry 1-based
// inclusive coordinates and fully resolved defaults. Default colors are drawn
// from the [annotation.Normalizer] passed in, so a fixed seed gives a fixed
// dataset.
//
// # Overrides
//
// Display choices made in the editor (color, side, label, visibility) are
// stored separately from the source in a TOML file:
//
//	[[element]]
//	index = 2
//	name = "AmpR"
//	color = "lightblue"
//	side = "Down"
//
// Entries are keyed by the element's index and parsed name, see
// [plasmid.ElementKey].
package io
