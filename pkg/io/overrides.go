package io

import (
	"bufio"
	"cmp"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/plasmidmap/plasmidmap/pkg/errors"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
)

type overrideFile struct {
	Element []OverrideEntry `toml:"element"`
}

// OverrideEntry is the serialized form of the overrides for one element,
// shared by the TOML file and the HTTP API.
type OverrideEntry struct {
	Index   int     `toml:"index" json:"index"`
	Name    string  `toml:"name" json:"name"`
	Color   string  `toml:"color,omitempty" json:"color,omitempty"`
	Side    string  `toml:"side,omitempty" json:"side,omitempty"`
	Label   *string `toml:"label,omitempty" json:"label,omitempty"`
	Visible *bool   `toml:"visible,omitempty" json:"visible,omitempty"`
}

// ReadOverrides decodes a TOML overrides document.
func ReadOverrides(r io.Reader) (plasmid.Overrides, error) {
	var doc overrideFile
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return plasmid.Overrides{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode overrides")
	}
	return OverridesFromEntries(doc.Element)
}

// OverridesFromEntries builds overrides from serialized entries.
func OverridesFromEntries(entries []OverrideEntry) (plasmid.Overrides, error) {
	var o plasmid.Overrides
	for i, e := range entries {
		if e.Index < 0 {
			return plasmid.Overrides{}, errors.New(errors.ErrCodeInvalidConfig, "overrides entry %d: negative index", i+1)
		}
		k := plasmid.ElementKey{Index: e.Index, Name: e.Name}
		if e.Color != "" {
			o.SetColor(k, e.Color)
		}
		if e.Side != "" {
			s, err := plasmid.ParseSide(e.Side)
			if err != nil {
				return plasmid.Overrides{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "overrides entry %d", i+1)
			}
			o.SetSide(k, s)
		}
		if e.Label != nil {
			o.SetLabel(k, *e.Label)
		}
		if e.Visible != nil {
			o.SetVisible(k, *e.Visible)
		}
	}
	return o, nil
}

// OverrideEntries serializes o, one entry per key in index order.
func OverrideEntries(o plasmid.Overrides) []OverrideEntry {
	keys := o.Keys()
	slices.SortFunc(keys, func(a, b plasmid.ElementKey) int {
		return cmp.Or(cmp.Compare(a.Index, b.Index), cmp.Compare(a.Name, b.Name))
	})

	entries := make([]OverrideEntry, 0, len(keys))
	for _, k := range keys {
		e := OverrideEntry{Index: k.Index, Name: k.Name, Color: o.Colors[k]}
		if s, ok := o.Sides[k]; ok {
			e.Side = s.String()
		}
		if l, ok := o.Labels[k]; ok {
			e.Label = &l
		}
		if v, ok := o.Visible[k]; ok {
			e.Visible = &v
		}
		entries = append(entries, e)
	}
	return entries
}

// WriteOverrides encodes o as TOML, one [[element]] table per key.
func WriteOverrides(w io.Writer, o plasmid.Overrides) error {
	return toml.NewEncoder(w).Encode(overrideFile{Element: OverrideEntries(o)})
}

// LoadOverrides reads an overrides file. A missing file yields empty
// overrides.
func LoadOverrides(path string) (plasmid.Overrides, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return plasmid.Overrides{}, nil
	}
	if err != nil {
		return plasmid.Overrides{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadOverrides(f)
}

// SaveOverrides writes o to path atomically, creating parent directories.
func SaveOverrides(path string, o plasmid.Overrides) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".overrides-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := WriteOverrides(bw, o); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
