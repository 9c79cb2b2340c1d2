package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plasmidmap/plasmidmap/pkg/annotation"
	"github.com/plasmidmap/plasmidmap/pkg/errors"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
)

func TestDetectFormat(t *testing.T) {
	for name, want := range map[string]Format{
		"a.gb":         FormatGenBank,
		"dir/A.GBK":    FormatGenBank,
		"x.genbank":    FormatGenBank,
		"t.csv":        FormatCSV,
		"t.tsv":        FormatTSV,
		"book.xlsx":    FormatXLSX,
		"manual.yaml":  FormatEntries,
		"manual.yml":   FormatEntries,
		"entries.json": FormatEntries,
	} {
		got, err := DetectFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := DetectFormat("map.fasta")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("GBK")
	require.NoError(t, err)
	assert.Equal(t, FormatGenBank, f)

	f, err = ParseFormat("entries")
	require.NoError(t, err)
	assert.Equal(t, FormatEntries, f)

	_, err = ParseFormat("docx")
	assert.Error(t, err)
}

func TestLoadGenBank(t *testing.T) {
	ds, err := Load("genbank/testdata/puc_fragment.gb", annotation.NewNormalizer(42))
	require.NoError(t, err)
	assert.Equal(t, "pTEST", ds.Name)
	assert.Equal(t, 2686, ds.Length)
	assert.True(t, ds.Circular)
	require.Len(t, ds.Elements, 4, "source is dropped")
	assert.Equal(t, 100, ds.Elements[0].Start)
	assert.True(t, ds.Elements[0].IsPromoter)
	assert.Equal(t, plasmid.Down, ds.Elements[1].Side, "reverse CDS goes below")
}

func TestLoadTableNamesFromFile(t *testing.T) {
	ds, err := Load("table/testdata/elements.csv", annotation.NewNormalizer(1))
	require.NoError(t, err)
	assert.Equal(t, "elements", ds.Name)
	assert.Len(t, ds.Elements, 4)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.gb"), annotation.NewNormalizer(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestReadBytesDeterministic(t *testing.T) {
	data, err := os.ReadFile("genbank/testdata/puc_fragment.gb")
	require.NoError(t, err)

	a, err := ReadBytes(data, FormatGenBank, annotation.NewNormalizer(9))
	require.NoError(t, err)
	b, err := ReadBytes(data, FormatGenBank, annotation.NewNormalizer(9))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestReadUnknownFormat(t *testing.T) {
	_, err := Read(strings.NewReader(""), Format("bam"), annotation.NewNormalizer(1))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestOverridesRoundTrip(t *testing.T) {
	var o plasmid.Overrides
	amp := plasmid.ElementKey{Index: 1, Name: "AmpR"}
	ori := plasmid.ElementKey{Index: 2, Name: "ori"}
	o.SetColor(amp, "lightblue")
	o.SetSide(amp, plasmid.Up)
	o.SetLabel(ori, "pUC ori")
	o.SetVisible(ori, false)

	var buf bytes.Buffer
	require.NoError(t, WriteOverrides(&buf, o))
	assert.Contains(t, buf.String(), "[[element]]")

	got, err := ReadOverrides(&buf)
	require.NoError(t, err)
	assert.Equal(t, o, got)
}

func TestReadOverridesBadSide(t *testing.T) {
	in := "[[element]]\nindex = 0\nname = \"x\"\nside = \"left\"\n"
	_, err := ReadOverrides(strings.NewReader(in))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestSaveLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "map.overrides.toml")

	empty, err := LoadOverrides(path)
	require.NoError(t, err)
	assert.True(t, empty.Empty())

	var o plasmid.Overrides
	o.SetColor(plasmid.ElementKey{Index: 0, Name: "lac"}, "red")
	require.NoError(t, SaveOverrides(path, o))

	got, err := LoadOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, o, got)
}

func TestOverrideEntriesOrder(t *testing.T) {
	var o plasmid.Overrides
	o.SetColor(plasmid.ElementKey{Index: 3, Name: "c"}, "red")
	o.SetVisible(plasmid.ElementKey{Index: 0, Name: "a"}, false)

	entries := OverrideEntries(o)
	require.Len(t, entries, 2)
	assert.Equal(t, 0, entries[0].Index)
	assert.Equal(t, 3, entries[1].Index)

	back, err := OverridesFromEntries(entries)
	require.NoError(t, err)
	assert.Equal(t, o, back)

	_, err = OverridesFromEntries([]OverrideEntry{{Index: -1}})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}
