package io

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/plasmidmap/plasmidmap/pkg/annotation"
	"github.com/plasmidmap/plasmidmap/pkg/errors"
	"github.com/plasmidmap/plasmidmap/pkg/io/genbank"
	"github.com/plasmidmap/plasmidmap/pkg/io/table"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
)

// Format names an input adapter.
type Format string

const (
	FormatGenBank Format = "genbank"
	FormatCSV     Format = "csv"
	FormatTSV     Format = "tsv"
	FormatXLSX    Format = "xlsx"
	FormatEntries Format = "entries"
)

var extFormats = map[string]Format{
	".gb":      FormatGenBank,
	".gbk":     FormatGenBank,
	".genbank": FormatGenBank,
	".csv":     FormatCSV,
	".tsv":     FormatTSV,
	".xlsx":    FormatXLSX,
	".yaml":    FormatEntries,
	".yml":     FormatEntries,
	".json":    FormatEntries,
}

// Formats lists the accepted explicit format names.
var Formats = []Format{FormatGenBank, FormatCSV, FormatTSV, FormatXLSX, FormatEntries}

// DetectFormat returns the adapter for a file name.
func DetectFormat(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if f, ok := extFormats[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported input file %q (want .gb, .csv, .tsv, .xlsx, .yaml or .json)", filepath.Base(name))
}

// ParseFormat accepts a format name or a bare extension such as "gbk".
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range Formats {
		if Format(s) == f {
			return f, nil
		}
	}
	return DetectFormat("x." + strings.TrimPrefix(s, "."))
}

// Load reads the file at path with the adapter chosen by its extension.
// The dataset name defaults to the file's base name without extension.
func Load(path string, n *annotation.Normalizer) (plasmid.Dataset, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return plasmid.Dataset{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return plasmid.Dataset{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return plasmid.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	ds, err := Read(f, format, n)
	if err != nil {
		return plasmid.Dataset{}, err
	}
	if ds.Name == "" {
		base := filepath.Base(path)
		ds.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return ds, nil
}

// Read decodes r with the given adapter.
func Read(r io.Reader, format Format, n *annotation.Normalizer) (plasmid.Dataset, error) {
	switch format {
	case FormatGenBank:
		rec, err := genbank.Read(r)
		if err != nil {
			return plasmid.Dataset{}, err
		}
		els, err := n.Normalize(rec.Features)
		if err != nil {
			return plasmid.Dataset{}, err
		}
		return plasmid.Dataset{Name: rec.Name, Length: rec.Length, Circular: rec.Circular, Elements: els}, nil

	case FormatCSV, FormatTSV:
		comma := ','
		if format == FormatTSV {
			comma = '\t'
		}
		els, err := table.ReadCSV(r, comma, n)
		if err != nil {
			return plasmid.Dataset{}, err
		}
		return plasmid.Dataset{Elements: els}, nil

	case FormatXLSX:
		els, err := table.ReadXLSX(r, n)
		if err != nil {
			return plasmid.Dataset{}, err
		}
		return plasmid.Dataset{Elements: els}, nil

	case FormatEntries:
		name, els, err := table.ReadEntries(r, n)
		if err != nil {
			return plasmid.Dataset{}, err
		}
		return plasmid.Dataset{Name: name, Elements: els}, nil
	}
	return plasmid.Dataset{}, errors.New(errors.ErrCodeInvalidFormat, "unknown input format %q", format)
}

// ReadBytes is Read over an in-memory payload, as received by the HTTP API.
func ReadBytes(data []byte, format Format, n *annotation.Normalizer) (plasmid.Dataset, error) {
	return Read(bytes.NewReader(data), format, n)
}
