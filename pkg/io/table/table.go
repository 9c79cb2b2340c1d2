// Package table reads element tables (CSV, TSV, XLSX) and manual entry
// lists (YAML, JSON) into canonical elements.
//
// Column headers are matched after folding case, underscores and runs of
// whitespace, so "Box position", "box_position" and " BOX  POSITION " are
// the same column. Missing required columns fail with the column's name.
package table

import (
	"strconv"
	"strings"

	"github.com/plasmidmap/plasmidmap/pkg/annotation"
	"github.com/plasmidmap/plasmidmap/pkg/errors"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
)

// Canonical column names, in file order.
const (
	ColElement     = "Element"
	ColStart       = "Start"
	ColEnd         = "End"
	ColPosition    = "Box position"
	ColColour      = "Colour"
	ColArrow       = "Arrow end type"
	ColFeatureType = "Feature type"
	ColStrand      = "Strand"
	ColPromoter    = "Is promoter"
	ColShape       = "Shape"
)

// Required lists the columns every table must have.
var Required = []string{ColElement, ColStart, ColEnd, ColPosition, ColColour, ColArrow}

// Columns lists every column written by WriteCSV.
var Columns = append(append([]string{}, Required...), ColFeatureType, ColStrand, ColPromoter, ColShape)

// synonyms maps folded alternative spellings onto folded canonical names.
var synonyms = map[string]string{
	"name":     "element",
	"color":    "colour",
	"position": "box position",
	"arrow":    "arrow end type",
	"type":     "feature type",
	"promoter": "is promoter",
}

// Fold normalizes a header for lookup.
func Fold(h string) string {
	h = strings.ToLower(strings.ReplaceAll(h, "_", " "))
	h = strings.Join(strings.Fields(h), " ")
	if s, ok := synonyms[h]; ok {
		return s
	}
	return h
}

// record is one table row keyed by folded column name.
type record map[string]string

func (r record) get(col string) string { return strings.TrimSpace(r[Fold(col)]) }

// FromRows converts a header and data rows into elements. Rows that are
// entirely blank are skipped. Short rows are padded with empty cells.
func FromRows(header []string, rows [][]string, n *annotation.Normalizer) ([]plasmid.Element, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[Fold(h)] = i
	}
	for _, col := range Required {
		if _, ok := index[Fold(col)]; !ok {
			return nil, errors.New(errors.ErrCodeMissingColumn, "missing required column %q", col)
		}
	}

	records := make([]record, 0, len(rows))
	for _, row := range rows {
		if blank(row) {
			continue
		}
		rec := make(record, len(index))
		for name, i := range index {
			if i < len(row) {
				rec[name] = row[i]
			}
		}
		records = append(records, rec)
	}
	return fromRecords(records, n)
}

func fromRecords(records []record, n *annotation.Normalizer) ([]plasmid.Element, error) {
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyAnnotation, "table has no element rows")
	}
	out := make([]plasmid.Element, 0, len(records))
	for i, rec := range records {
		e, err := toElement(rec, n)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "row %d", i+1)
		}
		out = append(out, e)
	}
	return out, nil
}

func toElement(rec record, n *annotation.Normalizer) (plasmid.Element, error) {
	var e plasmid.Element
	var err error

	if e.Name = rec.get(ColElement); e.Name == "" {
		return e, errors.New(errors.ErrCodeInvalidTable, "empty %s", ColElement)
	}
	if e.Start, err = parseInt(rec.get(ColStart)); err != nil {
		return e, errors.Wrap(errors.ErrCodeInvalidTable, err, "column %s", ColStart)
	}
	if e.End, err = parseInt(rec.get(ColEnd)); err != nil {
		return e, errors.Wrap(errors.ErrCodeInvalidTable, err, "column %s", ColEnd)
	}
	e.Type = rec.get(ColFeatureType)
	if e.Strand, err = plasmid.ParseStrand(rec.get(ColStrand)); err != nil {
		return e, err
	}
	if e.IsPromoter, err = parseBool(rec.get(ColPromoter)); err != nil {
		return e, errors.Wrap(errors.ErrCodeInvalidTable, err, "column %s", ColPromoter)
	}

	e.Side = annotation.DefaultSide(e.Type, e.Strand)
	if v := rec.get(ColPosition); v != "" {
		if e.Side, err = plasmid.ParseSide(v); err != nil {
			return e, err
		}
	}

	e.Shape = annotation.DefaultShape(e.IsPromoter)
	if v := rec.get(ColShape); v != "" {
		if e.Shape, err = plasmid.ParseShape(v); err != nil {
			return e, err
		}
	}

	if v := rec.get(ColArrow); v != "" {
		if e.Connector, err = plasmid.ParseConnector(v); err != nil {
			return e, err
		}
	}

	if e.Color = rec.get(ColColour); e.Color == "" {
		e.Color = n.DefaultColor()
	}
	e.Visible = true
	return e, nil
}

// parseInt accepts plain integers, thousands separators and the whole-number
// floats spreadsheets like to produce ("1200.0").
func parseInt(s string) (int, error) {
	s = strings.ReplaceAll(s, ",", "")
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, errors.New(errors.ErrCodeInvalidTable, "%q is not a whole number", s)
	}
	return int(f), nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "0", "false", "no", "n", "f":
		return false, nil
	case "1", "true", "yes", "y", "t":
		return true, nil
	}
	return false, errors.New(errors.ErrCodeInvalidTable, "%q is not a boolean", s)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
