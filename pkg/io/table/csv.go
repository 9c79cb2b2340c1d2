package table

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/plasmidmap/plasmidmap/pkg/annotation"
	"github.com/plasmidmap/plasmidmap/pkg/errors"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
)

// ReadCSV reads a delimited table. Use ',' for CSV and '\t' for TSV.
func ReadCSV(r io.Reader, comma rune, n *annotation.Normalizer) ([]plasmid.Element, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "read table")
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidTable, "table is empty")
	}
	// Excel exports often start with a byte order mark.
	if len(rows[0]) > 0 {
		rows[0][0] = trimBOM(rows[0][0])
	}
	return FromRows(rows[0], rows[1:], n)
}

// WriteCSV writes elements as a canonical table with every column.
func WriteCSV(w io.Writer, elements []plasmid.Element) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, e := range elements {
		strand := ""
		if e.Strand != plasmid.Unknown {
			strand = strconv.Itoa(int(e.Strand))
		}
		row := []string{
			e.Name,
			strconv.Itoa(e.Start),
			strconv.Itoa(e.End),
			e.Side.String(),
			e.Color,
			e.Connector.String(),
			e.Type,
			strand,
			strconv.FormatBool(e.IsPromoter),
			e.Shape.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func trimBOM(s string) string {
	if len(s) >= 3 && s[:3] == "\xef\xbb\xbf" {
		return s[3:]
	}
	return s
}
