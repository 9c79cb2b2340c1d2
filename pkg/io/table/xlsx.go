package table

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/plasmidmap/plasmidmap/pkg/annotation"
	"github.com/plasmidmap/plasmidmap/pkg/errors"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
)

// ReadXLSX reads the first worksheet of an Excel workbook.
func ReadXLSX(r io.Reader, n *annotation.Normalizer) ([]plasmid.Element, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidTable, "workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "read sheet %q", sheets[0])
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidTable, "sheet %q is empty", sheets[0])
	}
	return FromRows(rows[0], rows[1:], n)
}
