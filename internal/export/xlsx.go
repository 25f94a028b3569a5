package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// SheetName is the worksheet the XLSX export writes.
const SheetName = "counties"

// WriteXLSX writes the rows to a single-sheet workbook.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range Columns {
		header.AddCell().SetString(col)
	}

	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.FIPS)
		row.AddCell().SetString(r.County)
		row.AddCell().SetFloatWithFormat(r.RentalROIPct.Round(), "0.0000")
		row.AddCell().SetFloatWithFormat(r.PropertyTaxRatePct.Round(), "0.0000")
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}
