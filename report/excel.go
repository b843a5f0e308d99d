package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"buscacnpj/normalization"
)

// SheetName is the single worksheet every workbook carries.
const SheetName = "dados"

// Headers are the spreadsheet columns, in output order.
var Headers = []string{
	"Nome da Empresa",
	"Endereco",
	"Numero",
	"CEP",
	"Telefone_Google",
	"Possivel_CNPJ",
	"Empresa_CNPJ",
	"Proprietario",
	"Email",
	"Telefone_CNPJ",
}

// Filename derives the deterministic workbook name for a query pair.
func Filename(tipo, local string) string {
	return normalization.Slug(tipo+"_"+local) + ".xlsx"
}

// cells returns the row values in header order.
func (r Row) cells() []interface{} {
	return []interface{}{
		r.PlaceName,
		r.Address,
		r.Number,
		r.CEP,
		r.PlacePhone,
		r.TaxID,
		r.CompanyName,
		r.Owner,
		r.Email,
		r.CompanyPhone,
	}
}

// Workbook builds an in-memory workbook with the header line followed by
// one line per row.
func Workbook(rows []Row) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("failed to name worksheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &Headers); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := row.cells()
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	return f, nil
}

// WriteFile renders the rows into an .xlsx file on disk.
func WriteFile(rows []Row, filename string) error {
	f, err := Workbook(rows)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(filename)
}

// Buffer renders the rows into in-memory .xlsx bytes, for HTTP download.
func Buffer(rows []Row) ([]byte, error) {
	f, err := Workbook(rows)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
