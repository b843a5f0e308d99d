// Package report assembles the flat output rows and renders them into an
// Excel workbook.
package report

import (
	"strings"

	"buscacnpj/places"
	"buscacnpj/registry"
)

// Sentinel values for missing data. Downstream spreadsheet consumers rely
// on every cell being non-empty.
const (
	NotFound    = "nao encontrado"
	NotInformed = "nao informado"
)

// fieldSeparator joins multi-valued registry fields into one cell.
const fieldSeparator = "; "

// Row is one denormalized output line: one place joined with at most one
// registry record.
type Row struct {
	PlaceName    string `json:"nome_empresa"`
	Address      string `json:"endereco"`
	Number       string `json:"numero"`
	CEP          string `json:"cep"`
	PlacePhone   string `json:"telefone_google"`
	TaxID        string `json:"possivel_cnpj"`
	CompanyName  string `json:"empresa_cnpj"`
	Owner        string `json:"proprietario"`
	Email        string `json:"email"`
	CompanyPhone string `json:"telefone_cnpj"`
}

// RowsForPlace joins one place with its resolved registry matches. A place
// with no matches still yields exactly one row, with every registry field
// set to a sentinel. numero and cep may be empty when address parsing could
// not extract them; cepRaw is the unparsed postal segment shown when
// sanitization failed.
func RowsForPlace(place places.Place, numero, cep, cepRaw, phone string, matches []registry.Office) []Row {
	base := Row{
		PlaceName:  place.Name,
		Address:    place.Address,
		Number:     fallback(numero, NotFound),
		CEP:        fallback(cep, fallback(cepRaw, NotFound)),
		PlacePhone: fallback(phone, NotInformed),
	}

	if len(matches) == 0 {
		row := base
		row.TaxID = NotFound
		row.CompanyName = NotInformed
		row.Owner = NotInformed
		row.Email = NotInformed
		row.CompanyPhone = NotInformed
		return []Row{row}
	}

	rows := make([]Row, 0, len(matches))
	for _, rec := range matches {
		row := base
		row.TaxID = fallback(rec.TaxID, NotFound)
		row.CompanyName = fallback(rec.Company.Name, NotInformed)
		row.Owner = ownerText(rec)
		row.Email = joinOrSentinel(rec.EmailAddresses(), NotInformed)
		row.CompanyPhone = joinOrSentinel(rec.PhoneDisplay(), NotInformed)

		// An accounting-firm e-mail means the registered contact belongs
		// to a third-party intermediary, not the business owner. Redact
		// both contact fields rather than surface it.
		if isAccountingEmail(row.Email) {
			row.Email = NotFound
			row.CompanyPhone = NotFound
		}

		rows = append(rows, row)
	}
	return rows
}

// ownerText falls back owners -> company name -> sentinel.
func ownerText(rec registry.Office) string {
	if owners := rec.Owners(); len(owners) > 0 {
		return strings.Join(owners, fieldSeparator)
	}
	return fallback(rec.Company.Name, NotInformed)
}

// isAccountingEmail flags addresses that look like an accounting firm's
// ("contabilidade", "contabil", "contato@escritoriocontabil", ...).
func isAccountingEmail(email string) bool {
	return strings.Contains(strings.ToLower(email), "cont")
}

func joinOrSentinel(values []string, sentinel string) string {
	if len(values) == 0 {
		return sentinel
	}
	return strings.Join(values, fieldSeparator)
}

func fallback(value, alt string) string {
	if value != "" {
		return value
	}
	return alt
}
