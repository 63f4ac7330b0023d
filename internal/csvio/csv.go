// Package csvio moves customer records in and out of CSV. Import is
// header-driven with tolerant column-name matching; export uses a fixed
// column order so downstream spreadsheets stay stable.
package csvio

import (
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/empresia/walletadmin/internal/tenantstore/domain"
)

// ExportHeader is the fixed column order of customer exports.
var ExportHeader = []string{"id", "nombre", "fechaNacimiento", "celular", "email", "creadoEl", "ultimoUso"}

var headerAliases = map[string]string{
	"nombre":              "name",
	"name":                "name",
	"fechanacimiento":     "birth_date",
	"fecha_nacimiento":    "birth_date",
	"fecha_de_nacimiento": "birth_date",
	"birth_date":          "birth_date",
	"birthdate":           "birth_date",
	"celular":             "phone",
	"telefono":            "phone",
	"teléfono":            "phone",
	"phone":               "phone",
	"email":               "email",
	"e_mail":              "email",
	"correo":              "email",
}

// DecodeCustomers parses customer rows from r. Column names are matched
// case-insensitively against known aliases; unknown columns are ignored.
// Rows missing a name or an email are dropped and counted in skipped.
func DecodeCustomers(r io.Reader) (rows []domain.AddCustomerRequest, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, 0, nil
		}
		return nil, 0, err
	}

	fields := make(map[int]string, len(header))
	for i, column := range header {
		if field, ok := headerAliases[normalizeHeader(column)]; ok {
			fields[i] = field
		}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		var row domain.AddCustomerRequest
		for i, value := range record {
			switch fields[i] {
			case "name":
				row.Name = strings.TrimSpace(value)
			case "birth_date":
				row.BirthDate = strings.TrimSpace(value)
			case "phone":
				row.Phone = strings.TrimSpace(value)
			case "email":
				row.Email = strings.TrimSpace(value)
			}
		}

		if row.Name == "" || row.Email == "" {
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	return rows, skipped, nil
}

func normalizeHeader(column string) string {
	column = strings.ToLower(strings.TrimSpace(column))
	column = strings.TrimPrefix(column, "\uFEFF")
	replacer := strings.NewReplacer(" ", "_", "-", "_")
	return replacer.Replace(column)
}

// EncodeCustomers writes customers to w in the fixed export column order.
func EncodeCustomers(w io.Writer, customers []domain.Customer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(ExportHeader); err != nil {
		return err
	}
	for _, c := range customers {
		lastUsed := ""
		if c.LastUsedAt != nil {
			lastUsed = c.LastUsedAt.Format(time.RFC3339)
		}
		record := []string{
			c.ID,
			c.Name,
			c.BirthDate,
			c.Phone,
			c.Email,
			c.CreatedAt.Format(time.RFC3339),
			lastUsed,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
