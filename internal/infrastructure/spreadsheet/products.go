package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ProductHeader is the column layout shared by import, export and the template.
var ProductHeader = []string{
	"name", "code", "barcode", "category", "quantity", "quantity_alert",
	"buying_price", "selling_price", "tax_type", "notes",
}

var (
	ErrEmptyWorkbook = errors.New("the workbook has no header row")
	ErrTooManyRows   = errors.New("the workbook has too many rows")
)

// MissingColumnError names required header columns absent from an import.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return "missing required column(s): " + strings.Join(e.Columns, ", ")
}

// ProductRow is one product line of a sheet, as raw trimmed cell text.
// Row is the 1-based sheet row number.
type ProductRow struct {
	Row           int
	Name          string
	Code          string
	Barcode       string
	Category      string
	Quantity      string
	QuantityAlert string
	BuyingPrice   string
	SellingPrice  string
	TaxType       string
	Notes         string
}

// Values returns the cells in ProductHeader order.
func (r ProductRow) Values() []string {
	return []string{
		r.Name, r.Code, r.Barcode, r.Category, r.Quantity, r.QuantityAlert,
		r.BuyingPrice, r.SellingPrice, r.TaxType, r.Notes,
	}
}

func (r *ProductRow) set(column, value string) {
	switch column {
	case "name":
		r.Name = value
	case "code":
		r.Code = value
	case "barcode":
		r.Barcode = value
	case "category":
		r.Category = value
	case "quantity":
		r.Quantity = value
	case "quantity_alert":
		r.QuantityAlert = value
	case "buying_price":
		r.BuyingPrice = value
	case "selling_price":
		r.SellingPrice = value
	case "tax_type":
		r.TaxType = value
	case "notes":
		r.Notes = value
	}
}

// RejectedRow is an import row that failed validation, with the reason.
type RejectedRow struct {
	ProductRow
	Error string
}

// ReadProducts parses the first sheet of an xlsx workbook. Header names are
// matched case-insensitively, spaces count as underscores and unknown columns
// are ignored. Blank rows are skipped. maxRows <= 0 disables the row limit.
func ReadProducts(r io.Reader, maxRows int) ([]ProductRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	headerAt := -1
	for i, row := range rows {
		if !blank(row) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, ErrEmptyWorkbook
	}

	columns := make([]string, len(rows[headerAt]))
	found := make(map[string]bool)
	for i, h := range rows[headerAt] {
		name := normalizeHeader(h)
		columns[i] = name
		found[name] = true
	}
	var missing []string
	for _, required := range []string{"name", "selling_price"} {
		if !found[required] {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Columns: missing}
	}

	var out []ProductRow
	for i := headerAt + 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		if maxRows > 0 && len(out) >= maxRows {
			return nil, ErrTooManyRows
		}
		pr := ProductRow{Row: i + 1}
		for j, cell := range rows[i] {
			if j < len(columns) {
				pr.set(columns[j], strings.TrimSpace(cell))
			}
		}
		out = append(out, pr)
	}
	return out, nil
}

// WriteProducts writes rows under ProductHeader so the file can be imported again.
func WriteProducts(w io.Writer, rows []ProductRow) error {
	return WriteTables(w, Table{Sheet: "Products", Header: ProductHeader, Rows: productCells(rows)})
}

// WriteRejected writes rejected rows with their sheet row number and error appended.
func WriteRejected(w io.Writer, rows []RejectedRow) error {
	header := append(append([]string{}, ProductHeader...), "row", "error")
	cells := make([][]any, len(rows))
	for i, r := range rows {
		line := stringsToAny(r.Values())
		cells[i] = append(line, r.Row, r.Error)
	}
	return WriteTables(w, Table{Sheet: "Rejected", Header: header, Rows: cells})
}

// WriteTemplate writes the import header with one example row.
func WriteTemplate(w io.Writer) error {
	example := ProductRow{
		Name:          "Espresso",
		Code:          "ESP-001",
		Barcode:       "6001234567890",
		Category:      "Beverages",
		Quantity:      "100",
		QuantityAlert: "10",
		BuyingPrice:   "0.80",
		SellingPrice:  "2.50",
		TaxType:       "inclusive",
		Notes:         "",
	}
	return WriteTables(w, Table{Sheet: "Products", Header: ProductHeader, Rows: productCells([]ProductRow{example})})
}

func productCells(rows []ProductRow) [][]any {
	cells := make([][]any, len(rows))
	for i, r := range rows {
		cells[i] = stringsToAny(r.Values())
	}
	return cells
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.Fields(h), "_")
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
