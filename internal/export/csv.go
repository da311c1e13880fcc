// Package export renders stored invoice records as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"invoice-prize-checker-go/internal/models"
)

// utf8BOM makes Excel read the file as UTF-8.
const utf8BOM = "\uFEFF"

var csvHeader = []string{"發票號碼", "日期", "總金額", "商家名稱"}

// WriteCSV writes records to w as a BOM-prefixed CSV document.
func WriteCSV(w io.Writer, records []models.InvoiceRecord) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, record := range records {
		row := []string{
			record.InvoiceNumber,
			record.Date,
			strconv.FormatInt(record.Amount, 10),
			record.StoreName,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
