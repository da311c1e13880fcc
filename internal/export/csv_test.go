package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"invoice-prize-checker-go/internal/models"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	records := []models.InvoiceRecord{
		{InvoiceNumber: "AB-12345678", Date: "2023/09/15", Amount: 120, StoreName: "全家便利商店"},
		{InvoiceNumber: "CD-87654321", Date: "2023/10/02", Amount: 1500, StoreName: `咖啡店 "老地方"`},
	}

	err := WriteCSV(&buf, records)
	assert.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, utf8BOM))

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, utf8BOM)), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "發票號碼,日期,總金額,商家名稱", lines[0])
	assert.Equal(t, "AB-12345678,2023/09/15,120,全家便利商店", lines[1])
	// Quotes in the store name are escaped per RFC 4180.
	assert.Equal(t, `CD-87654321,2023/10/02,1500,"咖啡店 ""老地方"""`, lines[2])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer

	err := WriteCSV(&buf, nil)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(buf.String(), utf8BOM)), "\n")
	assert.Len(t, lines, 1)
	assert.Equal(t, "發票號碼,日期,總金額,商家名稱", lines[0])
}
