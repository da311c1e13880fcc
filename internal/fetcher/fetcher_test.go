package fetcher

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"invoice-prize-checker-go/internal/models"
)

func TestDecodeBase64URL(t *testing.T) {
	plain := "發票號碼：AB-12345678"

	padded := base64.URLEncoding.EncodeToString([]byte(plain))
	got, err := decodeBase64URL(padded)
	assert.NoError(t, err)
	assert.Equal(t, plain, got)

	raw := base64.RawURLEncoding.EncodeToString([]byte(plain))
	got, err = decodeBase64URL(raw)
	assert.NoError(t, err)
	assert.Equal(t, plain, got)

	_, err = decodeBase64URL("!!!not-base64!!!")
	assert.Error(t, err)
}

func TestParseQueryDates(t *testing.T) {
	after, before := parseQueryDates("label:電子發票 after:2023/08/27 before:2023/11/05")
	assert.Equal(t, time.Date(2023, time.August, 27, 0, 0, 0, 0, time.UTC), after)
	assert.Equal(t, time.Date(2023, time.November, 5, 0, 0, 0, 0, time.UTC), before)

	// Label-only query leaves both bounds open.
	after, before = parseQueryDates("label:電子發票")
	assert.True(t, after.IsZero())
	assert.True(t, before.IsZero())

	// Malformed dates are ignored rather than failing the search.
	after, _ = parseQueryDates("after:yesterday")
	assert.True(t, after.IsZero())
}

func TestParseEntityBodyMultipart(t *testing.T) {
	rawMessage := strings.Join([]string{
		"Content-Type: multipart/mixed; boundary=xyz",
		"",
		"--xyz",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"您的電子發票已開立，號碼: 1234-5678",
		"--xyz",
		"Content-Type: application/pdf; name=\"AB-12345678.pdf\"",
		"Content-Disposition: attachment; filename=\"AB-12345678.pdf\"",
		"",
		"%PDF-fake",
		"--xyz--",
		"",
	}, "\r\n")

	payload, err := parseEntityBody(strings.NewReader(rawMessage))
	assert.NoError(t, err)
	assert.NotNil(t, payload)
	assert.Equal(t, "multipart/mixed", payload.MimeType)
	assert.Len(t, payload.Parts, 2)

	text := payload.Parts[0]
	assert.Equal(t, "text/plain", text.MimeType)
	assert.Contains(t, text.Body, "1234-5678")

	pdf := payload.Parts[1]
	assert.Equal(t, "AB-12345678.pdf", pdf.Filename)
	assert.Contains(t, pdf.Headers["content-disposition"], "AB-12345678.pdf")
	// Non-text bodies are not decoded.
	assert.Empty(t, pdf.Body)
}

func TestSnippetOf(t *testing.T) {
	payload := &models.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []models.MessagePart{
			{MimeType: "text/html", Body: "<p>hello</p>"},
			{MimeType: "text/plain", Body: "  您的發票號碼：AB-12345678  "},
		},
	}

	snippet := snippetOf(payload)
	assert.Equal(t, "您的發票號碼：AB-12345678", snippet)

	long := &models.MessagePart{MimeType: "text/plain", Body: strings.Repeat("a", 500)}
	assert.Len(t, snippetOf(long), 200)

	assert.Empty(t, snippetOf(&models.MessagePart{MimeType: "image/png", Body: "x"}))
}
