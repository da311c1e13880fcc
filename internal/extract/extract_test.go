package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"invoice-prize-checker-go/internal/models"
)

func TestFromTextLabeledForm(t *testing.T) {
	m := FromText("您的發票號碼：AB-12345678，金額 120 元")
	assert.NotNil(t, m)
	assert.Equal(t, "12345678", m.ParsedNumber)
	assert.Equal(t, "AB-12345678", m.FullNumber)

	m = FromText("發票號碼 CD98765432")
	assert.NotNil(t, m)
	assert.Equal(t, "98765432", m.ParsedNumber)
}

func TestFromTextStrictForm(t *testing.T) {
	m := FromText("電子發票 EF 11223344 開立通知")
	assert.NotNil(t, m)
	assert.Equal(t, "11223344", m.ParsedNumber)
	assert.Equal(t, "EF 11223344", m.FullNumber)
}

func TestFromTextLooseForm(t *testing.T) {
	// No letter prefix, only the 號碼 label followed by digits and dashes.
	m := FromText("號碼: 1234-5678")
	assert.NotNil(t, m)
	assert.Equal(t, "12345678", m.ParsedNumber)

	// Loose matches that don't reduce to exactly 8 digits are rejected.
	assert.Nil(t, FromText("號碼: 123456789012"))
}

func TestFromTextLowercaseInput(t *testing.T) {
	m := FromText("發票號碼：ab12345678")
	assert.NotNil(t, m)
	assert.Equal(t, "12345678", m.ParsedNumber)
}

func TestFromTextPrecedence(t *testing.T) {
	// A labeled number beats an earlier bare one in the same text.
	m := FromText("XY11112222 之前的字 發票號碼：AB-33334444")
	assert.NotNil(t, m)
	assert.Equal(t, "33334444", m.ParsedNumber)
}

func TestFromTextNoMatch(t *testing.T) {
	assert.Nil(t, FromText(""))
	assert.Nil(t, FromText("本期未開立發票"))
	assert.Nil(t, FromText("AB-1234567")) // 7 digits
}

func TestFromMessageChainOrder(t *testing.T) {
	msg := &models.MessageDetail{
		Subject: "發票號碼：AB-11111111",
		Snippet: "發票號碼：CD-22222222",
		Payload: &models.MessagePart{
			MimeType: "text/plain",
			Body:     "發票號碼：EF-33333333",
		},
	}

	// Subject wins.
	m := FromMessage(msg)
	assert.NotNil(t, m)
	assert.Equal(t, "11111111", m.ParsedNumber)

	// Without a subject hit the snippet wins over the body.
	msg.Subject = "電子發票開立通知"
	m = FromMessage(msg)
	assert.NotNil(t, m)
	assert.Equal(t, "22222222", m.ParsedNumber)

	// Body is the last resort.
	msg.Snippet = ""
	m = FromMessage(msg)
	assert.NotNil(t, m)
	assert.Equal(t, "33333333", m.ParsedNumber)
}

func TestFromMessageFilenameBeatsSnippet(t *testing.T) {
	msg := &models.MessageDetail{
		Subject: "電子發票開立通知",
		Snippet: "發票號碼：CD-22222222",
		Payload: &models.MessagePart{
			MimeType: "multipart/mixed",
			Parts: []models.MessagePart{
				{
					MimeType: "application/pdf",
					Filename: "AB-44445555.pdf",
				},
			},
		},
	}

	m := FromMessage(msg)
	assert.NotNil(t, m)
	assert.Equal(t, "44445555", m.ParsedNumber)
}

func TestFromMessageRFC2231Filename(t *testing.T) {
	msg := &models.MessageDetail{
		Payload: &models.MessagePart{
			MimeType: "multipart/mixed",
			Parts: []models.MessagePart{
				{
					MimeType: "application/pdf",
					Headers: map[string]string{
						"content-disposition": `attachment; filename*=UTF-8''%E7%99%BC%E7%A5%A8AB12345678.pdf`,
					},
				},
			},
		},
	}

	m := FromMessage(msg)
	assert.NotNil(t, m)
	assert.Equal(t, "12345678", m.ParsedNumber)
}

func TestFromMessageQuotedFilenameHeader(t *testing.T) {
	msg := &models.MessageDetail{
		Payload: &models.MessagePart{
			Headers: map[string]string{
				"content-type": `application/octet-stream; name="CD 87654321.xml"`,
			},
		},
	}

	m := FromMessage(msg)
	assert.NotNil(t, m)
	assert.Equal(t, "87654321", m.ParsedNumber)
}

func TestFromMessageHTMLBody(t *testing.T) {
	msg := &models.MessageDetail{
		Payload: &models.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []models.MessagePart{
				{MimeType: "image/png", Body: "not-text"},
				{
					MimeType: "text/html; charset=utf-8",
					Body:     "<p>發票號碼：GH-55556666</p>",
				},
			},
		},
	}

	m := FromMessage(msg)
	assert.NotNil(t, m)
	assert.Equal(t, "55556666", m.ParsedNumber)
}

func TestFromMessageNil(t *testing.T) {
	assert.Nil(t, FromMessage(nil))
	assert.Nil(t, FromMessage(&models.MessageDetail{Subject: "hi"}))
}
