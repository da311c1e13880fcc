// Package extract pulls invoice numbers out of e-invoice notification mails.
// Extraction is an ordered list of strategies applied first-match-wins, so
// the precedence stays auditable and each rule testable on its own.
package extract

import (
	"net/url"
	"regexp"
	"strings"

	"invoice-prize-checker-go/internal/models"
)

// Match is one extracted invoice number.
type Match struct {
	ParsedNumber string // the 8 digits used for prize checking
	FullNumber   string // display form, may keep the 2-letter prefix
}

// Text strategies in precedence order: the explicitly labeled form beats the
// bare letter-prefixed form beats the loosely labeled alnum form.
var (
	labeledRe = regexp.MustCompile(`發票號碼[:：\s]*([A-Z]{2}[- ]?\d{8})`)
	strictRe  = regexp.MustCompile(`[A-Z]{2}[- ]?(\d{8})`)
	looseRe   = regexp.MustCompile(`號碼[:：\s]*([A-Z0-9-]{8,11})`)

	nonDigitRe = regexp.MustCompile(`[^0-9]`)
)

// Filename header forms; RFC 2231 extended names first.
var (
	extFilenameRe = regexp.MustCompile(`(?i)filename\*\s*=\s*([^;]+)`)
	filenameRe    = regexp.MustCompile(`(?i)filename\s*=\s*"?([^";]+)"?`)
	nameRe        = regexp.MustCompile(`(?i)name\s*=\s*"?([^";]+)"?`)
)

// FromText tries the three patterns on one piece of text.
func FromText(text string) *Match {
	if text == "" {
		return nil
	}
	normalized := strings.ToUpper(text)

	if m := labeledRe.FindStringSubmatch(normalized); m != nil {
		parsed := nonDigitRe.ReplaceAllString(m[1], "")
		if len(parsed) == 8 {
			return &Match{ParsedNumber: parsed, FullNumber: m[1]}
		}
	}
	if m := strictRe.FindStringSubmatch(normalized); m != nil {
		return &Match{ParsedNumber: m[1], FullNumber: m[0]}
	}
	if m := looseRe.FindStringSubmatch(normalized); m != nil {
		parsed := nonDigitRe.ReplaceAllString(m[1], "")
		if len(parsed) == 8 {
			return &Match{ParsedNumber: parsed, FullNumber: m[1]}
		}
	}
	return nil
}

// FromMessage applies the fallback chain of one message:
// subject, attachment/part filenames, snippet, then decoded body text.
func FromMessage(msg *models.MessageDetail) *Match {
	if msg == nil {
		return nil
	}
	if m := FromText(msg.Subject); m != nil {
		return m
	}
	if m := fromFilenames(msg.Payload); m != nil {
		return m
	}
	if m := FromText(msg.Snippet); m != nil {
		return m
	}
	return fromBodyText(msg.Payload)
}

func fromFilenames(payload *models.MessagePart) *Match {
	if payload == nil {
		return nil
	}
	stack := []*models.MessagePart{payload}
	for len(stack) > 0 {
		part := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i := range part.Parts {
			stack = append(stack, &part.Parts[i])
		}
		for _, name := range filenameCandidates(part) {
			if m := FromText(name); m != nil {
				return m
			}
		}
	}
	return nil
}

func filenameCandidates(part *models.MessagePart) []string {
	var candidates []string
	if part.Filename != "" {
		candidates = append(candidates, part.Filename)
	}
	for name, value := range part.Headers {
		switch strings.ToLower(name) {
		case "content-disposition", "content-type":
			candidates = append(candidates, filenamesFromHeader(value)...)
		}
	}
	return candidates
}

// filenamesFromHeader recovers candidate names from a Content-Disposition or
// Content-Type header value, including the RFC 2231 filename* form.
func filenamesFromHeader(value string) []string {
	if value == "" {
		return nil
	}
	var names []string
	if m := extFilenameRe.FindStringSubmatch(value); m != nil {
		raw := strings.TrimSpace(m[1])
		raw = strings.TrimPrefix(raw, "UTF-8''")
		raw = strings.TrimPrefix(raw, "utf-8''")
		raw = strings.Trim(raw, `"`)
		if decoded, err := url.PathUnescape(raw); err == nil {
			names = append(names, decoded)
		} else {
			names = append(names, raw)
		}
	}
	if m := filenameRe.FindStringSubmatch(value); m != nil {
		names = append(names, strings.TrimSpace(m[1]))
	}
	if m := nameRe.FindStringSubmatch(value); m != nil {
		names = append(names, strings.TrimSpace(m[1]))
	}
	return names
}

func fromBodyText(payload *models.MessagePart) *Match {
	if payload == nil {
		return nil
	}
	stack := []*models.MessagePart{payload}
	for len(stack) > 0 {
		part := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i := range part.Parts {
			stack = append(stack, &part.Parts[i])
		}
		if part.Body == "" {
			continue
		}
		if strings.HasPrefix(part.MimeType, "text/plain") || strings.HasPrefix(part.MimeType, "text/html") {
			if m := FromText(part.Body); m != nil {
				return m
			}
		}
	}
	return nil
}
