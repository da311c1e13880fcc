package fetcher

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message"
	"github.com/sirupsen/logrus"

	"invoice-prize-checker-go/internal/config"
	"invoice-prize-checker-go/internal/models"
)

// IMAPSource implements MessageSource over plain IMAP, for mailboxes without
// Gmail API access. The Gmail-style query string is reduced to its date
// bounds; IMAP has no label search, so the date window plus the client-side
// strict filter carry the narrowing.
type IMAPSource struct {
	client *client.Client
}

// NewIMAPSource connects and logs in to the IMAP server
func NewIMAPSource(cfg *config.GmailConfig) (*IMAPSource, error) {
	c, err := client.DialTLS(fmt.Sprintf("%s:%d", cfg.IMAPHost, cfg.IMAPPort), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to IMAP server: %w", err)
	}
	if err := c.Login(cfg.IMAPUser, cfg.IMAPPassword); err != nil {
		c.Logout()
		return nil, fmt.Errorf("failed to login to IMAP server: %w", err)
	}
	return &IMAPSource{client: c}, nil
}

// List searches INBOX for messages inside the query's date bounds.
func (s *IMAPSource) List(ctx context.Context, query string, maxCount int) ([]string, error) {
	if _, err := s.client.Select("INBOX", true); err != nil {
		return nil, fmt.Errorf("failed to select INBOX: %w", err)
	}

	criteria := imap.NewSearchCriteria()
	after, before := parseQueryDates(query)
	if !after.IsZero() {
		criteria.Since = after
	}
	if !before.IsZero() {
		criteria.Before = before
	}

	uids, err := s.client.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}

	if len(uids) > maxCount {
		uids = uids[:maxCount]
	}
	ids := make([]string, 0, len(uids))
	for _, uid := range uids {
		ids = append(ids, strconv.FormatUint(uint64(uid), 10))
	}
	return ids, nil
}

// Get fetches one message by sequence number. Like the Gmail source, a
// per-message failure is logged and reported as (nil, nil).
func (s *IMAPSource) Get(ctx context.Context, id string) (*models.MessageDetail, error) {
	seq, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		logrus.Warnf("Invalid IMAP message id %q: %v", id, err)
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uint32(seq))

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.client.Fetch(seqset, items, messages)
	}()

	var fetched *imap.Message
	for msg := range messages {
		fetched = msg
	}
	if err := <-done; err != nil {
		logrus.Warnf("Failed to fetch IMAP message %s: %v", id, err)
		return nil, nil
	}
	if fetched == nil {
		return nil, nil
	}

	detail := &models.MessageDetail{ID: id, Subject: "無主旨"}
	if fetched.Envelope != nil {
		if fetched.Envelope.Subject != "" {
			detail.Subject = fetched.Envelope.Subject
		}
		detail.InternalDate = fetched.Envelope.Date.UnixMilli()
	}
	if detail.InternalDate == 0 && !fetched.InternalDate.IsZero() {
		detail.InternalDate = fetched.InternalDate.UnixMilli()
	}

	if body := fetched.GetBody(section); body != nil {
		if payload, err := parseEntityBody(body); err != nil {
			logrus.Warnf("Failed to parse IMAP message %s body: %v", id, err)
		} else {
			detail.Payload = payload
			detail.Snippet = snippetOf(payload)
		}
	}
	return detail, nil
}

// Close logs out of the IMAP server
func (s *IMAPSource) Close() error {
	return s.client.Logout()
}

// parseQueryDates extracts after:/before: tokens of a Gmail search string.
func parseQueryDates(query string) (after, before time.Time) {
	for _, field := range strings.Fields(query) {
		switch {
		case strings.HasPrefix(field, "after:"):
			if t, err := time.Parse("2006/01/02", strings.TrimPrefix(field, "after:")); err == nil {
				after = t
			}
		case strings.HasPrefix(field, "before:"):
			if t, err := time.Parse("2006/01/02", strings.TrimPrefix(field, "before:")); err == nil {
				before = t
			}
		}
	}
	return after, before
}

// parseEntityBody converts a raw RFC 822 body into the shared part tree.
func parseEntityBody(r io.Reader) (*models.MessagePart, error) {
	entity, err := message.Read(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	return convertEntity(entity)
}

func convertEntity(entity *message.Entity) (*models.MessagePart, error) {
	contentType, params, _ := entity.Header.ContentType()
	part := &models.MessagePart{
		MimeType: contentType,
		Headers: map[string]string{
			"content-type": entity.Header.Get("Content-Type"),
		},
	}
	if disposition := entity.Header.Get("Content-Disposition"); disposition != "" {
		part.Headers["content-disposition"] = disposition
	}
	if name, ok := params["name"]; ok {
		part.Filename = name
	}

	if mr := entity.MultipartReader(); mr != nil {
		for {
			sub, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("failed to read part: %w", err)
			}
			converted, err := convertEntity(sub)
			if err != nil {
				return nil, err
			}
			part.Parts = append(part.Parts, *converted)
		}
		return part, nil
	}

	if strings.HasPrefix(contentType, "text/") {
		content, err := io.ReadAll(entity.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read part body: %w", err)
		}
		part.Body = string(content)
	}
	return part, nil
}

// snippetOf returns the head of the first plain-text body, standing in for
// the Gmail snippet field.
func snippetOf(payload *models.MessagePart) string {
	stack := []*models.MessagePart{payload}
	for len(stack) > 0 {
		part := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i := range part.Parts {
			stack = append(stack, &part.Parts[i])
		}
		if strings.HasPrefix(part.MimeType, "text/plain") && part.Body != "" {
			body := strings.TrimSpace(part.Body)
			if len(body) > 200 {
				body = body[:200]
			}
			return body
		}
	}
	return ""
}
