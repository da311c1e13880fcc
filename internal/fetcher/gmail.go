package fetcher

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"invoice-prize-checker-go/internal/models"
)

// Gmail caps a single list page at 500 results.
const gmailPageSize = 500

// GmailSource implements MessageSource using the Gmail API
type GmailSource struct {
	service *gmail.Service
	session *Session
}

// NewGmailSource creates a Gmail-API backed message source
func NewGmailSource(ctx context.Context, session *Session) (*GmailSource, error) {
	ts := session.TokenSource()
	if ts == nil {
		return nil, fmt.Errorf("session has been invalidated")
	}
	service, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &GmailSource{service: service, session: session}, nil
}

// List returns message ids for the query, following page tokens until the
// mailbox runs out or maxCount is reached.
func (s *GmailSource) List(ctx context.Context, query string, maxCount int) ([]string, error) {
	var ids []string
	pageToken := ""

	for {
		call := s.service.Users.Messages.List(s.session.User()).
			Q(query).
			MaxResults(gmailPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}

		for _, msg := range response.Messages {
			ids = append(ids, msg.Id)
		}

		pageToken = response.NextPageToken
		if pageToken == "" || len(ids) >= maxCount {
			break
		}
	}

	if len(ids) > maxCount {
		ids = ids[:maxCount]
	}
	return ids, nil
}

// Get fetches one message in full. Failures are logged and reported as
// (nil, nil) so the scan can skip the message.
func (s *GmailSource) Get(ctx context.Context, id string) (*models.MessageDetail, error) {
	msg, err := s.service.Users.Messages.Get(s.session.User(), id).Format("full").Context(ctx).Do()
	if err != nil {
		logrus.Warnf("Failed to get message %s: %v", id, err)
		return nil, nil
	}

	detail := &models.MessageDetail{
		ID:           msg.Id,
		InternalDate: msg.InternalDate,
		Snippet:      msg.Snippet,
		Subject:      "無主旨",
	}
	if msg.Payload != nil {
		for _, header := range msg.Payload.Headers {
			if header.Name == "Subject" {
				detail.Subject = header.Value
				break
			}
		}
		detail.Payload = convertPart(msg.Payload)
	}
	return detail, nil
}

// Close closes the Gmail source
func (s *GmailSource) Close() error {
	// Gmail API service doesn't need explicit closing
	return nil
}

// convertPart maps one Gmail MIME part (and its children) onto the shared
// part tree, decoding text bodies on the way.
func convertPart(part *gmail.MessagePart) *models.MessagePart {
	converted := &models.MessagePart{
		MimeType: part.MimeType,
		Filename: part.Filename,
	}

	if len(part.Headers) > 0 {
		converted.Headers = make(map[string]string, len(part.Headers))
		for _, header := range part.Headers {
			converted.Headers[strings.ToLower(header.Name)] = header.Value
		}
	}

	if part.Body != nil && part.Body.Data != "" && strings.HasPrefix(part.MimeType, "text/") {
		if data, err := decodeBase64URL(part.Body.Data); err == nil {
			converted.Body = data
		}
	}

	for _, sub := range part.Parts {
		converted.Parts = append(converted.Parts, *convertPart(sub))
	}
	return converted
}

// decodeBase64URL handles both padded and unpadded base64url, which the API
// mixes freely.
func decodeBase64URL(data string) (string, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		decoded, err = base64.URLEncoding.DecodeString(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode body data: %w", err)
		}
	}
	return string(decoded), nil
}
