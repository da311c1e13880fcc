// Package fetcher retrieves candidate invoice mails from the user's mailbox.
package fetcher

import (
	"context"

	"invoice-prize-checker-go/internal/models"
)

// MessageSource lists message ids matching a search query and loads full
// message details. Get returns (nil, nil) when a single message cannot be
// fetched or parsed; the scan skips it. A non-nil error from List is fatal
// for the scan.
type MessageSource interface {
	List(ctx context.Context, query string, maxCount int) ([]string, error)
	Get(ctx context.Context, id string) (*models.MessageDetail, error)
	Close() error
}
