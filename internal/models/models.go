package models

import (
	"time"
)

// HistoryLimit caps the check-history list; oldest entries fall off first.
const HistoryLimit = 50

// RecordLimit caps the stored invoice records.
const RecordLimit = 100

// PrizeType identifies a prize tier. Display text and amounts live in the
// lottery package lookup tables, not in the value itself.
type PrizeType int

const (
	PrizeNone PrizeType = iota
	PrizeSpecial
	PrizeGrand
	PrizeFirst
	PrizeSecond
	PrizeThird
	PrizeFourth
	PrizeFifth
	PrizeSixth
)

// String returns the Chinese display name of the prize tier.
func (p PrizeType) String() string {
	switch p {
	case PrizeSpecial:
		return "特別獎"
	case PrizeGrand:
		return "特獎"
	case PrizeFirst:
		return "頭獎"
	case PrizeSecond:
		return "二獎"
	case PrizeThird:
		return "三獎"
	case PrizeFourth:
		return "四獎"
	case PrizeFifth:
		return "五獎"
	case PrizeSixth:
		return "六獎"
	default:
		return "未中獎"
	}
}

// WinningNumbers holds one draw period's published numbers.
// Immutable once fetched; identified by Period.
type WinningNumbers struct {
	Period               string   `json:"period"`               // e.g. "112年 09-10月"
	SpecialPrize         string   `json:"specialPrize"`         // 特別獎 (1000萬)
	GrandPrize           string   `json:"grandPrize"`           // 特獎 (200萬)
	FirstPrize           []string `json:"firstPrize"`           // 頭獎, usually 3 sets
	AdditionalSixthPrize []string `json:"additionalSixthPrize"` // 增開六獎
}

// CheckResult is the outcome of matching one candidate number against one or
// more periods. It is a pure value, recomputed on every check.
type CheckResult struct {
	IsMatch         bool      `json:"isMatch"`
	PrizeType       PrizeType `json:"prizeType"`
	PrizeLabel      string    `json:"prizeLabel,omitempty"`
	Amount          int64     `json:"amount"`
	MatchedNumber   string    `json:"matchedNumber,omitempty" gorm:"type:varchar(16)"`
	Description     string    `json:"description,omitempty" gorm:"type:varchar(255)"`
	Period          string    `json:"period,omitempty" gorm:"type:varchar(64)"`
	IsCurrentPeriod bool      `json:"isCurrentPeriod,omitempty"`
	// IsPartial marks a suffix-only match against the Special or Grand prize
	// that still needs all 8 digits confirmed.
	IsPartial bool `json:"isPartial,omitempty"`
}

// HistoryItem is one entry of the capped check-history log.
type HistoryItem struct {
	ID        string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Number    string      `json:"number" gorm:"type:varchar(8);not null;index"`
	Timestamp int64       `json:"timestamp" gorm:"not null;index"` // epoch ms
	Result    CheckResult `json:"result" gorm:"embedded;embeddedPrefix:result_"`
}

// TableName specifies the table name for HistoryItem
func (HistoryItem) TableName() string {
	return "check_history"
}

// MergeHistory puts newItems in front of existing and truncates to
// HistoryLimit, newest first.
func MergeHistory(newItems, existing []HistoryItem) []HistoryItem {
	merged := make([]HistoryItem, 0, len(newItems)+len(existing))
	merged = append(merged, newItems...)
	merged = append(merged, existing...)
	if len(merged) > HistoryLimit {
		merged = merged[:HistoryLimit]
	}
	return merged
}

// InvoiceRecord is a stored invoice (from manual entry or OCR upstream),
// exportable as CSV.
type InvoiceRecord struct {
	ID            uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	InvoiceNumber string    `json:"invoiceNumber" gorm:"type:varchar(16);not null;index"`
	Date          string    `json:"date" gorm:"type:varchar(10)"` // YYYY/MM/DD
	Amount        int64     `json:"amount"`
	StoreName     string    `json:"storeName,omitempty" gorm:"type:varchar(255)"`
	Details       string    `json:"details,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TableName specifies the table name for InvoiceRecord
func (InvoiceRecord) TableName() string {
	return "invoice_records"
}

// MessagePart is a node of a decoded MIME-part tree. Body holds already
// decoded text for text/* parts; header names are lowercased.
type MessagePart struct {
	MimeType string            `json:"mimeType"`
	Filename string            `json:"filename,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
	Body     string            `json:"-"`
	Parts    []MessagePart     `json:"parts,omitempty"`
}

// MessageDetail is one fetched email, alive only for the duration of a scan.
type MessageDetail struct {
	ID           string       `json:"id"`
	InternalDate int64        `json:"internalDate"` // epoch ms
	Subject      string       `json:"subject"`
	Snippet      string       `json:"snippet"`
	Payload      *MessagePart `json:"-"`
	ParsedNumber string       `json:"parsedNumber,omitempty"` // 8 digits
	FullNumber   string       `json:"fullNumber,omitempty"`   // display form, may carry letter prefix
}

// CheckRequest is the manual-check request body.
type CheckRequest struct {
	Number string `json:"number" binding:"required"`
}

// RecordRequest is the save-records request body.
type RecordRequest struct {
	Records []InvoiceRecord `json:"records" binding:"required"`
}

// ScanStartResponse acknowledges an accepted scan request.
type ScanStartResponse struct {
	Status string `json:"status"`
	Window string `json:"window,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
	Periods   int       `json:"periods"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
