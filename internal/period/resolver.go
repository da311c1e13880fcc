// Package period turns draw-period labels like "112年 09-10月" into concrete
// date windows for the mailbox query and the strict client-side filter.
package period

import (
	"regexp"
	"strconv"
	"time"

	"invoice-prize-checker-go/internal/models"
)

// ScanWindow is derived from one or more periods, never persisted.
type ScanWindow struct {
	// MinTimestamp/MaxTimestamp bound the strict filter in epoch ms. The
	// upper bound carries a 2-day grace period because invoice mails can
	// arrive after the invoice date; the lower bound gets no grace.
	MinTimestamp int64 `json:"minTimestamp"`
	MaxTimestamp int64 `json:"maxTimestamp"`
	// APIQueryAfter/APIQueryBefore are deliberately loose (±5 days) bounds
	// for the provider-side search string, formatted YYYY/MM/DD.
	APIQueryAfter  string `json:"apiQueryAfter"`
	APIQueryBefore string `json:"apiQueryBefore"`
	Label          string `json:"label"`
}

const (
	strictGraceDays = 2
	queryBufferDays = 5
	dateFormat      = "2006/01/02"
)

var (
	yearRe  = regexp.MustCompile(`(\d{2,4})\s*年`)
	monthRe = regexp.MustCompile(`(\d{1,2})\s*[-~～－至]\s*(\d{1,2})\s*月`)
)

// The draw is Taiwan-local; a server running in UTC must not shift the
// period boundaries.
var loc = mustLocation()

func mustLocation() *time.Location {
	l, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		return time.Local
	}
	return l
}

// Resolve computes the overall scan window across all supplied periods.
// Returns nil when no period label parses; the caller then degrades to an
// unbounded, label-only query.
func Resolve(periods []models.WinningNumbers) *ScanWindow {
	var minDate, maxDate time.Time
	found := false

	for _, p := range periods {
		start, end, ok := parseLabel(p.Period)
		if !ok {
			continue
		}
		if !found || start.Before(minDate) {
			minDate = start
		}
		if !found || end.After(maxDate) {
			maxDate = end
		}
		found = true
	}
	if !found {
		return nil
	}

	return &ScanWindow{
		MinTimestamp:   minDate.UnixMilli(),
		MaxTimestamp:   maxDate.UnixMilli() + strictGraceDays*24*int64(time.Hour/time.Millisecond),
		APIQueryAfter:  minDate.AddDate(0, 0, -queryBufferDays).Format(dateFormat),
		APIQueryBefore: maxDate.AddDate(0, 0, queryBufferDays).Format(dateFormat),
		Label:          minDate.Format(dateFormat) + " ~ " + maxDate.Format(dateFormat),
	}
}

// parseLabel extracts the calendar range of one label. Years below 1911 are
// ROC years and convert via +1911.
func parseLabel(label string) (start, end time.Time, ok bool) {
	ym := yearRe.FindStringSubmatch(label)
	mm := monthRe.FindStringSubmatch(label)
	if ym == nil || mm == nil {
		return time.Time{}, time.Time{}, false
	}

	year, err1 := strconv.Atoi(ym[1])
	startMonth, err2 := strconv.Atoi(mm[1])
	endMonth, err3 := strconv.Atoi(mm[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, time.Time{}, false
	}
	if startMonth < 1 || startMonth > 12 || endMonth < 1 || endMonth > 12 {
		return time.Time{}, time.Time{}, false
	}
	if year < 1911 {
		year += 1911
	}

	start = time.Date(year, time.Month(startMonth), 1, 0, 0, 0, 0, loc)
	// Day 0 of the following month normalizes to the period's last day.
	end = time.Date(year, time.Month(endMonth)+1, 0, 23, 59, 59, int(999*time.Millisecond), loc)
	return start, end, true
}

// ScanPeriods slices the newest-first list down to the period at index plus
// its predecessor, the two draws an invoice can still be redeemed against.
func ScanPeriods(list []models.WinningNumbers, index int) []models.WinningNumbers {
	if len(list) == 0 {
		return nil
	}
	if index < 0 {
		index = 0
	}
	if index > len(list)-1 {
		index = len(list) - 1
	}
	end := index + 2
	if end > len(list) {
		end = len(list)
	}
	return list[index:end]
}
