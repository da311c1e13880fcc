// Package scanner runs the mailbox scan: paged message listing, sequential
// per-message processing, strict date filtering, prize matching, and history
// accumulation.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"invoice-prize-checker-go/internal/extract"
	"invoice-prize-checker-go/internal/fetcher"
	"invoice-prize-checker-go/internal/lottery"
	"invoice-prize-checker-go/internal/metrics"
	"invoice-prize-checker-go/internal/models"
	"invoice-prize-checker-go/internal/period"
)

// State is the scan lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateProcessing
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateProcessing:
		return "processing"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

var (
	// ErrNoWinningData rejects a scan before any network activity when no
	// period data has been loaded.
	ErrNoWinningData = errors.New("no winning-number data loaded")
	// ErrScanInProgress rejects a second concurrent scan.
	ErrScanInProgress = errors.New("a scan is already in progress")
)

// Progress is one incremental snapshot of a running scan.
type Progress struct {
	State     State  `json:"state"`
	StateName string `json:"stateName"`
	Message   string `json:"message,omitempty"`
	Total     int    `json:"total"`
	Processed int    `json:"processed"`
	ValidDate int    `json:"validDate"`
	Matches   int    `json:"matches"`
}

// Entry pairs one scanned message with its check outcome.
type Entry struct {
	Message models.MessageDetail `json:"message"`
	Check   models.CheckResult   `json:"check"`
}

// Report is the accumulated outcome of one scan. On error it carries
// whatever was gathered before the fault.
type Report struct {
	Winners        []Entry `json:"winners"`
	Log            []Entry `json:"log"`
	TotalFetched   int     `json:"totalFetched"`
	ValidDateCount int     `json:"validDateCount"`
	WindowLabel    string  `json:"windowLabel,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// HistoryStore is the slice of the persistence layer the scan needs: read
// once at start, write once at the end.
type HistoryStore interface {
	GetHistory() ([]models.HistoryItem, error)
	SaveHistoryList(list []models.HistoryItem) error
}

// Scanner drives scans over one message source. One scan runs at a time;
// processing is deliberately sequential with a short pause per message to
// stay under the provider's rate limits.
type Scanner struct {
	source  fetcher.MessageSource
	store   HistoryStore
	metrics *metrics.Metrics

	label       string
	maxMessages int
	delay       time.Duration

	mu       sync.Mutex
	running  bool
	cancel   context.CancelFunc
	progress Progress
	report   *Report
}

// New creates a Scanner.
func New(source fetcher.MessageSource, store HistoryStore, m *metrics.Metrics, label string, maxMessages int, delay time.Duration) *Scanner {
	if maxMessages <= 0 {
		maxMessages = 2000
	}
	return &Scanner{
		source:      source,
		store:       store,
		metrics:     m,
		label:       label,
		maxMessages: maxMessages,
		delay:       delay,
		progress:    Progress{State: StateIdle, StateName: StateIdle.String()},
	}
}

// Start launches a scan in the background. It fails synchronously when no
// period data is available or a scan is already running.
func (s *Scanner) Start(periods []models.WinningNumbers, onProgress func(Progress)) error {
	if len(periods) == 0 {
		return ErrNoWinningData
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrScanInProgress
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.running = true
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		defer cancel()
		if _, err := s.Run(ctx, periods, onProgress); err != nil {
			logrus.Errorf("Mailbox scan failed: %v", err)
		}
	}()
	return nil
}

// Cancel aborts a running scan between messages.
func (s *Scanner) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Status returns the latest progress snapshot and report.
func (s *Scanner) Status() (Progress, *Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress, s.report
}

// Run executes one scan synchronously. Partial results are preserved in the
// report on any fault.
func (s *Scanner) Run(ctx context.Context, periods []models.WinningNumbers, onProgress func(Progress)) (*Report, error) {
	if len(periods) == 0 {
		return nil, ErrNoWinningData
	}

	defer func() {
		s.mu.Lock()
		s.running = false
		s.cancel = nil
		s.mu.Unlock()
	}()

	start := time.Now()
	if s.metrics != nil {
		s.metrics.ScanCount.Inc()
		defer func() {
			s.metrics.ScanDuration.Observe(time.Since(start).Seconds())
		}()
	}

	report := &Report{}
	window := period.Resolve(periods)
	query := "label:" + s.label
	if window != nil {
		// Label parse failure degrades to an unbounded, label-only query
		// with no client-side date filter.
		query += fmt.Sprintf(" after:%s before:%s", window.APIQueryAfter, window.APIQueryBefore)
		report.WindowLabel = window.Label
	}

	s.update(onProgress, Progress{State: StateFetching, StateName: StateFetching.String(), Message: "searching mailbox"})
	s.setReport(report)

	ids, err := s.source.List(ctx, query, s.maxMessages)
	if err != nil {
		return s.fail(report, onProgress, fmt.Errorf("failed to list messages: %w", err))
	}
	report.TotalFetched = len(ids)

	logrus.Infof("Scan found %d candidate messages for query %q", len(ids), query)

	existing, err := s.store.GetHistory()
	historyUnavailable := err != nil
	if historyUnavailable {
		logrus.Warnf("Failed to read history before scan, deduplication disabled: %v", err)
		existing = nil
	}
	seen := make(map[string]bool, len(existing))
	for _, h := range existing {
		seen[h.Number] = true
	}

	var newItems []models.HistoryItem
	progress := Progress{State: StateProcessing, StateName: StateProcessing.String(), Total: len(ids)}
	s.update(onProgress, progress)

	for _, id := range ids {
		select {
		case <-ctx.Done():
			return s.fail(report, onProgress, ctx.Err())
		default:
		}

		progress.Processed++
		if s.metrics != nil {
			s.metrics.MessagesProcessed.Inc()
		}

		detail, err := s.source.Get(ctx, id)
		if err != nil {
			return s.fail(report, onProgress, fmt.Errorf("failed to fetch message %s: %w", id, err))
		}
		if detail == nil {
			s.update(onProgress, progress)
			s.pause()
			continue
		}

		// Strict client-side filter: the provider-side query is loose on
		// purpose, anything outside the window is dropped silently.
		if window != nil && (detail.InternalDate < window.MinTimestamp || detail.InternalDate > window.MaxTimestamp) {
			s.update(onProgress, progress)
			s.pause()
			continue
		}
		progress.ValidDate++
		report.ValidDateCount++

		check := models.CheckResult{PrizeType: models.PrizeNone, PrizeLabel: lottery.Label(models.PrizeNone)}
		if m := extract.FromMessage(detail); m != nil {
			detail.ParsedNumber = m.ParsedNumber
			detail.FullNumber = m.FullNumber
			check = lottery.CheckAcrossPeriods(m.ParsedNumber, periods)
		} else {
			detail.FullNumber = "未解析"
		}

		if check.IsMatch {
			report.Winners = append(report.Winners, Entry{Message: *detail, Check: check})
			progress.Matches++
			if s.metrics != nil {
				s.metrics.MatchCount.Inc()
			}
			if !seen[detail.ParsedNumber] {
				seen[detail.ParsedNumber] = true
				newItems = append(newItems, models.HistoryItem{
					ID:        uuid.NewString(),
					Number:    detail.ParsedNumber,
					Timestamp: detail.InternalDate,
					Result:    check,
				})
			}
		}

		// Every message that passed the date filter lands in the log,
		// winning or not.
		report.Log = append(report.Log, Entry{Message: *detail, Check: check})
		s.setReport(report)
		s.update(onProgress, progress)
		s.pause()
	}

	if len(newItems) > 0 {
		// SaveHistoryList replaces the whole table; with the prior entries
		// unread, a merged save would wipe them. Findings stay in the report.
		if historyUnavailable {
			logrus.Warnf("History unavailable at scan start, not persisting %d new entries", len(newItems))
		} else if err := s.store.SaveHistoryList(models.MergeHistory(newItems, existing)); err != nil {
			logrus.Errorf("Failed to save scan history: %v", err)
		}
	}

	progress.State = StateDone
	progress.StateName = StateDone.String()
	progress.Message = fmt.Sprintf("scanned %d messages in window, %d winners", report.ValidDateCount, len(report.Winners))
	s.update(onProgress, progress)
	s.setReport(report)

	logrus.Infof("Scan completed: %d fetched, %d in date window, %d winners", report.TotalFetched, report.ValidDateCount, len(report.Winners))
	return report, nil
}

func (s *Scanner) fail(report *Report, onProgress func(Progress), err error) (*Report, error) {
	if s.metrics != nil {
		s.metrics.ScanFailures.Inc()
	}
	report.Error = err.Error()

	s.mu.Lock()
	progress := s.progress
	s.mu.Unlock()
	progress.State = StateError
	progress.StateName = StateError.String()
	progress.Message = err.Error()

	s.update(onProgress, progress)
	s.setReport(report)
	return report, err
}

func (s *Scanner) update(onProgress func(Progress), p Progress) {
	s.mu.Lock()
	s.progress = p
	s.mu.Unlock()
	if onProgress != nil {
		onProgress(p)
	}
}

func (s *Scanner) setReport(report *Report) {
	snapshot := *report
	s.mu.Lock()
	s.report = &snapshot
	s.mu.Unlock()
}

func (s *Scanner) pause() {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
}
