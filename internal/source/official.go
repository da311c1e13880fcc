// Package source loads the official winning numbers from the Ministry of
// Finance RSS feed and caches them in memory.
package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"invoice-prize-checker-go/internal/config"
	"invoice-prize-checker-go/internal/models"
)

const feedTitleSuffix = "統一發票中獎號碼單"

// rss mirrors just the feed fields we read.
type rss struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
}

// Feed fetches and caches the published winning numbers, newest first.
type Feed struct {
	client     *http.Client
	url        string
	ttl        time.Duration
	maxPeriods int
	loc        *time.Location

	mu        sync.RWMutex
	cached    []models.WinningNumbers
	fetchedAt time.Time
}

// New creates a Feed from configuration
func New(cfg *config.LotteryConfig) *Feed {
	loc, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		loc = time.Local
	}
	maxPeriods := cfg.MaxPeriods
	if maxPeriods <= 0 {
		maxPeriods = 3
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Feed{
		client:     &http.Client{Timeout: 30 * time.Second},
		url:        cfg.FeedURL,
		ttl:        ttl,
		maxPeriods: maxPeriods,
		loc:        loc,
	}
}

// Latest returns the cached periods, refreshing from the network when forced,
// expired, or when a fresh draw should have been published since the cache
// was taken. On a failed refresh the stale cache is returned as a fallback.
func (f *Feed) Latest(ctx context.Context, force bool) ([]models.WinningNumbers, error) {
	f.mu.RLock()
	cached := f.cached
	fetchedAt := f.fetchedAt
	f.mu.RUnlock()

	if !force && len(cached) > 0 && !f.expired(fetchedAt, time.Now().In(f.loc)) {
		return cached, nil
	}

	fresh, err := f.fetch(ctx)
	if err != nil {
		if len(cached) > 0 {
			logrus.Warnf("Winning-numbers refresh failed, using stale cache: %v", err)
			return cached, nil
		}
		return nil, err
	}

	f.mu.Lock()
	f.cached = fresh
	f.fetchedAt = time.Now()
	f.mu.Unlock()

	logrus.Infof("Loaded %d winning-number periods", len(fresh))
	return fresh, nil
}

// expired applies the TTL plus the draw-day rule: results are announced on
// the 25th of odd months at 13:30 Taipei time, so a cache taken before that
// moment is stale even inside its TTL.
func (f *Feed) expired(fetchedAt, now time.Time) bool {
	if now.Sub(fetchedAt) >= f.ttl {
		return true
	}

	isOddMonth := int(now.Month())%2 != 0
	isDrawDay := now.Day() == 25
	afterDrawTime := now.Hour() > 13 || (now.Hour() == 13 && now.Minute() >= 30)

	if isOddMonth && isDrawDay && afterDrawTime {
		cacheDate := fetchedAt.In(f.loc)
		if cacheDate.Day() != 25 || cacheDate.Month() != now.Month() {
			return true
		}
	}
	return false
}

func (f *Feed) fetch(ctx context.Context) ([]models.WinningNumbers, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch winning numbers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("winning-numbers feed returned status %d", resp.StatusCode)
	}

	var doc rss
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse winning-numbers feed: %w", err)
	}

	results := parseItems(doc.Channel.Items, f.maxPeriods)
	if len(results) == 0 {
		return nil, fmt.Errorf("no periods found in winning-numbers feed")
	}
	return results, nil
}

// parseItems extracts up to maxPeriods periods from feed items, newest first.
func parseItems(items []rssItem, maxPeriods int) []models.WinningNumbers {
	var results []models.WinningNumbers
	for _, item := range items {
		if len(results) >= maxPeriods {
			break
		}
		if !strings.Contains(item.Title, "年") || !strings.Contains(item.Title, "月") {
			continue
		}

		period := strings.TrimSpace(strings.ReplaceAll(item.Title, feedTitleSuffix, ""))
		special := numbersAfter(item.Description, "特別獎")
		grand := numbersAfter(item.Description, "特獎")
		first := numbersAfter(item.Description, "頭獎")
		additional := numbersAfter(item.Description, "增開六獎")

		if len(special) == 0 || len(grand) == 0 {
			continue
		}
		results = append(results, models.WinningNumbers{
			Period:               period,
			SpecialPrize:         special[0],
			GrandPrize:           grand[0],
			FirstPrize:           first,
			AdditionalSixthPrize: additional,
		})
	}
	return results
}

// numbersAfter finds "key：11111111、22222222" in the description and splits
// the number list.
func numbersAfter(description, key string) []string {
	re := regexp.MustCompile(key + `[：:]\s*([0-9、]+)`)
	m := re.FindStringSubmatch(description)
	if m == nil {
		return nil
	}
	var numbers []string
	for _, s := range strings.Split(m[1], "、") {
		s = strings.TrimSpace(s)
		if s != "" {
			numbers = append(numbers, s)
		}
	}
	return numbers
}
