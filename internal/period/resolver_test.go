package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"invoice-prize-checker-go/internal/models"
)

func TestResolveSinglePeriod(t *testing.T) {
	win := Resolve([]models.WinningNumbers{{Period: "112年 09-10月"}})
	assert.NotNil(t, win)

	start := time.Date(2023, time.September, 1, 0, 0, 0, 0, loc)
	end := time.Date(2023, time.October, 31, 23, 59, 59, int(999*time.Millisecond), loc)

	assert.Equal(t, start.UnixMilli(), win.MinTimestamp)
	assert.Equal(t, end.UnixMilli()+2*24*int64(time.Hour/time.Millisecond), win.MaxTimestamp)
	assert.Equal(t, "2023/08/27", win.APIQueryAfter)
	assert.Equal(t, "2023/11/05", win.APIQueryBefore)
	assert.Equal(t, "2023/09/01 ~ 2023/10/31", win.Label)
}

func TestResolveSpansMultiplePeriods(t *testing.T) {
	win := Resolve([]models.WinningNumbers{
		{Period: "112年 09-10月"},
		{Period: "112年 07-08月"},
	})
	assert.NotNil(t, win)

	start := time.Date(2023, time.July, 1, 0, 0, 0, 0, loc)
	assert.Equal(t, start.UnixMilli(), win.MinTimestamp)
	assert.Equal(t, "2023/06/26", win.APIQueryAfter)
	assert.Equal(t, "2023/11/05", win.APIQueryBefore)
}

func TestResolveGregorianYearPassesThrough(t *testing.T) {
	win := Resolve([]models.WinningNumbers{{Period: "2023年 11-12月"}})
	assert.NotNil(t, win)

	start := time.Date(2023, time.November, 1, 0, 0, 0, 0, loc)
	assert.Equal(t, start.UnixMilli(), win.MinTimestamp)
}

func TestResolveLabelVariants(t *testing.T) {
	for _, label := range []string{
		"112年09-10月",
		"112 年 9~10 月",
		"112年 09～10月",
		"112年 09至10月",
	} {
		win := Resolve([]models.WinningNumbers{{Period: label}})
		assert.NotNil(t, win, "label %q", label)
		assert.Equal(t,
			time.Date(2023, time.September, 1, 0, 0, 0, 0, loc).UnixMilli(),
			win.MinTimestamp, "label %q", label)
	}
}

func TestResolveUnparseableLabels(t *testing.T) {
	assert.Nil(t, Resolve(nil))
	assert.Nil(t, Resolve([]models.WinningNumbers{{Period: "最新一期"}}))
	assert.Nil(t, Resolve([]models.WinningNumbers{{Period: "112年"}}))
	assert.Nil(t, Resolve([]models.WinningNumbers{{Period: "112年 13-14月"}}))

	// One bad label among good ones is skipped, not fatal.
	win := Resolve([]models.WinningNumbers{
		{Period: "無法解析"},
		{Period: "112年 09-10月"},
	})
	assert.NotNil(t, win)
}

func TestResolveDecemberEndOfYear(t *testing.T) {
	win := Resolve([]models.WinningNumbers{{Period: "112年 11-12月"}})
	assert.NotNil(t, win)

	end := time.Date(2023, time.December, 31, 23, 59, 59, int(999*time.Millisecond), loc)
	assert.Equal(t, end.UnixMilli()+2*24*int64(time.Hour/time.Millisecond), win.MaxTimestamp)
}

func TestScanPeriods(t *testing.T) {
	list := []models.WinningNumbers{
		{Period: "112年 09-10月"},
		{Period: "112年 07-08月"},
		{Period: "112年 05-06月"},
	}

	got := ScanPeriods(list, 0)
	assert.Len(t, got, 2)
	assert.Equal(t, "112年 09-10月", got[0].Period)
	assert.Equal(t, "112年 07-08月", got[1].Period)

	got = ScanPeriods(list, 1)
	assert.Len(t, got, 2)
	assert.Equal(t, "112年 07-08月", got[0].Period)

	// Last index has no predecessor pair left.
	got = ScanPeriods(list, 2)
	assert.Len(t, got, 1)
	assert.Equal(t, "112年 05-06月", got[0].Period)

	// Out-of-range indexes clamp instead of panicking.
	assert.Len(t, ScanPeriods(list, -1), 2)
	assert.Len(t, ScanPeriods(list, 99), 1)
	assert.Nil(t, ScanPeriods(nil, 0))
}
