package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeHistoryNewestFirst(t *testing.T) {
	existing := []HistoryItem{
		{ID: "old-1", Number: "11111111"},
		{ID: "old-2", Number: "22222222"},
	}
	newItems := []HistoryItem{
		{ID: "new-1", Number: "33333333"},
	}

	merged := MergeHistory(newItems, existing)
	assert.Len(t, merged, 3)
	assert.Equal(t, "new-1", merged[0].ID)
	assert.Equal(t, "old-1", merged[1].ID)
	assert.Equal(t, "old-2", merged[2].ID)
}

func TestMergeHistoryCapped(t *testing.T) {
	var existing []HistoryItem
	for i := 0; i < HistoryLimit; i++ {
		existing = append(existing, HistoryItem{ID: fmt.Sprintf("old-%d", i)})
	}
	newItems := []HistoryItem{{ID: "new-1"}, {ID: "new-2"}}

	merged := MergeHistory(newItems, existing)
	assert.Len(t, merged, HistoryLimit)
	assert.Equal(t, "new-1", merged[0].ID)
	assert.Equal(t, "new-2", merged[1].ID)
	// The two oldest entries fell off the end.
	assert.Equal(t, fmt.Sprintf("old-%d", HistoryLimit-3), merged[HistoryLimit-1].ID)
}

func TestMergeHistoryEmptyInputs(t *testing.T) {
	assert.Empty(t, MergeHistory(nil, nil))

	merged := MergeHistory(nil, []HistoryItem{{ID: "old-1"}})
	assert.Len(t, merged, 1)

	merged = MergeHistory([]HistoryItem{{ID: "new-1"}}, nil)
	assert.Len(t, merged, 1)
}

func TestPrizeTypeString(t *testing.T) {
	assert.Equal(t, "特別獎", PrizeSpecial.String())
	assert.Equal(t, "特獎", PrizeGrand.String())
	assert.Equal(t, "頭獎", PrizeFirst.String())
	assert.Equal(t, "六獎", PrizeSixth.String())
	assert.Equal(t, "未中獎", PrizeNone.String())
}
