package lottery

import (
	"invoice-prize-checker-go/internal/models"
)

// prizeAmounts maps each tier to its fixed cash amount in TWD.
var prizeAmounts = map[models.PrizeType]int64{
	models.PrizeSpecial: 10000000,
	models.PrizeGrand:   2000000,
	models.PrizeFirst:   200000,
	models.PrizeSecond:  40000,
	models.PrizeThird:   10000,
	models.PrizeFourth:  4000,
	models.PrizeFifth:   1000,
	models.PrizeSixth:   200,
}

// prizeLabels are the full display strings, amount included, as printed on
// the official winning-numbers sheet.
var prizeLabels = map[models.PrizeType]string{
	models.PrizeSpecial: "特別獎 (1000萬)",
	models.PrizeGrand:   "特獎 (200萬)",
	models.PrizeFirst:   "頭獎 (20萬)",
	models.PrizeSecond:  "二獎 (4萬)",
	models.PrizeThird:   "三獎 (1萬)",
	models.PrizeFourth:  "四獎 (4000)",
	models.PrizeFifth:   "五獎 (1000)",
	models.PrizeSixth:   "六獎 (200)",
	models.PrizeNone:    "未中獎",
}

// runLengthPrize maps a trailing-digit match run against a first-prize number
// to the awarded tier. Runs shorter than 3 win nothing.
var runLengthPrize = map[int]models.PrizeType{
	8: models.PrizeFirst,
	7: models.PrizeSecond,
	6: models.PrizeThird,
	5: models.PrizeFourth,
	4: models.PrizeFifth,
	3: models.PrizeSixth,
}

// Amount returns the fixed prize amount for a tier, 0 for PrizeNone.
func Amount(p models.PrizeType) int64 {
	return prizeAmounts[p]
}

// Label returns the display string for a tier.
func Label(p models.PrizeType) string {
	if l, ok := prizeLabels[p]; ok {
		return l
	}
	return prizeLabels[models.PrizeNone]
}

// rank orders tiers for best-match selection; lower is better.
func rank(p models.PrizeType) int {
	switch p {
	case models.PrizeFirst:
		return 1
	case models.PrizeSecond:
		return 2
	case models.PrizeThird:
		return 3
	case models.PrizeFourth:
		return 4
	case models.PrizeFifth:
		return 5
	case models.PrizeSixth:
		return 6
	default:
		return 99
	}
}
