package lottery

import (
	"strings"

	"invoice-prize-checker-go/internal/models"
)

// Check matches a candidate invoice number against one period's winning
// numbers. The candidate is digits only, compared from the last digit
// backwards the way the paper lottery is redeemed. Every input yields a
// CheckResult; nothing here fails.
//
// Rule order: Special exact/suffix, Grand exact/suffix, first-prize trailing
// runs, then additional sixth. A suffix-only hit on Special/Grand is reported
// before a confirmed lower-tier win on purpose: the caller cannot rule out
// the big prize until all 8 digits are entered.
func Check(candidate string, winning models.WinningNumbers, isCurrentPeriod bool) models.CheckResult {
	num := strings.TrimSpace(candidate)
	base := models.CheckResult{
		Period:          winning.Period,
		IsCurrentPeriod: isCurrentPeriod,
		PrizeType:       models.PrizeNone,
		PrizeLabel:      Label(models.PrizeNone),
	}

	if len(num) < 3 {
		base.Description = "請輸入至少後 3 碼"
		return base
	}

	// 1. 特別獎
	if winning.SpecialPrize == num {
		return won(base, models.PrizeSpecial, winning.SpecialPrize, "")
	}
	if strings.HasSuffix(winning.SpecialPrize, num) {
		return partial(base, models.PrizeSpecial, winning.SpecialPrize, "與特別獎末碼相同，請核對 8 碼")
	}

	// 2. 特獎
	if winning.GrandPrize == num {
		return won(base, models.PrizeGrand, winning.GrandPrize, "")
	}
	if strings.HasSuffix(winning.GrandPrize, num) {
		return partial(base, models.PrizeGrand, winning.GrandPrize, "與特獎末碼相同，請核對 8 碼")
	}

	// 3. 頭獎 ~ 六獎: best trailing-run match across the first-prize set,
	// first-encountered entry wins rank ties.
	var best *models.CheckResult
	for _, first := range winning.FirstPrize {
		run := trailingRun(num, first)
		tier, ok := runLengthPrize[run]
		if !ok {
			continue
		}
		desc := ""
		if tier == models.PrizeSixth {
			desc = "符合頭獎後三碼 (六獎)"
		}
		res := won(base, tier, first, desc)
		if best == nil || rank(res.PrizeType) < rank(best.PrizeType) {
			r := res
			best = &r
		}
	}
	if best != nil {
		return *best
	}

	// 4. 增開六獎: exact trailing 3 digits.
	for _, add6 := range winning.AdditionalSixthPrize {
		if strings.HasSuffix(num, add6) {
			return won(base, models.PrizeSixth, add6, "增開六獎")
		}
	}

	return base
}

// trailingRun counts matching digits from the last character backwards,
// stopping at the first mismatch.
func trailingRun(a, b string) int {
	maxLen := len(a)
	if len(b) < maxLen {
		maxLen = len(b)
	}
	run := 0
	for i := 1; i <= maxLen; i++ {
		if a[len(a)-i] != b[len(b)-i] {
			break
		}
		run++
	}
	return run
}

func won(base models.CheckResult, tier models.PrizeType, matched, desc string) models.CheckResult {
	base.IsMatch = true
	base.PrizeType = tier
	base.PrizeLabel = Label(tier)
	base.Amount = Amount(tier)
	base.MatchedNumber = matched
	base.Description = desc
	return base
}

func partial(base models.CheckResult, tier models.PrizeType, matched, desc string) models.CheckResult {
	base.IsMatch = true
	base.IsPartial = true
	base.PrizeType = tier
	base.PrizeLabel = Label(tier)
	base.Amount = 0
	base.MatchedNumber = matched
	base.Description = desc
	return base
}
