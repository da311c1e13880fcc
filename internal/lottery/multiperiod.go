package lottery

import (
	"invoice-prize-checker-go/internal/models"
)

// CheckAcrossPeriods runs Check over up to two periods (current first) and
// keeps the best outcome:
//
//  1. a confirmed win replaces a partial Special/Grand warning,
//  2. between confirmed wins the higher amount stays, equal amounts keep the
//     current period,
//  3. between partials the first found (current period) stays.
//
// When nothing matches anywhere the current period's failing result is
// returned so the caller still gets period provenance for display.
func CheckAcrossPeriods(candidate string, periods []models.WinningNumbers) models.CheckResult {
	if len(periods) == 0 {
		return models.CheckResult{
			PrizeType:  models.PrizeNone,
			PrizeLabel: Label(models.PrizeNone),
		}
	}

	var best *models.CheckResult
	for i, winning := range periods {
		res := Check(candidate, winning, i == 0)
		if !res.IsMatch {
			continue
		}
		if best == nil {
			r := res
			best = &r
			continue
		}
		switch {
		case best.IsPartial && !res.IsPartial:
			r := res
			best = &r
		case !best.IsPartial && !res.IsPartial:
			if res.Amount > best.Amount {
				r := res
				best = &r
			}
		}
	}
	if best != nil {
		return *best
	}
	return Check(candidate, periods[0], true)
}
