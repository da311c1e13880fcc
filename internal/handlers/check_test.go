package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"invoice-prize-checker-go/internal/lottery"
	"invoice-prize-checker-go/internal/models"
)

func TestSanitizeNumber(t *testing.T) {
	assert.Equal(t, "12345678", sanitizeNumber("AB-12345678"))
	assert.Equal(t, "12345678", sanitizeNumber("1234 5678"))
	assert.Equal(t, "345", sanitizeNumber("345"))
	assert.Equal(t, "", sanitizeNumber("沒有數字"))

	// More than 8 digits keeps the leading 8, as entered.
	assert.Equal(t, "12345678", sanitizeNumber("123456789"))
	assert.Equal(t, "99912345", sanitizeNumber("999123456780000"))
}

func TestSanitizeNumberBlocksTrailingRunRideAlong(t *testing.T) {
	winning := models.WinningNumbers{
		Period:       "112年 09-10月",
		SpecialPrize: "99999999",
		GrandPrize:   "88888888",
		FirstPrize:   []string{"11112222"},
	}

	// A 9-digit input ending in a full first-prize number must not earn a
	// confirmed first prize once capped.
	res := lottery.Check(sanitizeNumber("911112222"), winning, true)
	assert.NotEqual(t, models.PrizeFirst, res.PrizeType)
}
