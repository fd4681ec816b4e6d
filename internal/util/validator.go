package util

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// maxAmount caps any single monetary value at the decimal(10,2) column range.
var maxAmount = decimal.New(1, 8) // 10^8

// ValidateAmount checks that a signed amount fits the decimal(10,2) storage
// and has at most two fractional digits.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.Abs().GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("amount too large, got %s", amount)
	}
	if amount.Exponent() < -2 {
		return fmt.Errorf("amount must have at most 2 decimal places, got %s", amount)
	}
	return nil
}

// ValidatePositiveAmount additionally requires the amount to be positive
// (transfers, budgets, goal targets).
func ValidatePositiveAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", amount)
	}
	return ValidateAmount(amount)
}

// ParseDate parses a request date in RFC 3339 or YYYY-MM-DD form.
// An empty string yields the zero time, letting callers default to "now".
func ParseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, nil
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %q", dateStr)
}
