package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supported account currencies.
const (
	CurrencyRUB = "RUB"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyJPY = "JPY"
	CurrencyGBP = "GBP"
	CurrencyAUD = "AUD"
)

// ValidCurrency reports whether code is one of the supported currencies.
func ValidCurrency(code string) bool {
	switch code {
	case CurrencyRUB, CurrencyUSD, CurrencyEUR, CurrencyJPY, CurrencyGBP, CurrencyAUD:
		return true
	}
	return false
}

// Account is a named money container with a currency and a cached balance.
// Balance is derived: it must equal the sum of the account's transaction
// amounts after every committed mutation. Only the ledger engine writes it.
type Account struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"size:64;index;not null" json:"name"`
	Balance   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"balance"`
	Currency  string          `gorm:"size:3;not null;default:RUB" json:"currency"`
	Type      string          `gorm:"size:32;not null" json:"type"`
	IsActive  bool            `gorm:"not null;default:true" json:"is_active"`
	UserID    uint            `gorm:"index;not null" json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	Transactions []Transaction `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
