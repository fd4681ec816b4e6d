package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a signed monetary movement against one account.
// Positive amount is income, negative is expense.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Date        time.Time       `gorm:"index;not null" json:"date"`
	Description string          `gorm:"size:255" json:"description"`
	CategoryID  uint            `gorm:"index;not null" json:"category_id"`
	AccountID   uint            `gorm:"index;not null" json:"account_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
