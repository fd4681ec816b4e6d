package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget periods.
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// ValidPeriod reports whether p is a supported budget period.
func ValidPeriod(p string) bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

// Budget is a spending limit for one category over a recurring period.
type Budget struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Period      string          `gorm:"size:8;not null;default:week" json:"period"`
	StartDate   time.Time       `gorm:"index;not null" json:"start_date"`
	Description string          `gorm:"size:255" json:"description"`
	UserID      uint            `gorm:"index;not null" json:"user_id"`
	CategoryID  uint            `gorm:"index;not null" json:"category_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
