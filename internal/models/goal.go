package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target. Amount accumulates towards TargetAmount;
// IsAchieved is derived (amount >= target_amount) and recomputed by the
// ledger engine whenever either amount changes.
type Goal struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"size:64;index;not null" json:"name"`
	TargetAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"target_amount"`
	Amount       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"amount"`
	Deadline     *time.Time      `json:"deadline"`
	CreationDate time.Time       `gorm:"not null" json:"creation_date"`
	IsAchieved   bool            `gorm:"not null;default:false" json:"is_achieved"`
	UserID       uint            `gorm:"index;not null" json:"user_id"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
