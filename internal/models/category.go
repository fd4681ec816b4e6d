package models

import "time"

// TransferCategoryName is the reserved category every transfer leg is tagged
// with. It is created lazily, once per user.
const TransferCategoryName = "Перевод"

// Category groups transactions and budgets of one user.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;index;not null" json:"name"`
	Color     string    `gorm:"size:16" json:"color"`
	IconName  string    `gorm:"size:64" json:"icon_name"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Transactions []Transaction `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Budgets      []Budget      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
