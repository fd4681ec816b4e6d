package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MaksimGMD/spender/internal/models"
)

// RefreshAchievement recomputes is_achieved (amount >= target_amount) for the
// goal and persists it. Called after every goal create, update and
// accumulated-amount change.
func (e *Engine) RefreshAchievement(goalID uint) (*models.Goal, error) {
	var goal models.Goal
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		return refreshAchievement(tx, goalID, &goal)
	})
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func refreshAchievement(tx *gorm.DB, goalID uint, out *models.Goal) error {
	if err := tx.First(out, goalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("goal %d: %w", goalID, ErrNotFound)
		}
		return fmt.Errorf("load goal: %w", err)
	}

	achieved := out.Amount.GreaterThanOrEqual(out.TargetAmount)
	if err := tx.Model(out).UpdateColumn("is_achieved", achieved).Error; err != nil {
		return fmt.Errorf("store is_achieved: %w", err)
	}
	out.IsAchieved = achieved
	return nil
}

// AddAccumulatedAmount adds a signed delta to the goal's accumulated amount
// (negative delta is a partial withdrawal), then re-runs the achievement
// rule. The caller must own the goal.
func (e *Engine) AddAccumulatedAmount(callerID, goalID uint, delta decimal.Decimal) (*models.Goal, error) {
	var goal models.Goal
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&goal, goalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("goal %d: %w", goalID, ErrNotFound)
			}
			return fmt.Errorf("load goal: %w", err)
		}
		if err := Authorize(callerID, goal.UserID); err != nil {
			return err
		}

		res := tx.Model(&goal).UpdateColumn("amount", gorm.Expr("amount + ?", delta))
		if res.Error != nil {
			return fmt.Errorf("add accumulated amount: %w", res.Error)
		}
		return refreshAchievement(tx, goalID, &goal)
	})
	if err != nil {
		return nil, err
	}
	return &goal, nil
}
