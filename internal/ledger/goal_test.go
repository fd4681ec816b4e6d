package ledger

import (
	"errors"
	"testing"

	"github.com/MaksimGMD/spender/internal/models"
)

func createGoal(t *testing.T, e *Engine, userID uint, target, amount string) *models.Goal {
	t.Helper()
	goal := models.Goal{
		Name:         "Отпуск",
		TargetAmount: d(t, target),
		Amount:       d(t, amount),
		UserID:       userID,
	}
	if err := e.DB.Create(&goal).Error; err != nil {
		t.Fatalf("create goal: %v", err)
	}
	return &goal
}

func TestRefreshAchievement(t *testing.T) {
	tests := []struct {
		name   string
		target string
		amount string
		want   bool
	}{
		{"below target", "500.00", "499.99", false},
		{"exactly at target", "500.00", "500.00", true},
		{"above target", "500.00", "600.00", true},
		{"empty goal", "500.00", "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			user := createUser(t, e, "u@example.com")
			goal := createGoal(t, e, user.ID, tt.target, tt.amount)

			got, err := e.RefreshAchievement(goal.ID)
			if err != nil {
				t.Fatalf("RefreshAchievement() error = %v", err)
			}
			if got.IsAchieved != tt.want {
				t.Errorf("is_achieved = %v, want %v", got.IsAchieved, tt.want)
			}

			var stored models.Goal
			if err := e.DB.First(&stored, goal.ID).Error; err != nil {
				t.Fatalf("reload goal: %v", err)
			}
			if stored.IsAchieved != tt.want {
				t.Errorf("stored is_achieved = %v, want %v", stored.IsAchieved, tt.want)
			}
		})
	}
}

func TestRefreshAchievement_NotFound(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.RefreshAchievement(5)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("RefreshAchievement() error = %v, want ErrNotFound", err)
	}
}

func TestAddAccumulatedAmount(t *testing.T) {
	e := newTestEngine(t)
	user := createUser(t, e, "u@example.com")
	goal := createGoal(t, e, user.ID, "500.00", "400.00")

	got, err := e.AddAccumulatedAmount(user.ID, goal.ID, d(t, "100.00"))
	if err != nil {
		t.Fatalf("AddAccumulatedAmount() error = %v", err)
	}
	if !got.Amount.Equal(d(t, "500.00")) {
		t.Errorf("amount = %s, want 500.00", got.Amount)
	}
	if !got.IsAchieved {
		t.Error("is_achieved = false after reaching target, want true")
	}

	// a withdrawal back below the target drops the flag again
	got, err = e.AddAccumulatedAmount(user.ID, goal.ID, d(t, "-1.00"))
	if err != nil {
		t.Fatalf("AddAccumulatedAmount() error = %v", err)
	}
	if !got.Amount.Equal(d(t, "499.00")) {
		t.Errorf("amount = %s, want 499.00", got.Amount)
	}
	if got.IsAchieved {
		t.Error("is_achieved = true below target, want false")
	}
}

func TestAddAccumulatedAmount_ForeignGoalForbidden(t *testing.T) {
	e := newTestEngine(t)
	owner := createUser(t, e, "owner@example.com")
	intruder := createUser(t, e, "intruder@example.com")
	goal := createGoal(t, e, owner.ID, "500.00", "100.00")

	_, err := e.AddAccumulatedAmount(intruder.ID, goal.ID, d(t, "10.00"))
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("AddAccumulatedAmount() error = %v, want ErrForbidden", err)
	}

	var stored models.Goal
	if err := e.DB.First(&stored, goal.ID).Error; err != nil {
		t.Fatalf("reload goal: %v", err)
	}
	if !stored.Amount.Equal(d(t, "100.00")) {
		t.Errorf("amount changed to %s after forbidden call, want 100.00", stored.Amount)
	}
}

func TestAddAccumulatedAmount_NotFound(t *testing.T) {
	e := newTestEngine(t)
	user := createUser(t, e, "u@example.com")

	_, err := e.AddAccumulatedAmount(user.ID, 77, d(t, "10.00"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("AddAccumulatedAmount() error = %v, want ErrNotFound", err)
	}
}
