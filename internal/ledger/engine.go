// Package ledger keeps the derived state of the finance model consistent:
// every account's cached balance stays equal to the sum of its transactions,
// transfers create both legs atomically, and goal achievement flags follow
// the accumulated amounts.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MaksimGMD/spender/internal/models"
)

// Engine runs all balance-affecting mutations. Each exported method executes
// inside a single database transaction: commit on success, rollback on error.
type Engine struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Engine {
	return &Engine{DB: db}
}

// TransactionInput carries the client-settable transaction fields.
// A zero Date defaults to the current time.
type TransactionInput struct {
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	CategoryID  uint
	AccountID   uint
}

// TransactionPatch carries a partial update: nil / zero fields leave the
// stored value unchanged.
type TransactionPatch struct {
	Amount      *decimal.Decimal
	Date        time.Time
	Description *string
	CategoryID  uint
}

// TransferInput describes a transfer between two accounts of one user.
// Amount must be positive; it is debited from the source account and
// credited to the destination.
type TransferInput struct {
	FromAccountID uint
	ToAccountID   uint
	Amount        decimal.Decimal
	Description   string
	Date          time.Time
}

// ApplyDelta adds delta to the account's cached balance as an atomic
// in-database increment, so concurrent transactions on the same account
// cannot lose updates. Returns ErrNotFound if the account does not exist.
func (e *Engine) ApplyDelta(accountID uint, delta decimal.Decimal) error {
	return applyDelta(e.DB, accountID, delta)
}

func applyDelta(tx *gorm.DB, accountID uint, delta decimal.Decimal) error {
	res := tx.Model(&models.Account{}).
		Where("id = ?", accountID).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("apply balance delta: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("account %d: %w", accountID, ErrNotFound)
	}
	return nil
}

// RecomputeBalance rebuilds the account's balance from scratch as the sum of
// its transactions. The fold is idempotent: calling it twice in a row leaves
// the balance unchanged.
func (e *Engine) RecomputeBalance(accountID uint) (*models.Account, error) {
	var account models.Account
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		return recomputeBalance(tx, accountID, &account)
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func recomputeBalance(tx *gorm.DB, accountID uint, out *models.Account) error {
	if err := tx.First(out, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("account %d: %w", accountID, ErrNotFound)
		}
		return fmt.Errorf("load account: %w", err)
	}

	var transactions []models.Transaction
	if err := tx.Where("account_id = ?", accountID).Find(&transactions).Error; err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}

	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(t.Amount)
	}

	if err := tx.Model(out).UpdateColumn("balance", total).Error; err != nil {
		return fmt.Errorf("store balance: %w", err)
	}
	out.Balance = total
	return nil
}

// CreateTransaction persists a new transaction and applies its amount to the
// account balance, atomically. The account must exist and belong to the caller.
func (e *Engine) CreateTransaction(callerID uint, in TransactionInput) (*models.Transaction, error) {
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	transaction := models.Transaction{
		Amount:      in.Amount,
		Date:        in.Date,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		AccountID:   in.AccountID,
	}

	err := e.DB.Transaction(func(tx *gorm.DB) error {
		account, err := loadAccount(tx, in.AccountID)
		if err != nil {
			return err
		}
		if err := Authorize(callerID, account.UserID); err != nil {
			return err
		}
		if err := tx.Create(&transaction).Error; err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return applyDelta(tx, in.AccountID, in.Amount)
	})
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// UpdateTransaction applies a partial update to an existing transaction and
// rebuilds the account balance. Fields the patch leaves unset keep their
// stored values. The caller must own the account the transaction belongs to.
func (e *Engine) UpdateTransaction(callerID, id uint, patch TransactionPatch) (*models.Transaction, error) {
	var transaction models.Transaction
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		if err := loadOwnedTransaction(tx, callerID, id, &transaction); err != nil {
			return err
		}

		if patch.Amount != nil {
			transaction.Amount = *patch.Amount
		}
		if !patch.Date.IsZero() {
			transaction.Date = patch.Date
		}
		if patch.Description != nil {
			transaction.Description = *patch.Description
		}
		if patch.CategoryID != 0 {
			transaction.CategoryID = patch.CategoryID
		}

		if err := tx.Save(&transaction).Error; err != nil {
			return fmt.Errorf("save transaction: %w", err)
		}

		var account models.Account
		return recomputeBalance(tx, transaction.AccountID, &account)
	})
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// DeleteTransaction removes a transaction and rebuilds the account balance,
// so the balance changes by exactly minus the removed amount. Returns the
// removed row for the confirmation message.
func (e *Engine) DeleteTransaction(callerID, id uint) (*models.Transaction, error) {
	var transaction models.Transaction
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		if err := loadOwnedTransaction(tx, callerID, id, &transaction); err != nil {
			return err
		}
		if err := tx.Delete(&models.Transaction{}, id).Error; err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		var account models.Account
		return recomputeBalance(tx, transaction.AccountID, &account)
	})
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// Transfer moves in.Amount between two accounts of the caller by creating a
// debit leg (-amount) on the source and a credit leg (+amount) on the
// destination, both tagged with the user's reserved "Перевод" category.
// Either both legs are committed or neither is visible.
func (e *Engine) Transfer(callerID uint, in TransferInput) (string, error) {
	if !in.Amount.IsPositive() {
		return "", fmt.Errorf("transfer amount must be positive, got %s", in.Amount)
	}
	if in.FromAccountID == in.ToAccountID {
		return "", fmt.Errorf("transfer source and destination are the same account")
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	var from, to models.Account
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		src, err := loadAccount(tx, in.FromAccountID)
		if err != nil {
			return err
		}
		dst, err := loadAccount(tx, in.ToAccountID)
		if err != nil {
			return err
		}
		if err := Authorize(callerID, src.UserID); err != nil {
			return err
		}
		if err := Authorize(callerID, dst.UserID); err != nil {
			return err
		}
		from, to = *src, *dst

		category, err := transferCategory(tx, callerID)
		if err != nil {
			return err
		}

		description := in.Description
		if description == "" {
			description = fmt.Sprintf("Перевод: %s → %s", src.Name, dst.Name)
		}

		legs := []models.Transaction{
			{
				Amount:      in.Amount.Neg(),
				Date:        in.Date,
				Description: description,
				CategoryID:  category.ID,
				AccountID:   src.ID,
			},
			{
				Amount:      in.Amount,
				Date:        in.Date,
				Description: description,
				CategoryID:  category.ID,
				AccountID:   dst.ID,
			},
		}
		for i := range legs {
			if err := tx.Create(&legs[i]).Error; err != nil {
				return fmt.Errorf("create transfer leg: %w", err)
			}
			if err := applyDelta(tx, legs[i].AccountID, legs[i].Amount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Перевод %s %s со счёта: %s на счёт: %s выполнен",
		in.Amount.StringFixed(2), from.Currency, from.Name, to.Name), nil
}

// transferCategory resolves the user's reserved transfer category, creating
// it on first use. Repeated transfers reuse the same row.
func transferCategory(tx *gorm.DB, userID uint) (*models.Category, error) {
	var category models.Category
	err := tx.Where(models.Category{UserID: userID, Name: models.TransferCategoryName}).
		Attrs(models.Category{Color: "#9E9E9E", IconName: "swap_horiz"}).
		FirstOrCreate(&category).Error
	if err != nil {
		return nil, fmt.Errorf("resolve transfer category: %w", err)
	}
	return &category, nil
}

func loadAccount(tx *gorm.DB, id uint) (*models.Account, error) {
	var account models.Account
	if err := tx.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("account %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	return &account, nil
}

// loadOwnedTransaction loads a transaction and verifies the caller owns the
// parent account (resolved through the accounts table, as there is no user id
// on the transaction row itself).
func loadOwnedTransaction(tx *gorm.DB, callerID, id uint, out *models.Transaction) error {
	if err := tx.First(out, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("load transaction: %w", err)
	}

	var ownerID uint
	err := tx.Model(&models.Account{}).
		Select("user_id").
		Where("id = ?", out.AccountID).
		Scan(&ownerID).Error
	if err != nil {
		return fmt.Errorf("resolve account owner: %w", err)
	}
	return Authorize(callerID, ownerID)
}
