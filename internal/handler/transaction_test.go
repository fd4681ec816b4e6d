package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MaksimGMD/spender/internal/ledger"
	"github.com/MaksimGMD/spender/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Category{},
		&models.Transaction{},
		&models.Budget{},
		&models.Goal{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return v
}

// testRequest builds an authenticated gin context for a JSON request.
func testRequest(t *testing.T, user *models.User, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("currentUser", user)
	return c, w
}

func seedTransaction(t *testing.T, db *gorm.DB, amount string) (*models.User, *models.Account, *models.Transaction) {
	t.Helper()

	user := models.User{Name: "test", Email: "u@example.com", HashedPassword: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	account := models.Account{Name: "Карта", Type: "card", UserID: user.ID}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("create account: %v", err)
	}
	category := models.Category{Name: "Разное", UserID: user.ID}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}

	transaction, err := ledger.New(db).CreateTransaction(user.ID, ledger.TransactionInput{
		Amount:     mustDecimal(t, amount),
		CategoryID: category.ID,
		AccountID:  account.ID,
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return &user, &account, transaction
}

// A PUT that only sends a description must leave the stored amount and the
// account balance untouched.
func TestTransactionUpdate_DescriptionOnlyKeepsAmount(t *testing.T) {
	db := newTestDB(t)
	user, account, transaction := seedTransaction(t, db, "50.00")

	h := NewTransactionHandler(db, ledger.New(db), 20)

	c, w := testRequest(t, user, http.MethodPut,
		fmt.Sprintf("/api/transactions/%d", transaction.ID),
		`{"description":"только описание"}`)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(transaction.ID)}}

	h.Update(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s, want 200", w.Code, w.Body.String())
	}

	var stored models.Transaction
	if err := db.First(&stored, transaction.ID).Error; err != nil {
		t.Fatalf("reload transaction: %v", err)
	}
	if !stored.Amount.Equal(mustDecimal(t, "50.00")) {
		t.Errorf("amount = %s after description-only update, want 50.00", stored.Amount)
	}
	if stored.Description != "только описание" {
		t.Errorf("description = %q, want %q", stored.Description, "только описание")
	}

	var storedAccount models.Account
	if err := db.First(&storedAccount, account.ID).Error; err != nil {
		t.Fatalf("reload account: %v", err)
	}
	if !storedAccount.Balance.Equal(mustDecimal(t, "50.00")) {
		t.Errorf("balance = %s after description-only update, want 50.00", storedAccount.Balance)
	}
}

func TestTransactionUpdate_AmountChangeRebuildsBalance(t *testing.T) {
	db := newTestDB(t)
	user, account, transaction := seedTransaction(t, db, "50.00")

	h := NewTransactionHandler(db, ledger.New(db), 20)

	c, w := testRequest(t, user, http.MethodPut,
		fmt.Sprintf("/api/transactions/%d", transaction.ID),
		`{"amount":"20.00"}`)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(transaction.ID)}}

	h.Update(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s, want 200", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Transaction models.Transaction `json:"transaction"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Data.Transaction.Amount.Equal(mustDecimal(t, "20.00")) {
		t.Errorf("response amount = %s, want 20.00", resp.Data.Transaction.Amount)
	}

	var storedAccount models.Account
	if err := db.First(&storedAccount, account.ID).Error; err != nil {
		t.Fatalf("reload account: %v", err)
	}
	if !storedAccount.Balance.Equal(mustDecimal(t, "20.00")) {
		t.Errorf("balance = %s after amount update, want 20.00", storedAccount.Balance)
	}
}
