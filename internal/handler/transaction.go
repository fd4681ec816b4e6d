package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MaksimGMD/spender/internal/ledger"
	"github.com/MaksimGMD/spender/internal/models"
	"github.com/MaksimGMD/spender/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	transactionNotFound = "Транзакция не найдена"

	transactionForbiddenUpdate = "Пользователь не может изменить транзакцию не своего счёта"
	transactionForbiddenDelete = "Пользователь не может удалить транзакцию не своего счёта"
)

// TransactionHandler serves transaction CRUD and transfers. All mutations go
// through the ledger engine so account balances stay consistent.
type TransactionHandler struct {
	DB       *gorm.DB
	Engine   *ledger.Engine
	PageSize int
}

func NewTransactionHandler(db *gorm.DB, engine *ledger.Engine, pageSize int) *TransactionHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &TransactionHandler{DB: db, Engine: engine, PageSize: pageSize}
}

type transactionReq struct {
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description" binding:"omitempty,max=255"`
	CategoryID  uint            `json:"category_id"`
	AccountID   uint            `json:"account_id"`
}

// transactionUpdateReq is a partial update: omitted fields keep their
// stored values, so a description-only PUT does not touch the amount.
type transactionUpdateReq struct {
	Amount      *decimal.Decimal `json:"amount"`
	Date        string           `json:"date"`
	Description *string          `json:"description" binding:"omitempty,max=255"`
	CategoryID  uint             `json:"category_id"`
}

type transferReq struct {
	FromAccountID uint            `json:"from_account_id" binding:"required"`
	ToAccountID   uint            `json:"to_account_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description" binding:"omitempty,max=255"`
	Date          string          `json:"date"`
}

// List returns the caller's transactions with optional filters:
// account_id, start/end date (YYYY-MM-DD) and type (income / expense).
func (h *TransactionHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(h.PageSize)))
	if size <= 0 || size > 100 {
		size = h.PageSize
	}
	offset := (page - 1) * size

	// scope to the caller's accounts through the accounts table
	base := h.DB.Model(&models.Transaction{}).
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.user_id = ?", user.ID)

	if accountStr := c.Query("account_id"); accountStr != "" {
		accountID, err := strconv.Atoi(accountStr)
		if err != nil || accountID <= 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректный идентификатор счёта")
			return
		}
		base = base.Where("transactions.account_id = ?", accountID)
	}

	if startStr := c.Query("start"); startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Дата начала должна быть в формате YYYY-MM-DD")
			return
		}
		base = base.Where("transactions.date >= ?", start)
	}
	if endStr := c.Query("end"); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Дата окончания должна быть в формате YYYY-MM-DD")
			return
		}
		// end date is inclusive: < end+1 day
		base = base.Where("transactions.date < ?", end.Add(24*time.Hour))
	}

	switch c.Query("type") {
	case "income":
		base = base.Where("transactions.amount > 0")
	case "expense":
		base = base.Where("transactions.amount < 0")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить транзакции")
		return
	}

	var transactions []models.Transaction
	if err := base.Session(&gorm.Session{}).
		Order("transactions.date DESC, transactions.id DESC").
		Limit(size).
		Offset(offset).
		Find(&transactions).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить транзакции")
		return
	}

	util.Success(c, util.Response{
		"items": transactions,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

// Create records a transaction. Positive amount is income, negative is
// expense; the account balance changes by exactly the amount.
func (h *TransactionHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректные данные запроса")
		return
	}
	if req.AccountID == 0 || req.CategoryID == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Укажите счёт и категорию")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректная сумма")
		return
	}
	date, err := util.ParseDate(req.Date)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	transaction, err := h.Engine.CreateTransaction(user.ID, ledger.TransactionInput{
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		AccountID:   req.AccountID,
	})
	if err != nil {
		util.LedgerError(c, err, accountNotFound, "Пользователь не может пополнить не свой счёт")
		return
	}

	util.Success(c, util.Response{
		"transaction": transaction,
	})
}

// Update applies a partial change: omitted fields keep their stored values.
// The account balance is rebuilt from the transaction set afterwards.
func (h *TransactionHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req transactionUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректные данные запроса")
		return
	}
	if req.Amount != nil {
		if err := util.ValidateAmount(*req.Amount); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректная сумма")
			return
		}
	}
	date, err := util.ParseDate(req.Date)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	transaction, err := h.Engine.UpdateTransaction(user.ID, id, ledger.TransactionPatch{
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		util.LedgerError(c, err, transactionNotFound, transactionForbiddenUpdate)
		return
	}

	util.Success(c, util.Response{
		"transaction": transaction,
	})
}

// Delete removes a transaction and rebuilds the account balance.
func (h *TransactionHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	transaction, err := h.Engine.DeleteTransaction(user.ID, id)
	if err != nil {
		util.LedgerError(c, err, transactionNotFound, transactionForbiddenDelete)
		return
	}

	util.Success(c, util.Response{
		"message": fmt.Sprintf("Транзакция на сумму: %s, выполненная: %s удалена",
			transaction.Amount.StringFixed(2), transaction.Date.Format("2006-01-02")),
	})
}

// Transfer moves money between two accounts of the caller: both legs are
// created atomically and tagged with the "Перевод" category.
func (h *TransactionHandler) Transfer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req transferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректные данные запроса")
		return
	}
	if err := util.ValidatePositiveAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Сумма перевода должна быть положительной")
		return
	}
	if req.FromAccountID == req.ToAccountID {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Нельзя перевести на тот же счёт")
		return
	}
	date, err := util.ParseDate(req.Date)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	message, err := h.Engine.Transfer(user.ID, ledger.TransferInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Description:   req.Description,
		Date:          date,
	})
	if err != nil {
		util.LedgerError(c, err, accountNotFound, "Пользователь не может переводить между чужими счетами")
		return
	}

	util.Success(c, util.Response{
		"message": message,
	})
}
