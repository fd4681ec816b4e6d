package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/MaksimGMD/spender/internal/models"
	"github.com/MaksimGMD/spender/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const accountNotFound = "Счёт не найден"

// AccountHandler serves account CRUD.
type AccountHandler struct {
	DB *gorm.DB
}

func NewAccountHandler(db *gorm.DB) *AccountHandler {
	return &AccountHandler{DB: db}
}

type accountReq struct {
	Name     string          `json:"name" binding:"required,max=64"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
	Type     string          `json:"type" binding:"required,max=32"`
	IsActive *bool           `json:"is_active"`
}

// List returns the caller's accounts.
func (h *AccountHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var accounts []models.Account
	if err := h.DB.Where("user_id = ?", user.ID).Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить счета")
		return
	}

	util.Success(c, util.Response{
		"accounts": accounts,
	})
}

// Get returns one account by id. Reading a foreign account is a 403.
func (h *AccountHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var account models.Account
	if err := h.DB.First(&account, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, accountNotFound)
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить счёт")
		}
		return
	}
	if account.UserID != user.ID {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "Недостаточно прав")
		return
	}

	util.Success(c, util.Response{
		"account": account,
	})
}

// Create opens a new account for the caller, optionally with a starting balance.
func (h *AccountHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req accountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректные данные запроса")
		return
	}

	if req.Currency == "" {
		req.Currency = models.CurrencyRUB
	}
	req.Currency = strings.ToUpper(req.Currency)
	if !models.ValidCurrency(req.Currency) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Неподдерживаемая валюта")
		return
	}
	if err := util.ValidateAmount(req.Balance); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректный баланс")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	account := models.Account{
		Name:     strings.TrimSpace(req.Name),
		Balance:  req.Balance,
		Currency: req.Currency,
		Type:     req.Type,
		IsActive: isActive,
		UserID:   user.ID,
	}
	if err := h.DB.Create(&account).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось создать счёт")
		return
	}

	util.Success(c, util.Response{
		"account": account,
	})
}

// Update changes account fields. Balance is derived and cannot be set here.
func (h *AccountHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req accountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректные данные запроса")
		return
	}

	var account models.Account
	if err := h.DB.First(&account, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, accountNotFound)
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить счёт")
		}
		return
	}
	if account.UserID != user.ID {
		util.Error(c, http.StatusBadRequest, util.CodeForbidden, "Пользователь не может изменить не свой счёт")
		return
	}

	account.Name = strings.TrimSpace(req.Name)
	account.Type = req.Type
	if req.Currency != "" {
		currency := strings.ToUpper(req.Currency)
		if !models.ValidCurrency(currency) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Неподдерживаемая валюта")
			return
		}
		account.Currency = currency
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&account).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось обновить счёт")
		return
	}

	util.Success(c, util.Response{
		"account": account,
	})
}

// Delete removes an account; its transactions go with it (cascade).
func (h *AccountHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var account models.Account
	if err := h.DB.First(&account, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, accountNotFound)
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить счёт")
		}
		return
	}
	if account.UserID != user.ID {
		util.Error(c, http.StatusBadRequest, util.CodeForbidden, "Пользователь не может удалить не свой счёт")
		return
	}

	if err := h.DB.Select("Transactions").Delete(&account).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось удалить счёт")
		return
	}

	util.Success(c, util.Response{
		"message": fmt.Sprintf("Счёт: %s удален", account.Name),
	})
}
