package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/MaksimGMD/spender/internal/models"
	"github.com/MaksimGMD/spender/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const budgetNotFound = "Бюджет не найден"

var errInvalidPeriod = errors.New("период должен быть day, week, month или year")

// BudgetHandler serves budget CRUD.
type BudgetHandler struct {
	DB *gorm.DB
}

func NewBudgetHandler(db *gorm.DB) *BudgetHandler {
	return &BudgetHandler{DB: db}
}

type budgetReq struct {
	Amount      decimal.Decimal `json:"amount"`
	Period      string          `json:"period"`
	StartDate   string          `json:"start_date"`
	Description string          `json:"description" binding:"omitempty,max=255"`
	CategoryID  uint            `json:"category_id" binding:"required"`
}

// validate checks the shared create/update fields and resolves defaults.
func (r *budgetReq) validate() (time.Time, string, error) {
	if err := util.ValidatePositiveAmount(r.Amount); err != nil {
		return time.Time{}, "", err
	}
	period := r.Period
	if period == "" {
		period = models.PeriodWeek
	}
	if !models.ValidPeriod(period) {
		return time.Time{}, "", errInvalidPeriod
	}
	start, err := util.ParseDate(r.StartDate)
	if err != nil {
		return time.Time{}, "", err
	}
	if start.IsZero() {
		start = time.Now()
	}
	return start, period, nil
}

func (h *BudgetHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var budgets []models.Budget
	if err := h.DB.Where("user_id = ?", user.ID).Find(&budgets).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить бюджеты")
		return
	}

	util.Success(c, util.Response{
		"budgets": budgets,
	})
}

func (h *BudgetHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var budget models.Budget
	if err := h.DB.First(&budget, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, budgetNotFound)
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить бюджет")
		}
		return
	}
	if budget.UserID != user.ID {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "Недостаточно прав")
		return
	}

	util.Success(c, util.Response{
		"budget": budget,
	})
}

func (h *BudgetHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req budgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректные данные запроса")
		return
	}
	start, period, err := req.validate()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	// budget category must belong to the caller
	var category models.Category
	if err := h.DB.Where("id = ? AND user_id = ?", req.CategoryID, user.ID).
		First(&category).Error; err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, categoryNotFound)
		return
	}

	budget := models.Budget{
		Amount:      req.Amount,
		Period:      period,
		StartDate:   start,
		Description: req.Description,
		UserID:      user.ID,
		CategoryID:  req.CategoryID,
	}
	if err := h.DB.Create(&budget).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось создать бюджет")
		return
	}

	util.Success(c, util.Response{
		"budget": budget,
	})
}

func (h *BudgetHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req budgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректные данные запроса")
		return
	}
	start, period, err := req.validate()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	var budget models.Budget
	if err := h.DB.First(&budget, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, budgetNotFound)
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить бюджет")
		}
		return
	}
	if budget.UserID != user.ID {
		util.Error(c, http.StatusBadRequest, util.CodeForbidden, "Пользователь не может изменить не свой бюджет")
		return
	}

	budget.Amount = req.Amount
	budget.Period = period
	budget.StartDate = start
	budget.Description = req.Description

	if err := h.DB.Save(&budget).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось обновить бюджет")
		return
	}

	util.Success(c, util.Response{
		"budget": budget,
	})
}

func (h *BudgetHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var budget models.Budget
	if err := h.DB.First(&budget, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, budgetNotFound)
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить бюджет")
		}
		return
	}
	if budget.UserID != user.ID {
		util.Error(c, http.StatusBadRequest, util.CodeForbidden, "Пользователь не может удалить не свой бюджет")
		return
	}

	if err := h.DB.Delete(&budget).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось удалить бюджет")
		return
	}

	util.Success(c, util.Response{
		"message": "Бюджет удален",
	})
}
