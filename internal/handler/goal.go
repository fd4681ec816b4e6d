package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MaksimGMD/spender/internal/ledger"
	"github.com/MaksimGMD/spender/internal/models"
	"github.com/MaksimGMD/spender/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const goalNotFound = "Цель не найдена"

// GoalHandler serves goal CRUD. Achievement recomputation is delegated to
// the ledger engine after every mutation.
type GoalHandler struct {
	DB     *gorm.DB
	Engine *ledger.Engine
}

func NewGoalHandler(db *gorm.DB, engine *ledger.Engine) *GoalHandler {
	return &GoalHandler{DB: db, Engine: engine}
}

type goalReq struct {
	Name         string          `json:"name" binding:"required,max=64"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	Amount       decimal.Decimal `json:"amount"`
	Deadline     string          `json:"deadline"`
}

type goalAmountReq struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *GoalHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var goals []models.Goal
	if err := h.DB.Where("user_id = ?", user.ID).Find(&goals).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить цели")
		return
	}

	util.Success(c, util.Response{
		"goals": goals,
	})
}

func (h *GoalHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var goal models.Goal
	if err := h.DB.First(&goal, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, goalNotFound)
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить цель")
		}
		return
	}
	if goal.UserID != user.ID {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "Недостаточно прав")
		return
	}

	util.Success(c, util.Response{
		"goal": goal,
	})
}

// Create adds a goal and immediately runs the achievement rule, so a goal
// created with amount >= target starts achieved.
func (h *GoalHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req goalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректные данные запроса")
		return
	}
	if err := util.ValidatePositiveAmount(req.TargetAmount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректная целевая сумма")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректная сумма")
		return
	}
	deadline, err := util.ParseDate(req.Deadline)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	goal := models.Goal{
		Name:         strings.TrimSpace(req.Name),
		TargetAmount: req.TargetAmount,
		Amount:       req.Amount,
		CreationDate: time.Now(),
		UserID:       user.ID,
	}
	if !deadline.IsZero() {
		goal.Deadline = &deadline
	}
	if err := h.DB.Create(&goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось создать цель")
		return
	}

	refreshed, err := h.Engine.RefreshAchievement(goal.ID)
	if err != nil {
		util.LedgerError(c, err, goalNotFound, "")
		return
	}

	util.Success(c, util.Response{
		"goal": refreshed,
	})
}

func (h *GoalHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req goalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректные данные запроса")
		return
	}
	if err := util.ValidatePositiveAmount(req.TargetAmount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректная целевая сумма")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректная сумма")
		return
	}
	deadline, err := util.ParseDate(req.Deadline)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	var goal models.Goal
	if err := h.DB.First(&goal, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, goalNotFound)
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить цель")
		}
		return
	}
	if goal.UserID != user.ID {
		util.Error(c, http.StatusBadRequest, util.CodeForbidden, "Пользователь не может изменить не свою цель")
		return
	}

	goal.Name = strings.TrimSpace(req.Name)
	goal.TargetAmount = req.TargetAmount
	goal.Amount = req.Amount
	if deadline.IsZero() {
		goal.Deadline = nil
	} else {
		goal.Deadline = &deadline
	}

	if err := h.DB.Save(&goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось обновить цель")
		return
	}

	refreshed, err := h.Engine.RefreshAchievement(goal.ID)
	if err != nil {
		util.LedgerError(c, err, goalNotFound, "")
		return
	}

	util.Success(c, util.Response{
		"goal": refreshed,
	})
}

// AddAmount adds a signed delta to the accumulated amount; negative deltas
// withdraw part of the savings. The achievement flag follows.
func (h *GoalHandler) AddAmount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req goalAmountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректные данные запроса")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректная сумма")
		return
	}

	goal, err := h.Engine.AddAccumulatedAmount(user.ID, id, req.Amount)
	if err != nil {
		util.LedgerError(c, err, goalNotFound, "Пользователь не может изменить не свою цель")
		return
	}

	util.Success(c, util.Response{
		"goal": goal,
	})
}

func (h *GoalHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var goal models.Goal
	if err := h.DB.First(&goal, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, goalNotFound)
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить цель")
		}
		return
	}
	if goal.UserID != user.ID {
		util.Error(c, http.StatusBadRequest, util.CodeForbidden, "Пользователь не может удалить не свою цель")
		return
	}

	if err := h.DB.Delete(&goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось удалить цель")
		return
	}

	util.Success(c, util.Response{
		"message": fmt.Sprintf("Цель: %s удалена", goal.Name),
	})
}
