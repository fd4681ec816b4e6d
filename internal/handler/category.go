package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/MaksimGMD/spender/internal/ledger"
	"github.com/MaksimGMD/spender/internal/models"
	"github.com/MaksimGMD/spender/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const categoryNotFound = "Категория не найдена"

// CategoryHandler serves category CRUD. Deleting a category cascades to its
// transactions, so the handler needs the engine to rebuild touched balances.
type CategoryHandler struct {
	DB     *gorm.DB
	Engine *ledger.Engine
}

func NewCategoryHandler(db *gorm.DB, engine *ledger.Engine) *CategoryHandler {
	return &CategoryHandler{DB: db, Engine: engine}
}

type categoryReq struct {
	Name     string `json:"name" binding:"required,max=64"`
	Color    string `json:"color" binding:"omitempty,max=16"`
	IconName string `json:"icon_name" binding:"omitempty,max=64"`
}

func (h *CategoryHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var categories []models.Category
	if err := h.DB.Where("user_id = ?", user.ID).Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить категории")
		return
	}

	util.Success(c, util.Response{
		"categories": categories,
	})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, categoryNotFound)
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить категорию")
		}
		return
	}
	if category.UserID != user.ID {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "Недостаточно прав")
		return
	}

	util.Success(c, util.Response{
		"category": category,
	})
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректные данные запроса")
		return
	}

	category := models.Category{
		Name:     strings.TrimSpace(req.Name),
		Color:    req.Color,
		IconName: req.IconName,
		UserID:   user.ID,
	}
	if err := h.DB.Create(&category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось создать категорию")
		return
	}

	util.Success(c, util.Response{
		"category": category,
	})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректные данные запроса")
		return
	}

	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, categoryNotFound)
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить категорию")
		}
		return
	}
	if category.UserID != user.ID {
		util.Error(c, http.StatusBadRequest, util.CodeForbidden, "Пользователь не может изменить не свою категорию")
		return
	}

	category.Name = strings.TrimSpace(req.Name)
	category.Color = req.Color
	category.IconName = req.IconName

	if err := h.DB.Save(&category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось обновить категорию")
		return
	}

	util.Success(c, util.Response{
		"category": category,
	})
}

// Delete removes a category together with its transactions and budgets (cascade).
func (h *CategoryHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, categoryNotFound)
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить категорию")
		}
		return
	}
	if category.UserID != user.ID {
		util.Error(c, http.StatusBadRequest, util.CodeForbidden, "Пользователь не может удалить не свою категорию")
		return
	}

	// the cascade removes this category's transactions, so the accounts they
	// touched need their balances rebuilt afterwards
	var accountIDs []uint
	if err := h.DB.Model(&models.Transaction{}).
		Distinct("account_id").
		Where("category_id = ?", category.ID).
		Pluck("account_id", &accountIDs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось удалить категорию")
		return
	}

	if err := h.DB.Select("Transactions", "Budgets").Delete(&category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось удалить категорию")
		return
	}

	for _, accountID := range accountIDs {
		if _, err := h.Engine.RecomputeBalance(accountID); err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось пересчитать баланс")
			return
		}
	}

	util.Success(c, util.Response{
		"message": fmt.Sprintf("Категория: %s удалена", category.Name),
	})
}
