package handler

import (
	"net/http"
	"strings"

	"github.com/MaksimGMD/spender/internal/models"
	"github.com/MaksimGMD/spender/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// GetMe returns the current authenticated user.
func GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	util.Success(c, util.Response{
		"user": user,
	})
}

// ListUsers returns all users. Any authenticated caller may list them.
func ListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			return
		}

		var users []models.User
		if err := db.Find(&users).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось загрузить пользователей")
			return
		}

		util.Success(c, util.Response{
			"users": users,
		})
	}
}

type updateMeReq struct {
	Name        string `json:"name" binding:"omitempty,max=64"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,max=32"`
	Region      string `json:"region" binding:"omitempty,len=2"`
	Password    string `json:"password" binding:"omitempty,min=8,max=64"`
}

// UpdateMe updates the caller's profile. A non-empty password is re-hashed.
func UpdateMe(db *gorm.DB, bcryptCost int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req updateMeReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректные данные запроса")
			return
		}

		if req.Name != "" {
			user.Name = strings.TrimSpace(req.Name)
		}
		if req.PhoneNumber != "" {
			user.PhoneNumber = req.PhoneNumber
		}
		if req.Region != "" {
			user.Region = strings.ToUpper(req.Region)
		}
		if req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
			if err != nil {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось захешировать пароль")
				return
			}
			user.HashedPassword = string(hash)
		}

		if err := db.Save(user).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Не удалось обновить профиль")
			return
		}

		util.Success(c, util.Response{
			"user": user,
		})
	}
}
