package handler

import (
	"net/http"
	"strconv"

	"github.com/MaksimGMD/spender/internal/models"
	"github.com/MaksimGMD/spender/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated user placed into the context by
// AuthMiddleware. On failure it writes the 401 envelope and returns ok=false.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("currentUser")
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Требуется авторизация")
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Требуется авторизация")
		return nil, false
	}
	return user, true
}

// pathID parses the :id route parameter. On failure it writes the 400
// envelope and returns ok=false.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Некорректный идентификатор")
		return 0, false
	}
	return uint(id), true
}
