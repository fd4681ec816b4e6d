package util

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaksimGMD/spender/internal/ledger"
)

// Response is the data payload of a successful reply.
type Response map[string]interface{}

// Business error codes.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeForbidden    = 40301
	CodeNotFound     = 40401
	CodeConflict     = 40901
	CodeServerErr    = 50001
)

// Success writes the unified success envelope.
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error writes the unified error envelope.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// LedgerError maps an engine failure onto the response envelope.
// notFoundMsg is the entity-specific "not found" message; ownership failures
// answer 400 with the caller-supplied forbiddenMsg.
func LedgerError(c *gin.Context, err error, notFoundMsg, forbiddenMsg string) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		Error(c, http.StatusNotFound, CodeNotFound, notFoundMsg)
	case errors.Is(err, ledger.ErrForbidden):
		Error(c, http.StatusBadRequest, CodeForbidden, forbiddenMsg)
	case errors.Is(err, ledger.ErrConflict):
		Error(c, http.StatusConflict, CodeConflict, err.Error())
	default:
		Error(c, http.StatusInternalServerError, CodeServerErr, "Произошла ошибка: "+err.Error())
	}
}
