package middleware

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"strings"

	"github.com/MaksimGMD/spender/internal/models"
	"github.com/MaksimGMD/spender/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func encryptField(encryptKey, plain string) (string, error) {
	if plain == "" || encryptKey == "" {
		return plain, nil
	}
	b, err := util.EncryptAES(encryptKey, []byte(plain))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// redactBody strips credential fields from a JSON request body before it is
// stored. A body that is not a JSON object is dropped entirely.
func redactBody(body []byte) string {
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	for key := range fields {
		if strings.Contains(strings.ToLower(key), "password") {
			fields[key] = "***"
		}
	}
	redacted, err := json.Marshal(fields)
	if err != nil {
		return ""
	}
	return string(redacted)
}

// AuditMiddleware records every authenticated request to the audit log and
// stamps a request id on the response. Passwords are redacted from stored
// bodies; with an encryption key configured, path and action are stored
// AES-GCM encrypted only. Writes are best-effort and never fail the request.
func AuditMiddleware(db *gorm.DB, encryptKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("requestID", requestID)
		c.Header("X-Request-ID", requestID)

		var userID uint
		if v, ok := c.Get("currentUser"); ok {
			if user, ok := v.(*models.User); ok && user != nil {
				userID = user.ID
			}
		}

		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		// only log actions of authenticated users
		if userID == 0 {
			return
		}

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		if len(bodyBytes) > 0 && len(bodyBytes) < 2000 {
			if redacted := redactBody(bodyBytes); redacted != "" {
				action += " " + redacted
			}
		}

		entry := models.AuditLog{
			RequestID: requestID,
			UserID:    &userID,
			Method:    c.Request.Method,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		if encryptKey == "" {
			entry.Path = path
			entry.Action = action
		} else {
			encPath, err := encryptField(encryptKey, path)
			if err != nil {
				return
			}
			encAction, err := encryptField(encryptKey, action)
			if err != nil {
				return
			}
			entry.PathEnc = encPath
			entry.ActionEnc = encAction
		}

		_ = db.Create(&entry).Error
	}
}
