package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MaksimGMD/spender/internal/models"
	"github.com/MaksimGMD/spender/internal/util"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.AuditLog{}); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func auditTestRouter(db *gorm.DB, user *models.User, encryptKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("currentUser", user) })
	r.Use(AuditMiddleware(db, encryptKey))
	r.PUT("/api/me", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func lastLog(t *testing.T, db *gorm.DB) *models.AuditLog {
	t.Helper()
	var entry models.AuditLog
	if err := db.Order("id DESC").First(&entry).Error; err != nil {
		t.Fatalf("load audit log: %v", err)
	}
	return &entry
}

// Passwords from request bodies must never reach the audit table in
// recoverable plaintext: the field is redacted and, with a key configured,
// the whole action is stored encrypted.
func TestAuditMiddleware_EncryptsAndRedactsBody(t *testing.T) {
	db := newTestDB(t)
	user := models.User{Name: "test", Email: "u@example.com", HashedPassword: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	const key = "audit-key"
	r := auditTestRouter(db, &user, key)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/me",
		strings.NewReader(`{"name":"Мария","password":"sup3r-secret"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}

	entry := lastLog(t, db)
	if entry.Path != "" || entry.Action != "" {
		t.Errorf("plaintext columns not empty: path=%q action=%q", entry.Path, entry.Action)
	}
	if entry.PathEnc == "" || entry.ActionEnc == "" {
		t.Fatal("encrypted columns are empty")
	}

	raw, err := base64.StdEncoding.DecodeString(entry.ActionEnc)
	if err != nil {
		t.Fatalf("decode action: %v", err)
	}
	plain, err := util.DecryptAES(key, raw)
	if err != nil {
		t.Fatalf("decrypt action: %v", err)
	}
	action := string(plain)
	if strings.Contains(action, "sup3r-secret") {
		t.Errorf("decrypted action still contains the password: %q", action)
	}
	if !strings.Contains(action, "Мария") {
		t.Errorf("decrypted action lost non-sensitive fields: %q", action)
	}
	if !strings.HasPrefix(action, "PUT /api/me") {
		t.Errorf("action = %q, want prefix %q", action, "PUT /api/me")
	}
}

func TestAuditMiddleware_NoKeyStoresRedactedPlaintext(t *testing.T) {
	db := newTestDB(t)
	user := models.User{Name: "test", Email: "u@example.com", HashedPassword: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	r := auditTestRouter(db, &user, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/me",
		strings.NewReader(`{"password":"sup3r-secret"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	entry := lastLog(t, db)
	if entry.Path != "/api/me" {
		t.Errorf("path = %q, want /api/me", entry.Path)
	}
	if strings.Contains(entry.Action, "sup3r-secret") {
		t.Errorf("stored action contains the password: %q", entry.Action)
	}
}

func TestAuditMiddleware_SkipsAnonymousRequests(t *testing.T) {
	db := newTestDB(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuditMiddleware(db, "audit-key"))
	r.GET("/api/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	var count int64
	db.Model(&models.AuditLog{}).Count(&count)
	if count != 0 {
		t.Errorf("got %d audit rows for anonymous request, want 0", count)
	}
}
