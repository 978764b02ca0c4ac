package auth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hotelstock-backend/internal/config"
	"hotelstock-backend/internal/database"
	"hotelstock-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db
	return db
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "0123456789abcdef0123456789abcdef"}
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func TestRegisterAdminBootstrapOnce(t *testing.T) {
	setupTestDB(t)
	cfg := testConfig()
	app := fiber.New()
	app.Post("/api/auth/register-admin", RegisterAdminHandler(cfg))

	body := `{"name":"Gérant","email":"admin@hotel.test","password":"secret123"}`
	if resp := doJSON(t, app, http.MethodPost, "/api/auth/register-admin", body); resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register: expected 201 got %d", resp.StatusCode)
	}
	if resp := doJSON(t, app, http.MethodPost, "/api/auth/register-admin", body); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("second register: expected 403 got %d", resp.StatusCode)
	}
}

func TestLoginAndTokenRoundtrip(t *testing.T) {
	setupTestDB(t)
	cfg := testConfig()
	app := fiber.New()
	app.Post("/api/auth/register-admin", RegisterAdminHandler(cfg))
	app.Post("/api/auth/login", LoginHandler(cfg))

	doJSON(t, app, http.MethodPost, "/api/auth/register-admin",
		`{"name":"Gérant","email":"admin@hotel.test","password":"secret123"}`)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login",
		`{"email":"admin@hotel.test","password":"secret123"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200 got %d", resp.StatusCode)
	}

	respBody, _ := io.ReadAll(resp.Body)
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if out.Token == "" {
		t.Fatalf("no token returned")
	}

	claims, err := ParseToken(cfg.JWTSecret, out.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Role != models.RoleAdmin || claims.Email != "admin@hotel.test" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, err := ParseToken("wrong-secret-wrong-secret-wrong!", out.Token); err == nil {
		t.Fatalf("expected parse failure with wrong secret")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	setupTestDB(t)
	cfg := testConfig()
	app := fiber.New()
	app.Post("/api/auth/register-admin", RegisterAdminHandler(cfg))
	app.Post("/api/auth/login", LoginHandler(cfg))

	doJSON(t, app, http.MethodPost, "/api/auth/register-admin",
		`{"name":"Gérant","email":"admin@hotel.test","password":"secret123"}`)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login",
		`{"email":"admin@hotel.test","password":"nope"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.StatusCode)
	}
}
