package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"recipebook/internal/handlers"
	"recipebook/internal/recipes"
	"recipebook/models"
)

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := db.Create(&models.User{Email: "user@example.com", PasswordHash: string(hash)}).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return db
}

func login(t *testing.T, handler http.Handler) []*http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"email":"user@example.com","password":"password123"}`))
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected login to succeed, got %d: %s", rr.Code, rr.Body.String())
	}
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie to be set")
	}
	return cookies
}

func TestNewAppliesSessionDefaults(t *testing.T) {
	db := openTestDatabase(t)

	cfg := Config{Addr: ":8080", Session: SessionConfig{CookieSecure: true}, Database: db}
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	t.Cleanup(func() {
		handlers.Configure(nil, nil, nil)
	})

	if srv.httpServer.Addr != ":8080" {
		t.Fatalf("expected server addr :8080, got %q", srv.httpServer.Addr)
	}

	cookies := login(t, srv.Handler())
	if cookies[0].Name != "recipebook_session" {
		t.Fatalf("expected default session cookie name, got %q", cookies[0].Name)
	}
	if !cookies[0].Secure {
		t.Fatal("expected cookie secure flag to be true")
	}
}

func TestServerHandler(t *testing.T) {
	srv, err := New(Config{Addr: ":9090"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		handlers.Configure(nil, nil, nil)
	})

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected /healthz to return 200, got %d", rr.Code)
	}
	if rr.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected a request id header")
	}
}

func TestMutationsRequireSession(t *testing.T) {
	db := openTestDatabase(t)
	engine := recipes.NewEngine(nil)

	srv, err := New(Config{Addr: ":8080", Database: db, Engine: engine})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		handlers.Configure(nil, nil, nil)
	})
	handler := srv.Handler()

	body := `{"name":"Porridge","servings":1,"ingredients":[{"name":"Oats","amount":50,"unit":"g"}]}`
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(body)))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rr.Code)
	}

	cookies := login(t, handler)

	req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 with session, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/recipes/by-ingredient?name=Oat", nil))
	var found []models.Recipe
	if err := json.Unmarshal(rr.Body.Bytes(), &found); err != nil {
		t.Fatalf("failed to decode lookup: %v", err)
	}
	if len(found) != 1 || found[0].Name != "Porridge" {
		t.Fatalf("expected porridge to be found by ingredient, got %+v", found)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/ingredients?name=Oats", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous delete, got %d", rr.Code)
	}
}
