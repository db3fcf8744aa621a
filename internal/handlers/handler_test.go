package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/omarch7/APIS-On-Rails/internal/config"
	"github.com/omarch7/APIS-On-Rails/internal/models"
	"github.com/omarch7/APIS-On-Rails/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type testEnv struct {
	handler  *Handler
	router   *gin.Engine
	db       *gorm.DB
	users    *services.UserService
	products *services.ProductService
	orders   *services.OrderService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderProduct{}, &models.AuditLog{})
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		BaseURL:       "http://localhost:8080",
		SessionSecret: "test-secret-12345678901234567890123456789012",
		PerPage:       25,
	}

	audit := services.NewAuditService(db, logger)
	users := services.NewUserService(db, audit)
	products := services.NewProductService(db, audit, cfg.PerPage)
	orders := services.NewOrderService(db, audit)
	qr := services.NewQRService(cfg.BaseURL)

	// Use a dummy redis client (not connected) with no retries
	rdb := redis.NewClient(&redis.Options{
		Addr:       "localhost:1",
		MaxRetries: -1,
	})

	h := NewHandler(cfg, logger, db, rdb, users, products, orders, audit, qr)
	return &testEnv{
		handler:  h,
		router:   h.SetupRouter(nil),
		db:       db,
		users:    users,
		products: products,
		orders:   orders,
	}
}

// fakeCache is a map-backed productCache so tests can drive the hit and
// invalidation paths without a redis server.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.data[key]
	if !ok {
		return nil, redis.Nil
	}
	return data, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = data
	return nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeCache) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

func (e *testEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := e.users.Create(services.SignupDTO{
		Email:                email,
		Password:             "12345678",
		PasswordConfirmation: "12345678",
	}, "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("fixture user failed: %v", err)
	}
	return user
}

func (e *testEnv) createProduct(t *testing.T, userID uint, title, price string) *models.Product {
	t.Helper()
	product, err := e.products.Create(userID, services.ProductDTO{
		Title: title,
		Price: decimal.RequireFromString(price),
	}, "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("fixture product failed: %v", err)
	}
	return product
}

// request performs an HTTP request against the test router. A non-empty
// token is sent raw in the Authorization header, the way clients do.
func (e *testEnv) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewBuffer(raw)
	}

	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", w.Body.String(), err)
	}
	return body
}

func errorMessages(t *testing.T, w *httptest.ResponseRecorder, field string) []string {
	t.Helper()
	body := decodeBody(t, w)
	errs, ok := body["errors"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no errors object: %q", w.Body.String())
	}
	raw, ok := errs[field].([]interface{})
	if !ok {
		t.Fatalf("no errors for field %q: %q", field, w.Body.String())
	}
	messages := make([]string, 0, len(raw))
	for _, m := range raw {
		messages = append(messages, m.(string))
	}
	return messages
}
