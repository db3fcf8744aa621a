package services

import (
	"log/slog"
	"os"
	"testing"

	"github.com/omarch7/APIS-On-Rails/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderProduct{}, &models.AuditLog{})
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func newTestServices(t *testing.T) (*gorm.DB, *UserService, *ProductService, *OrderService) {
	t.Helper()
	db := setupTestDB(t)
	audit := NewAuditService(db, testLogger())
	users := NewUserService(db, audit)
	products := NewProductService(db, audit, 25)
	orders := NewOrderService(db, audit)
	return db, users, products, orders
}
