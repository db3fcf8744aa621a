package services

import (
	"errors"
	"fmt"

	"github.com/omarch7/APIS-On-Rails/internal/models"
	"github.com/omarch7/APIS-On-Rails/internal/validation"

	"gorm.io/gorm"
)

// OrderItemDTO pairs a product with a quantity. Quantity 0 means "not
// supplied" and defaults to 1.
type OrderItemDTO struct {
	ProductID uint
	Quantity  int
}

type OrderService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewOrderService(db *gorm.DB, audit *AuditService) *OrderService {
	return &OrderService{db: db, audit: audit}
}

// Create places an order for the given user. Every referenced product must
// exist; the order and its rows are written in one transaction.
func (s *OrderService) Create(userID uint, items []OrderItemDTO, ip, userAgent string) (*models.Order, error) {
	errs := validation.Errors{}
	if len(items) == 0 {
		errs.Add("product_ids", validation.MsgBlank)
		return nil, validation.Failed(errs)
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	var count int64
	if err := s.db.Model(&models.Product{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return nil, err
	}
	if count != int64(len(uniqueIDs(ids))) {
		errs.Add("product_ids", validation.MsgInvalid)
		return nil, validation.Failed(errs)
	}

	order := models.Order{UserID: userID}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, item := range items {
			quantity := item.Quantity
			if quantity <= 0 {
				quantity = 1
			}
			row := models.OrderProduct{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  quantity,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogAction(&userID, "PLACE_ORDER", fmt.Sprintf("%d", order.ID), map[string]interface{}{
		"product_ids": ids,
	}, ip, userAgent)

	return s.Find(userID, order.ID)
}

// Find loads one of the user's orders with its products and their owners.
func (s *OrderService) Find(userID, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.
		Where("user_id = ?", userID).
		Preload("Items.Product.User").
		First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns all orders of a single user; there is no cross-user listing.
func (s *OrderService) List(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.
		Where("user_id = ?", userID).
		Preload("Items.Product.User").
		Order("id").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) Delete(userID, id uint, ip, userAgent string) error {
	var order models.Order
	err := s.db.Where("user_id = ?", userID).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderProduct{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
	if err != nil {
		return err
	}

	s.audit.LogAction(&userID, "DELETE_ORDER", fmt.Sprintf("%d", id), nil, ip, userAgent)
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
