package services

import (
	"errors"

	"github.com/omarch7/APIS-On-Rails/internal/models"
	"github.com/omarch7/APIS-On-Rails/internal/validation"
	"github.com/omarch7/APIS-On-Rails/pkg/pagination"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductDTO struct {
	Title string
	Price decimal.Decimal
}

type ProductUpdateDTO struct {
	Title *string
	Price *decimal.Decimal
}

// ProductFilter scopes List. An empty IDs slice means no id filter.
type ProductFilter struct {
	IDs     []uint
	Page    int
	PerPage int
}

type ProductService struct {
	db             *gorm.DB
	audit          *AuditService
	perPageDefault int
}

func NewProductService(db *gorm.DB, audit *AuditService, perPageDefault int) *ProductService {
	return &ProductService{db: db, audit: audit, perPageDefault: perPageDefault}
}

func (s *ProductService) Create(userID uint, dto ProductDTO, ip, userAgent string) (*models.Product, error) {
	if err := validateProduct(dto.Title, dto.Price); err != nil {
		return nil, err
	}

	product := models.Product{
		Title:  dto.Title,
		Price:  dto.Price,
		UserID: userID,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		return tx.Preload("User").First(&product, product.ID).Error
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogAction(&userID, "CREATE_PRODUCT", product.Title, nil, ip, userAgent)
	return &product, nil
}

// Find loads a product with its owner for embedding.
func (s *ProductService) Find(id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.Preload("User").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns a page of products ordered by id, optionally restricted to an
// id set, together with the pagination metadata for the full match count.
func (s *ProductService) List(filter ProductFilter) ([]models.Product, pagination.Meta, error) {
	page, perPage := pagination.Page(filter.Page, filter.PerPage, s.perPageDefault)

	query := s.db.Model(&models.Product{})
	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, pagination.Meta{}, err
	}

	var products []models.Product
	err := query.
		Preload("User").
		Order("id").
		Limit(perPage).
		Offset(pagination.Offset(page, perPage)).
		Find(&products).Error
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return products, pagination.MetaFor(count, perPage), nil
}

func (s *ProductService) Update(userID, id uint, dto ProductUpdateDTO, ip, userAgent string) (*models.Product, error) {
	var product models.Product
	err := s.db.Where("user_id = ?", userID).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	title := product.Title
	price := product.Price
	if dto.Title != nil {
		title = *dto.Title
	}
	if dto.Price != nil {
		price = *dto.Price
	}
	if err := validateProduct(title, price); err != nil {
		return nil, err
	}

	product.Title = title
	product.Price = price
	if err := s.db.Save(&product).Error; err != nil {
		return nil, err
	}

	s.audit.LogAction(&userID, "UPDATE_PRODUCT", product.Title, nil, ip, userAgent)
	return s.Find(product.ID)
}

func (s *ProductService) Delete(userID, id uint, ip, userAgent string) error {
	var product models.Product
	err := s.db.Where("user_id = ?", userID).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.OrderProduct{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
	if err != nil {
		return err
	}

	s.audit.LogAction(&userID, "DELETE_PRODUCT", product.Title, nil, ip, userAgent)
	return nil
}

func validateProduct(title string, price decimal.Decimal) error {
	errs := validation.Errors{}
	if title == "" {
		errs.Add("title", validation.MsgBlank)
	}
	if price.IsNegative() {
		errs.Add("price", validation.MsgPriceGTEZero)
	}
	return validation.Failed(errs)
}
