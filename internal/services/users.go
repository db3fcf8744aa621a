package services

import (
	"errors"

	"github.com/omarch7/APIS-On-Rails/internal/models"
	"github.com/omarch7/APIS-On-Rails/internal/validation"
	"github.com/omarch7/APIS-On-Rails/pkg/utils"

	"gorm.io/gorm"
)

type SignupDTO struct {
	Email                string
	Password             string
	PasswordConfirmation string
}

type UserUpdateDTO struct {
	Email                *string
	Password             *string
	PasswordConfirmation *string
}

type UserService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewUserService(db *gorm.DB, audit *AuditService) *UserService {
	return &UserService{db: db, audit: audit}
}

// Create signs a user up. Validation runs against the candidate fields and a
// failure leaves the table untouched.
func (s *UserService) Create(dto SignupDTO, ip, userAgent string) (*models.User, error) {
	errs := validation.Errors{}
	s.validateEmail(dto.Email, 0, errs)
	if dto.Password == "" {
		errs.Add("password", validation.MsgBlank)
	} else if dto.Password != dto.PasswordConfirmation {
		errs.Add("password_confirmation", validation.MsgConfirmation)
	}
	if errs.Any() {
		return nil, validation.Failed(errs)
	}

	hash, err := utils.HashPassword(dto.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        dto.Email,
		PasswordHash: hash,
		AuthToken:    utils.GenerateAuthToken(),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	s.audit.LogAction(&user.ID, "SIGNUP", user.Email, nil, ip, userAgent)
	return &user, nil
}

// Find loads a user with its products so the serializer can embed product ids.
func (s *UserService) Find(id uint) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Products").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByToken resolves a bearer token to a user by exact match.
func (s *UserService) FindByToken(token string) (*models.User, error) {
	var user models.User
	err := s.db.Where("auth_token = ?", token).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate checks an email/password pair for login.
func (s *UserService) Authenticate(email, password string, ip, userAgent string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.audit.LogAction(nil, "LOGIN_FAILED", email, nil, ip, userAgent)
		return nil, ErrInvalidCredentials
	}

	s.audit.LogAction(&user.ID, "LOGIN", user.Email, nil, ip, userAgent)
	return &user, nil
}

func (s *UserService) Update(id uint, dto UserUpdateDTO, ip, userAgent string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	errs := validation.Errors{}
	if dto.Email != nil {
		s.validateEmail(*dto.Email, user.ID, errs)
	}
	if dto.Password != nil {
		if *dto.Password == "" {
			errs.Add("password", validation.MsgBlank)
		} else if dto.PasswordConfirmation == nil || *dto.Password != *dto.PasswordConfirmation {
			errs.Add("password_confirmation", validation.MsgConfirmation)
		}
	}
	if errs.Any() {
		return nil, validation.Failed(errs)
	}

	if dto.Email != nil {
		user.Email = *dto.Email
	}
	if dto.Password != nil {
		hash, err := utils.HashPassword(*dto.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}

	s.audit.LogAction(&user.ID, "UPDATE_USER", user.Email, nil, ip, userAgent)

	// Reload products for serialization.
	return s.Find(user.ID)
}

// Delete removes the user together with their products, orders and order
// rows in one transaction.
func (s *UserService) Delete(id uint, ip, userAgent string) error {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var orderIDs []uint
		if err := tx.Model(&models.Order{}).Where("user_id = ?", id).Pluck("id", &orderIDs).Error; err != nil {
			return err
		}
		if len(orderIDs) > 0 {
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderProduct{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Order{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Product{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		return err
	}

	s.audit.LogAction(&id, "DELETE_USER", user.Email, nil, ip, userAgent)
	return nil
}

func (s *UserService) validateEmail(email string, selfID uint, errs validation.Errors) {
	if email == "" {
		errs.Add("email", validation.MsgBlank)
		return
	}
	if !validation.ValidEmail(email) {
		errs.Add("email", validation.MsgInvalid)
		return
	}

	var count int64
	query := s.db.Model(&models.User{}).Where("email = ?", email)
	if selfID != 0 {
		query = query.Where("id <> ?", selfID)
	}
	if err := query.Count(&count).Error; err == nil && count > 0 {
		errs.Add("email", validation.MsgTaken)
	}
}
