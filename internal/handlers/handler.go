package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/omarch7/APIS-On-Rails/internal/config"
	"github.com/omarch7/APIS-On-Rails/internal/models"
	"github.com/omarch7/APIS-On-Rails/internal/serializers"
	"github.com/omarch7/APIS-On-Rails/internal/services"
	"github.com/omarch7/APIS-On-Rails/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const currentUserKey = "current_user"

type Handler struct {
	cfg            config.Config
	logger         *slog.Logger
	db             *gorm.DB
	cache          productCache
	userService    *services.UserService
	productService *services.ProductService
	orderService   *services.OrderService
	auditService   *services.AuditService
	qrService      *services.QRService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	db *gorm.DB,
	rdb *redis.Client,
	userService *services.UserService,
	productService *services.ProductService,
	orderService *services.OrderService,
	auditService *services.AuditService,
	qrService *services.QRService,
) *Handler {
	h := &Handler{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		userService:    userService,
		productService: productService,
		orderService:   orderService,
		auditService:   auditService,
		qrService:      qrService,
	}
	if rdb != nil {
		h.cache = &redisProductCache{rdb: rdb}
	}
	return h
}

// currentUser returns the user the auth middleware resolved for this request.
func (h *Handler) currentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}

// requireOwner parses the :user_id path segment and rejects the request with
// 403 when it does not match the authenticated user. Handlers must return
// immediately when ok is false.
func (h *Handler) requireOwner(c *gin.Context) (uint, bool) {
	user, ok := h.currentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": "Not authenticated"})
		return 0, false
	}

	pathUserID, err := pathID(c, "user_id")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"errors": "record not found"})
		return 0, false
	}
	if pathUserID != user.ID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"errors": "forbidden"})
		return 0, false
	}
	return pathUserID, true
}

// renderError maps service failures onto status codes. This is the only
// place errors become HTTP responses.
func (h *Handler) renderError(c *gin.Context, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, serializers.ValidationErrors(verr))
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"errors": "record not found"})
	default:
		h.logger.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "internal server error"})
	}
}

func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(id), err
}
