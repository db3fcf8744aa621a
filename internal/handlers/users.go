package handlers

import (
	"net/http"

	"github.com/omarch7/APIS-On-Rails/internal/serializers"
	"github.com/omarch7/APIS-On-Rails/internal/services"

	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	User struct {
		Email                string `json:"email"`
		Password             string `json:"password"`
		PasswordConfirmation string `json:"password_confirmation"`
	} `json:"user"`
}

type userUpdateRequest struct {
	User struct {
		Email                *string `json:"email"`
		Password             *string `json:"password"`
		PasswordConfirmation *string `json:"password_confirmation"`
	} `json:"user"`
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	user, err := h.userService.Create(services.SignupDTO{
		Email:                req.User.Email,
		Password:             req.User.Password,
		PasswordConfirmation: req.User.PasswordConfirmation,
	}, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializers.User(user))
}

func (h *Handler) ShowUser(c *gin.Context) {
	id, err := pathID(c, "user_id")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": "record not found"})
		return
	}

	user, err := h.userService.Find(id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializers.User(user))
}

func (h *Handler) UpdateUser(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	user, err := h.userService.Update(userID, services.UserUpdateDTO{
		Email:                req.User.Email,
		Password:             req.User.Password,
		PasswordConfirmation: req.User.PasswordConfirmation,
	}, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.renderError(c, err)
		return
	}

	// Cached product payloads embed the owner's email.
	h.invalidateProduct(c, user.ProductIDs()...)

	c.JSON(http.StatusOK, serializers.User(user))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	// The delete cascades over the user's products; collect their ids first
	// so the cache entries go with them.
	user, err := h.userService.Find(userID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	productIDs := user.ProductIDs()

	if err := h.userService.Delete(userID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		h.renderError(c, err)
		return
	}

	h.invalidateProduct(c, productIDs...)
	c.Status(http.StatusNoContent)
}
