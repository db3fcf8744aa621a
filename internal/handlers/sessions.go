package handlers

import (
	"errors"
	"net/http"

	"github.com/omarch7/APIS-On-Rails/internal/serializers"
	"github.com/omarch7/APIS-On-Rails/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Session struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"session"`
}

// Login exchanges an email/password pair for the user's auth token. It is
// the only endpoint that returns the token. A browser session is set as
// well so the cookie fallback in TokenAuth works.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	user, err := h.userService.Authenticate(req.Session.Email, req.Session.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"errors": "Invalid email or password"})
			return
		}
		h.renderError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	if err := session.Save(); err != nil {
		h.logger.Warn("Failed to save session", "error", err)
	}

	c.JSON(http.StatusOK, serializers.Session(user))
}

func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "Failed to clear session"})
		return
	}
	c.Status(http.StatusNoContent)
}
