package http

import (
	"net/http"
	"strings"

	"github.com/dhillon/auth-api/internal/adapters/transport/http/dto"
	appsvc "github.com/dhillon/auth-api/internal/app/auth/service"
	customErrors "github.com/dhillon/auth-api/internal/domain/auth/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const adminRole = "ADMIN"

type Handler struct {
	svc appsvc.Service
	log *zap.Logger
}

func NewHandler(svc appsvc.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts the auth surface under /api/auth and the
// maintenance surface under /api/admin.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	auth := router.Group("/api/auth")
	auth.POST("/register", h.register)
	auth.POST("/login", h.login)
	auth.GET("/verify", h.verify)

	admin := router.Group("/api/admin")
	admin.Use(h.requireRole(adminRole))
	admin.DELETE("/accounts/:id", h.deleteAccount)
}

func (h *Handler) register(c *gin.Context) {
	var body dto.RegisterDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.svc.Register(c.Request.Context(), body); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Registration successful. Check your email for verification."})
}

func (h *Handler) login(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.svc.Login(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":     session.Token,
		"expiresIn": int(session.TTL.Seconds()),
	})
}

func (h *Handler) verify(c *gin.Context) {
	var body dto.VerifyDTO
	if err := c.ShouldBindQuery(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.Verify(c.Request.Context(), body); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified. You can now log in."})
}

func (h *Handler) deleteAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed account id"})
		return
	}

	if err := h.svc.DeleteAccount(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

// requireRole gates a route group behind a bearer session token whose
// account carries the given role label.
func (h *Handler) requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if raw == "" || raw == c.GetHeader("Authorization") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		account, err := h.svc.ValidateSession(c.Request.Context(), dto.ValidateDTO{SessionToken: raw})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		for _, r := range account.Roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

// handleError maps the service error taxonomy onto HTTP statuses:
// malformed or duplicated input is a client error, failed
// authentication is forbidden, transient store trouble is 503.
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case customErrors.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case customErrors.IsEmailTaken(err), customErrors.IsUsernameTaken(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case customErrors.IsInvalidToken(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification token"})
	case customErrors.IsTokenExpired(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Verification token expired"})
	case customErrors.IsInvalidCredentials(err):
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid credentials or email not verified"})
	case customErrors.IsAuthenticationFailed(err):
		c.JSON(http.StatusForbidden, gin.H{"error": "Authentication failed"})
	case customErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case customErrors.IsUnavailable(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
	default:
		h.log.Error("unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
