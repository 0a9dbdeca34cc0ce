package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/checkout"
	"storefront/internal/logger"
	"storefront/internal/users"

	"github.com/gin-gonic/gin"
)

const sessionCookie = "session_id"

type UserHandler struct {
	users    *users.Service
	sessions *users.SessionCache
	ttl      time.Duration
	logger   *logger.Logger
}

func NewUserHandler(svc *users.Service, sessions *users.SessionCache, ttl time.Duration, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		users:    svc,
		sessions: sessions,
		ttl:      ttl,
		logger:   logger,
	}
}

// UserID resolves a customer email to the numeric id orders are filed
// under. The response shape is { "userId": N }.
func (h *UserHandler) UserID(c *gin.Context) {
	email := c.Param("email")

	id, err := h.users.ResolveUserID(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user ID"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"userId": id})
}

type loginRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email" binding:"required"`
	IsManager bool   `json:"is_manager"`
}

// Login caches the identity for session continuity and returns the
// resolved user id. This is display-state bookkeeping, not an
// authentication boundary.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.users.ResolveUserID(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user ID"})
		return
	}

	identity := checkout.Identity{Name: req.Name, Email: req.Email, IsManager: req.IsManager}
	sessionID, err := h.sessions.Put(c.Request.Context(), identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}
	c.SetCookie(sessionCookie, sessionID, int(h.ttl.Seconds()), "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{"userId": id, "data": identity})
}

func (h *UserHandler) Logout(c *gin.Context) {
	sessionID, err := c.Cookie(sessionCookie)
	if err == nil && sessionID != "" {
		if err := h.sessions.Drop(c.Request.Context(), sessionID); err != nil {
			h.logger.Error("failed to drop session: %v", err)
		}
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *UserHandler) Profile(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	user, err := h.users.Get(c.Request.Context(), uint(userID))
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

type updateProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), uint(userID), req.Name, req.Email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}
