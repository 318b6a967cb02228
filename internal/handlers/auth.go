package handlers

import (
	"errors"
	"net/http"

	"github.com/14kear/online_voting/polls-service/internal/services/auth"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *auth.Auth
}

type CredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func NewAuthHandler(authService *auth.Auth) *AuthHandler {
	return &AuthHandler{auth: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindErrorMessage(err)})
		return
	}

	if _, err := h.auth.RegisterNewUser(c.Request.Context(), req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password required"})
		case errors.Is(err, auth.ErrUserExists):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already registered"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": serverErrorMessage})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindErrorMessage(err)})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password required"})
		case errors.Is(err, auth.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": serverErrorMessage})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
