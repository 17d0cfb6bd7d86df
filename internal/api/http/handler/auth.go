package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/ipgeo-server/internal/logger"
	"github.com/dtroode/ipgeo-server/internal/model"
)

// AuthService defines login and registration operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, model.User, error)
	Register(ctx context.Context, email, password, name string) (model.User, error)
}

// UserView is the public form of an account.
type UserView struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

func newUserView(u model.User) UserView {
	return UserView{ID: u.ID, Email: u.Email, Name: u.Name}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

type UserResponse struct {
	User UserView `json:"user"`
}

// Auth handles login and registration endpoints.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

func bindCredentials(c *gin.Context) (credentialsRequest, error) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return credentialsRequest{}, model.NewValidationError("credentials", "email and password required")
	}
	return req, nil
}

// Login exchanges email and password for a session token.
func (h *Auth) Login(c *gin.Context) {
	req, err := bindCredentials(c)
	if err != nil {
		WriteError(c, err)
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: newUserView(user)})
}

// Register creates a new account.
func (h *Auth) Register(c *gin.Context) {
	req, err := bindCredentials(c)
	if err != nil {
		WriteError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		WriteError(c, err)
		return
	}

	h.logger.Info("Auth handler: user registered",
		"user_id", user.ID)

	c.JSON(http.StatusCreated, UserResponse{User: newUserView(user)})
}
