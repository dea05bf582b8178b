package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"servicedirectory/internal/model"
	"servicedirectory/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request. Older clients send
// the phone number as "mobile".
type RegisterRequest struct {
	Name         string `json:"name" validate:"required"`
	MobileNumber string `json:"mobileNumber"`
	Mobile       string `json:"mobile"`
	Email        string `json:"email" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutRequest represents a logout request.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// MessageResponse is a bare confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Message      string            `json:"message"`
	User         model.UserSummary `json:"user"`
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
	ExpiresAt    time.Time         `json:"expiresAt"`
}

// RefreshResponse carries a new access token.
type RefreshResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return toHTTPError(errInvalidBody)
	}

	if err := c.Validate(&req); err != nil {
		return toHTTPError(err)
	}

	mobile := req.MobileNumber
	if mobile == "" {
		mobile = req.Mobile
	}

	if _, err := h.authService.Register(c.Request().Context(), req.Name, mobile, req.Email, req.Password); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: "user registered successfully"})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return toHTTPError(errInvalidBody)
	}

	if err := c.Validate(&req); err != nil {
		return toHTTPError(err)
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Message:      "login successful",
		User:         result.User,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    result.ExpiresAt,
	})
}

// Refresh godoc
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} RefreshResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return toHTTPError(errInvalidBody)
	}

	if err := c.Validate(&req); err != nil {
		return toHTTPError(err)
	}

	accessToken, expiresAt, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, RefreshResponse{AccessToken: accessToken, ExpiresAt: expiresAt})
}

// Logout godoc
// @Summary Logout user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LogoutRequest true "Refresh token"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req LogoutRequest
	if err := c.Bind(&req); err != nil {
		return toHTTPError(errInvalidBody)
	}

	if err := c.Validate(&req); err != nil {
		return toHTTPError(err)
	}

	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out successfully"})
}
