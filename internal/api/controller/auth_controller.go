package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskdeck/internal/api/models"
	"taskdeck/internal/api/repository"
	"taskdeck/internal/api/response"
	"taskdeck/internal/api/service"
	"taskdeck/internal/validator"
)

// AuthController handles signup and signin.
type AuthController struct {
	authService service.AuthService
}

// NewAuthController creates a new AuthController.
func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Signup handles POST /signup.
func (ac *AuthController) Signup(c *gin.Context) {
	var req models.CredentialsRequest
	// A missing or unreadable body validates like empty fields.
	_ = c.ShouldBindJSON(&req)

	if err := validator.Username(req.Username); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.Password(req.Password); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := ac.authService.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			response.Error(c, http.StatusBadRequest, "user exists")
			return
		}
		slog.Error("signup failed", "username", req.Username, "err", err)
		response.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	response.Message(c, "signed up")
}

// Signin handles POST /signin.
func (ac *AuthController) Signin(c *gin.Context) {
	var req models.CredentialsRequest
	_ = c.ShouldBindJSON(&req)

	if err := validator.Username(req.Username); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.Password(req.Password); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	token, err := ac.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusForbidden, "invalid creds")
			return
		}
		slog.Error("signin failed", "username", req.Username, "err", err)
		response.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	response.OK(c, models.TokenResponse{Token: token})
}
