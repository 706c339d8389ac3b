package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/service"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for registration, login, and profile
type AuthHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(userService *service.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Create a user account and receive an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.RegisterRequest true "Registration details"
// @Success 201 {object} domain.TokenResponse
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	token, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "Email is already registered",
			})
			return
		}
		h.logger.Error("failed to register user", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to register user",
		})
		return
	}

	respondJSON(w, http.StatusCreated, token)
}

// Login godoc
// @Summary Log in
// @Description Exchange email and password for an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.TokenResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	token, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrUserInactive) {
			respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Invalid email or password",
			})
			return
		}
		h.logger.Error("failed to log in user", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to log in",
		})
		return
	}

	respondJSON(w, http.StatusOK, token)
}

// Me godoc
// @Summary Get current user
// @Description Get the profile of the authenticated user
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} domain.UserDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetCurrentUser(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrUserContextRequired) || errors.Is(err, service.ErrUserNotFound) {
			respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Authentication required",
			})
			return
		}
		h.logger.Error("failed to get current user", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get current user",
		})
		return
	}

	respondJSON(w, http.StatusOK, user)
}
