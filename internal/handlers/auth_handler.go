package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/wanderplan/travel-booking-backend/internal/config"
	"github.com/wanderplan/travel-booking-backend/internal/database"
	"github.com/wanderplan/travel-booking-backend/internal/middleware"
	"github.com/wanderplan/travel-booking-backend/internal/models"
	"github.com/wanderplan/travel-booking-backend/internal/utils"
	"github.com/wanderplan/travel-booking-backend/pkg/jwt"
	"github.com/wanderplan/travel-booking-backend/pkg/validator"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	jwtService     *jwt.Service
	userRepository *database.UserRepository
	phoneValidator *validator.PhoneValidator
	config         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(jwtService *jwt.Service, userRepository *database.UserRepository, phoneValidator *validator.PhoneValidator, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		jwtService:     jwtService,
		userRepository: userRepository,
		phoneValidator: phoneValidator,
		config:         cfg,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// RefreshRequest is the payload for refreshing an access token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Username must be an email and password at least 8 characters",
		})
		return
	}

	role := models.RoleUser
	if req.Role != "" {
		if !models.ValidRole(req.Role) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_role",
				Message: "Role must be one of: user, guide",
			})
			return
		}
		role = models.UserRole(req.Role)
	}

	existing, err := h.userRepository.GetUserByUsername(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "registration_failed",
			Message: "Failed to check existing account",
		})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "username_taken",
			Message: "An account with this username already exists",
			Code:    "USERNAME_TAKEN",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.config.Security.BcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "registration_failed",
			Message: "Failed to create account",
		})
		return
	}

	user, err := h.userRepository.CreateUser(req.Username, string(hash), role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "registration_failed",
			Message: "Failed to create account",
		})
		return
	}

	h.respondWithTokens(c, http.StatusCreated, user)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Username and password are required",
		})
		return
	}

	user, err := h.userRepository.GetUserByUsername(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "login_failed",
			Message: "Failed to look up account",
		})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_credentials",
			Message: "Incorrect username or password",
			Code:    "INVALID_CREDENTIALS",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_credentials",
			Message: "Incorrect username or password",
			Code:    "INVALID_CREDENTIALS",
		})
		return
	}

	// Best effort; login proceeds even if the audit update fails
	device := utils.DeviceLabel(utils.GetUserAgent(c))
	if err := h.userRepository.RecordLogin(user.ID, device); err != nil {
		c.Error(err)
	}

	h.respondWithTokens(c, http.StatusOK, user)
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Refresh token is required",
		})
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Refresh token is invalid or expired",
			Code:    "INVALID_REFRESH_TOKEN",
		})
		return
	}

	user, err := h.userRepository.GetUserByID(claims.UserID)
	if err != nil || user == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Account no longer exists",
			Code:    "INVALID_REFRESH_TOKEN",
		})
		return
	}

	h.respondWithTokens(c, http.StatusOK, user)
}

// GetProfile handles GET /api/v1/auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	user, err := h.userRepository.GetUserByID(userCtx.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "profile_lookup_failed",
			Message: "Failed to load profile",
		})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Account not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// CompleteProfile handles POST /api/v1/auth/complete-profile
func (h *AuthHandler) CompleteProfile(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.CompleteProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "All profile fields are required",
		})
		return
	}

	phone, err := h.phoneValidator.Validate(req.Phone)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_phone",
			Message: err.Error(),
		})
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_date",
			Message: "date_of_birth must be in YYYY-MM-DD format",
		})
		return
	}

	destinations := req.PreferredDestinations
	if destinations == nil {
		destinations = []string{}
	}

	if err := h.userRepository.CompleteProfile(
		userCtx.UserID,
		phone,
		dob,
		req.Country,
		req.TravelStyle,
		req.TravelFrequency,
		destinations,
	); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "profile_update_failed",
			Message: "Failed to save profile",
		})
		return
	}

	user, err := h.userRepository.GetUserByID(userCtx.UserID)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "profile_lookup_failed",
			Message: "Profile saved but could not be reloaded",
		})
		return
	}

	// Issue fresh tokens so profile_completed is reflected in the claims
	h.respondWithTokens(c, http.StatusOK, user)
}

// MarkPromptShown handles POST /api/v1/auth/mark-prompt-shown.
// The completion prompt is shown to each account at most once.
func (h *AuthHandler) MarkPromptShown(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	if err := h.userRepository.MarkPromptShown(userCtx.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "update_failed",
			Message: "Failed to record prompt",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Prompt recorded"})
}

// respondWithTokens issues an access/refresh token pair for the user
func (h *AuthHandler) respondWithTokens(c *gin.Context, status int, user *models.User) {
	accessToken, err := h.jwtService.GenerateAccessToken(user.ID, user.Username, string(user.Role), user.ProfileCompleted)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to issue tokens",
		})
		return
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to issue tokens",
		})
		return
	}

	c.JSON(status, models.AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(h.config.JWT.AccessTokenExpiry.Seconds()),
	})
}
