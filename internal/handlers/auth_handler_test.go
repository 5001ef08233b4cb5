package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wanderplan/travel-booking-backend/internal/config"
	"github.com/wanderplan/travel-booking-backend/internal/database"
	"github.com/wanderplan/travel-booking-backend/internal/middleware"
	"github.com/wanderplan/travel-booking-backend/pkg/jwt"
	"github.com/wanderplan/travel-booking-backend/pkg/validator"
)

// setupTestDB creates a mock database for testing
func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

// setupAuthTestHandler creates an auth handler backed by the mock database
func setupAuthTestHandler(db *sqlx.DB) *AuthHandler {
	jwtService := jwt.NewService("test-secret", "test-refresh-secret", 1*time.Hour, 7*24*time.Hour)
	repo := database.NewUserRepository(db)

	cfg := &config.Config{
		JWT: config.JWTConfig{
			AccessTokenExpiry: time.Hour,
		},
		Security: config.SecurityConfig{
			BcryptCost: bcrypt.MinCost,
		},
	}

	return NewAuthHandler(jwtService, repo, validator.NewPhoneValidator(), cfg)
}

// setupAuthenticatedContext creates a Gin context with an authenticated user
func setupAuthenticatedContext(userID uuid.UUID, username string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// Set user context (simulating AuthMiddleware)
	userCtx := middleware.UserContext{
		UserID:           userID,
		Username:         username,
		Role:             "user",
		ProfileCompleted: false,
	}
	c.Set(middleware.UserContextKey, userCtx)

	return c, w
}

func jsonRequest(t *testing.T, c *gin.Context, method, path string, body interface{}) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	c.Request, err = http.NewRequest(method, path, bytes.NewReader(data))
	require.NoError(t, err)
	c.Request.Header.Set("Content-Type", "application/json")
}

func TestRegister_ValidationErrors(t *testing.T) {
	db, _ := setupTestDB(t)
	defer db.Close()

	handler := setupAuthTestHandler(db)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing username", map[string]interface{}{"password": "longenough1"}},
		{"not an email", map[string]interface{}{"username": "notanemail", "password": "longenough1"}},
		{"short password", map[string]interface{}{"username": "a@b.com", "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			jsonRequest(t, c, http.MethodPost, "/api/v1/auth/register", tt.body)

			handler.Register(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRegister_InvalidRole(t *testing.T) {
	db, _ := setupTestDB(t)
	defer db.Close()

	handler := setupAuthTestHandler(db)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	jsonRequest(t, c, http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"username": "a@b.com",
		"password": "longenough1",
		"role":     "admin",
	})

	handler.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_role")
}

func TestRegister_UsernameTaken(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	handler := setupAuthTestHandler(db)

	existingID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "profile_completed", "completion_prompt_shown", "created_at", "updated_at"}).
		AddRow(existingID, "a@b.com", "hash", "user", false, false, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("a@b.com").
		WillReturnRows(rows)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	jsonRequest(t, c, http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"username": "a@b.com",
		"password": "longenough1",
	})

	handler.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "USERNAME_TAKEN")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	handler := setupAuthTestHandler(db)

	// No existing user
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("new@b.com").
		WillReturnError(sqlErrNoRows())

	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(1, 1))

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	jsonRequest(t, c, http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"username": "new@b.com",
		"password": "longenough1",
	})

	handler.Register(c)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		User struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int64  `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "new@b.com", resp.User.Username)
	assert.Equal(t, "user", resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.NotContains(t, w.Body.String(), "password_hash")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	handler := setupAuthTestHandler(db)

	t.Run("unknown user", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("ghost@b.com").
			WillReturnError(sqlErrNoRows())

		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		jsonRequest(t, c, http.MethodPost, "/api/v1/auth/login", map[string]interface{}{
			"username": "ghost@b.com",
			"password": "whatever1",
		})

		handler.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
	})

	t.Run("wrong password", func(t *testing.T) {
		hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
		require.NoError(t, err)

		rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "profile_completed", "completion_prompt_shown", "created_at", "updated_at"}).
			AddRow(uuid.New(), "a@b.com", string(hash), "user", false, false, time.Now(), time.Now())
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("a@b.com").
			WillReturnRows(rows)

		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		jsonRequest(t, c, http.MethodPost, "/api/v1/auth/login", map[string]interface{}{
			"username": "a@b.com",
			"password": "wrong-password",
		})

		handler.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	handler := setupAuthTestHandler(db)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)

	userID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "profile_completed", "completion_prompt_shown", "created_at", "updated_at"}).
		AddRow(userID, "a@b.com", string(hash), "user", true, true, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("a@b.com").
		WillReturnRows(rows)

	// Login audit update
	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 1))

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	jsonRequest(t, c, http.MethodPost, "/api/v1/auth/login", map[string]interface{}{
		"username": "a@b.com",
		"password": "correct-password",
	})
	c.Request.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0")

	handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "access_token")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPromptShown(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	handler := setupAuthTestHandler(db)
	userID := uuid.New()

	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, w := setupAuthenticatedContext(userID, "a@b.com")
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/auth/mark-prompt-shown", nil)

	handler.MarkPromptShown(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteProfile_InvalidDate(t *testing.T) {
	db, _ := setupTestDB(t)
	defer db.Close()

	handler := setupAuthTestHandler(db)

	c, w := setupAuthenticatedContext(uuid.New(), "a@b.com")
	jsonRequest(t, c, http.MethodPost, "/api/v1/auth/complete-profile", map[string]interface{}{
		"phone":            "+14155550100",
		"date_of_birth":    "31-12-1990",
		"country":          "US",
		"travel_style":     "budget",
		"travel_frequency": "monthly",
	})

	handler.CompleteProfile(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_date")
}

func TestCompleteProfile_InvalidPhone(t *testing.T) {
	db, _ := setupTestDB(t)
	defer db.Close()

	handler := setupAuthTestHandler(db)

	c, w := setupAuthenticatedContext(uuid.New(), "a@b.com")
	jsonRequest(t, c, http.MethodPost, "/api/v1/auth/complete-profile", map[string]interface{}{
		"phone":            "not-a-phone",
		"date_of_birth":    "1990-12-31",
		"country":          "US",
		"travel_style":     "budget",
		"travel_frequency": "monthly",
	})

	handler.CompleteProfile(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_phone")
}

// sqlErrNoRows returns the sentinel used by repositories for empty lookups
func sqlErrNoRows() error {
	return sql.ErrNoRows
}
