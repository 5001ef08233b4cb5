package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/wanderplan/travel-booking-backend/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// CreateUser creates a new user account
func (r *UserRepository) CreateUser(username, passwordHash string, role models.UserRole) (*models.User, error) {
	user := &models.User{
		ID:                    uuid.New(),
		Username:              username,
		PasswordHash:          passwordHash,
		Role:                  role,
		PreferredDestinations: []string{},
		ProfileCompleted:      false,
		CompletionPromptShown: false,
		CreatedAt:             time.Now(),
		UpdatedAt:             time.Now(),
	}

	query := `
		INSERT INTO users (
			id, username, password_hash, role,
			preferred_destinations, profile_completed, completion_prompt_shown,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(
		query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Role,
		pq.Array(user.PreferredDestinations),
		user.ProfileCompleted,
		user.CompletionPromptShown,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUserByUsername retrieves a user by username
func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User

	query := `
		SELECT id, username, password_hash, role,
		       phone, date_of_birth, country, travel_style, travel_frequency,
		       preferred_destinations, profile_completed, completion_prompt_shown,
		       last_login_at, last_login_device, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	err := r.db.Get(&user, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User

	query := `
		SELECT id, username, password_hash, role,
		       phone, date_of_birth, country, travel_style, travel_frequency,
		       preferred_destinations, profile_completed, completion_prompt_shown,
		       last_login_at, last_login_device, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	err := r.db.Get(&user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// CompleteProfile stores the profile-completion fields and flips the flag
func (r *UserRepository) CompleteProfile(id uuid.UUID, phone string, dateOfBirth time.Time, country, travelStyle, travelFrequency string, preferredDestinations []string) error {
	query := `
		UPDATE users
		SET phone = $1,
		    date_of_birth = $2,
		    country = $3,
		    travel_style = $4,
		    travel_frequency = $5,
		    preferred_destinations = $6,
		    profile_completed = TRUE,
		    updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.Exec(query, phone, dateOfBirth, country, travelStyle, travelFrequency, pq.Array(preferredDestinations), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to complete profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// MarkPromptShown records that the completion prompt has been shown once
func (r *UserRepository) MarkPromptShown(id uuid.UUID) error {
	query := `
		UPDATE users
		SET completion_prompt_shown = TRUE,
		    updated_at = $1
		WHERE id = $2
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark prompt shown: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// RecordLogin updates last-login bookkeeping for a user
func (r *UserRepository) RecordLogin(id uuid.UUID, device string) error {
	query := `
		UPDATE users
		SET last_login_at = $1,
		    last_login_device = $2,
		    updated_at = $1
		WHERE id = $3
	`

	_, err := r.db.Exec(query, time.Now(), device, id)
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}

	return nil
}

// CountUsers returns the total number of users
func (r *UserRepository) CountUsers() (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM users`

	err := r.db.QueryRow(query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}
