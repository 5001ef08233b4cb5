package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// NullString wraps sql.NullString to provide proper JSON marshaling
type NullString struct {
	sql.NullString
}

// MarshalJSON implements json.Marshaler
func (ns NullString) MarshalJSON() ([]byte, error) {
	if ns.Valid {
		return json.Marshal(ns.String)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (ns *NullString) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s != nil {
		ns.Valid = true
		ns.String = *s
	} else {
		ns.Valid = false
	}
	return nil
}

// NullTime wraps sql.NullTime to provide proper JSON marshaling
type NullTime struct {
	sql.NullTime
}

// MarshalJSON implements json.Marshaler
func (nt NullTime) MarshalJSON() ([]byte, error) {
	if nt.Valid {
		return json.Marshal(nt.Time)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (nt *NullTime) UnmarshalJSON(data []byte) error {
	var t *time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	if t != nil {
		nt.Valid = true
		nt.Time = *t
	} else {
		nt.Valid = false
	}
	return nil
}

// UserRole represents the role of a user account
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleGuide UserRole = "guide"
)

// ValidRole reports whether role is one of the known account roles
func ValidRole(role string) bool {
	return role == string(RoleUser) || role == string(RoleGuide)
}

// User represents a user account
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never expose
	Role         UserRole  `json:"role" db:"role"`

	// Profile completion fields (all optional until the user completes them)
	Phone                 NullString     `json:"phone,omitempty" db:"phone"`
	DateOfBirth           NullTime       `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Country               NullString     `json:"country,omitempty" db:"country"`
	TravelStyle           NullString     `json:"travel_style,omitempty" db:"travel_style"`
	TravelFrequency       NullString     `json:"travel_frequency,omitempty" db:"travel_frequency"`
	PreferredDestinations pq.StringArray `json:"preferred_destinations" db:"preferred_destinations"`

	ProfileCompleted      bool `json:"profile_completed" db:"profile_completed"`
	CompletionPromptShown bool `json:"completion_prompt_shown" db:"completion_prompt_shown"`

	LastLoginAt     NullTime   `json:"last_login_at,omitempty" db:"last_login_at"`
	LastLoginDevice NullString `json:"last_login_device,omitempty" db:"last_login_device"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RegisterRequest is the payload for creating an account
type RegisterRequest struct {
	Username string `json:"username" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

// LoginRequest is the payload for logging in
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned after a successful register or login
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// CompleteProfileRequest carries the profile-completion fields
type CompleteProfileRequest struct {
	Phone                 string   `json:"phone" binding:"required"`
	DateOfBirth           string   `json:"date_of_birth" binding:"required"` // "2006-01-02"
	Country               string   `json:"country" binding:"required"`
	TravelStyle           string   `json:"travel_style" binding:"required"`
	TravelFrequency       string   `json:"travel_frequency" binding:"required"`
	PreferredDestinations []string `json:"preferred_destinations"`
}
