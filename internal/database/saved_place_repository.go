package database

import (
	"fmt"
	"time"

	"github.com/wanderplan/travel-booking-backend/internal/models"
)

// SavedPlaceRepository handles bookmarked destinations
type SavedPlaceRepository struct {
	db DB
}

// NewSavedPlaceRepository creates a new saved place repository
func NewSavedPlaceRepository(db DB) *SavedPlaceRepository {
	return &SavedPlaceRepository{
		db: db,
	}
}

// Save bookmarks a destination for a user
func (r *SavedPlaceRepository) Save(place *models.SavedPlace) (*models.SavedPlace, error) {
	if place.CreatedAt.IsZero() {
		place.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO saved_places (user_id, place_id, title, location, thumbnail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRow(
		query,
		place.UserID,
		place.PlaceID,
		place.Title,
		place.Location,
		place.Thumbnail,
		place.CreatedAt,
	).Scan(&place.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to save place: %w", err)
	}

	return place, nil
}

// ListByUserID retrieves a user's saved places, newest first
func (r *SavedPlaceRepository) ListByUserID(userID string) ([]*models.SavedPlace, error) {
	var places []*models.SavedPlace

	query := `
		SELECT id, user_id, place_id, title, location, thumbnail, created_at
		FROM saved_places
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	err := r.db.Select(&places, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved places: %w", err)
	}

	return places, nil
}

// Delete removes a saved place owned by the user
func (r *SavedPlaceRepository) Delete(id int64, userID string) error {
	query := `DELETE FROM saved_places WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete saved place: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("saved place not found")
	}

	return nil
}
