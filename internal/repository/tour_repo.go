// Package repository provides the data access layer for the station-local
// database. This file implements tour lifecycle storage: session details and
// the per-tour offline flag.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/database"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/models"
)

// ErrTourNotFound is returned when a tour id has no matching row.
var ErrTourNotFound = errors.New("tour not found")

// TourRepository handles all database operations related to tours.
type TourRepository struct{}

// NewTourRepository creates and returns a new TourRepository instance.
func NewTourRepository() *TourRepository {
	return &TourRepository{}
}

// Create inserts a new tour. The caller supplies the UUID; CreatedAt is
// populated from the database on success.
func (r *TourRepository) Create(ctx context.Context, tour *models.Tour) error {
	session, err := json.Marshal(tour.Session)
	if err != nil {
		return fmt.Errorf("failed to encode session details: %w", err)
	}

	query := `
        INSERT INTO tours (id, plant, line, observed_by, session, offline)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at
    `
	return database.DB.QueryRow(ctx, query,
		tour.ID, tour.Plant, tour.Line, tour.ObservedBy, session, tour.Offline,
	).Scan(&tour.CreatedAt)
}

// GetByID retrieves a tour with its session details and offline flag.
// Returns ErrTourNotFound if no row matches.
func (r *TourRepository) GetByID(ctx context.Context, id string) (*models.Tour, error) {
	query := `
        SELECT id, plant, line, observed_by, session, offline, created_at, completed_at
        FROM tours
        WHERE id = $1
    `
	var tour models.Tour
	var session []byte
	err := database.DB.QueryRow(ctx, query, id).Scan(
		&tour.ID, &tour.Plant, &tour.Line, &tour.ObservedBy,
		&session, &tour.Offline, &tour.CreatedAt, &tour.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTourNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(session, &tour.Session); err != nil {
		return nil, fmt.Errorf("failed to decode session details: %w", err)
	}
	return &tour, nil
}

// SetOffline flips the tour's offline capture flag. The service layer is the
// only caller: entering offline happens on a failed remote save or an
// explicit start-offline action, leaving it only on full sync or cancel.
func (r *TourRepository) SetOffline(ctx context.Context, id string, offline bool) error {
	tag, err := database.DB.Exec(ctx,
		`UPDATE tours SET offline = $2 WHERE id = $1`, id, offline)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTourNotFound
	}
	return nil
}

// Complete stamps the tour's completion time.
func (r *TourRepository) Complete(ctx context.Context, id string) error {
	tag, err := database.DB.Exec(ctx,
		`UPDATE tours SET completed_at = NOW() WHERE id = $1 AND completed_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTourNotFound
	}
	return nil
}
