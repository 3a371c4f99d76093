// Package repository provides the data access layer for the station-local
// database. This file implements the offline submission queue: durable,
// restart-surviving staging of cycle saves not yet accepted by the remote
// CRM store.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/database"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/models"
)

// QueueRepository handles all database operations on the offline submission
// queue. The queue is append-only: multiple saves of the same cycle while
// offline produce multiple entries, and the reconciler resolves them with
// last-write-wins. Rows are removed individually as their submission syncs.
type QueueRepository struct{}

// NewQueueRepository creates and returns a new QueueRepository instance.
func NewQueueRepository() *QueueRepository {
	return &QueueRepository{}
}

// Enqueue appends a submission to the queue. It never merges or overwrites
// existing entries for the same cycle. On success the submission's ID and
// CreatedAt are populated from the database.
func (r *QueueRepository) Enqueue(ctx context.Context, sub *models.OfflineSubmission) error {
	payload, err := json.Marshal(sub.Records)
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	query := `
        INSERT INTO offline_submissions (tour_id, cycle_no, records)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	return database.DB.QueryRow(ctx, query,
		sub.TourID, sub.CycleNo, payload,
	).Scan(&sub.ID, &sub.CreatedAt)
}

// ListByTour returns a snapshot of the queued submissions for a tour in
// enqueue order. Enqueue order doubles as replay order during sync and as
// precedence order during reconciliation (later entries win).
func (r *QueueRepository) ListByTour(ctx context.Context, tourID string) ([]models.OfflineSubmission, error) {
	query := `
        SELECT id, tour_id, cycle_no, records, created_at
        FROM offline_submissions
        WHERE tour_id = $1
        ORDER BY id
    `
	rows, err := database.DB.Query(ctx, query, tourID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.OfflineSubmission
	for rows.Next() {
		var sub models.OfflineSubmission
		var payload []byte
		if err := rows.Scan(&sub.ID, &sub.TourID, &sub.CycleNo, &payload, &sub.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &sub.Records); err != nil {
			return nil, fmt.Errorf("failed to decode records for submission %d: %w", sub.ID, err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Remove deletes a single queue entry after its submission fully synced.
// Removal is by row id, not cycle number, so a stale duplicate for the same
// cycle never takes a newer unsynced entry with it.
func (r *QueueRepository) Remove(ctx context.Context, id int) error {
	_, err := database.DB.Exec(ctx, `DELETE FROM offline_submissions WHERE id = $1`, id)
	return err
}

// RemoveByCycle deletes all queued entries for one cycle of a tour.
func (r *QueueRepository) RemoveByCycle(ctx context.Context, tourID string, cycleNo int) error {
	_, err := database.DB.Exec(ctx,
		`DELETE FROM offline_submissions WHERE tour_id = $1 AND cycle_no = $2`,
		tourID, cycleNo,
	)
	return err
}

// Clear discards every queued submission for a tour. Used after a full-queue
// sync success or an explicitly confirmed user cancellation; there is no undo.
func (r *QueueRepository) Clear(ctx context.Context, tourID string) error {
	_, err := database.DB.Exec(ctx,
		`DELETE FROM offline_submissions WHERE tour_id = $1`, tourID)
	return err
}

// Count returns the number of queued submissions for a tour, surfaced to the
// UI as the pending-sync badge.
func (r *QueueRepository) Count(ctx context.Context, tourID string) (int, error) {
	var count int
	err := database.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM offline_submissions WHERE tour_id = $1`, tourID,
	).Scan(&count)
	return count, err
}
