// Package services implements the application operations of the plant tour
// station: saving cycle evaluations with offline fallback, reconciling cycle
// state, scoring, and replaying the offline queue to the remote store.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/google/uuid"

	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/checklist"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/models"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/normalize"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/reconcile"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/repository"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/score"
)

// Operation-boundary errors surfaced to the handlers as user-visible
// messages.
var (
	ErrUnknownCategory = errors.New("unknown evaluation category")
	ErrInvalidCycle    = errors.New("cycle number out of range")
)

// IncompleteTourError blocks tour completion while any cycle of a scored
// category still lacks records.
type IncompleteTourError struct {
	Category string
	CycleNo  int
}

func (e *IncompleteTourError) Error() string {
	return fmt.Sprintf("cycle %d of %q has not been saved", e.CycleNo, e.Category)
}

// RecordStore is the remote CRM boundary consumed by the services. Satisfied
// by *remote.Client; tests substitute a fake.
type RecordStore interface {
	CreateRecord(ctx context.Context, rec models.InspectionRecord) error
	ListByTour(ctx context.Context, tourID string) ([]models.InspectionRecord, error)
}

// Overview is the reconciled per-category cycle state served to the UI.
type Overview struct {
	Category  string                     `json:"category"`
	Cycles    map[int]models.CycleStatus `json:"cycles"`
	NextCycle int                        `json:"nextCycle"` // 0 when all cycles saved
	Source    string                     `json:"source"`    // "queue" or "remote"
	Pending   int                        `json:"pending"`   // Queued submissions for the tour
}

// InspectionService drives tour capture: it normalizes cycle saves, posts
// them to the remote store when online, and falls back to the offline queue
// when the store is unreachable.
type InspectionService struct {
	tours *repository.TourRepository
	queue *repository.QueueRepository
	store RecordStore
}

// NewInspectionService wires the service with its repositories and the remote
// store client.
func NewInspectionService(tours *repository.TourRepository, queue *repository.QueueRepository, store RecordStore) *InspectionService {
	return &InspectionService{tours: tours, queue: queue, store: store}
}

// StartTour creates a tour from the start-of-session form. A tour started
// with Offline set captures every save locally until the user syncs.
func (s *InspectionService) StartTour(ctx context.Context, form models.StartTourForm) (*models.Tour, error) {
	tour := &models.Tour{
		ID:         uuid.NewString(),
		Plant:      form.Plant,
		Line:       form.Line,
		ObservedBy: form.ObservedBy,
		Session:    form.Session,
		Offline:    form.Offline,
	}
	if err := s.tours.Create(ctx, tour); err != nil {
		return nil, fmt.Errorf("failed to create tour: %w", err)
	}
	log.WithField("tour_id", tour.ID).WithField("offline", tour.Offline).Info("tour started")
	return tour, nil
}

// GetTour returns the tour with its current pending-sync count.
func (s *InspectionService) GetTour(ctx context.Context, tourID string) (*models.Tour, int, error) {
	tour, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		return nil, 0, err
	}
	pending, err := s.queue.Count(ctx, tourID)
	if err != nil {
		return nil, 0, err
	}
	return tour, pending, nil
}

// SaveCycle normalizes and persists one cycle's evaluations.
//
// Online path: records are posted to the remote store one at a time. The
// first remote failure aborts posting, stages the whole batch in the offline
// queue and flips the tour to offline mode — the save itself still succeeds
// from the observer's point of view. Offline path: the batch goes straight to
// the queue. The returned flag reports whether the save ended up queued.
//
// Validation failures (unknown category, bad cycle, Not Okay without
// severity/remarks) block the save entirely; nothing is partially committed.
func (s *InspectionService) SaveCycle(ctx context.Context, tourID string, cycleNo int, form models.SaveCycleForm) (bool, error) {
	if cycleNo < 1 || cycleNo > checklist.TotalCycles {
		return false, ErrInvalidCycle
	}
	if !checklist.IsCategory(form.Category) {
		return false, ErrUnknownCategory
	}

	tour, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		return false, err
	}

	observer := form.ObservedBy
	if observer == "" {
		observer = tour.ObservedBy
	}

	records, err := normalize.Records(normalize.Input{
		TourID:         tourID,
		CycleNo:        cycleNo,
		Category:       form.Category,
		ObservedBy:     observer,
		Session:        tour.Session,
		Selections:     form.Selections,
		ChecklistItems: checklist.Items(form.Category),
	})
	if err != nil {
		return false, err
	}

	if tour.Offline {
		return true, s.stage(ctx, tourID, cycleNo, records)
	}

	for i, rec := range records {
		if err := s.store.CreateRecord(ctx, rec); err != nil {
			// Automatic fallback: buffer the whole batch locally and enter
			// offline mode. Records already posted become duplicates the
			// reconciler resolves.
			log.WithField("tour_id", tourID).
				WithField("cycle", cycleNo).
				WithField("posted", i).
				WithError(err).
				Warn("remote save failed, entering offline mode")
			if qErr := s.stage(ctx, tourID, cycleNo, records); qErr != nil {
				return false, qErr
			}
			if qErr := s.tours.SetOffline(ctx, tourID, true); qErr != nil {
				return false, qErr
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *InspectionService) stage(ctx context.Context, tourID string, cycleNo int, records []models.InspectionRecord) error {
	sub := &models.OfflineSubmission{
		TourID:  tourID,
		CycleNo: cycleNo,
		Records: records,
	}
	if err := s.queue.Enqueue(ctx, sub); err != nil {
		return fmt.Errorf("failed to stage submission: %w", err)
	}
	log.WithField("tour_id", tourID).
		WithField("cycle", cycleNo).
		WithField("records", len(records)).
		Info("submission staged offline")
	return nil
}

// CycleOverview reconciles one category's cycles for the tour.
//
// Source policy: while the tour is offline or has queued submissions, state
// derives from the flattened queue; otherwise from a remote fetch. The two
// sources are never merged.
func (s *InspectionService) CycleOverview(ctx context.Context, tourID, category string) (*Overview, error) {
	if !checklist.IsCategory(category) {
		return nil, ErrUnknownCategory
	}

	records, source, pending, err := s.tourRecords(ctx, tourID)
	if err != nil {
		return nil, err
	}

	filtered := records[:0:0]
	for _, rec := range records {
		if rec.Category == category {
			filtered = append(filtered, rec)
		}
	}

	cycles := reconcile.Cycles(filtered)
	return &Overview{
		Category:  category,
		Cycles:    cycles,
		NextCycle: reconcile.NextEditableCycle(cycles, checklist.TotalCycles),
		Source:    source,
		Pending:   pending,
	}, nil
}

// Summary recomputes the tour's scoring summary from scratch, under the same
// source policy as CycleOverview.
func (s *InspectionService) Summary(ctx context.Context, tourID string) (*models.TourSummary, error) {
	records, _, _, err := s.tourRecords(ctx, tourID)
	if err != nil {
		return nil, err
	}
	summary := score.Aggregate(tourID, records)
	return &summary, nil
}

// CompleteTour stamps the tour complete, refusing while any cycle of any
// scored category lacks records.
func (s *InspectionService) CompleteTour(ctx context.Context, tourID string) error {
	records, _, _, err := s.tourRecords(ctx, tourID)
	if err != nil {
		return err
	}

	byCategory := make(map[string][]models.InspectionRecord)
	for _, rec := range records {
		byCategory[rec.Category] = append(byCategory[rec.Category], rec)
	}
	for _, category := range checklist.Categories() {
		if checklist.ItemCount(category) == 0 {
			continue
		}
		cycles := reconcile.Cycles(byCategory[category])
		if next := reconcile.NextEditableCycle(cycles, checklist.TotalCycles); next != 0 {
			return &IncompleteTourError{Category: category, CycleNo: next}
		}
	}

	return s.tours.Complete(ctx, tourID)
}

// tourRecords loads the record set for a tour according to the source policy.
func (s *InspectionService) tourRecords(ctx context.Context, tourID string) ([]models.InspectionRecord, string, int, error) {
	tour, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		return nil, "", 0, err
	}

	subs, err := s.queue.ListByTour(ctx, tourID)
	if err != nil {
		return nil, "", 0, err
	}

	if tour.Offline || len(subs) > 0 {
		return reconcile.Flatten(subs), "queue", len(subs), nil
	}

	records, err := s.store.ListByTour(ctx, tourID)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to fetch records: %w", err)
	}
	return records, "remote", 0, nil
}
