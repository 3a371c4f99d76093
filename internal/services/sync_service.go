package services

import (
	"context"
	"errors"

	"github.com/apex/log"

	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/models"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/remote"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/repository"
)

// ErrConfirmationRequired guards the irreversible cancel operation: the
// caller must explicitly confirm before the queue is discarded.
var ErrConfirmationRequired = errors.New("cancellation requires explicit confirmation")

// SyncService replays the offline queue against the remote store and decides
// when the local buffer can be discarded. Retries are user-triggered only:
// the remote token may need interactive refresh, so nothing is scheduled in
// the background.
type SyncService struct {
	tours *repository.TourRepository
	queue *repository.QueueRepository
	store RecordStore
}

// NewSyncService wires the sync executor.
func NewSyncService(tours *repository.TourRepository, queue *repository.QueueRepository, store RecordStore) *SyncService {
	return &SyncService{tours: tours, queue: queue, store: store}
}

// Sync replays every queued submission for the tour, sequentially and in
// enqueue order so remote ordering stays predictable.
//
// A submission succeeds only when all of its records are accepted; it is then
// removed from the queue immediately, bounding data loss if a later
// submission fails. When no token can be acquired the run aborts up front and
// the queue is left untouched. The tour exits offline mode only when the
// whole queue drained; otherwise failed submissions stay queued for a manual
// retry or an explicit cancel.
func (s *SyncService) Sync(ctx context.Context, tourID string) (models.SyncResult, error) {
	result := models.SyncResult{Offline: true}

	tour, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		return result, err
	}
	result.Offline = tour.Offline

	subs, err := s.queue.ListByTour(ctx, tourID)
	if err != nil {
		return result, err
	}
	result.Attempted = len(subs)

	for _, sub := range subs {
		err := s.replay(ctx, sub)
		if errors.Is(err, remote.ErrNoToken) {
			// No credentials at all: every remaining submission would fail
			// the same way. Report immediately, queue unchanged.
			result.Failed = result.Attempted - result.Synced
			log.WithField("tour_id", tourID).Warn("sync aborted, no access token")
			return result, nil
		}
		if err != nil {
			result.Failed++
			log.WithField("tour_id", tourID).
				WithField("cycle", sub.CycleNo).
				WithError(err).
				Warn("submission failed to sync")
			continue
		}

		if err := s.queue.Remove(ctx, sub.ID); err != nil {
			return result, err
		}
		result.Synced++
	}

	if result.Failed == 0 {
		if err := s.tours.SetOffline(ctx, tourID, false); err != nil {
			return result, err
		}
		result.Offline = false
		log.WithField("tour_id", tourID).
			WithField("synced", result.Synced).
			Info("offline queue fully synced")
	}
	return result, nil
}

// replay posts one submission's records. Order within a submission does not
// matter; the first rejected record fails the whole submission.
func (s *SyncService) replay(ctx context.Context, sub models.OfflineSubmission) error {
	for _, rec := range sub.Records {
		if err := s.store.CreateRecord(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// EnterOffline switches the tour to offline capture explicitly.
func (s *SyncService) EnterOffline(ctx context.Context, tourID string) error {
	return s.tours.SetOffline(ctx, tourID, true)
}

// Cancel discards the tour's entire offline queue and returns to online mode
// with no data carried over. Irreversible; refuses without confirm.
func (s *SyncService) Cancel(ctx context.Context, tourID string, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}
	if err := s.queue.Clear(ctx, tourID); err != nil {
		return err
	}
	if err := s.tours.SetOffline(ctx, tourID, false); err != nil {
		return err
	}
	log.WithField("tour_id", tourID).Warn("offline queue discarded by user")
	return nil
}
