// Package repository_test provides unit tests for the repository layer.
package repository_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/database"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/models"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/repository"
)

const tourID = "2f9a64f0-72cb-4a3e-9a0e-7a4c60b0f3aa"

func sampleRecords() []models.InspectionRecord {
	return []models.InspectionRecord{
		{
			EvaluationType: "CBB 1",
			Criteria:       models.CriteriaOkay,
			Cycle:          1,
			Category:       "CBB Evaluation",
			TourID:         tourID,
		},
	}
}

func TestQueueRepository_Enqueue(t *testing.T) {
	testTime := time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	oldDB := database.DB
	database.DB = mock
	defer func() { database.DB = oldDB }()

	rows := pgxmock.NewRows([]string{"id", "created_at"}).AddRow(7, testTime)
	mock.ExpectQuery("INSERT INTO offline_submissions").
		WithArgs(tourID, 3, pgxmock.AnyArg()).
		WillReturnRows(rows)

	repo := repository.NewQueueRepository()
	sub := &models.OfflineSubmission{
		TourID:  tourID,
		CycleNo: 3,
		Records: sampleRecords(),
	}

	err = repo.Enqueue(context.Background(), sub)

	assert.NoError(t, err)
	assert.Equal(t, 7, sub.ID)
	assert.Equal(t, testTime, sub.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueRepository_ListByTour(t *testing.T) {
	testTime := time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	oldDB := database.DB
	database.DB = mock
	defer func() { database.DB = oldDB }()

	payload, err := json.Marshal(sampleRecords())
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{"id", "tour_id", "cycle_no", "records", "created_at"}).
		AddRow(1, tourID, 1, payload, testTime).
		AddRow(2, tourID, 1, payload, testTime.Add(time.Minute))

	mock.ExpectQuery("SELECT(.+)FROM offline_submissions(.+)ORDER BY id").
		WithArgs(tourID).
		WillReturnRows(rows)

	repo := repository.NewQueueRepository()
	subs, err := repo.ListByTour(context.Background(), tourID)

	assert.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, 1, subs[0].ID)
	assert.Equal(t, 2, subs[1].ID)
	assert.Equal(t, sampleRecords(), subs[0].Records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueRepository_Remove(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	oldDB := database.DB
	database.DB = mock
	defer func() { database.DB = oldDB }()

	mock.ExpectExec("DELETE FROM offline_submissions WHERE id").
		WithArgs(7).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	repo := repository.NewQueueRepository()
	assert.NoError(t, repo.Remove(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueRepository_Clear(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	oldDB := database.DB
	database.DB = mock
	defer func() { database.DB = oldDB }()

	mock.ExpectExec("DELETE FROM offline_submissions WHERE tour_id").
		WithArgs(tourID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	repo := repository.NewQueueRepository()
	assert.NoError(t, repo.Clear(context.Background(), tourID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueRepository_Count(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	oldDB := database.DB
	database.DB = mock
	defer func() { database.DB = oldDB }()

	rows := pgxmock.NewRows([]string{"count"}).AddRow(4)
	mock.ExpectQuery("SELECT COUNT(.+)FROM offline_submissions").
		WithArgs(tourID).
		WillReturnRows(rows)

	repo := repository.NewQueueRepository()
	count, err := repo.Count(context.Background(), tourID)

	assert.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
