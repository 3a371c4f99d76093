package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/checklist"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/models"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/reconcile"
)

func okay(cycle int, item string) models.InspectionRecord {
	return models.InspectionRecord{
		EvaluationType: item,
		Criteria:       models.CriteriaOkay,
		Cycle:          cycle,
		Category:       checklist.CategoryCBB,
	}
}

func notOkay(cycle int, item, severity, remarks string) models.InspectionRecord {
	return models.InspectionRecord{
		EvaluationType: item,
		Criteria:       models.CriteriaNotOkay,
		Cycle:          cycle,
		Category:       checklist.CategoryCBB,
		Defect:         item,
		DefectCategory: severity,
		DefectRemarks:  remarks,
	}
}

func missed(cycle int, item string) models.InspectionRecord {
	return models.InspectionRecord{
		Criteria:       models.CriteriaNotOkay,
		Cycle:          cycle,
		Category:       checklist.CategoryCBB,
		Defect:         item,
		DefectCategory: models.DefectCategoryMissed,
		DefectRemarks:  "Missed evaluation",
		EvaluationType: item,
	}
}

func TestCycles_ClassifiesOkayDefectMissed(t *testing.T) {
	records := []models.InspectionRecord{
		okay(1, "CBB 1"),
		okay(1, "CBB 2"),
		notOkay(1, "CBB 3", models.DefectCategoryA, "torn"),
		missed(1, "CBB 4"),
	}

	statuses := reconcile.Cycles(records)
	require.Contains(t, statuses, 1)

	status := statuses[1]
	assert.True(t, status.Started)
	assert.True(t, status.Completed)
	assert.Equal(t, []string{"CBB 1", "CBB 2"}, status.Okays)
	assert.Equal(t, []string{"CBB 3"}, status.Defects)
	assert.Equal(t, models.DefectCategoryA, status.DefectCategories["CBB 3"])
	assert.Equal(t, "torn", status.DefectRemarks["CBB 3"])
	assert.Equal(t, map[string]string{"CBB 4": "CBB 4"}, status.MissedEvaluationTypes)
}

// TestCycles_Idempotent: reconciling the same input twice yields identical
// output; there is no hidden state.
func TestCycles_Idempotent(t *testing.T) {
	records := []models.InspectionRecord{
		okay(1, "CBB 1"),
		notOkay(2, "CBB 2", models.DefectCategoryB, "dented"),
		missed(2, "CBB 5"),
	}

	assert.Equal(t, reconcile.Cycles(records), reconcile.Cycles(records))
}

// TestCycles_LastWriteWins: a re-save of the same item in the same cycle
// overrides the earlier record and never double-counts.
func TestCycles_LastWriteWins(t *testing.T) {
	records := []models.InspectionRecord{
		notOkay(1, "CBB 1", models.DefectCategoryA, "first save"),
		okay(1, "CBB 2"),
		// Re-save: CBB 1 is now fine.
		okay(1, "CBB 1"),
	}

	status := reconcile.Cycles(records)[1]
	assert.ElementsMatch(t, []string{"CBB 1", "CBB 2"}, status.Okays)
	assert.Empty(t, status.Defects)
	assert.NotContains(t, status.DefectCategories, "CBB 1")
	// Conservation: okays + defects + missed equals distinct items.
	assert.Equal(t, 2, len(status.Okays)+len(status.Defects)+len(status.MissedEvaluationTypes))
}

// TestCycles_Conservation: for a full save, okays + defects + missed equals
// the checklist size even when duplicates are present.
func TestCycles_Conservation(t *testing.T) {
	var records []models.InspectionRecord
	items := checklist.Items(checklist.CategoryCBB)
	for i, item := range items {
		switch {
		case i < 6:
			records = append(records, okay(2, item))
		case i < 8:
			records = append(records, notOkay(2, item, models.DefectCategoryC, "scuffed"))
		default:
			records = append(records, missed(2, item))
		}
	}
	// Duplicate save of the whole cycle appended afterwards.
	records = append(records, records...)

	status := reconcile.Cycles(records)[2]
	total := len(status.Okays) + len(status.Defects) + len(status.MissedEvaluationTypes)
	assert.Equal(t, checklist.ItemCount(checklist.CategoryCBB), total)
}

func TestCycles_MalformedFieldsDefaulted(t *testing.T) {
	records := []models.InspectionRecord{
		// No cycle, no evaluation type, unknown criteria, empty category.
		{Criteria: "???", DefectRemarks: "strange row"},
	}

	statuses := reconcile.Cycles(records)
	require.Contains(t, statuses, 1, "cycle-less records group under cycle 1")

	status := statuses[1]
	require.Len(t, status.Defects, 1)
	assert.Equal(t, "Unknown", status.Defects[0])
	assert.Equal(t, "Unknown", status.DefectCategories["Unknown"])
}

func TestNextEditableCycle(t *testing.T) {
	statuses := reconcile.Cycles([]models.InspectionRecord{
		okay(1, "CBB 1"),
		okay(2, "CBB 1"),
		okay(4, "CBB 1"), // gap at 3
	})

	assert.Equal(t, 3, reconcile.NextEditableCycle(statuses, checklist.TotalCycles))

	full := map[int]models.CycleStatus{}
	for n := 1; n <= checklist.TotalCycles; n++ {
		full[n] = models.CycleStatus{CycleNo: n, Completed: true}
	}
	assert.Equal(t, 0, reconcile.NextEditableCycle(full, checklist.TotalCycles),
		"all cycles saved leaves nothing editable")
}

// TestFlatten preserves enqueue order so later re-saves win at
// reconciliation.
func TestFlatten(t *testing.T) {
	subs := []models.OfflineSubmission{
		{ID: 1, CycleNo: 1, CreatedAt: time.Now().Add(-time.Hour),
			Records: []models.InspectionRecord{notOkay(1, "CBB 1", models.DefectCategoryA, "old")}},
		{ID: 2, CycleNo: 1, CreatedAt: time.Now(),
			Records: []models.InspectionRecord{okay(1, "CBB 1")}},
	}

	flat := reconcile.Flatten(subs)
	require.Len(t, flat, 2)

	status := reconcile.Cycles(flat)[1]
	assert.Equal(t, []string{"CBB 1"}, status.Okays, "the later queue entry wins")
	assert.Empty(t, status.Defects)
}
