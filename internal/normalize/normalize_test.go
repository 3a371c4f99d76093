package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/checklist"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/models"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/normalize"
)

func cbbInput(selections map[string]models.ItemSelection) normalize.Input {
	return normalize.Input{
		TourID:     "tour-1",
		CycleNo:    3,
		Category:   checklist.CategoryCBB,
		ObservedBy: "R. Nair",
		Session: models.SessionDetails{
			Product: "Biscuit 200g",
			BatchNo: "B-1142",
			LineNo:  "Line 4",
			Shift:   "A",
		},
		Selections:     selections,
		ChecklistItems: checklist.Items(checklist.CategoryCBB),
	}
}

// TestRecords_EveryItemProducesARecord covers the completeness guarantee:
// a save of a 10-item checklist always yields 10 records, with untouched
// items synthesized as Missed.
func TestRecords_EveryItemProducesARecord(t *testing.T) {
	selections := map[string]models.ItemSelection{
		"CBB 1": {Status: models.CriteriaOkay},
		"CBB 2": {Status: models.CriteriaOkay},
		"CBB 3": {Status: models.CriteriaOkay},
		"CBB 4": {Status: models.CriteriaOkay},
		"CBB 5": {Status: models.CriteriaNotOkay, DefectCategory: models.DefectCategoryA, Defect: "Crushed flap", Remarks: "Carton crushed at sealer"},
		"CBB 6": {Status: models.CriteriaOkay},
		"CBB 7": {Status: models.CriteriaOkay},
	}

	records, err := normalize.Records(cbbInput(selections))
	require.NoError(t, err)
	require.Len(t, records, 10)

	missed := 0
	for _, rec := range records {
		assert.Equal(t, "tour-1", rec.TourID)
		assert.Equal(t, 3, rec.Cycle)
		assert.Equal(t, checklist.CategoryCBB, rec.Category)
		assert.Equal(t, "Biscuit 200g", rec.Product)
		if rec.Missed() {
			missed++
			assert.Equal(t, models.CriteriaNotOkay, rec.Criteria)
			assert.Equal(t, rec.EvaluationType, rec.Defect)
			assert.Equal(t, normalize.MissedRemarks, rec.DefectRemarks)
		}
	}
	assert.Equal(t, 3, missed, "CBB 8, 9 and 10 were never touched")
}

// TestRecords_NotOkayCarriesDefectDetail verifies the 1:1 mapping of a
// Not Okay selection.
func TestRecords_NotOkayCarriesDefectDetail(t *testing.T) {
	selections := map[string]models.ItemSelection{
		"CBB 2": {
			Status:         models.CriteriaNotOkay,
			DefectCategory: models.DefectCategoryB,
			Defect:         "Print smudge",
			Remarks:        "Ink not cured",
		},
	}

	records, err := normalize.Records(cbbInput(selections))
	require.NoError(t, err)

	var rec models.InspectionRecord
	for _, r := range records {
		if r.EvaluationType == "CBB 2" {
			rec = r
		}
	}
	assert.Equal(t, models.CriteriaNotOkay, rec.Criteria)
	assert.Equal(t, models.DefectCategoryB, rec.DefectCategory)
	assert.Equal(t, "Print smudge", rec.Defect)
	assert.Equal(t, "Ink not cured", rec.DefectRemarks)
}

// TestRecords_StableOrder: normalizing identical input twice yields an
// identical record list.
func TestRecords_StableOrder(t *testing.T) {
	selections := map[string]models.ItemSelection{
		"CBB 4": {Status: models.CriteriaOkay},
		"CBB 9": {Status: models.CriteriaOkay},
	}

	first, err := normalize.Records(cbbInput(selections))
	require.NoError(t, err)
	second, err := normalize.Records(cbbInput(selections))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestValidate_RejectsBadSelections(t *testing.T) {
	tests := []struct {
		name      string
		selection models.ItemSelection
	}{
		{"not okay without category", models.ItemSelection{Status: models.CriteriaNotOkay, Remarks: "broken"}},
		{"not okay without remarks", models.ItemSelection{Status: models.CriteriaNotOkay, DefectCategory: models.DefectCategoryA}},
		{"reserved missed category", models.ItemSelection{Status: models.CriteriaNotOkay, DefectCategory: models.DefectCategoryMissed, Remarks: "x"}},
		{"unknown status", models.ItemSelection{Status: "Maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalize.Records(cbbInput(map[string]models.ItemSelection{
				"CBB 1": tt.selection,
			}))
			require.Error(t, err)

			var vErr *normalize.ValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.Equal(t, "CBB 1", vErr.Item)
		})
	}
}
