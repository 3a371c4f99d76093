// Package normalize converts the raw per-item selections captured during a
// cycle into the flat inspection records the remote store expects. It is the
// single place where the "missed item" sentinel is synthesized, so every save
// produces exactly one record per checklist item.
package normalize

import (
	"fmt"

	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/models"
)

// MissedRemarks is the fixed remarks text stamped on synthesized records for
// items the observer never evaluated.
const MissedRemarks = "Missed evaluation"

// Input carries everything a cycle save needs to be normalized into records.
type Input struct {
	TourID     string
	CycleNo    int
	Category   string
	ObservedBy string
	Session    models.SessionDetails

	// Selections maps checklist item -> the observer's evaluation. Items
	// absent from the map were never touched and become Missed records.
	Selections map[string]models.ItemSelection

	// ChecklistItems is the fixed item list for the category, in sheet
	// order. Output order follows this list, so normalizing identical input
	// twice yields identical output.
	ChecklistItems []string
}

// ValidationError reports a selection that cannot be normalized, such as a
// Not Okay evaluation missing its severity or remarks. Saves are blocked
// locally on validation errors; nothing is partially committed.
type ValidationError struct {
	Item   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("item %q: %s", e.Item, e.Reason)
}

// Records builds the complete record list for one cycle save.
//
// For every item with a recorded status it emits one record mapped 1:1 from
// the selection. For every checklist item absent from the selections it
// synthesizes a Not Okay record with the reserved Missed category, carrying
// the item name in the defect field. The result always has exactly
// len(in.ChecklistItems) records.
//
// Pure function of its input; no side effects.
func Records(in Input) ([]models.InspectionRecord, error) {
	if err := Validate(in.Selections); err != nil {
		return nil, err
	}

	out := make([]models.InspectionRecord, 0, len(in.ChecklistItems))
	for _, item := range in.ChecklistItems {
		rec := models.InspectionRecord{
			EvaluationType: item,
			Cycle:          in.CycleNo,
			Category:       in.Category,
			TourID:         in.TourID,
			ObservedBy:     in.ObservedBy,
			Product:        in.Session.Product,
			BatchNo:        in.Session.BatchNo,
			LineNo:         in.Session.LineNo,
			Expiry:         in.Session.Expiry,
			Packaged:       in.Session.Packaged,
			Shift:          in.Session.Shift,
		}

		sel, touched := in.Selections[item]
		switch {
		case !touched:
			rec.Criteria = models.CriteriaNotOkay
			rec.DefectCategory = models.DefectCategoryMissed
			rec.Defect = item
			rec.DefectRemarks = MissedRemarks
		case sel.Status == models.CriteriaOkay:
			rec.Criteria = models.CriteriaOkay
		default:
			rec.Criteria = models.CriteriaNotOkay
			rec.DefectCategory = sel.DefectCategory
			rec.Defect = sel.Defect
			rec.DefectRemarks = sel.Remarks
		}

		out = append(out, rec)
	}
	return out, nil
}

// Validate checks the raw selections before normalization. A Not Okay
// selection must carry a defect category and remarks; anything else would
// produce a record the scoring pass cannot classify.
func Validate(selections map[string]models.ItemSelection) error {
	for item, sel := range selections {
		switch sel.Status {
		case models.CriteriaOkay:
			// Nothing further required.
		case models.CriteriaNotOkay:
			if sel.DefectCategory == "" {
				return &ValidationError{Item: item, Reason: "Not Okay evaluation requires a defect category"}
			}
			if sel.DefectCategory == models.DefectCategoryMissed {
				return &ValidationError{Item: item, Reason: "defect category Missed is reserved"}
			}
			if sel.Remarks == "" {
				return &ValidationError{Item: item, Reason: "Not Okay evaluation requires remarks"}
			}
		default:
			return &ValidationError{Item: item, Reason: fmt.Sprintf("unknown status %q", sel.Status)}
		}
	}
	return nil
}
