// Package reconcile derives per-cycle completion state from a flat set of
// inspection records. The record set comes either from a remote fetch or from
// the flattened offline queue — never both merged — and may contain
// duplicates from repeated saves; reconciliation resolves them with
// last-write-wins semantics keyed by (cycle, evaluation type).
package reconcile

import (
	"sort"

	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/models"
)

// unknown is substituted for malformed or missing fields. Reconciliation
// never fails: over-reporting completion beats silently losing data.
const unknown = "Unknown"

// itemState is the winning record for one (cycle, item) key, plus its arrival
// position so derived lists keep a stable order.
type itemState struct {
	record models.InspectionRecord
	seq    int // First time this key was seen; preserved across overwrites
}

// Cycles groups records by cycle number and reconciles each group into a
// CycleStatus. Input order is significant: when the same (cycle, evaluation
// type) appears more than once, the later record wins. Callers feeding queued
// submissions must flatten them in enqueue order (see Flatten).
//
// The result maps cycle number -> status and contains an entry only for
// cycles that have at least one record; the presence of any record is the
// completion signal for that cycle.
//
// Pure function: reconciling the same input twice yields identical output.
func Cycles(records []models.InspectionRecord) map[int]models.CycleStatus {
	// Explicit map keyed by (cycle, item) removes the silent-duplicate
	// hazard of accumulating into lists directly.
	states := make(map[int]map[string]*itemState)
	seq := 0

	for _, rec := range records {
		if rec.Cycle <= 0 {
			// No cycle ordinal to group under; count it under cycle 1
			// rather than dropping it.
			rec.Cycle = 1
		}
		item := rec.EvaluationType
		if item == "" {
			// Missed records carry the item name in the defect field.
			item = rec.Defect
		}
		if item == "" {
			item = unknown
		}

		byItem, ok := states[rec.Cycle]
		if !ok {
			byItem = make(map[string]*itemState)
			states[rec.Cycle] = byItem
		}
		if st, ok := byItem[item]; ok {
			st.record = rec // Last write wins, keep original position
		} else {
			byItem[item] = &itemState{record: rec, seq: seq}
			seq++
		}
	}

	out := make(map[int]models.CycleStatus, len(states))
	for cycleNo, byItem := range states {
		out[cycleNo] = buildStatus(cycleNo, byItem)
	}
	return out
}

// buildStatus classifies the winning record per item into okays, defects and
// missed, deriving ordered lists from the map.
func buildStatus(cycleNo int, byItem map[string]*itemState) models.CycleStatus {
	status := models.CycleStatus{
		CycleNo: cycleNo,
		// Records are only written at save time, atomically for the whole
		// cycle, so any record present means the cycle was saved.
		Started:               true,
		Completed:             true,
		Okays:                 []string{},
		Defects:               []string{},
		DefectCategories:      make(map[string]string),
		DefectRemarks:         make(map[string]string),
		EvaluationTypes:       make(map[string]string),
		MissedEvaluationTypes: make(map[string]string),
	}

	// Stable order: first-seen position of each item.
	ordered := make([]string, 0, len(byItem))
	for item := range byItem {
		ordered = append(ordered, item)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return byItem[ordered[i]].seq < byItem[ordered[j]].seq
	})

	for _, item := range ordered {
		rec := byItem[item].record
		switch {
		case rec.Missed():
			status.MissedEvaluationTypes[item] = item
		case rec.Criteria == models.CriteriaOkay:
			status.Okays = append(status.Okays, item)
		case rec.Criteria == models.CriteriaNotOkay:
			status.Defects = append(status.Defects, item)
			status.EvaluationTypes[item] = item
			status.DefectCategories[item] = orUnknown(rec.DefectCategory)
			status.DefectRemarks[item] = rec.DefectRemarks
		default:
			// Malformed criteria: count as a defect of unknown severity
			// rather than dropping the item.
			status.Defects = append(status.Defects, item)
			status.EvaluationTypes[item] = item
			status.DefectCategories[item] = unknown
			status.DefectRemarks[item] = rec.DefectRemarks
		}
	}
	return status
}

// NextEditableCycle returns the lowest-numbered cycle with no records, capped
// at totalCycles. Returns 0 when every cycle already has records.
func NextEditableCycle(statuses map[int]models.CycleStatus, totalCycles int) int {
	for n := 1; n <= totalCycles; n++ {
		if _, done := statuses[n]; !done {
			return n
		}
	}
	return 0
}

// Flatten expands queued submissions into one flat record list in enqueue
// order, so that re-saves of a cycle later in the queue win during
// reconciliation.
func Flatten(subs []models.OfflineSubmission) []models.InspectionRecord {
	var out []models.InspectionRecord
	for _, sub := range subs {
		out = append(out, sub.Records...)
	}
	return out
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
