// Package models defines the domain entities and data transfer objects for
// the plant tour service. It includes the inspection record that mirrors the
// remote CRM schema, the offline submission staged in the station database,
// and the derived view models (cycle status, category scores) consumed by the
// tour UI.
package models

import "time"

// ============================================================================
// Domain Models
// ============================================================================

// Evaluation outcomes for a single checklist item.
const (
	CriteriaOkay    = "Okay"
	CriteriaNotOkay = "Not Okay"
)

// Defect severity categories. DefectCategoryMissed is a reserved sentinel:
// an item the observer never touched before saving the cycle is recorded as
// Not Okay with this category, so completion accounting never has to consult
// the checklist definitions again once records exist.
const (
	DefectCategoryA      = "Category A"
	DefectCategoryB      = "Category B"
	DefectCategoryC      = "Category C"
	DefectCategoryMissed = "Missed"
)

// PQI verdicts. The 90.00 boundary is inclusive: exactly 90 passes.
const (
	PQIStatusPass = "PASS"
	PQIStatusHold = "HOLD"
)

// InspectionRecord is the atomic inspection fact: item EvaluationType, in
// cycle Cycle, under category Category, was evaluated with outcome Criteria.
// It is the unit posted to the remote CRM store and the unit staged in the
// offline queue. The remote store is append-only; duplicates from re-saves
// are tolerated there and de-duplicated during reconciliation.
type InspectionRecord struct {
	EvaluationType string `json:"evaluationType"` // Checklist item, e.g. "CBB 3"
	Criteria       string `json:"criteria"`       // CriteriaOkay or CriteriaNotOkay
	Cycle          int    `json:"cycle"`          // 1..checklist.TotalCycles
	Category       string `json:"category"`       // e.g. "CBB Evaluation"
	Defect         string `json:"defect"`         // Free text; item name when missed
	DefectCategory string `json:"defectCategory"` // Severity or DefectCategoryMissed
	DefectRemarks  string `json:"defectRemarks"`  // Observer remarks
	TourID         string `json:"tourId"`         // Owning tour
	ObservedBy     string `json:"observedBy"`     // Observer display name

	// Contextual fields copied from the tour's start-of-session form.
	Product  string `json:"product"`
	BatchNo  string `json:"batchNo"`
	LineNo   string `json:"lineNo"`
	Expiry   string `json:"expiry"`
	Packaged string `json:"packaged"`
	Shift    string `json:"shift"`
}

// Missed reports whether the record is the synthetic "never evaluated" marker.
func (r InspectionRecord) Missed() bool {
	return r.DefectCategory == DefectCategoryMissed
}

// OfflineSubmission is one staged cycle save: the records produced by a save
// action performed while the tour was offline, plus enough metadata to replay
// them later. Owned exclusively by the offline queue; created at save time
// and destroyed either on confirmed sync or on explicit user cancellation.
//
// Database Table: offline_submissions
type OfflineSubmission struct {
	ID        int                `db:"id"`         // Primary key, replay order
	TourID    string             `db:"tour_id"`    // Owning tour
	CycleNo   int                `db:"cycle_no"`   // Cycle the save belongs to
	Records   []InspectionRecord `db:"records"`    // Normalized records (jsonb)
	CreatedAt time.Time          `db:"created_at"` // Enqueue timestamp
}

// SessionDetails is the start-of-session form captured when a tour begins.
// Every record written during the tour carries a copy of these fields.
type SessionDetails struct {
	Product  string `json:"product"`
	BatchNo  string `json:"batchNo"`
	LineNo   string `json:"lineNo"`
	Expiry   string `json:"expiry"`
	Packaged string `json:"packaged"`
	Shift    string `json:"shift"`
}

// Tour is one inspection session spanning a fixed number of cycles.
//
// Database Table: tours
// Offline flag: true while the tour has unsynced local data or was started
// in offline capture mode; cleared only by a full successful sync or an
// explicit confirmed cancellation.
type Tour struct {
	ID          string         `db:"id"`           // UUID
	Plant       string         `db:"plant"`        // Site identifier
	Line        string         `db:"line"`         // Production line
	ObservedBy  string         `db:"observed_by"`  // Observer display name
	Session     SessionDetails `db:"session"`      // Start-of-session form (jsonb)
	Offline     bool           `db:"offline"`      // Offline capture mode
	CreatedAt   time.Time      `db:"created_at"`   // Tour start
	CompletedAt *time.Time     `db:"completed_at"` // Nil while in progress
}

// ============================================================================
// Derived View Models (never persisted remotely)
// ============================================================================

// CycleStatus is the reconciled state of one cycle within one category,
// recomputed deterministically from the records belonging to that cycle.
// For a completed cycle, len(Okays)+len(Defects)+len(MissedEvaluationTypes)
// equals the checklist's fixed item count after de-duplication.
type CycleStatus struct {
	CycleNo   int  `json:"cycleNo"`
	Started   bool `json:"started"`
	Completed bool `json:"completed"`

	Okays   []string `json:"okays"`   // Items evaluated Okay, deduped, stable order
	Defects []string `json:"defects"` // Items evaluated Not Okay (excl. missed)

	DefectCategories      map[string]string `json:"defectCategories"`      // item -> severity
	DefectRemarks         map[string]string `json:"defectRemarks"`         // item -> remarks
	EvaluationTypes       map[string]string `json:"evaluationTypes"`       // item -> item
	MissedEvaluationTypes map[string]string `json:"missedEvaluationTypes"` // item -> item
}

// CategoryScore is one row of the tour scoring summary, computed from all
// reconciled records of a category across every cycle observed so far.
type CategoryScore struct {
	Category       string  `json:"category"`
	ItemCount      int     `json:"itemCount"`
	Okays          int     `json:"okays"`
	ADefects       int     `json:"aDefects"`
	BDefects       int     `json:"bDefects"`
	CDefects       int     `json:"cDefects"`
	CyclesObserved int     `json:"cyclesObserved"`
	MaxScore       int64   `json:"maxScore"`
	ScoreDeduction int64   `json:"scoreDeduction"`
	ScoreObtained  int64   `json:"scoreObtained"`
	ScorePercent   float64 `json:"scorePercent"`
	PQIScore       float64 `json:"pqiScore"` // Bonus-weighted contribution
}

// TourSummary is the displayed scoring summary: one row per category plus the
// final Product Quality Index and its pass/hold verdict.
type TourSummary struct {
	TourID        string          `json:"tourId"`
	Rows          []CategoryScore `json:"rows"`
	BrokenPercent float64         `json:"brokenPercent"`
	FinalPQIScore float64         `json:"finalPqiScore"`
	PQIStatus     string          `json:"pqiStatus"`
}

// ============================================================================
// Data Transfer Objects - API Input
// ============================================================================

// ItemSelection is the raw UI selection for one checklist item as captured
// during a cycle, before normalization into InspectionRecords.
type ItemSelection struct {
	Status         string `json:"status" validate:"required,oneof='Okay' 'Not Okay'"`
	DefectCategory string `json:"defectCategory" validate:"omitempty,oneof='Category A' 'Category B' 'Category C'"`
	Defect         string `json:"defect"`
	Remarks        string `json:"remarks"`
}

// StartTourForm starts a new tour with its session details.
type StartTourForm struct {
	Plant      string         `json:"plant" validate:"required"`
	Line       string         `json:"line" validate:"required"`
	ObservedBy string         `json:"observedBy" validate:"required"`
	Offline    bool           `json:"offline"` // Start in offline capture mode
	Session    SessionDetails `json:"session"`
}

// SaveCycleForm submits one cycle's evaluations for a category.
type SaveCycleForm struct {
	Category   string                   `json:"category" validate:"required"`
	// Selections may be empty: untouched items are synthesized as Missed.
	Selections map[string]ItemSelection `json:"selections" validate:"dive"`
	ObservedBy string                   `json:"observedBy"`
}

// SyncResult reports the outcome of a queue replay.
type SyncResult struct {
	Attempted int  `json:"attempted"`
	Synced    int  `json:"synced"`
	Failed    int  `json:"failed"`
	Offline   bool `json:"offline"` // Mode after the attempt
}
