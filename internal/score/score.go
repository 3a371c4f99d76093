// Package score computes the tour's Product Quality Index from reconciled
// inspection records. Scores are recomputed from scratch on every change to
// the underlying record set — defect reclassification can move counts between
// historical buckets, so nothing is maintained incrementally.
//
// Arithmetic uses shopspring/decimal so the inclusive 90.00 pass boundary is
// exact and not subject to float drift.
package score

import (
	"github.com/shopspring/decimal"

	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/checklist"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/models"
	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/reconcile"
)

// passThreshold is the minimum final PQI for a PASS verdict, inclusive.
var passThreshold = decimal.NewFromInt(90)

var hundred = decimal.NewFromInt(100)

// Aggregate reconciles the full record set per category and produces the
// scoring summary for the tour. totalCycles is the count of distinct cycle
// numbers present in the data, shared across categories so partially toured
// categories are scored against the same observation window.
func Aggregate(tourID string, records []models.InspectionRecord) models.TourSummary {
	totalCycles := distinctCycles(records)

	byCategory := make(map[string][]models.InspectionRecord)
	for _, rec := range records {
		byCategory[rec.Category] = append(byCategory[rec.Category], rec)
	}

	summary := models.TourSummary{
		TourID:        tourID,
		BrokenPercent: 0, // Reserved for a future broken-pieces signal
	}

	finalPQI := decimal.Zero
	for _, category := range checklist.Categories() {
		row := Category(category, byCategory[category], totalCycles)
		summary.Rows = append(summary.Rows, row)
		finalPQI = finalPQI.Add(decimal.NewFromFloat(row.PQIScore))
	}
	finalPQI = finalPQI.Sub(decimal.NewFromFloat(summary.BrokenPercent))

	summary.FinalPQIScore = finalPQI.Round(2).InexactFloat64()
	if finalPQI.Cmp(passThreshold) >= 0 {
		summary.PQIStatus = models.PQIStatusPass
	} else {
		summary.PQIStatus = models.PQIStatusHold
	}
	return summary
}

// Category scores one category's records across all cycles.
//
// The deduction model is fixed: Category A defects cost 80 points, B 30,
// C 10, against a maximum of itemCount x 120 x totalCycles. The obtained
// score never goes negative. Net Weight carries no defect signal and is
// scored at a fixed 100%.
func Category(category string, records []models.InspectionRecord, totalCycles int) models.CategoryScore {
	row := models.CategoryScore{
		Category:       category,
		ItemCount:      checklist.ItemCount(category),
		CyclesObserved: totalCycles,
	}

	if category == checklist.CategoryNetWeight {
		row.ScorePercent = 100
		row.PQIScore = pqiContribution(hundred, category)
		return row
	}

	// Counts come from the reconciled per-cycle state, not the raw records,
	// so duplicate saves cannot double-count a defect.
	for _, status := range reconcile.Cycles(records) {
		row.Okays += len(status.Okays)
		for _, severity := range status.DefectCategories {
			switch severity {
			case models.DefectCategoryA:
				row.ADefects++
			case models.DefectCategoryB:
				row.BDefects++
			case models.DefectCategoryC:
				row.CDefects++
			}
		}
	}

	row.MaxScore = int64(row.ItemCount) * checklist.ItemWeight * int64(totalCycles)
	row.ScoreDeduction = int64(row.ADefects)*checklist.PenaltyCategoryA +
		int64(row.BDefects)*checklist.PenaltyCategoryB +
		int64(row.CDefects)*checklist.PenaltyCategoryC

	obtained := row.MaxScore - row.ScoreDeduction
	if obtained < 0 {
		obtained = 0
	}
	row.ScoreObtained = obtained

	if row.MaxScore == 0 {
		// No cycles observed yet; avoid division by zero.
		return row
	}

	percent := decimal.NewFromInt(obtained).
		Div(decimal.NewFromInt(row.MaxScore)).
		Mul(hundred)
	row.ScorePercent = percent.Round(2).InexactFloat64()
	row.PQIScore = pqiContribution(percent, category)
	return row
}

// pqiContribution weights a percentage score by the category's bonus
// multiplier.
func pqiContribution(percent decimal.Decimal, category string) float64 {
	mult := decimal.NewFromFloat(checklist.BonusMultiplier(category))
	return percent.Mul(mult).Round(2).InexactFloat64()
}

func distinctCycles(records []models.InspectionRecord) int {
	seen := make(map[int]struct{})
	for _, rec := range records {
		cycle := rec.Cycle
		if cycle <= 0 {
			cycle = 1 // Same grouping fallback as the reconciler
		}
		seen[cycle] = struct{}{}
	}
	return len(seen)
}
