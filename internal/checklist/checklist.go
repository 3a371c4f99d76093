// Package checklist holds the fixed evaluation checklists and scoring weights
// used throughout a plant tour. The tables here mirror the audit sheet used
// on the floor; they change only when the quality team revises the sheet.
package checklist

// TotalCycles is the number of timed checklist repetitions in one tour.
const TotalCycles = 8

// ItemWeight is the score value of one checklist item per cycle.
const ItemWeight = 120

// Penalty points deducted per defect, by severity.
const (
	PenaltyCategoryA = 80
	PenaltyCategoryB = 30
	PenaltyCategoryC = 10
)

// Category names as they appear on the audit sheet and in the remote store.
const (
	CategoryCBB       = "CBB Evaluation"
	CategorySecondary = "Secondary Packaging"
	CategoryPrimary   = "Primary Packaging"
	CategoryProduct   = "Product"
	CategoryNetWeight = "Net Weight"
)

// items maps each category to its fixed checklist.
var items = map[string][]string{
	CategoryCBB: {
		"CBB 1", "CBB 2", "CBB 3", "CBB 4", "CBB 5",
		"CBB 6", "CBB 7", "CBB 8", "CBB 9", "CBB 10",
	},
	CategorySecondary: {"Secondary 1", "Secondary 2"},
	CategoryPrimary:   {"Primary 1", "Primary 2"},
	CategoryProduct:   {"Product 1", "Product 2"},
	// Net Weight has no per-item checklist; it is scored at a fixed 100%
	// until a weigher signal is wired in.
	CategoryNetWeight: {},
}

// bonusMultipliers weight each category's percentage score into the final
// Product Quality Index.
var bonusMultipliers = map[string]float64{
	CategoryCBB:       0.10,
	CategorySecondary: 0.15,
	CategoryPrimary:   0.20,
	CategoryProduct:   0.40,
	CategoryNetWeight: 0.15,
}

// scoredOrder is the display/report order of the summary rows.
var scoredOrder = []string{
	CategoryCBB,
	CategorySecondary,
	CategoryPrimary,
	CategoryProduct,
	CategoryNetWeight,
}

// Items returns the checklist for a category in sheet order. The returned
// slice is a copy; callers may not mutate the tables.
func Items(category string) []string {
	src, ok := items[category]
	if !ok {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// ItemCount returns the fixed checklist size for a category.
func ItemCount(category string) int {
	return len(items[category])
}

// IsCategory reports whether name is a known audit category.
func IsCategory(name string) bool {
	_, ok := items[name]
	return ok
}

// BonusMultiplier returns the PQI weighting for a category, 0 if unknown.
func BonusMultiplier(category string) float64 {
	return bonusMultipliers[category]
}

// Categories returns all scored categories in report order.
func Categories() []string {
	out := make([]string, len(scoredOrder))
	copy(out, scoredOrder)
	return out
}
