package remote

import "github.com/ajithks-aufait/PWA-PTMS-sub000/internal/models"

// wireRecord is the OData entity shape of the remote store's plant tour
// evaluation table. This is the only place the wire schema appears; schema
// drift stays isolated to the two mapping functions below.
type wireRecord struct {
	EvaluationType string `json:"ptms_evaluationtype"`
	Criteria       string `json:"ptms_criteria"`
	Cycle          int    `json:"ptms_cyclenumber"`
	Category       string `json:"ptms_category"`
	Defect         string `json:"ptms_defect,omitempty"`
	DefectCategory string `json:"ptms_defectcategory,omitempty"`
	DefectRemarks  string `json:"ptms_defectremarks,omitempty"`
	TourID         string `json:"ptms_tourid"`
	ObservedBy     string `json:"ptms_observedby,omitempty"`
	Product        string `json:"ptms_product,omitempty"`
	BatchNo        string `json:"ptms_batchno,omitempty"`
	LineNo         string `json:"ptms_lineno,omitempty"`
	Expiry         string `json:"ptms_expirydate,omitempty"`
	Packaged       string `json:"ptms_packageddate,omitempty"`
	Shift          string `json:"ptms_shift,omitempty"`
}

func toWire(rec models.InspectionRecord) wireRecord {
	return wireRecord{
		EvaluationType: rec.EvaluationType,
		Criteria:       rec.Criteria,
		Cycle:          rec.Cycle,
		Category:       rec.Category,
		Defect:         rec.Defect,
		DefectCategory: rec.DefectCategory,
		DefectRemarks:  rec.DefectRemarks,
		TourID:         rec.TourID,
		ObservedBy:     rec.ObservedBy,
		Product:        rec.Product,
		BatchNo:        rec.BatchNo,
		LineNo:         rec.LineNo,
		Expiry:         rec.Expiry,
		Packaged:       rec.Packaged,
		Shift:          rec.Shift,
	}
}

func fromWire(w wireRecord) models.InspectionRecord {
	return models.InspectionRecord{
		EvaluationType: w.EvaluationType,
		Criteria:       w.Criteria,
		Cycle:          w.Cycle,
		Category:       w.Category,
		Defect:         w.Defect,
		DefectCategory: w.DefectCategory,
		DefectRemarks:  w.DefectRemarks,
		TourID:         w.TourID,
		ObservedBy:     w.ObservedBy,
		Product:        w.Product,
		BatchNo:        w.BatchNo,
		LineNo:         w.LineNo,
		Expiry:         w.Expiry,
		Packaged:       w.Packaged,
		Shift:          w.Shift,
	}
}
