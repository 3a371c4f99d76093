package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/services"
)

// ExportHandler serves the downloadable PQI summary workbook.
type ExportHandler struct {
	inspections *services.InspectionService
}

// NewExportHandler creates an ExportHandler over the inspection service.
func NewExportHandler(inspections *services.InspectionService) *ExportHandler {
	return &ExportHandler{inspections: inspections}
}

// summaryColumns are the header row of the summary sheet.
var summaryColumns = []string{
	"Category", "Okays", "A Defects", "B Defects", "C Defects",
	"Max Score", "Deduction", "Score Obtained", "Score %", "PQI Contribution",
}

// ExportSummary renders the tour summary as an xlsx download: one row per
// category plus the final PQI verdict.
//
// Route: GET /api/tours/:id/summary/export
func (h *ExportHandler) ExportSummary(c *fiber.Ctx) error {
	tourID := c.Params("id")
	summary, err := h.inspections.Summary(c.Context(), tourID)
	if err != nil {
		return respondError(c, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "PQI Summary"
	f.SetSheetName("Sheet1", sheet)

	for i, col := range summaryColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col)
	}

	for i, row := range summary.Rows {
		values := []interface{}{
			row.Category, row.Okays, row.ADefects, row.BDefects, row.CDefects,
			row.MaxScore, row.ScoreDeduction, row.ScoreObtained,
			row.ScorePercent, row.PQIScore,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	verdictRow := len(summary.Rows) + 3
	cell, _ := excelize.CoordinatesToCellName(1, verdictRow)
	f.SetCellValue(sheet, cell, "Final PQI Score")
	cell, _ = excelize.CoordinatesToCellName(2, verdictRow)
	f.SetCellValue(sheet, cell, summary.FinalPQIScore)
	cell, _ = excelize.CoordinatesToCellName(1, verdictRow+1)
	f.SetCellValue(sheet, cell, "Status")
	cell, _ = excelize.CoordinatesToCellName(2, verdictRow+1)
	f.SetCellValue(sheet, cell, summary.PQIStatus)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "failed to generate workbook")
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=pqi-summary-%s.xlsx", tourID))
	return c.Send(buf.Bytes())
}
