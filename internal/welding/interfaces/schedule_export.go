package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"weld-schedule/internal/welding/application"
	welding "weld-schedule/internal/welding/domain"
)

// ScheduleMeta describes the schedule header.
type ScheduleMeta struct {
	Title   string
	Project string
}

var scheduleColumns = []string{
	"Weld No", "Class",
	"OD 1", "Wall 1", "Material 1", "Spec 1", "Description 1",
	"OD 2", "Wall 2", "Material 2", "Spec 2", "Description 2",
}

func scheduleRow(joint *welding.WeldJoint) []string {
	return []string{
		joint.Number, string(joint.Class),
		joint.PortA.OD, joint.PortA.WallThickness, joint.PortA.Material, joint.PortA.Spec, joint.PortA.LongDescription,
		joint.PortB.OD, joint.PortB.WallThickness, joint.PortB.Material, joint.PortB.Spec, joint.PortB.LongDescription,
	}
}

// BuildSchedulePDF renders a landscape weld schedule.
func BuildSchedulePDF(meta ScheduleMeta, report *application.RunReport) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, meta.Title)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	if meta.Project != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Project: %s", meta.Project))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Run: %s", report.RunID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", report.FinishedAt.Format(time.RFC3339)))
	pdf.Ln(5)
	counts := report.CountByClass()
	for _, class := range welding.Classes {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %d", class, counts[class]))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	widths := []float64{18, 22, 16, 14, 20, 20, 40, 16, 14, 20, 20, 40}
	pdf.SetFont("Arial", "B", 8)
	for i, title := range scheduleColumns {
		pdf.CellFormat(widths[i], 6, title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 8)
	for _, joint := range report.Joints {
		for i, value := range scheduleRow(joint) {
			align := "L"
			if i == 0 {
				align = "C"
			}
			pdf.CellFormat(widths[i], 6, value, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildScheduleXLSX renders the weld schedule workbook.
func BuildScheduleXLSX(meta ScheduleMeta, report *application.RunReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	summarySheet := "summary"
	weldsSheet := "welds"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(weldsSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", meta.Title)
	_ = f.SetCellValue(summarySheet, "A3", "Project")
	_ = f.SetCellValue(summarySheet, "B3", meta.Project)
	_ = f.SetCellValue(summarySheet, "A4", "Run")
	_ = f.SetCellValue(summarySheet, "B4", report.RunID)
	_ = f.SetCellValue(summarySheet, "A5", "Generated")
	_ = f.SetCellValue(summarySheet, "B5", report.FinishedAt.Format(time.RFC3339))
	counts := report.CountByClass()
	for i, class := range welding.Classes {
		row := i + 7
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), string(class))
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), counts[class])
	}

	for i, title := range scheduleColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(weldsSheet, cell, title)
	}
	for r, joint := range report.Joints {
		for c, value := range scheduleRow(joint) {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(weldsSheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
