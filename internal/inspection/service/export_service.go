package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"github.com/hygiatech/sanicheck/internal/inspection/repository"
	"github.com/xuri/excelize/v2"
)

// ExportService renders an action plan as a spreadsheet for sharing with
// the establishment.
type ExportService struct {
	inspectionRepo *repository.InspectionRepository
	estRepo        *repository.EstablishmentRepository
}

func NewExportService(repos *repository.Repositories) *ExportService {
	return &ExportService{
		inspectionRepo: repos.Inspection,
		estRepo:        repos.Establishment,
	}
}

var planExportHeaders = []string{"#", "Ação Corretiva", "Gravidade", "Prazo", "Status", "Observações"}

// ExportPlan builds the Excel file for one inspection's plan.
func (s *ExportService) ExportPlan(ctx context.Context, inspectionID string) (*excelize.File, string, error) {
	inspection, err := s.inspectionRepo.FindByIDWithPlan(ctx, inspectionID)
	if err != nil {
		return nil, "", fmt.Errorf("inspeção não encontrada")
	}
	if inspection.Plan == nil {
		return nil, "", fmt.Errorf("plano de ação não encontrado")
	}

	var estName string
	if est, err := s.estRepo.FindByID(ctx, inspection.EstablishmentID); err == nil {
		estName = est.Name
	}

	showEvidence := inspection.Status == entity.InspectionStatusCompleted

	f := excelize.NewFile()
	sheet := "Plano de Ação"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Plano de Ação - %s", estName))
	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Relatório: %s", inspection.FileName))
	f.SetCellValue(sheet, "A3", fmt.Sprintf("Status: %s", inspection.Status))

	headerRow := 5
	for i, h := range planExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, headerRow)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, item := range inspection.Plan.Items {
		row := headerRow + 1 + rowIdx
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), rowIdx+1)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.Description)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.Severity)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.DisplayDeadline())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), item.CurrentStatus)
		if showEvidence {
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), item.ResolutionNotes)
		}
	}

	colWidths := []float64{5, 60, 12, 14, 14, 40}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("plano_acao_%s_%s.xlsx", inspection.ID[:8], time.Now().Format("20060102"))
	return f, filename, nil
}
