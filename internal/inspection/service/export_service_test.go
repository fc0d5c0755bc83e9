package service

import (
	"context"
	"strings"
	"testing"

	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"github.com/hygiatech/sanicheck/internal/inspection/repository"
	"github.com/hygiatech/sanicheck/internal/inspection/testutil"
)

func TestExportPlanSpreadsheet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewExportService(repos)

	est := testutil.SeedTestEstablishment(t, db, "Restaurante Exportado")
	insp := testutil.SeedTestInspection(t, db, est.ID, entity.InspectionStatusApproved)
	testutil.SeedTestPlan(t, db, insp.ID, []entity.ActionPlanItem{
		{Description: "Desobstruir ralo da cozinha", Severity: entity.SeverityCritical, AISuggestedDeadline: "Imediato", ResolutionNotes: "nota interna"},
	})

	f, filename, err := svc.ExportPlan(context.Background(), insp.ID)
	if err != nil {
		t.Fatalf("ExportPlan failed: %v", err)
	}
	defer f.Close()

	if !strings.HasPrefix(filename, "plano_acao_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("Unexpected filename: %s", filename)
	}

	sheet := "Plano de Ação"
	title, _ := f.GetCellValue(sheet, "A1")
	if title != "Plano de Ação - Restaurante Exportado" {
		t.Errorf("Title = %q", title)
	}
	header, _ := f.GetCellValue(sheet, "B5")
	if header != "Ação Corretiva" {
		t.Errorf("Header B5 = %q", header)
	}
	desc, _ := f.GetCellValue(sheet, "B6")
	if desc != "Desobstruir ralo da cozinha" {
		t.Errorf("Cell B6 = %q", desc)
	}
	deadline, _ := f.GetCellValue(sheet, "D6")
	if deadline != "Imediato" {
		t.Errorf("Cell D6 = %q", deadline)
	}

	// resolution notes stay internal until the inspection completes
	notes, _ := f.GetCellValue(sheet, "F6")
	if notes != "" {
		t.Errorf("Notes exported before completion: %q", notes)
	}
}

func TestExportPlanIncludesNotesWhenCompleted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewExportService(repos)

	est := testutil.SeedTestEstablishment(t, db, "Cantina Exportada")
	insp := testutil.SeedTestInspection(t, db, est.ID, entity.InspectionStatusCompleted)
	testutil.SeedTestPlan(t, db, insp.ID, []entity.ActionPlanItem{
		{Description: "Instalar lixeira com pedal", CurrentStatus: entity.ItemStatusCorrected, ResolutionNotes: "Lixeira instalada"},
	})

	f, _, err := svc.ExportPlan(context.Background(), insp.ID)
	if err != nil {
		t.Fatalf("ExportPlan failed: %v", err)
	}
	defer f.Close()

	notes, _ := f.GetCellValue("Plano de Ação", "F6")
	if notes != "Lixeira instalada" {
		t.Errorf("Notes = %q, want Lixeira instalada", notes)
	}
}
