package service

import (
	"context"
	"testing"

	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"github.com/hygiatech/sanicheck/internal/inspection/repository"
	"github.com/hygiatech/sanicheck/internal/inspection/testutil"
	"gorm.io/gorm"
)

func setupInspectionService(t *testing.T) (*gorm.DB, *InspectionService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return db, NewInspectionService(repos)
}

func seedPlanWithEvidence(t *testing.T, db *gorm.DB, inspectionID string) {
	t.Helper()
	evidence := "evidence/" + inspectionID + "/foto.jpg"
	testutil.SeedTestPlan(t, db, inspectionID, []entity.ActionPlanItem{
		{
			Description:         "Consertar vazamento na pia",
			Severity:            entity.SeverityHigh,
			AISuggestedDeadline: "7 dias",
			CurrentStatus:       entity.ItemStatusCorrected,
			ResolutionNotes:     "Vazamento consertado pelo encanador",
			EvidenceImageURL:    &evidence,
		},
	})
}

func TestReportHidesEvidenceBeforeCompletion(t *testing.T) {
	db, svc := setupInspectionService(t)
	est := testutil.SeedTestEstablishment(t, db, "Sorveteria Gelato")
	insp := testutil.SeedTestInspection(t, db, est.ID, entity.InspectionStatusPendingConsultantVerify)
	seedPlanWithEvidence(t, db, insp.ID)

	report, err := svc.Report(context.Background(), insp.ID)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if len(report.Items) != 1 {
		t.Fatalf("Expected 1 report item, got %d", len(report.Items))
	}
	item := report.Items[0]
	if item.EvidenceImageURL != nil {
		t.Error("Evidence shown before inspection completed")
	}
	if item.ResolutionNotes != "" {
		t.Error("Resolution notes shown before inspection completed")
	}
	if item.Deadline != "7 dias" {
		t.Errorf("Deadline = %q, want 7 dias", item.Deadline)
	}
}

func TestReportShowsEvidenceWhenCompleted(t *testing.T) {
	db, svc := setupInspectionService(t)
	est := testutil.SeedTestEstablishment(t, db, "Confeitaria Doce Lar")
	insp := testutil.SeedTestInspection(t, db, est.ID, entity.InspectionStatusCompleted)
	seedPlanWithEvidence(t, db, insp.ID)

	report, err := svc.Report(context.Background(), insp.ID)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	item := report.Items[0]
	if item.EvidenceImageURL == nil {
		t.Error("Evidence missing on completed inspection report")
	}
	if item.ResolutionNotes == "" {
		t.Error("Resolution notes missing on completed inspection report")
	}
	if report.Establishment != "Confeitaria Doce Lar" {
		t.Errorf("Establishment = %q", report.Establishment)
	}
}

func TestTrackerLinearProgress(t *testing.T) {
	db, svc := setupInspectionService(t)
	est := testutil.SeedTestEstablishment(t, db, "Quiosque da Praia")
	insp := testutil.SeedTestInspection(t, db, est.ID, entity.InspectionStatusApproved)

	tracker, err := svc.Tracker(context.Background(), insp.ID)
	if err != nil {
		t.Fatalf("Tracker failed: %v", err)
	}
	if len(tracker.Steps) != 5 {
		t.Fatalf("Expected 5 steps, got %d", len(tracker.Steps))
	}
	want := []string{"done", "done", "current", "pending", "pending"}
	for i, step := range tracker.Steps {
		if step.Status != want[i] {
			t.Errorf("Step %s status = %s, want %s", step.Key, step.Status, want[i])
		}
	}
}

func TestTrackerAbortedStates(t *testing.T) {
	db, svc := setupInspectionService(t)
	est := testutil.SeedTestEstablishment(t, db, "Food Truck Sabor")

	for _, status := range []string{entity.InspectionStatusRejected, entity.InspectionStatusCanceled} {
		insp := testutil.SeedTestInspection(t, db, est.ID, status)
		tracker, err := svc.Tracker(context.Background(), insp.ID)
		if err != nil {
			t.Fatalf("Tracker failed for %s: %v", status, err)
		}
		if tracker.Steps[0].Status != "done" {
			t.Errorf("%s: first step = %s, want done", status, tracker.Steps[0].Status)
		}
		for _, step := range tracker.Steps[1:] {
			if step.Status != "aborted" {
				t.Errorf("%s: step %s = %s, want aborted", status, step.Key, step.Status)
			}
		}
	}
}

func TestTrackerCompletedAllDone(t *testing.T) {
	db, svc := setupInspectionService(t)
	est := testutil.SeedTestEstablishment(t, db, "Restaurante Executivo")
	insp := testutil.SeedTestInspection(t, db, est.ID, entity.InspectionStatusCompleted)

	tracker, err := svc.Tracker(context.Background(), insp.ID)
	if err != nil {
		t.Fatalf("Tracker failed: %v", err)
	}
	for _, step := range tracker.Steps {
		if step.Status != "done" {
			t.Errorf("Step %s = %s, want done", step.Key, step.Status)
		}
	}
}

func TestListFillsEstablishmentName(t *testing.T) {
	db, svc := setupInspectionService(t)
	est := testutil.SeedTestEstablishment(t, db, "Empório Natural")
	testutil.SeedTestInspection(t, db, est.ID, entity.InspectionStatusProcessing)

	result, err := svc.List(context.Background(), 1, 20, map[string]string{"establishment_id": est.ID})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if result.Total != 1 || len(result.Items) != 1 {
		t.Fatalf("Expected 1 inspection, got total=%d len=%d", result.Total, len(result.Items))
	}
	if result.Items[0].EstablishmentName != "Empório Natural" {
		t.Errorf("EstablishmentName = %q", result.Items[0].EstablishmentName)
	}
}
