package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hygiatech/sanicheck/internal/config"
	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"github.com/hygiatech/sanicheck/internal/inspection/repository"
	"github.com/hygiatech/sanicheck/internal/inspection/testutil"
	"github.com/hygiatech/sanicheck/internal/shared/ai"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupProcessing(t *testing.T, aiHandler http.HandlerFunc) (*gorm.DB, *ProcessingService) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	srv := httptest.NewServer(aiHandler)
	t.Cleanup(srv.Close)

	aiClient, err := ai.New(config.AIConfig{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to create AI client: %v", err)
	}

	repos := repository.NewRepositories(db)
	svc := NewProcessingService(repos, nil, aiClient, zap.NewNop(), db)
	return db, svc
}

func seedQueuedJob(t *testing.T, db *gorm.DB, inspectionID string) *entity.Job {
	t.Helper()
	job := &entity.Job{
		ID:           "job-" + inspectionID[:8],
		InspectionID: inspectionID,
		Status:       entity.JobStatusQueued,
	}
	if err := db.Create(job).Error; err != nil {
		t.Fatalf("Failed to seed job: %v", err)
	}
	return job
}

func TestProcessSuccessCreatesPlan(t *testing.T) {
	db, svc := setupProcessing(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ai.ExtractResponse{
			Summary: "Duas não conformidades encontradas",
			Findings: []ai.Finding{
				{Description: "Limpar coifa da cozinha", Severity: entity.SeverityHigh, SuggestedDeadline: "7 dias"},
				{Description: "Trocar lâmpada da câmara fria", Severity: entity.SeverityLow, SuggestedDeadline: "15 dias"},
			},
			Usage: ai.Usage{Model: "gpt-4o", InputTokens: 1200, OutputTokens: 340, CostUSD: 0.0215},
		})
	})

	est := testutil.SeedTestEstablishment(t, db, "Restaurante Processado")
	insp := testutil.SeedTestInspection(t, db, est.ID, entity.InspectionStatusProcessing)
	job := seedQueuedJob(t, db, insp.ID)

	if err := svc.Process(context.Background(), insp.ID, job.ID); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	var stored entity.Inspection
	db.First(&stored, "id = ?", insp.ID)
	if stored.Status != entity.InspectionStatusPendingManagerReview {
		t.Errorf("Status = %s, want PENDING_MANAGER_REVIEW", stored.Status)
	}
	if stored.AIRawResponse == nil {
		t.Error("AIRawResponse not stored")
	}

	var plan entity.ActionPlan
	if err := db.Preload("Items").First(&plan, "inspection_id = ?", insp.ID).Error; err != nil {
		t.Fatalf("Plan not created: %v", err)
	}
	if len(plan.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(plan.Items))
	}
	entity.SortItems(plan.Items)
	if plan.Items[0].AISuggestedDeadline != "7 dias" {
		t.Errorf("First item deadline = %q", plan.Items[0].AISuggestedDeadline)
	}
	if plan.Items[0].OrderIndex == nil || *plan.Items[0].OrderIndex != 0 {
		t.Errorf("First item OrderIndex = %v, want 0", plan.Items[0].OrderIndex)
	}

	var storedJob entity.Job
	db.First(&storedJob, "id = ?", job.ID)
	if storedJob.Status != entity.JobStatusSucceeded {
		t.Errorf("Job status = %s, want SUCCEEDED", storedJob.Status)
	}
	if storedJob.Model != "gpt-4o" || storedJob.InputTokens != 1200 {
		t.Errorf("Job usage not recorded: model=%s tokens=%d", storedJob.Model, storedJob.InputTokens)
	}
}

func TestProcessFailureRejectsInspection(t *testing.T) {
	db, svc := setupProcessing(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error": "documento ilegível"}`))
	})

	est := testutil.SeedTestEstablishment(t, db, "Bar Rejeitado")
	insp := testutil.SeedTestInspection(t, db, est.ID, entity.InspectionStatusProcessing)
	job := seedQueuedJob(t, db, insp.ID)

	if err := svc.Process(context.Background(), insp.ID, job.ID); err != nil {
		t.Fatalf("Process should absorb the AI failure: %v", err)
	}

	var stored entity.Inspection
	db.First(&stored, "id = ?", insp.ID)
	if stored.Status != entity.InspectionStatusRejected {
		t.Errorf("Status = %s, want REJECTED on AI failure", stored.Status)
	}
	if stored.RejectReason == "" {
		t.Error("RejectReason not set")
	}

	var storedJob entity.Job
	db.First(&storedJob, "id = ?", job.ID)
	if storedJob.Status != entity.JobStatusFailed {
		t.Errorf("Job status = %s, want FAILED", storedJob.Status)
	}
	if storedJob.ErrorDetail == "" {
		t.Error("ErrorDetail not set on failed job")
	}
}

func TestProcessSkipsCanceledInspection(t *testing.T) {
	db, svc := setupProcessing(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("AI service must not be called for canceled inspections")
	})

	est := testutil.SeedTestEstablishment(t, db, "Mercado Cancelado")
	insp := testutil.SeedTestInspection(t, db, est.ID, entity.InspectionStatusCanceled)
	job := seedQueuedJob(t, db, insp.ID)

	if err := svc.Process(context.Background(), insp.ID, job.ID); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	var storedJob entity.Job
	db.First(&storedJob, "id = ?", job.ID)
	if storedJob.Status != entity.JobStatusSkipped {
		t.Errorf("Job status = %s, want SKIPPED", storedJob.Status)
	}
}

func TestProcessIgnoresAlreadyHandledJob(t *testing.T) {
	db, svc := setupProcessing(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("AI service must not be called for a finished job")
	})

	est := testutil.SeedTestEstablishment(t, db, "Padaria Duplicada")
	insp := testutil.SeedTestInspection(t, db, est.ID, entity.InspectionStatusProcessing)
	job := &entity.Job{
		ID:           "job-done-001",
		InspectionID: insp.ID,
		Status:       entity.JobStatusSucceeded,
	}
	db.Create(job)

	if err := svc.Process(context.Background(), insp.ID, job.ID); err != nil {
		t.Fatalf("Re-delivered job should be a no-op: %v", err)
	}
}
