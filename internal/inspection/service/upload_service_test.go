package service

import (
	"context"
	"strings"
	"testing"

	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"github.com/hygiatech/sanicheck/internal/inspection/repository"
	"github.com/hygiatech/sanicheck/internal/inspection/testutil"
	"gorm.io/gorm"
)

func setupUploadService(t *testing.T) (*gorm.DB, *UploadService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewUploadService(repos, nil, "sanicheck", nil, "reports", 20<<20, db)
	return db, svc
}

const pdfContent = "%PDF-1.7\nconteúdo do relatório de inspeção"

func TestUploadCreatesInspectionAndJob(t *testing.T) {
	db, svc := setupUploadService(t)
	est := testutil.SeedTestEstablishment(t, db, "Restaurante Upload")

	reader := strings.NewReader(pdfContent)
	result, err := svc.Upload(context.Background(), est.ID, "relatorio.pdf", reader, int64(len(pdfContent)), "con-001", "Consultor Teste")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if result.Duplicate {
		t.Error("First upload flagged as duplicate")
	}
	if result.Inspection.Status != entity.InspectionStatusProcessing {
		t.Errorf("Inspection status = %s, want PROCESSING", result.Inspection.Status)
	}
	if result.Job.Status != entity.JobStatusQueued {
		t.Errorf("Job status = %s, want QUEUED", result.Job.Status)
	}
	if result.Inspection.FileHash == "" {
		t.Error("FileHash not computed")
	}
}

func TestUploadDuplicateIsSkipped(t *testing.T) {
	db, svc := setupUploadService(t)
	est := testutil.SeedTestEstablishment(t, db, "Padaria Upload")

	first, err := svc.Upload(context.Background(), est.ID, "relatorio.pdf", strings.NewReader(pdfContent), int64(len(pdfContent)), "con-001", "Consultor Teste")
	if err != nil {
		t.Fatalf("First upload failed: %v", err)
	}

	second, err := svc.Upload(context.Background(), est.ID, "relatorio-copia.pdf", strings.NewReader(pdfContent), int64(len(pdfContent)), "con-001", "Consultor Teste")
	if err != nil {
		t.Fatalf("Duplicate upload failed: %v", err)
	}
	if !second.Duplicate {
		t.Error("Duplicate upload not flagged")
	}
	if second.Inspection.ID != first.Inspection.ID {
		t.Error("Duplicate upload created a new inspection")
	}
	if second.Job.Status != entity.JobStatusSkipped {
		t.Errorf("Duplicate job status = %s, want SKIPPED", second.Job.Status)
	}

	var count int64
	db.Model(&entity.Inspection{}).Count(&count)
	if count != 1 {
		t.Errorf("Inspection count = %d, want 1", count)
	}
}

func TestUploadRejectsNonPDF(t *testing.T) {
	db, svc := setupUploadService(t)
	est := testutil.SeedTestEstablishment(t, db, "Mercado Upload")

	content := "PK\x03\x04 não é um pdf"
	_, err := svc.Upload(context.Background(), est.ID, "planilha.xlsx", strings.NewReader(content), int64(len(content)), "con-001", "Consultor Teste")
	if err == nil {
		t.Fatal("Expected error for non-PDF content")
	}
}

func TestUploadRejectsUnknownEstablishment(t *testing.T) {
	_, svc := setupUploadService(t)

	_, err := svc.Upload(context.Background(), "nao-existe", "relatorio.pdf", strings.NewReader(pdfContent), int64(len(pdfContent)), "con-001", "Consultor Teste")
	if err == nil {
		t.Fatal("Expected error for unknown establishment")
	}
}

func TestUploadEvidenceRejectsUnsupportedFormat(t *testing.T) {
	_, svc := setupUploadService(t)

	_, err := svc.UploadEvidence(context.Background(), "insp-001", "video.mp4", strings.NewReader("data"), 4)
	if err == nil {
		t.Fatal("Expected error for unsupported evidence format")
	}
}
