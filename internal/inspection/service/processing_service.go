package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"github.com/hygiatech/sanicheck/internal/inspection/repository"
	"github.com/hygiatech/sanicheck/internal/shared/ai"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProcessingService runs the AI extraction for one queued inspection and
// applies the resulting transition. It is invoked by the worker, never by a
// request handler.
type ProcessingService struct {
	inspectionRepo *repository.InspectionRepository
	jobRepo        *repository.JobRepository
	estRepo        *repository.EstablishmentRepository
	uploadSvc      *UploadService
	aiClient       *ai.Client
	logger         *zap.Logger
	db             *gorm.DB
}

func NewProcessingService(
	repos *repository.Repositories,
	uploadSvc *UploadService,
	aiClient *ai.Client,
	logger *zap.Logger,
	db *gorm.DB,
) *ProcessingService {
	return &ProcessingService{
		inspectionRepo: repos.Inspection,
		jobRepo:        repos.Job,
		estRepo:        repos.Establishment,
		uploadSvc:      uploadSvc,
		aiClient:       aiClient,
		logger:         logger,
		db:             db,
	}
}

// Process executes one job. Extraction failure is not retried: the
// inspection lands in REJECTED with the error detail kept on the job.
func (s *ProcessingService) Process(ctx context.Context, inspectionID, jobID string) error {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("job não encontrado: %s", jobID)
	}
	if job.Status != entity.JobStatusQueued {
		s.logger.Warn("Job already handled, skipping",
			zap.String("job_id", jobID),
			zap.String("status", job.Status))
		return nil
	}

	inspection, err := s.inspectionRepo.FindByID(ctx, inspectionID)
	if err != nil {
		return fmt.Errorf("inspeção não encontrada: %s", inspectionID)
	}
	if inspection.Status != entity.InspectionStatusProcessing {
		// canceled while queued: nothing to do
		job.Status = entity.JobStatusSkipped
		job.ErrorDetail = fmt.Sprintf("inspeção em status %s, processamento ignorado", inspection.Status)
		return s.jobRepo.Update(ctx, job)
	}

	now := time.Now()
	job.Status = entity.JobStatusRunning
	job.StartedAt = &now
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return fmt.Errorf("falha ao atualizar job: %w", err)
	}

	var establishmentName string
	if est, err := s.estRepo.FindByID(ctx, inspection.EstablishmentID); err == nil {
		establishmentName = est.Name
	}

	fileURL := inspection.FileURL
	if s.uploadSvc != nil {
		if presigned, err := s.uploadSvc.PresignedFileURL(ctx, inspection.FileURL, 30*time.Minute); err == nil {
			fileURL = presigned
		}
	}

	resp, aiErr := s.aiClient.Extract(ctx, ai.ExtractRequest{
		InspectionID:      inspection.ID,
		FileURL:           fileURL,
		EstablishmentName: establishmentName,
	})
	finished := time.Now()
	job.FinishedAt = &finished

	if aiErr != nil {
		return s.markFailed(ctx, inspection, job, aiErr)
	}

	return s.applySuccess(ctx, inspection, job, resp)
}

// applySuccess stores the plan, the raw AI snapshot and the status change in
// one transaction so a crash cannot advance the status without its plan.
func (s *ProcessingService) applySuccess(ctx context.Context, inspection *entity.Inspection, job *entity.Job, resp ai.ExtractResponse) error {
	if err := inspection.Transition(entity.InspectionStatusPendingManagerReview); err != nil {
		return err
	}

	plan := &entity.ActionPlan{
		ID:           uuid.New().String()[:32],
		InspectionID: inspection.ID,
		Summary:      resp.Summary,
	}
	for i, f := range resp.Findings {
		idx := i
		plan.Items = append(plan.Items, entity.ActionPlanItem{
			ID:                  uuid.New().String()[:32],
			PlanID:              plan.ID,
			Description:         f.Description,
			Severity:            f.Severity,
			AISuggestedDeadline: f.SuggestedDeadline,
			CurrentStatus:       entity.ItemStatusPending,
			OrderIndex:          &idx,
		})
	}

	inspection.AIRawResponse = entity.JSONB{
		"summary":  resp.Summary,
		"findings": resp.Findings,
		"usage":    resp.Usage,
		"raw":      resp.Raw,
	}

	job.Status = entity.JobStatusSucceeded
	job.Model = resp.Usage.Model
	job.InputTokens = resp.Usage.InputTokens
	job.OutputTokens = resp.Usage.OutputTokens
	job.CostUSD = resp.Usage.CostUSD

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(plan).Error; err != nil {
			return err
		}
		if err := tx.Save(inspection).Error; err != nil {
			return err
		}
		return tx.Save(job).Error
	})
	if err != nil {
		return fmt.Errorf("falha ao salvar plano: %w", err)
	}

	s.logger.Info("Inspection processed",
		zap.String("inspection_id", inspection.ID),
		zap.Int("items", len(plan.Items)),
		zap.Int("input_tokens", job.InputTokens),
		zap.Int("output_tokens", job.OutputTokens))
	return nil
}

func (s *ProcessingService) markFailed(ctx context.Context, inspection *entity.Inspection, job *entity.Job, cause error) error {
	if err := inspection.Transition(entity.InspectionStatusRejected); err != nil {
		return err
	}
	inspection.RejectReason = cause.Error()

	job.Status = entity.JobStatusFailed
	job.ErrorDetail = cause.Error()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(inspection).Error; err != nil {
			return err
		}
		return tx.Save(job).Error
	})
	if err != nil {
		return fmt.Errorf("falha ao registrar rejeição: %w", err)
	}

	s.logger.Error("Inspection processing failed",
		zap.String("inspection_id", inspection.ID),
		zap.String("job_id", job.ID),
		zap.Error(cause))
	return nil
}
