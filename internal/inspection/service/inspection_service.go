package service

import (
	"context"
	"fmt"

	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"github.com/hygiatech/sanicheck/internal/inspection/repository"
)

// InspectionService is the read side: listings, detail, progress tracker
// and the completed report.
type InspectionService struct {
	inspectionRepo  *repository.InspectionRepository
	jobRepo         *repository.JobRepository
	estRepo         *repository.EstablishmentRepository
	activityLogRepo *repository.ActivityLogRepository
}

func NewInspectionService(repos *repository.Repositories) *InspectionService {
	return &InspectionService{
		inspectionRepo:  repos.Inspection,
		jobRepo:         repos.Job,
		estRepo:         repos.Establishment,
		activityLogRepo: repos.ActivityLog,
	}
}

type InspectionListResult struct {
	Items    []entity.Inspection `json:"items"`
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
}

// List pages through inspections with optional filters.
func (s *InspectionService) List(ctx context.Context, page, pageSize int, filters map[string]string) (*InspectionListResult, error) {
	items, total, err := s.inspectionRepo.FindAll(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar inspeções: %w", err)
	}

	for i := range items {
		if est, err := s.estRepo.FindByID(ctx, items[i].EstablishmentID); err == nil {
			items[i].EstablishmentName = est.Name
		}
	}

	return &InspectionListResult{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Get loads one inspection with its plan.
func (s *InspectionService) Get(ctx context.Context, id string) (*entity.Inspection, error) {
	inspection, err := s.inspectionRepo.FindByIDWithPlan(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inspeção não encontrada")
	}
	if est, err := s.estRepo.FindByID(ctx, inspection.EstablishmentID); err == nil {
		inspection.EstablishmentName = est.Name
	}
	return inspection, nil
}

// TrackerStep is one stage of the workflow shown on the progress screen.
type TrackerStep struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Status string `json:"status"` // done/current/pending/aborted
}

type TrackerResult struct {
	InspectionID string        `json:"inspection_id"`
	Status       string        `json:"status"`
	Steps        []TrackerStep `json:"steps"`
}

var trackerStages = []struct {
	key    string
	label  string
	status string
}{
	{"processing", "Processamento IA", entity.InspectionStatusProcessing},
	{"manager_review", "Revisão do Gestor", entity.InspectionStatusPendingManagerReview},
	{"approved", "Plano Aprovado", entity.InspectionStatusApproved},
	{"verification", "Verificação em Campo", entity.InspectionStatusPendingConsultantVerify},
	{"completed", "Concluído", entity.InspectionStatusCompleted},
}

// Tracker maps the inspection status onto the linear workflow steps.
// Rejected and canceled inspections show every remaining step as aborted.
func (s *InspectionService) Tracker(ctx context.Context, id string) (*TrackerResult, error) {
	inspection, err := s.inspectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inspeção não encontrada")
	}

	current := -1
	for i, stage := range trackerStages {
		if stage.status == inspection.Status {
			current = i
			break
		}
	}

	aborted := inspection.Status == entity.InspectionStatusRejected ||
		inspection.Status == entity.InspectionStatusCanceled

	steps := make([]TrackerStep, 0, len(trackerStages))
	for i, stage := range trackerStages {
		step := TrackerStep{Key: stage.key, Label: stage.label}
		switch {
		case aborted:
			if i == 0 {
				step.Status = "done"
			} else {
				step.Status = "aborted"
			}
		case inspection.Status == entity.InspectionStatusCompleted:
			step.Status = "done"
		case i < current:
			step.Status = "done"
		case i == current:
			step.Status = "current"
		default:
			step.Status = "pending"
		}
		steps = append(steps, step)
	}

	return &TrackerResult{
		InspectionID: inspection.ID,
		Status:       inspection.Status,
		Steps:        steps,
	}, nil
}

// ReportItem is one plan item as rendered in the final report.
type ReportItem struct {
	Description      string  `json:"description"`
	Severity         string  `json:"severity"`
	Deadline         string  `json:"deadline"`
	CurrentStatus    string  `json:"current_status"`
	ResolutionNotes  string  `json:"resolution_notes,omitempty"`
	EvidenceImageURL *string `json:"evidence_image_url,omitempty"`
}

type ReportResult struct {
	Inspection    *entity.Inspection `json:"inspection"`
	Establishment string             `json:"establishment"`
	Summary       string             `json:"summary"`
	Items         []ReportItem       `json:"items"`
}

// Report renders the plan for sharing. Evidence only appears once the
// inspection is completed.
func (s *InspectionService) Report(ctx context.Context, id string) (*ReportResult, error) {
	inspection, err := s.inspectionRepo.FindByIDWithPlan(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inspeção não encontrada")
	}
	if inspection.Plan == nil {
		return nil, fmt.Errorf("plano de ação não encontrado")
	}

	showEvidence := inspection.Status == entity.InspectionStatusCompleted

	result := &ReportResult{
		Inspection: inspection,
		Summary:    inspection.Plan.Summary,
	}
	if est, err := s.estRepo.FindByID(ctx, inspection.EstablishmentID); err == nil {
		result.Establishment = est.Name
	}

	for _, item := range inspection.Plan.Items {
		ri := ReportItem{
			Description:   item.Description,
			Severity:      item.Severity,
			Deadline:      item.DisplayDeadline(),
			CurrentStatus: item.CurrentStatus,
		}
		if showEvidence {
			ri.ResolutionNotes = item.ResolutionNotes
			ri.EvidenceImageURL = item.EvidenceImageURL
		}
		result.Items = append(result.Items, ri)
	}

	return result, nil
}

// Activity lists the audit trail of one inspection.
func (s *InspectionService) Activity(ctx context.Context, id string, page, pageSize int) ([]entity.ActivityLog, int64, error) {
	return s.activityLogRepo.FindByEntity(ctx, "inspection", id, page, pageSize)
}

// Jobs lists AI-processing jobs.
func (s *InspectionService) Jobs(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Job, int64, error) {
	return s.jobRepo.FindAll(ctx, page, pageSize, filters)
}

// Job loads one job with its cost and error detail.
func (s *InspectionService) Job(ctx context.Context, id string) (*entity.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("job não encontrado")
	}
	return job, nil
}
