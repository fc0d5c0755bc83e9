package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"github.com/hygiatech/sanicheck/internal/inspection/repository"
	"gorm.io/gorm"
)

// PlanService owns every manual status transition of an inspection plus the
// editing of its action plan.
type PlanService struct {
	inspectionRepo  *repository.InspectionRepository
	planRepo        *repository.PlanRepository
	estRepo         *repository.EstablishmentRepository
	activityLogRepo *repository.ActivityLogRepository
	db              *gorm.DB
}

func NewPlanService(repos *repository.Repositories, db *gorm.DB) *PlanService {
	return &PlanService{
		inspectionRepo:  repos.Inspection,
		planRepo:        repos.Plan,
		estRepo:         repos.Establishment,
		activityLogRepo: repos.ActivityLog,
		db:              db,
	}
}

// SavePlanReq carries a full-plan edit from the manager review screen.
type SavePlanReq struct {
	Summary string            `json:"summary"`
	Items   []SavePlanItemReq `json:"items" binding:"required"`
}

type SavePlanItemReq struct {
	ID          string `json:"id"` // empty for new items
	Description string `json:"description" binding:"required"`
	Severity    string `json:"severity"`
	Deadline    string `json:"deadline"` // free text from the form
	OrderIndex  *int   `json:"order_index"`
	Delete      bool   `json:"delete"`
}

// SavePlan applies manager edits while the plan is under review. Deadline
// edits go through ApplyDeadlineEdit so the AI suggestion is never lost.
func (s *PlanService) SavePlan(ctx context.Context, inspectionID string, req SavePlanReq, operatorID, operatorName string) (*entity.ActionPlan, error) {
	inspection, err := s.inspectionRepo.FindByID(ctx, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("inspeção não encontrada")
	}
	if inspection.Status != entity.InspectionStatusPendingManagerReview {
		return nil, fmt.Errorf("plano não pode ser editado no status '%s'", inspection.Status)
	}

	plan, err := s.planRepo.FindByInspectionID(ctx, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("plano de ação não encontrado")
	}

	existing := make(map[string]*entity.ActionPlanItem, len(plan.Items))
	for i := range plan.Items {
		existing[plan.Items[i].ID] = &plan.Items[i]
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan.Summary = req.Summary
		if err := tx.Save(plan).Error; err != nil {
			return err
		}

		for _, itemReq := range req.Items {
			if itemReq.ID == "" {
				if itemReq.Delete {
					continue
				}
				item := entity.ActionPlanItem{
					ID:            uuid.New().String()[:32],
					PlanID:        plan.ID,
					Description:   itemReq.Description,
					Severity:      itemReq.Severity,
					CurrentStatus: entity.ItemStatusPending,
					OrderIndex:    itemReq.OrderIndex,
				}
				// manager-added items have no AI suggestion; the deadline
				// lands in the override fields
				item.ApplyDeadlineEdit(itemReq.Deadline)
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				continue
			}

			item, ok := existing[itemReq.ID]
			if !ok {
				return fmt.Errorf("item não encontrado: %s", itemReq.ID)
			}
			if itemReq.Delete {
				if err := tx.Delete(&entity.ActionPlanItem{}, "id = ?", item.ID).Error; err != nil {
					return err
				}
				continue
			}

			item.Description = itemReq.Description
			item.Severity = itemReq.Severity
			item.OrderIndex = itemReq.OrderIndex
			item.ApplyDeadlineEdit(itemReq.Deadline)
			if err := tx.Save(item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao salvar plano: %w", err)
	}

	if s.activityLogRepo != nil {
		content := fmt.Sprintf("Plano de ação editado (%d itens)", len(req.Items))
		s.activityLogRepo.LogActivity(ctx, "inspection", inspectionID, entity.ActionPlanEdit, inspection.Status, inspection.Status, content, operatorID, operatorName)
	}

	return s.planRepo.FindByInspectionID(ctx, inspectionID)
}

// Approve moves the inspection to APPROVED, stamping approver and time in
// the same transaction as the status change.
func (s *PlanService) Approve(ctx context.Context, inspectionID, operatorID, operatorName string) (*entity.Inspection, error) {
	inspection, err := s.inspectionRepo.FindByID(ctx, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("inspeção não encontrada")
	}

	fromStatus := inspection.Status
	if err := inspection.Transition(entity.InspectionStatusApproved); err != nil {
		return nil, err
	}
	now := time.Now()
	inspection.ApprovedBy = &operatorID
	inspection.ApprovedAt = &now

	if err := s.inspectionRepo.Update(ctx, inspection); err != nil {
		return nil, fmt.Errorf("falha ao aprovar plano: %w", err)
	}

	if s.activityLogRepo != nil {
		s.activityLogRepo.LogActivity(ctx, "inspection", inspectionID, entity.ActionApprove, fromStatus, inspection.Status, "Plano de ação aprovado", operatorID, operatorName)
	}

	return inspection, nil
}

// StartVerification marks the beginning of the consultant's field visit.
func (s *PlanService) StartVerification(ctx context.Context, inspectionID, operatorID, operatorName string) (*entity.Inspection, error) {
	return s.transition(ctx, inspectionID, entity.InspectionStatusPendingConsultantVerify, "Verificação em campo iniciada", operatorID, operatorName)
}

// ReviewItemReq carries one item's field-verification result.
type ReviewItemReq struct {
	ItemID           string  `json:"item_id" binding:"required"`
	CurrentStatus    string  `json:"current_status"`
	ResolutionNotes  string  `json:"resolution_notes"`
	EvidenceImageURL *string `json:"evidence_image_url"`
}

// SaveReview records field-verification results. Saving the first piece of
// evidence completes the inspection in the same transaction; a verification
// with saved evidence is never left looking unfinished.
func (s *PlanService) SaveReview(ctx context.Context, inspectionID string, items []ReviewItemReq, operatorID, operatorName string) (*entity.Inspection, error) {
	inspection, err := s.inspectionRepo.FindByID(ctx, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("inspeção não encontrada")
	}
	if inspection.Status != entity.InspectionStatusPendingConsultantVerify {
		return nil, fmt.Errorf("verificação não pode ser registrada no status '%s'", inspection.Status)
	}

	plan, err := s.planRepo.FindByInspectionID(ctx, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("plano de ação não encontrado")
	}
	byID := make(map[string]*entity.ActionPlanItem, len(plan.Items))
	for i := range plan.Items {
		byID[plan.Items[i].ID] = &plan.Items[i]
	}

	fromStatus := inspection.Status
	hasEvidence := false

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range items {
			item, ok := byID[r.ItemID]
			if !ok {
				return fmt.Errorf("item não encontrado: %s", r.ItemID)
			}
			if r.CurrentStatus != "" {
				item.CurrentStatus = r.CurrentStatus
			}
			if r.ResolutionNotes != "" {
				item.ResolutionNotes = r.ResolutionNotes
			}
			if r.EvidenceImageURL != nil && *r.EvidenceImageURL != "" {
				item.EvidenceImageURL = r.EvidenceImageURL
				hasEvidence = true
			}
			if err := tx.Save(item).Error; err != nil {
				return err
			}
		}

		if hasEvidence {
			if err := inspection.Transition(entity.InspectionStatusCompleted); err != nil {
				return err
			}
			if err := tx.Save(inspection).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao salvar verificação: %w", err)
	}

	if s.activityLogRepo != nil {
		content := fmt.Sprintf("Verificação registrada (%d itens)", len(items))
		s.activityLogRepo.LogActivity(ctx, "inspection", inspectionID, entity.ActionEvidence, fromStatus, inspection.Status, content, operatorID, operatorName)
	}

	return inspection, nil
}

// FinishVerification is the consultant's explicit finish action. It is a
// no-op when evidence already completed the inspection.
func (s *PlanService) FinishVerification(ctx context.Context, inspectionID, operatorID, operatorName string) (*entity.Inspection, error) {
	inspection, err := s.inspectionRepo.FindByID(ctx, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("inspeção não encontrada")
	}
	if inspection.Status == entity.InspectionStatusCompleted {
		return inspection, nil
	}
	return s.transition(ctx, inspectionID, entity.InspectionStatusCompleted, "Verificação concluída", operatorID, operatorName)
}

// Cancel administratively closes an active inspection.
func (s *PlanService) Cancel(ctx context.Context, inspectionID, reason, operatorID, operatorName string) (*entity.Inspection, error) {
	content := "Inspeção cancelada"
	if reason != "" {
		content = "Inspeção cancelada: " + reason
	}
	return s.transition(ctx, inspectionID, entity.InspectionStatusCanceled, content, operatorID, operatorName)
}

func (s *PlanService) transition(ctx context.Context, inspectionID, to, content, operatorID, operatorName string) (*entity.Inspection, error) {
	inspection, err := s.inspectionRepo.FindByID(ctx, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("inspeção não encontrada")
	}

	fromStatus := inspection.Status
	if err := inspection.Transition(to); err != nil {
		return nil, err
	}
	if err := s.inspectionRepo.Update(ctx, inspection); err != nil {
		return nil, fmt.Errorf("falha ao atualizar inspeção: %w", err)
	}

	if s.activityLogRepo != nil {
		action := entity.ActionStatusChange
		if to == entity.InspectionStatusCanceled {
			action = entity.ActionCancel
		}
		s.activityLogRepo.LogActivity(ctx, "inspection", inspectionID, action, fromStatus, to, content, operatorID, operatorName)
	}

	return inspection, nil
}

// ShareLink builds a WhatsApp link for sending the approved plan to the
// establishment's primary contact.
func (s *PlanService) ShareLink(ctx context.Context, inspectionID string) (string, error) {
	inspection, err := s.inspectionRepo.FindByIDWithPlan(ctx, inspectionID)
	if err != nil {
		return "", fmt.Errorf("inspeção não encontrada")
	}
	if inspection.Plan == nil {
		return "", fmt.Errorf("plano de ação não encontrado")
	}

	est, err := s.estRepo.FindByID(ctx, inspection.EstablishmentID)
	if err != nil {
		return "", fmt.Errorf("estabelecimento não encontrado")
	}

	contact, err := s.estRepo.FindPrimaryContact(ctx, est.ID)
	if err != nil {
		return "", fmt.Errorf("nenhum contato cadastrado para o estabelecimento")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Plano de Ação - %s*\n\n", est.Name)
	for i, item := range inspection.Plan.Items {
		fmt.Fprintf(&b, "%d. %s\n   Prazo: %s\n", i+1, item.Description, item.DisplayDeadline())
	}

	phone := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, contact.Phone)

	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(b.String())), nil
}
