package service

import (
	"context"
	"fmt"

	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"github.com/hygiatech/sanicheck/internal/inspection/repository"
	"gorm.io/gorm"
)

// DashboardService aggregates workflow counts for the manager home screen.
type DashboardService struct {
	inspectionRepo *repository.InspectionRepository
	jobRepo        *repository.JobRepository
	db             *gorm.DB
}

func NewDashboardService(repos *repository.Repositories, db *gorm.DB) *DashboardService {
	return &DashboardService{
		inspectionRepo: repos.Inspection,
		jobRepo:        repos.Job,
		db:             db,
	}
}

type ManagerDashboard struct {
	StatusCounts  map[string]int64    `json:"status_counts"`
	PendingReview []entity.Inspection `json:"pending_review"`
	OpenItems     int64               `json:"open_items"`
	AICost        AICostSummary       `json:"ai_cost"`
}

type AICostSummary struct {
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// Manager builds the manager dashboard: status breakdown, the review queue
// and the running AI spend.
func (s *DashboardService) Manager(ctx context.Context) (*ManagerDashboard, error) {
	counts, err := s.inspectionRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("falha ao agregar inspeções: %w", err)
	}

	pending, err := s.inspectionRepo.FindPendingReview(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar revisões pendentes: %w", err)
	}

	var openItems int64
	row := s.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM action_plan_items i
		JOIN action_plans p ON p.id = i.plan_id
		JOIN inspections insp ON insp.id = p.inspection_id
		WHERE i.current_status = ?
		  AND insp.status NOT IN (?, ?)
	`, entity.ItemStatusPending, entity.InspectionStatusRejected, entity.InspectionStatusCanceled).Row()
	if err := row.Scan(&openItems); err != nil {
		openItems = 0 // empty database
	}

	inTokens, outTokens, cost, err := s.jobRepo.SumCosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("falha ao agregar custos: %w", err)
	}

	return &ManagerDashboard{
		StatusCounts:  counts,
		PendingReview: pending,
		OpenItems:     openItems,
		AICost: AICostSummary{
			InputTokens:  inTokens,
			OutputTokens: outTokens,
			CostUSD:      cost,
		},
	}, nil
}
