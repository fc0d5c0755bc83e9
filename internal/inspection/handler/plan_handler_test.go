package handler

import (
	"net/http"
	"testing"

	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"github.com/hygiatech/sanicheck/internal/inspection/repository"
	"github.com/hygiatech/sanicheck/internal/inspection/service"
	"github.com/hygiatech/sanicheck/internal/inspection/testutil"
	"github.com/hygiatech/sanicheck/internal/middleware"
)

func setupPlanHandlerTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	planSvc := service.NewPlanService(repos, db)
	h := NewPlanHandler(planSvc)

	api := testutil.AuthGroup(router, "/api/v1")

	manager := api.Group("")
	manager.Use(middleware.RequireRole(entity.RoleManager))
	manager.PUT("/inspections/:id/plan", h.SavePlan)
	manager.POST("/inspections/:id/approve", h.Approve)
	manager.POST("/inspections/:id/cancel", h.Cancel)

	consultant := api.Group("")
	consultant.Use(middleware.RequireRole(entity.RoleConsultant))
	consultant.POST("/inspections/:id/verification/start", h.StartVerification)
	consultant.PUT("/inspections/:id/review", h.SaveReview)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestApproveEndpoint(t *testing.T) {
	env := setupPlanHandlerTest(t)
	token := testutil.ManagerToken()
	est := testutil.SeedTestEstablishment(t, env.DB, "Restaurante Teste")
	insp := testutil.SeedTestInspection(t, env.DB, est.ID, entity.InspectionStatusPendingManagerReview)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/inspections/"+insp.ID+"/approve", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["status"] != entity.InspectionStatusApproved {
		t.Errorf("Status = %v, want APPROVED", data["status"])
	}
	if data["approved_by"] != "test-manager-001" {
		t.Errorf("ApprovedBy = %v, want test-manager-001", data["approved_by"])
	}
	if data["approved_at"] == nil {
		t.Error("ApprovedAt missing in response")
	}
}

func TestApproveInvalidTransitionReturns409(t *testing.T) {
	env := setupPlanHandlerTest(t)
	token := testutil.ManagerToken()
	est := testutil.SeedTestEstablishment(t, env.DB, "Padaria Teste")
	insp := testutil.SeedTestInspection(t, env.DB, est.ID, entity.InspectionStatusCompleted)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/inspections/"+insp.ID+"/approve", nil, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 40900 {
		t.Errorf("Code = %v, want 40900", resp["code"])
	}
}

func TestApproveRequiresManagerRole(t *testing.T) {
	env := setupPlanHandlerTest(t)
	token := testutil.ConsultantToken()
	est := testutil.SeedTestEstablishment(t, env.DB, "Mercado Teste")
	insp := testutil.SeedTestInspection(t, env.DB, est.ID, entity.InspectionStatusPendingManagerReview)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/inspections/"+insp.ID+"/approve", nil, token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSavePlanEndpoint(t *testing.T) {
	env := setupPlanHandlerTest(t)
	token := testutil.ManagerToken()
	est := testutil.SeedTestEstablishment(t, env.DB, "Lanchonete Teste")
	insp := testutil.SeedTestInspection(t, env.DB, est.ID, entity.InspectionStatusPendingManagerReview)
	plan := testutil.SeedTestPlan(t, env.DB, insp.ID, []entity.ActionPlanItem{
		{Description: "Higienizar câmara fria", AISuggestedDeadline: "15 dias"},
	})

	w := testutil.DoRequest(env.Router, "PUT", "/api/v1/inspections/"+insp.ID+"/plan",
		map[string]interface{}{
			"summary": "Resumo revisado pelo gestor",
			"items": []map[string]interface{}{
				{"id": plan.Items[0].ID, "description": "Higienizar câmara fria", "deadline": "20/03/2026"},
			},
		}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["message"] != "Plano salvo com sucesso!" {
		t.Errorf("Message = %v", resp["message"])
	}
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	item := items[0].(map[string]interface{})
	if item["deadline_text"] != "20/03/2026" {
		t.Errorf("deadline_text = %v, want 20/03/2026", item["deadline_text"])
	}
	if item["ai_suggested_deadline"] != "15 dias" {
		t.Errorf("ai_suggested_deadline = %v, want 15 dias", item["ai_suggested_deadline"])
	}
}

func TestSaveReviewWithEvidenceCompletes(t *testing.T) {
	env := setupPlanHandlerTest(t)
	token := testutil.ConsultantToken()
	est := testutil.SeedTestEstablishment(t, env.DB, "Pizzaria Teste")
	insp := testutil.SeedTestInspection(t, env.DB, est.ID, entity.InspectionStatusPendingConsultantVerify)
	plan := testutil.SeedTestPlan(t, env.DB, insp.ID, []entity.ActionPlanItem{
		{Description: "Trocar filtro do exaustor"},
	})

	w := testutil.DoRequest(env.Router, "PUT", "/api/v1/inspections/"+insp.ID+"/review",
		map[string]interface{}{
			"items": []map[string]interface{}{
				{
					"item_id":            plan.Items[0].ID,
					"current_status":     entity.ItemStatusCorrected,
					"resolution_notes":   "Filtro substituído",
					"evidence_image_url": "evidence/" + insp.ID + "/filtro.jpg",
				},
			},
		}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["status"] != entity.InspectionStatusCompleted {
		t.Errorf("Status = %v, want COMPLETED after evidence", data["status"])
	}
}

func TestEndpointsRequireAuth(t *testing.T) {
	env := setupPlanHandlerTest(t)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/inspections/any/approve", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", w.Code)
	}
}
