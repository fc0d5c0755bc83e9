package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"github.com/hygiatech/sanicheck/internal/middleware"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestSchema = "test_sanicheck"
	JWTSecret  = "sanicheck-test-jwt-secret"
)

// TestEnv holds test environment resources
type TestEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	T      *testing.T
}

// projectRoot returns the project root directory by looking for go.mod
func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// loadEnv loads .env from the project root
func loadEnv() {
	root := projectRoot()
	if root != "" {
		godotenv.Load(filepath.Join(root, ".env"))
	}
}

// SetupTestDB creates a test database connection using a dedicated test schema.
// Each test gets an isolated schema that is cleaned up after the test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	loadEnv()

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "sanicheck")
	password := getEnv("DB_PASSWORD", "sanicheck123")
	dbname := getEnv("DB_NAME", "sanicheck")

	baseDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// Create a unique test schema for isolation
	schemaName := fmt.Sprintf("%s_%d", TestSchema, time.Now().UnixNano()%1000000)

	setupDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to database for schema setup: %v", err)
	}
	setupDB.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName))
	sqlSetup, _ := setupDB.DB()
	sqlSetup.Close()

	// search_path in the DSN so every pooled connection uses the test schema
	testDSN := fmt.Sprintf("%s search_path=%s", baseDSN, schemaName)
	db, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Company{},
		&entity.Establishment{},
		&entity.EstablishmentContact{},
		&entity.Inspection{},
		&entity.ActionPlan{},
		&entity.ActionPlanItem{},
		&entity.Job{},
		&entity.ActivityLog{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		cleanDB, cleanErr := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if cleanErr == nil {
			cleanDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
			sqlClean, _ := cleanDB.DB()
			if sqlClean != nil {
				sqlClean.Close()
			}
		}
	})

	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(userID, name, role string) string {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID: userID,
		Name:   name,
		Email:  name + "@test.com",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    "sanicheck",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			ID:        fmt.Sprintf("test-jti-%d", now.UnixNano()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// ConsultantToken returns a token for a default consultant test user
func ConsultantToken() string {
	return GenerateTestToken("test-consultant-001", "Consultor Teste", entity.RoleConsultant)
}

// ManagerToken returns a token for a default manager test user
func ManagerToken() string {
	return GenerateTestToken("test-manager-001", "Gestor Teste", entity.RoleManager)
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a generic map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedTestUser creates a test user in the database
func SeedTestUser(t *testing.T, db *gorm.DB, id, name, role string) *entity.User {
	t.Helper()
	user := &entity.User{
		ID:           id,
		Username:     "user_" + id,
		Name:         name,
		Email:        id + "@test.com",
		PasswordHash: "$2a$10$000000000000000000000u0000000000000000000000000000000",
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed test user: %v", err)
	}
	return user
}

// SeedTestEstablishment creates a company and an establishment under it
func SeedTestEstablishment(t *testing.T, db *gorm.DB, name string) *entity.Establishment {
	t.Helper()
	company := &entity.Company{
		ID:     uuid.New().String()[:32],
		Name:   name + " Matriz",
		Status: "active",
	}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("Failed to seed test company: %v", err)
	}
	est := &entity.Establishment{
		ID:        uuid.New().String()[:32],
		CompanyID: company.ID,
		Name:      name,
		City:      "São Paulo",
		State:     "SP",
		Status:    "active",
	}
	if err := db.Create(est).Error; err != nil {
		t.Fatalf("Failed to seed test establishment: %v", err)
	}
	return est
}

// SeedTestInspection creates an inspection in the given status
func SeedTestInspection(t *testing.T, db *gorm.DB, establishmentID, status string) *entity.Inspection {
	t.Helper()
	insp := &entity.Inspection{
		ID:              uuid.New().String()[:32],
		EstablishmentID: establishmentID,
		FileName:        "relatorio.pdf",
		FileHash:        uuid.New().String(),
		FileURL:         "inspections/2026/01/01/test.pdf",
		Status:          status,
		UploadedBy:      "test-consultant-001",
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := db.Create(insp).Error; err != nil {
		t.Fatalf("Failed to seed test inspection: %v", err)
	}
	return insp
}

// SeedTestPlan creates an action plan with the given items attached to an inspection
func SeedTestPlan(t *testing.T, db *gorm.DB, inspectionID string, items []entity.ActionPlanItem) *entity.ActionPlan {
	t.Helper()
	plan := &entity.ActionPlan{
		ID:           uuid.New().String()[:32],
		InspectionID: inspectionID,
		Summary:      "Resumo do relatório de inspeção",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("Failed to seed test plan: %v", err)
	}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()[:32]
		}
		items[i].PlanID = plan.ID
		if items[i].CurrentStatus == "" {
			items[i].CurrentStatus = entity.ItemStatusPending
		}
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("Failed to seed test plan item: %v", err)
		}
	}
	plan.Items = items
	return plan
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
