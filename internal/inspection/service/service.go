package service

import (
	"github.com/hibiken/asynq"
	"github.com/hygiatech/sanicheck/internal/config"
	"github.com/hygiatech/sanicheck/internal/inspection/repository"
	"github.com/hygiatech/sanicheck/internal/shared/ai"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services groups the business services used by the HTTP layer.
type Services struct {
	Auth       *AuthService
	Upload     *UploadService
	Inspection *InspectionService
	Plan       *PlanService
	Dashboard  *DashboardService
	Export     *ExportService
	Admin      *AdminService
	Processing *ProcessingService
}

// NewServices wires every service. The asynq client may be nil in the
// worker process, and the AI client is nil in the API process.
func NewServices(
	repos *repository.Repositories,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
	asynqClient *asynq.Client,
	aiClient *ai.Client,
	logger *zap.Logger,
) *Services {
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("MinIO init failed, continuing without object storage", zap.Error(err))
			minioClient = nil
		}
	}

	uploadSvc := NewUploadService(repos, minioClient, cfg.MinIO.Bucket, asynqClient, cfg.Worker.Queue, cfg.Server.MaxUploadBytes, db)

	svcs := &Services{
		Auth:       NewAuthService(repos.User, rdb, cfg.JWT),
		Upload:     uploadSvc,
		Inspection: NewInspectionService(repos),
		Plan:       NewPlanService(repos, db),
		Dashboard:  NewDashboardService(repos, db),
		Export:     NewExportService(repos),
		Admin:      NewAdminService(repos),
	}
	if aiClient != nil {
		svcs.Processing = NewProcessingService(repos, uploadSvc, aiClient, logger, db)
	}
	return svcs
}
