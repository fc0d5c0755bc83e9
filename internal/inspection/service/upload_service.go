package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"github.com/hygiatech/sanicheck/internal/inspection/repository"
	"github.com/hygiatech/sanicheck/internal/shared/tasks"
	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
)

var pdfMagic = []byte("%PDF-")

// UploadService accepts inspection PDFs, stores them and queues AI
// processing. Duplicate files are detected by content hash and skipped.
type UploadService struct {
	inspectionRepo  *repository.InspectionRepository
	jobRepo         *repository.JobRepository
	estRepo         *repository.EstablishmentRepository
	activityLogRepo *repository.ActivityLogRepository
	minioClient     *minio.Client
	bucketName      string
	asynqClient     *asynq.Client
	queue           string
	maxUploadBytes  int64
	db              *gorm.DB
}

func NewUploadService(
	repos *repository.Repositories,
	minioClient *minio.Client,
	bucketName string,
	asynqClient *asynq.Client,
	queue string,
	maxUploadBytes int64,
	db *gorm.DB,
) *UploadService {
	return &UploadService{
		inspectionRepo:  repos.Inspection,
		jobRepo:         repos.Job,
		estRepo:         repos.Establishment,
		activityLogRepo: repos.ActivityLog,
		minioClient:     minioClient,
		bucketName:      bucketName,
		asynqClient:     asynqClient,
		queue:           queue,
		maxUploadBytes:  maxUploadBytes,
		db:              db,
	}
}

type UploadResult struct {
	Inspection *entity.Inspection `json:"inspection"`
	Job        *entity.Job        `json:"job"`
	Duplicate  bool               `json:"duplicate"`
}

// Upload validates, stores and registers one PDF, then enqueues processing.
// A file already uploaded before produces a SKIPPED job and no new
// inspection.
func (s *UploadService) Upload(ctx context.Context, establishmentID, fileName string, reader io.Reader, fileSize int64, operatorID, operatorName string) (*UploadResult, error) {
	if fileSize <= 0 {
		return nil, fmt.Errorf("arquivo vazio")
	}
	if s.maxUploadBytes > 0 && fileSize > s.maxUploadBytes {
		return nil, fmt.Errorf("arquivo excede o tamanho máximo de %d MB", s.maxUploadBytes>>20)
	}

	est, err := s.estRepo.FindByID(ctx, establishmentID)
	if err != nil {
		return nil, fmt.Errorf("estabelecimento não encontrado")
	}

	data, err := io.ReadAll(io.LimitReader(reader, s.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("falha ao ler arquivo: %w", err)
	}
	if s.maxUploadBytes > 0 && int64(len(data)) > s.maxUploadBytes {
		return nil, fmt.Errorf("arquivo excede o tamanho máximo de %d MB", s.maxUploadBytes>>20)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, fmt.Errorf("apenas arquivos PDF são aceitos")
	}

	sum := sha256.Sum256(data)
	fileHash := hex.EncodeToString(sum[:])

	// duplicate upload: record a skipped job against the existing inspection
	if existing, err := s.inspectionRepo.FindByFileHash(ctx, fileHash); err == nil {
		job := &entity.Job{
			ID:           uuid.New().String()[:32],
			InspectionID: existing.ID,
			Status:       entity.JobStatusSkipped,
			ErrorDetail:  "arquivo duplicado, já processado anteriormente",
		}
		if err := s.jobRepo.Create(ctx, job); err != nil {
			return nil, fmt.Errorf("falha ao registrar job: %w", err)
		}
		return &UploadResult{Inspection: existing, Job: job, Duplicate: true}, nil
	}

	objectName := fmt.Sprintf("inspections/%s/%s%s", time.Now().Format("2006/01/02"), uuid.New().String()[:8], filepath.Ext(fileName))
	if s.minioClient != nil {
		_, err = s.minioClient.PutObject(ctx, s.bucketName, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: "application/pdf",
		})
		if err != nil {
			return nil, fmt.Errorf("falha ao armazenar arquivo: %w", err)
		}
	}

	inspection := &entity.Inspection{
		ID:              uuid.New().String()[:32],
		EstablishmentID: est.ID,
		FileName:        fileName,
		FileHash:        fileHash,
		FileURL:         objectName,
		Status:          entity.InspectionStatusProcessing,
		UploadedBy:      operatorID,
	}
	job := &entity.Job{
		ID:           uuid.New().String()[:32],
		InspectionID: inspection.ID,
		Status:       entity.JobStatusQueued,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(inspection).Error; err != nil {
			return err
		}
		return tx.Create(job).Error
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao criar inspeção: %w", err)
	}

	if s.asynqClient != nil {
		task, err := tasks.NewReportProcessTask(inspection.ID, job.ID)
		if err != nil {
			return nil, fmt.Errorf("falha ao criar tarefa: %w", err)
		}
		if _, err := s.asynqClient.Enqueue(task, asynq.Queue(s.queue)); err != nil {
			return nil, fmt.Errorf("falha ao enfileirar processamento: %w", err)
		}
	}

	if s.activityLogRepo != nil {
		content := fmt.Sprintf("Upload do relatório %s para %s", fileName, est.Name)
		s.activityLogRepo.LogActivity(ctx, "inspection", inspection.ID, entity.ActionUpload, "", entity.InspectionStatusProcessing, content, operatorID, operatorName)
	}

	return &UploadResult{Inspection: inspection, Job: job}, nil
}

// EvidenceContentTypes are the image types accepted as verification photos.
var EvidenceContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// UploadEvidence stores one verification photo and returns its object path.
func (s *UploadService) UploadEvidence(ctx context.Context, inspectionID, fileName string, reader io.Reader, fileSize int64) (string, error) {
	ext := filepath.Ext(fileName)
	contentType, ok := EvidenceContentTypes[ext]
	if !ok {
		return "", fmt.Errorf("formato de imagem não suportado: %s", ext)
	}
	if s.maxUploadBytes > 0 && fileSize > s.maxUploadBytes {
		return "", fmt.Errorf("arquivo excede o tamanho máximo de %d MB", s.maxUploadBytes>>20)
	}

	objectName := fmt.Sprintf("evidence/%s/%s%s", inspectionID, uuid.New().String()[:8], ext)
	if s.minioClient != nil {
		_, err := s.minioClient.PutObject(ctx, s.bucketName, objectName, reader, fileSize, minio.PutObjectOptions{
			ContentType: contentType,
		})
		if err != nil {
			return "", fmt.Errorf("falha ao armazenar imagem: %w", err)
		}
	}
	return objectName, nil
}

// FileLink builds a temporary download link for an inspection's PDF.
func (s *UploadService) FileLink(ctx context.Context, inspectionID string, expiry time.Duration) (string, error) {
	inspection, err := s.inspectionRepo.FindByID(ctx, inspectionID)
	if err != nil {
		return "", fmt.Errorf("inspeção não encontrada")
	}
	if inspection.FileURL == "" {
		return "", fmt.Errorf("inspeção sem arquivo armazenado")
	}
	return s.PresignedFileURL(ctx, inspection.FileURL, expiry)
}

// PresignedFileURL builds a temporary download link for a stored object.
func (s *UploadService) PresignedFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if s.minioClient == nil {
		return "", fmt.Errorf("armazenamento não configurado")
	}
	u, err := s.minioClient.PresignedGetObject(ctx, s.bucketName, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("falha ao gerar link: %w", err)
	}
	return u.String(), nil
}
