package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"github.com/hygiatech/sanicheck/internal/inspection/repository"
)

// AdminService manages companies, establishments, contacts and users.
type AdminService struct {
	estRepo  *repository.EstablishmentRepository
	userRepo *repository.UserRepository
}

func NewAdminService(repos *repository.Repositories) *AdminService {
	return &AdminService{
		estRepo:  repos.Establishment,
		userRepo: repos.User,
	}
}

type CreateCompanyReq struct {
	Name string `json:"name" binding:"required"`
	CNPJ string `json:"cnpj"`
}

func (s *AdminService) CreateCompany(ctx context.Context, req CreateCompanyReq) (*entity.Company, error) {
	company := &entity.Company{
		ID:     uuid.New().String()[:32],
		Name:   req.Name,
		CNPJ:   req.CNPJ,
		Status: "active",
	}
	if err := s.estRepo.CreateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("falha ao criar empresa: %w", err)
	}
	return company, nil
}

func (s *AdminService) ListCompanies(ctx context.Context) ([]entity.Company, error) {
	return s.estRepo.FindCompanies(ctx)
}

type CreateEstablishmentReq struct {
	CompanyID    string `json:"company_id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	ConsultantID string `json:"consultant_id"`
}

func (s *AdminService) CreateEstablishment(ctx context.Context, req CreateEstablishmentReq) (*entity.Establishment, error) {
	est := &entity.Establishment{
		ID:        uuid.New().String()[:32],
		CompanyID: req.CompanyID,
		Name:      req.Name,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		Status:    "active",
	}
	if req.ConsultantID != "" {
		consultant, err := s.userRepo.FindByID(ctx, req.ConsultantID)
		if err != nil {
			return nil, fmt.Errorf("consultor não encontrado")
		}
		if consultant.Role != entity.RoleConsultant {
			return nil, fmt.Errorf("usuário %s não é consultor", consultant.Name)
		}
		est.ConsultantID = &req.ConsultantID
	}
	if err := s.estRepo.Create(ctx, est); err != nil {
		return nil, fmt.Errorf("falha ao criar estabelecimento: %w", err)
	}
	return est, nil
}

func (s *AdminService) ListEstablishments(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Establishment, int64, error) {
	return s.estRepo.FindAll(ctx, page, pageSize, filters)
}

func (s *AdminService) GetEstablishment(ctx context.Context, id string) (*entity.Establishment, error) {
	est, err := s.estRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("estabelecimento não encontrado")
	}
	return est, nil
}

type UpdateEstablishmentReq struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	ConsultantID string `json:"consultant_id"`
	Status       string `json:"status"`
}

func (s *AdminService) UpdateEstablishment(ctx context.Context, id string, req UpdateEstablishmentReq) (*entity.Establishment, error) {
	est, err := s.estRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("estabelecimento não encontrado")
	}
	if req.Name != "" {
		est.Name = req.Name
	}
	if req.Address != "" {
		est.Address = req.Address
	}
	if req.City != "" {
		est.City = req.City
	}
	if req.State != "" {
		est.State = req.State
	}
	if req.ConsultantID != "" {
		est.ConsultantID = &req.ConsultantID
	}
	if req.Status != "" {
		est.Status = req.Status
	}
	if err := s.estRepo.Update(ctx, est); err != nil {
		return nil, fmt.Errorf("falha ao atualizar estabelecimento: %w", err)
	}
	return est, nil
}

type CreateContactReq struct {
	Name      string `json:"name" binding:"required"`
	Title     string `json:"title"`
	Phone     string `json:"phone" binding:"required"`
	Email     string `json:"email"`
	IsPrimary bool   `json:"is_primary"`
}

func (s *AdminService) CreateContact(ctx context.Context, establishmentID string, req CreateContactReq) (*entity.EstablishmentContact, error) {
	if _, err := s.estRepo.FindByID(ctx, establishmentID); err != nil {
		return nil, fmt.Errorf("estabelecimento não encontrado")
	}
	contact := &entity.EstablishmentContact{
		ID:              uuid.New().String()[:32],
		EstablishmentID: establishmentID,
		Name:            req.Name,
		Title:           req.Title,
		Phone:           req.Phone,
		Email:           req.Email,
		IsPrimary:       req.IsPrimary,
	}
	if err := s.estRepo.CreateContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("falha ao criar contato: %w", err)
	}
	return contact, nil
}

type CreateUserReq struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

func (s *AdminService) CreateUser(ctx context.Context, req CreateUserReq) (*entity.User, error) {
	switch req.Role {
	case entity.RoleConsultant, entity.RoleManager, entity.RoleAdmin:
	default:
		return nil, fmt.Errorf("papel inválido: %s", req.Role)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("falha ao processar senha: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New().String()[:32],
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         req.Role,
		Status:       entity.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("falha ao criar usuário: %w", err)
	}
	return user, nil
}

func (s *AdminService) ListUsers(ctx context.Context, role string) ([]entity.User, error) {
	return s.userRepo.FindAll(ctx, role)
}

type UpdateUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Status   string `json:"status"`
}

func (s *AdminService) UpdateUser(ctx context.Context, id string, req UpdateUserReq) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usuário não encontrado")
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Password != "" {
		if len(req.Password) < 8 {
			return nil, fmt.Errorf("senha deve ter no mínimo 8 caracteres")
		}
		hash, err := HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("falha ao processar senha: %w", err)
		}
		user.PasswordHash = hash
	}
	if req.Status != "" {
		user.Status = req.Status
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("falha ao atualizar usuário: %w", err)
	}
	return user, nil
}
