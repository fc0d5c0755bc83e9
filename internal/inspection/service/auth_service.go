package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hygiatech/sanicheck/internal/config"
	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"github.com/hygiatech/sanicheck/internal/inspection/repository"
	"github.com/hygiatech/sanicheck/internal/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues and refreshes JWT sessions. Refresh tokens live in
// redis keyed by user so logout can revoke them.
type AuthService struct {
	userRepo *repository.UserRepository
	rdb      *redis.Client
	jwtCfg   config.JWTConfig
}

func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		rdb:      rdb,
		jwtCfg:   jwtCfg,
	}
}

type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenPair struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	User         entity.User `json:"user"`
}

func refreshKey(userID string) string {
	return "auth:refresh:" + userID
}

// Login checks credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, req LoginReq) (*TokenPair, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("usuário ou senha inválidos")
	}
	if user.Status != entity.UserStatusActive {
		return nil, fmt.Errorf("usuário inativo")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("usuário ou senha inválidos")
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("falha ao atualizar usuário: %w", err)
	}

	return pair, nil
}

// Refresh exchanges a valid refresh token for a new pair. The old refresh
// token is rotated out.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims := &middleware.JWTClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtCfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("refresh token inválido ou expirado")
	}

	stored, err := s.rdb.Get(ctx, refreshKey(claims.UserID)).Result()
	if err != nil || stored != refreshToken {
		return nil, fmt.Errorf("refresh token revogado")
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("usuário não encontrado")
	}
	if user.Status != entity.UserStatusActive {
		return nil, fmt.Errorf("usuário inativo")
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the user's refresh token.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, refreshKey(userID)).Err()
}

// Me loads the authenticated user's profile.
func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usuário não encontrado")
	}
	return user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *entity.User) (*TokenPair, error) {
	now := time.Now()

	access, err := s.signToken(user, now, s.jwtCfg.AccessTokenExpire)
	if err != nil {
		return nil, fmt.Errorf("falha ao gerar token: %w", err)
	}
	refresh, err := s.signToken(user, now, s.jwtCfg.RefreshTokenExpire)
	if err != nil {
		return nil, fmt.Errorf("falha ao gerar token: %w", err)
	}

	if err := s.rdb.Set(ctx, refreshKey(user.ID), refresh, s.jwtCfg.RefreshTokenExpire).Err(); err != nil {
		return nil, fmt.Errorf("falha ao salvar refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtCfg.AccessTokenExpire.Seconds()),
		User:         *user,
	}, nil
}

func (s *AuthService) signToken(user *entity.User, now time.Time, ttl time.Duration) (string, error) {
	claims := middleware.JWTClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.jwtCfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.Secret))
}

// HashPassword is used when creating users.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
