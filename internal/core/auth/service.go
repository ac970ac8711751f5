package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/utils"
)

const (
	msgInvalidCredentials = "Credenciais inválidas"
	msgInvalidToken       = "Token inválido ou expirado"
	msgSignupDone         = "Conta criada! Faça login para continuar."
)

type Service struct {
	repo       UserRepo
	jwtService *JWTService
	now        func() time.Time
}

// NewService creates a new auth service
func NewService(repo UserRepo, jwtService *JWTService) *Service {
	return &Service{repo: repo, jwtService: jwtService, now: time.Now}
}

// Signup creates a new account. The user logs in separately afterwards.
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*SignupResponse, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, apperr.Conflict("Este email já está cadastrado")
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	utils.LogInfo("✅ User registered", map[string]interface{}{"user_id": user.ID.String()})
	return &SignupResponse{Message: msgSignupDone}, nil
}

// Login authenticates user with email and password
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Auth(msgInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := VerifyPassword(user.PasswordHash, req.Password); err != nil {
		return nil, apperr.Auth(msgInvalidCredentials)
	}

	now := s.now()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		utils.LogWarn("⚠️ Failed to record last login", map[string]interface{}{"user_id": user.ID.String(), "error": err.Error()})
	} else {
		user.LastLoginAt = &now
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(&TokenClaims{
		UserID:  user.ID.String(),
		Email:   user.Email,
		Version: user.TokenVersion,
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("✅ User logged in", map[string]interface{}{"user_id": user.ID.String()})
	return &LoginResponse{Token: token, User: user, ExpiresAt: expiresAt}, nil
}

// Logout revokes every token issued to the user so far.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	utils.LogInfo("✅ User logged out", map[string]interface{}{"user_id": userID.String()})
	return nil
}

// Authenticate resolves a bearer token to its user. Tokens issued before the
// last logout are rejected.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	claims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		return nil, apperr.Auth(msgInvalidToken)
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperr.Auth(msgInvalidToken)
	}

	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Auth(msgInvalidToken)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.TokenVersion != claims.Version {
		return nil, apperr.Auth(msgInvalidToken)
	}
	return user, nil
}

// Profile returns the user record.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Usuário não encontrado")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *ProfileRequest) (*User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Picture != nil {
		user.ProfilePicture = *req.Picture
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
