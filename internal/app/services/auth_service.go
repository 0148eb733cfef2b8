package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/auth"
)

// Account types accepted at login
const (
	AccountTypeUser        = "user"
	AccountTypeSchoolAdmin = "school_admin"
)

// Authenticator is the login surface the HTTP layer depends on
type Authenticator interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo   repositories.IUserRepository
	adminRepo  repositories.ISchoolAdminRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	adminRepo repositories.ISchoolAdminRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		adminRepo:  adminRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// account is the common shape of a user or administrator at login
type account struct {
	principal    models.Principal
	email        string
	passwordHash string
	firstName    string
	lastName     string
	active       bool
}

func (s *AuthService) findAccount(ctx context.Context, accountType, email string) (*account, error) {
	if accountType == AccountTypeSchoolAdmin {
		a, err := s.adminRepo.FindByEmail(ctx, email)
		if err != nil || a == nil {
			return nil, err
		}
		schoolID := a.SchoolID
		return &account{
			principal:    models.Principal{ID: a.ID, Role: models.RoleSchoolAdmin, SchoolID: &schoolID},
			email:        a.Email,
			passwordHash: a.PasswordHash,
			firstName:    a.FirstName,
			lastName:     a.LastName,
			active:       a.IsActive,
		}, nil
	}

	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, err
	}
	return &account{
		principal:    models.Principal{ID: u.ID, Role: u.Role, SchoolID: u.SchoolID},
		email:        u.Email,
		passwordHash: u.PasswordHash,
		firstName:    u.FirstName,
		lastName:     u.LastName,
		active:       u.IsActive,
	}, nil
}

// Login authenticates a user or school administrator and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	acc, err := s.findAccount(ctx, req.AccountType, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Failed to look up account")
		return nil, err
	}
	if acc == nil || !auth.CheckPassword(acc.passwordHash, req.Password) {
		s.logger.Warn().Str("email", email).Msg("Login failed: invalid credentials")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !acc.active {
		return nil, apperrors.ErrAccountDisabled
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(acc.principal, acc.email)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", acc.principal.ID).Msg("Failed to generate access token")
		return nil, err
	}

	s.logger.Info().Int64("userID", acc.principal.ID).Str("role", string(acc.principal.Role)).Msg("User logged in")

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: dto.AuthUser{
			ID:        acc.principal.ID,
			Email:     acc.email,
			FirstName: acc.firstName,
			LastName:  acc.lastName,
			Role:      string(acc.principal.Role),
			SchoolID:  acc.principal.SchoolID,
		},
	}, nil
}
