package auth

import (
	"context"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/business-management/internal"
	"github.com/frahmantamala/business-management/internal/access"
	"github.com/frahmantamala/business-management/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/user"
	"github.com/frahmantamala/business-management/internal/user"
)

var (
	ErrInvalidCredentials = errors.ErrInvalidCredentials
	ErrUserInactive       = errors.ErrUserInactive
	ErrInvalidToken       = errors.ErrInvalidToken
	ErrTokenExpired       = errors.ErrTokenExpired
)

// Service is the main auth service with dependencies
type Service struct {
	users     UserRepository
	tokens    TokenGenerator
	hasher    user.PasswordHasher
	registrar Registrar
	logger    *slog.Logger
}

// NewService creates a new auth service
func NewService(users UserRepository, tokens TokenGenerator, hasher user.PasswordHasher, registrar Registrar, logger *slog.Logger) *Service {
	return &Service{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		registrar: registrar,
		logger:    logger,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if appErr := validation.Struct(dto); appErr != nil {
		return AuthTokens{}, appErr
	}

	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(dto.Email))
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("Failed to load user", err)
	}
	if u == nil || !s.hasher.Compare(u.PasswordHash, dto.Password) {
		s.logger.Warn("login rejected", "email", dto.Email)
		return AuthTokens{}, ErrInvalidCredentials
	}
	if !u.Active {
		return AuthTokens{}, ErrUserInactive
	}

	s.logger.Info("user logged in", "user_id", u.ID)
	return s.issue(u)
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(ctx context.Context, dto RefreshTokenDTO) (AuthTokens, error) {
	if appErr := validation.Struct(dto); appErr != nil {
		return AuthTokens{}, appErr
	}

	claims, err := s.tokens.ValidateRefreshToken(dto.RefreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	u, err := s.load(ctx, claims)
	if err != nil {
		return AuthTokens{}, err
	}
	return s.issue(u)
}

// Register creates an employee account without a company.
func (s *Service) Register(ctx context.Context, dto user.CreateUserDTO) (*user.User, error) {
	return s.registrar.Register(ctx, dto)
}

// IdentityFromToken resolves a bearer access token to the current identity of its user.
// Role and tenant are read from the store, so changes apply before the token expires.
func (s *Service) IdentityFromToken(ctx context.Context, token string) (*access.Identity, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	u, err := s.load(ctx, claims)
	if err != nil {
		return nil, err
	}
	return &access.Identity{
		ID:       u.ID,
		Role:     access.Role(u.Role),
		TenantID: u.CompanyID,
		Active:   u.Active,
	}, nil
}

func (s *Service) load(ctx context.Context, claims *Claims) (*userDatamodel.User, error) {
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidToken
	}

	u, err := s.users.GetByID(ctx, access.Unrestricted(access.EntityUser), userID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load user", err)
	}
	if u == nil {
		return nil, ErrInvalidToken
	}
	if !u.Active {
		return nil, ErrUserInactive
	}
	return u, nil
}

func (s *Service) issue(u *userDatamodel.User) (AuthTokens, error) {
	role := access.Role(u.Role)

	accessToken, err := s.tokens.GenerateAccessToken(u.ID, role)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("Failed to issue token", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(u.ID, role)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("Failed to issue token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
