package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"marketplace/client/internal/config"
	"marketplace/client/internal/models"
	"marketplace/client/internal/sandbox/repository"
	"marketplace/client/internal/security"
)

type AuthService struct {
	users  *repository.UserRepository
	cfg    config.SandboxConfig
	params security.Argon2Params
	log    zerolog.Logger
}

func NewAuthService(users *repository.UserRepository, cfg config.SandboxConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		cfg:    cfg,
		params: security.SandboxParams,
		log:    log,
	}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return models.AuthResponse{}, &InputError{Message: "Name is required"}
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return models.AuthResponse{}, &InputError{Message: "Email should be valid"}
	}
	if len(req.Password) < 6 {
		return models.AuthResponse{}, &InputError{Message: "Password must be at least 6 characters"}
	}
	if req.Role == "" {
		req.Role = models.UserRoleClient
	}
	if !req.Role.Valid() {
		return models.AuthResponse{}, &InputError{Message: "Role must be client or seller"}
	}

	hash, err := security.HashPasswordWithParams(req.Password, s.params)
	if err != nil {
		return models.AuthResponse{}, err
	}

	user := repository.UserRecord{
		User: models.User{
			ID:    uuid.NewString(),
			Name:  req.Name,
			Email: req.Email,
			Role:  req.Role,
		},
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return models.AuthResponse{}, &InputError{Message: "Email already exists"}
		}
		return models.AuthResponse{}, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return s.issue(user.User)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.AuthResponse{}, ErrInvalidCredentials
		}
		return models.AuthResponse{}, err
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		return models.AuthResponse{}, ErrInvalidCredentials
	}

	return s.issue(user.User)
}

func (s *AuthService) issue(user models.User) (models.AuthResponse, error) {
	token, err := security.GenerateAccessToken(s.cfg.JWTSecret, user.ID, user.Email, string(user.Role), s.cfg.TokenTTL)
	if err != nil {
		return models.AuthResponse{}, err
	}
	return models.AuthResponse{
		Token: token,
		Type:  "Bearer",
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}, nil
}

func (s *AuthService) User(ctx context.Context, id string) (repository.UserRecord, error) {
	return s.users.GetByID(ctx, id)
}
