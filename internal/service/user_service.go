package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/auth"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository"
)

type TokenIssuer interface {
	Issue(u *domain.User) (string, error)
}

type UserService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	logger *zap.Logger
	now    func() time.Time
}

func NewUserService(users repository.UserRepository, tokens TokenIssuer, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	u, err := s.create(ctx, req, domain.RoleCustomer)
	if err != nil {
		return nil, err
	}
	return s.respond(u)
}

func (s *UserService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.respond(u)
}

func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Create adds a user on behalf of an admin. Role defaults to customer.
func (s *UserService) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	role := req.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	return s.create(ctx, req.RegisterRequest, role)
}

func (s *UserService) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, ErrInvalidRole
	}
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	u.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, u); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return notFound(err, ErrUserNotFound)
	}
	s.logger.Info("User removed", zap.String("user_id", id))
	return nil
}

// EnsureAdmin creates the bootstrap admin account if no user owns the email yet.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	_, err = s.create(ctx, domain.RegisterRequest{
		Name:     "Admin",
		Email:    email,
		Password: password,
	}, domain.RoleAdmin)
	if errors.Is(err, ErrEmailTaken) {
		return nil
	}
	return err
}

func (s *UserService) create(ctx context.Context, req domain.RegisterRequest, role domain.Role) (*domain.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	u := &domain.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created",
		zap.String("user_id", u.ID),
		zap.String("role", string(role)))
	return u, nil
}

func (s *UserService) respond(u *domain.User) (*domain.AuthResponse, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &domain.AuthResponse{User: u, Token: token}, nil
}
