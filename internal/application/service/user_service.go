package service

import (
	"context"
	"strings"

	"github.com/garyjia/jobsphere/internal/application/port"
	"github.com/garyjia/jobsphere/internal/apperr"
	"github.com/garyjia/jobsphere/internal/domain/access"
	"github.com/garyjia/jobsphere/internal/domain/entity"
	"github.com/garyjia/jobsphere/pkg/utils"
)

// UserService manages the user directory
type UserService interface {
	Register(ctx context.Context, email, firstName, lastName string, role access.Role) (*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	SetEnabled(ctx context.Context, id int64, enabled bool) (*entity.User, error)
	List(ctx context.Context, role access.Role) ([]*entity.User, error)
	ListIDsByRole(ctx context.Context, role access.Role) ([]int64, error)
	CountByRole(ctx context.Context) (map[string]int64, error)
}

type userServiceImpl struct {
	userRepo port.UserRepository
	logger   Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo port.UserRepository, logger Logger) UserService {
	return &userServiceImpl{userRepo: userRepo, logger: logger}
}

func (s *userServiceImpl) Register(ctx context.Context, email, firstName, lastName string, role access.Role) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := utils.ValidateEmail(email); err != nil {
		return nil, apperr.ValidationField("email", err.Error())
	}
	if !role.Valid() {
		return nil, apperr.ValidationField("role", "role must be JOB_SEEKER, EMPLOYER or ADMIN")
	}

	user := &entity.User{
		Email:     email,
		FirstName: utils.SanitizeString(strings.TrimSpace(firstName)),
		LastName:  utils.SanitizeString(strings.TrimSpace(lastName)),
		Role:      role,
		Enabled:   true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to register user", "email", email, "error", err)
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", role)
	return user, nil
}

func (s *userServiceImpl) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFoundf("user %d not found", id)
	}
	return user, nil
}

func (s *userServiceImpl) SetEnabled(ctx context.Context, id int64, enabled bool) (*entity.User, error) {
	if err := s.userRepo.SetEnabled(ctx, id, enabled); err != nil {
		return nil, err
	}
	s.logger.Info("User enabled flag changed", "user_id", id, "enabled", enabled)
	return s.GetByID(ctx, id)
}

func (s *userServiceImpl) List(ctx context.Context, role access.Role) ([]*entity.User, error) {
	if role != "" && !role.Valid() {
		return nil, apperr.ValidationField("role", "unknown role")
	}
	return s.userRepo.List(ctx, role)
}

func (s *userServiceImpl) ListIDsByRole(ctx context.Context, role access.Role) ([]int64, error) {
	return s.userRepo.ListIDsByRole(ctx, role)
}

func (s *userServiceImpl) CountByRole(ctx context.Context) (map[string]int64, error) {
	return s.userRepo.CountByRole(ctx)
}
