package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mss-edu/school-api/internal/dto"
	"github.com/mss-edu/school-api/internal/models"
	appErrors "github.com/mss-edu/school-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, search string) ([]models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
}

// TeacherService implements the staff roster use cases.
type TeacherService struct {
	repo      teacherRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns teachers newest-first.
func (s *TeacherService) List(ctx context.Context, search string) ([]dto.TeacherResponse, error) {
	teachers, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return dto.NewTeacherResponses(teachers), nil
}

// Create registers a new teacher and returns the stored record.
func (s *TeacherService) Create(ctx context.Context, req dto.CreateTeacherRequest) (*dto.TeacherResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	teacher := models.Teacher{
		FullName:        req.FullName,
		Subject:         req.Subject,
		Email:           req.Email,
		ClassesAssigned: req.ClassesAssigned,
	}
	if req.Phone != "" {
		teacher.Phone = &req.Phone
	}

	if err := s.repo.Create(ctx, &teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}

	if err := s.cache.Invalidate(ctx, statsCachePattern); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.Error(err))
	}

	return &dto.TeacherResponse{Teacher: teacher, DisplayID: teacher.DisplayID()}, nil
}
