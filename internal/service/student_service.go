package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mss-edu/school-api/internal/dto"
	"github.com/mss-edu/school-api/internal/models"
	appErrors "github.com/mss-edu/school-api/pkg/errors"
	"github.com/mss-edu/school-api/pkg/export"
)

const statsCachePattern = "stats:*"

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	UpdateStatus(ctx context.Context, id int64, status models.StudentStatus) error
}

// StudentService implements the student roster use cases.
type StudentService struct {
	repo      studentRepository
	cache     *CacheService
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, cache: cache, pdf: export.NewPDFExporter(), validator: validate, logger: logger}
}

// List returns students newest-first.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]dto.StudentResponse, error) {
	students, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return dto.NewStudentResponses(students), nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id int64) (*dto.StudentResponse, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	res := dto.NewStudentResponse(*student)
	return &res, nil
}

// Create registers a new student. Optional fields default: gender Male,
// attendance 100, status Active. Returns the assigned id.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*dto.CreateStudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student := models.Student{
		FullName:      req.FullName,
		Gender:        req.Gender,
		Class:         req.Class,
		ParentContact: req.ParentContact,
		Attendance:    100,
		Status:        models.StudentActive,
	}
	if student.Gender == "" {
		student.Gender = "Male"
	}
	if req.DOB != "" {
		dob, err := time.Parse("2006-01-02", req.DOB)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date of birth")
		}
		student.DOB = &dob
	}
	if req.Email != "" {
		student.Email = &req.Email
	}
	if req.Phone != "" {
		student.Phone = &req.Phone
	}
	if req.Address != "" {
		student.Address = &req.Address
	}

	if err := s.repo.Create(ctx, &student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	if err := s.cache.Invalidate(ctx, statsCachePattern); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.Error(err))
	}

	return &dto.CreateStudentResponse{ID: student.ID, DisplayID: student.DisplayID()}, nil
}

// SetStatus flips enrollment status, e.g. when a student transfers out.
func (s *StudentService) SetStatus(ctx context.Context, id int64, status models.StudentStatus) error {
	if status != models.StudentActive && status != models.StudentInactive {
		return appErrors.Clone(appErrors.ErrValidation, "status must be Active or Inactive")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student status")
	}
	if err := s.cache.Invalidate(ctx, statsCachePattern); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.Error(err))
	}
	return nil
}

// ExportRoster renders the current roster as a printable PDF.
func (s *StudentService) ExportRoster(ctx context.Context, filter models.StudentFilter) ([]byte, error) {
	students, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	data := export.Dataset{
		Headers: []string{"ID", "Full Name", "Class", "Gender", "Attendance", "Status", "Parent Contact"},
	}
	for _, st := range students {
		data.Rows = append(data.Rows, map[string]string{
			"ID":             st.DisplayID(),
			"Full Name":      st.FullName,
			"Class":          st.Class,
			"Gender":         st.Gender,
			"Attendance":     formatPercent(st.Attendance),
			"Status":         string(st.Status),
			"Parent Contact": st.ParentContact,
		})
	}

	out, err := s.pdf.Render(data, "Student Roster")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
	}
	return out, nil
}
