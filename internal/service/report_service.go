package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mss-edu/school-api/internal/models"
	appErrors "github.com/mss-edu/school-api/pkg/errors"
	"github.com/mss-edu/school-api/pkg/jobs"
)

// UnavailableMessage is the fixed degradation text shown when the AI
// collaborator has no credentials. It replaces the result; it is never an
// error, so no other component is affected.
const UnavailableMessage = "AI reporting is currently unavailable."

const generationFailedMessage = "Error communicating with AI service. Please try again later."

// TextGenerator is the external narrative-generation capability.
type TextGenerator interface {
	Configured() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

type reportStudentLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

type reportStatsProvider interface {
	Overview(ctx context.Context) (*models.StatsOverview, bool, error)
}

// ReportServiceConfig tunes the background worker pool.
type ReportServiceConfig struct {
	Workers    int
	MaxRetries int
	QueueSize  int
	ResultTTL  time.Duration
}

// ReportService generates narrative reports out-of-band. Requests are
// queued, processed by workers and polled by the client; generation never
// blocks a request flow.
type ReportService struct {
	generator TextGenerator
	students  reportStudentLookup
	stats     reportStatsProvider
	queue     *jobs.Queue
	logger    *zap.Logger
	resultTTL time.Duration

	mu   sync.RWMutex
	jobs map[string]*models.ReportJob
}

// NewReportService constructs a ReportService and its queue. Call Start
// before enqueuing and Stop on shutdown.
func NewReportService(generator TextGenerator, students reportStudentLookup, stats reportStatsProvider, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = time.Hour
	}
	s := &ReportService{
		generator: generator,
		students:  students,
		stats:     stats,
		logger:    logger,
		resultTTL: cfg.ResultTTL,
		jobs:      make(map[string]*models.ReportJob),
	}
	s.queue = jobs.NewQueue("reports", s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.QueueSize,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the worker pool.
func (s *ReportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the worker pool.
func (s *ReportService) Stop() {
	s.queue.Stop()
}

// EnqueueStudentReport queues a progress-report generation for a student.
func (s *ReportService) EnqueueStudentReport(ctx context.Context, studentID int64, requestedBy string) (*models.ReportJob, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	job := &models.ReportJob{
		ID:          uuid.NewString(),
		Type:        models.ReportJobStudent,
		Status:      models.ReportJobQueued,
		StudentID:   studentID,
		RequestedBy: requestedBy,
		CreatedAt:   time.Now().UTC(),
	}
	return s.enqueue(job)
}

// EnqueueInsights queues strategic-insight generation from current stats.
func (s *ReportService) EnqueueInsights(_ context.Context, requestedBy string) (*models.ReportJob, error) {
	job := &models.ReportJob{
		ID:          uuid.NewString(),
		Type:        models.ReportJobInsights,
		Status:      models.ReportJobQueued,
		RequestedBy: requestedBy,
		CreatedAt:   time.Now().UTC(),
	}
	return s.enqueue(job)
}

// Job returns a snapshot of the job with the given id.
func (s *ReportService) Job(id string) (*models.ReportJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, false
	}
	snapshot := *job
	return &snapshot, true
}

func (s *ReportService) enqueue(job *models.ReportJob) (*models.ReportJob, error) {
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Type)}); err != nil {
		s.mu.Lock()
		delete(s.jobs, job.ID)
		s.mu.Unlock()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue report")
	}

	snapshot := *job
	return &snapshot, nil
}

func (s *ReportService) process(ctx context.Context, qj jobs.Job) error {
	job := s.transition(qj.ID, models.ReportJobRunning, "", "")
	if job == nil {
		return nil
	}

	if !s.generator.Configured() {
		s.transition(qj.ID, models.ReportJobCompleted, UnavailableMessage, "")
		return nil
	}

	prompt, err := s.buildPrompt(ctx, job)
	if err != nil {
		s.logger.Warn("failed to build report prompt", zap.String("job_id", qj.ID), zap.Error(err))
		s.transition(qj.ID, models.ReportJobFailed, "", generationFailedMessage)
		return nil
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("report generation failed", zap.String("job_id", qj.ID), zap.Error(err))
		s.transition(qj.ID, models.ReportJobFailed, "", generationFailedMessage)
		return nil
	}

	s.transition(qj.ID, models.ReportJobCompleted, text, "")
	return nil
}

func (s *ReportService) buildPrompt(ctx context.Context, job *models.ReportJob) (string, error) {
	switch job.Type {
	case models.ReportJobStudent:
		student, err := s.students.FindByID(ctx, job.StudentID)
		if err != nil {
			return "", fmt.Errorf("load student %d: %w", job.StudentID, err)
		}
		note := ""
		if student.PerformanceNote != nil {
			note = *student.PerformanceNote
		}
		return fmt.Sprintf(
			"You are an academic advisor at the Mogadishu School System.\n"+
				"Generate a short, professional progress report (max 100 words) for a parent based on the following student data:\n"+
				"Name: %s\nGrade: %s\nAttendance: %.0f%%\nTeacher Notes: %s\n\n"+
				"Tone: Encouraging but honest.",
			student.FullName, student.Class, student.Attendance, note), nil

	case models.ReportJobInsights:
		overview, _, err := s.stats.Overview(ctx)
		if err != nil {
			return "", fmt.Errorf("load stats: %w", err)
		}
		return fmt.Sprintf(
			"Analyze these school statistics for Mogadishu School System and provide 3 key strategic bullet points for the principal to improve the school:\n"+
				"Total Students: %d\nAttendance Rate: %.1f%%\nRevenue: $%.0f\n\n"+
				"Focus on growth and academic excellence.",
			overview.Students, overview.AvgAttendance, overview.Revenue), nil

	default:
		return "", fmt.Errorf("unknown report type %q", job.Type)
	}
}

func (s *ReportService) transition(id string, status models.ReportJobStatus, result, errMsg string) *models.ReportJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil
	}
	job.Status = status
	if result != "" {
		job.Result = result
	}
	if errMsg != "" {
		job.Error = errMsg
	}
	if status == models.ReportJobCompleted || status == models.ReportJobFailed {
		done := time.Now().UTC()
		job.CompletedAt = &done
		// Finished results expire so the map cannot grow without bound.
		time.AfterFunc(s.resultTTL, func() { s.evict(id) })
	}
	snapshot := *job
	return &snapshot
}

func (s *ReportService) evict(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
}
