package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mss-edu/school-api/internal/models"
	appErrors "github.com/mss-edu/school-api/pkg/errors"
)

type fakeGenerator struct {
	configured bool
	text       string
	err        error
	prompts    []string
}

func (f *fakeGenerator) Configured() bool { return f.configured }

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeReportStudents struct {
	students map[int64]models.Student
}

func (f *fakeReportStudents) FindByID(_ context.Context, id int64) (*models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

type fakeReportStats struct {
	overview models.StatsOverview
}

func (f *fakeReportStats) Overview(context.Context) (*models.StatsOverview, bool, error) {
	o := f.overview
	return &o, false, nil
}

func newReportFixture(t *testing.T, gen *fakeGenerator) *ReportService {
	t.Helper()
	note := "Shows strong progress in mathematics."
	students := &fakeReportStudents{students: map[int64]models.Student{
		1: {ID: 1, FullName: "Abdi Hassan", Class: "10A", Attendance: 92, PerformanceNote: &note},
	}}
	stats := &fakeReportStats{overview: models.StatsOverview{Students: 120, Revenue: 15000, AvgAttendance: 93.5}}

	svc := NewReportService(gen, students, stats, nil, ReportServiceConfig{Workers: 1, QueueSize: 4})
	svc.Start(context.Background())
	t.Cleanup(svc.Stop)
	return svc
}

func waitForJob(t *testing.T, svc *ReportService, id string) *models.ReportJob {
	t.Helper()
	var done *models.ReportJob
	require.Eventually(t, func() bool {
		job, ok := svc.Job(id)
		if !ok {
			return false
		}
		if job.Status == models.ReportJobCompleted || job.Status == models.ReportJobFailed {
			done = job
			return true
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
	return done
}

func TestStudentReportGeneratedWhenConfigured(t *testing.T) {
	gen := &fakeGenerator{configured: true, text: "Abdi is doing well."}
	svc := newReportFixture(t, gen)

	job, err := svc.EnqueueStudentReport(context.Background(), 1, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.ReportJobQueued, job.Status)

	done := waitForJob(t, svc, job.ID)
	assert.Equal(t, models.ReportJobCompleted, done.Status)
	assert.Equal(t, "Abdi is doing well.", done.Result)
	assert.NotNil(t, done.CompletedAt)

	require.Len(t, gen.prompts, 1)
	assert.True(t, strings.Contains(gen.prompts[0], "Abdi Hassan"))
	assert.True(t, strings.Contains(gen.prompts[0], "Attendance: 92%"))
}

func TestStudentReportUnavailableWithoutCredentials(t *testing.T) {
	gen := &fakeGenerator{configured: false}
	svc := newReportFixture(t, gen)

	job, err := svc.EnqueueStudentReport(context.Background(), 1, "admin")
	require.NoError(t, err)

	done := waitForJob(t, svc, job.ID)
	assert.Equal(t, models.ReportJobCompleted, done.Status)
	assert.Equal(t, UnavailableMessage, done.Result)
	assert.Empty(t, done.Error)
	assert.Empty(t, gen.prompts, "generator must not be called without credentials")
}

func TestStudentReportGenerationFailure(t *testing.T) {
	gen := &fakeGenerator{configured: true, err: errors.New("upstream timeout")}
	svc := newReportFixture(t, gen)

	job, err := svc.EnqueueStudentReport(context.Background(), 1, "admin")
	require.NoError(t, err)

	done := waitForJob(t, svc, job.ID)
	assert.Equal(t, models.ReportJobFailed, done.Status)
	assert.Equal(t, generationFailedMessage, done.Error)
	assert.Empty(t, done.Result)
}

func TestStudentReportUnknownStudent(t *testing.T) {
	svc := newReportFixture(t, &fakeGenerator{configured: true})

	_, err := svc.EnqueueStudentReport(context.Background(), 99, "admin")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestInsightsReportUsesCurrentStats(t *testing.T) {
	gen := &fakeGenerator{configured: true, text: "Grow enrollment."}
	svc := newReportFixture(t, gen)

	job, err := svc.EnqueueInsights(context.Background(), "principal")
	require.NoError(t, err)
	assert.Equal(t, models.ReportJobInsights, job.Type)

	done := waitForJob(t, svc, job.ID)
	assert.Equal(t, models.ReportJobCompleted, done.Status)

	require.Len(t, gen.prompts, 1)
	assert.True(t, strings.Contains(gen.prompts[0], "Total Students: 120"))
	assert.True(t, strings.Contains(gen.prompts[0], "Revenue: $15000"))
}

func TestJobLookupUnknownID(t *testing.T) {
	svc := newReportFixture(t, &fakeGenerator{})
	_, ok := svc.Job("missing")
	assert.False(t, ok)
}
