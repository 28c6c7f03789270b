package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/schedule-sensei/internal/models"
	appErrors "github.com/noah-isme/schedule-sensei/pkg/errors"
)

const testCourses = `[
  {"id": "MATH-101", "department": "MATH", "course_code": "101", "course_name": "Intro Calculus", "units": 3.0}
]`

const testSections = `[
  {"id": "MATH-101-FALL", "term": "FALL", "department": "MATH", "course_code": "101",
   "course_sections": [
     {"class_number": 101, "section_name": "001", "section_number": "001", "section_type": "Lecture",
      "enrollment_capacity": 30, "enrollment_total": 0,
      "dates": [{"day": "Monday", "start_time": "09:00", "end_time": "10:00", "start_date": "2024-09-05", "end_date": "2024-12-05", "instructors": [], "location": "Jeffery 101"}]}
   ]}
]`

const testStudents = `[
  {"name": "A", "academic_year": "FIRSTYEAR", "program": "MATH",
   "completed_courses": [], "course_wish_list": ["MATH-101"], "friends": []}
]`

func writeSolveFixture(t *testing.T, students string) (string, string) {
	t.Helper()
	root := t.TempDir()
	bundle := filepath.Join(root, "bundle")
	require.NoError(t, os.Mkdir(bundle, 0o755))

	files := map[string]string{
		"courses.json":      testCourses,
		"sections.json":     testSections,
		"requirements.json": "[]",
		"students.json":     students,
		"departments.json":  "[]",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(bundle, name), []byte(content), 0o644))
	}

	registry := filepath.Join(root, "tests.config.json")
	require.NoError(t, os.WriteFile(registry,
		[]byte(`[{"id": 1, "test": "small", "description": "single student", "location": "bundle"}]`), 0o644))
	return root, registry
}

type auditStub struct {
	records []models.SolveRecord
}

func (a *auditStub) Record(_ context.Context, rec models.SolveRecord) error {
	a.records = append(a.records, rec)
	return nil
}

func newSolveFixture(t *testing.T, students string, audit *auditStub) *SolveService {
	t.Helper()
	root, registry := writeSolveFixture(t, students)
	cases, err := NewTestCaseService(registry, nil)
	require.NoError(t, err)
	var rec auditRecorder
	if audit != nil {
		rec = audit
	}
	return NewSolveService(cases, nil, nil, nil, rec, nil, nil, SolveServiceConfig{DataDir: root})
}

func TestSolveTestCaseSat(t *testing.T) {
	audit := &auditStub{}
	svc := newSolveFixture(t, testStudents, audit)

	outcome, err := svc.SolveTestCase(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, outcome.Satisfiable)
	assert.Equal(t, []string{"MATH-101-001"}, outcome.Schedule["A"][models.TermFall])
	assert.NotEmpty(t, outcome.SolveID)

	require.Len(t, outcome.Views, 1)
	assert.Equal(t, "A", outcome.Views[0].Student)
	require.Len(t, outcome.Views[0].Terms, 1)
	assert.Equal(t, "FALL", outcome.Views[0].Terms[0].Term)

	require.Len(t, audit.records, 1)
	assert.Equal(t, OutcomeSat, audit.records[0].Outcome)
	assert.Equal(t, 1, audit.records[0].StudentCount)

	assert.Equal(t, 1, svc.CountSolutions(context.Background(), outcome))
}

func TestSolveTestCaseUnknownID(t *testing.T) {
	svc := newSolveFixture(t, testStudents, nil)

	_, err := svc.SolveTestCase(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSolveEmptyWishListIsCompileError(t *testing.T) {
	students := `[{"name": "A", "completed_courses": [], "course_wish_list": [], "friends": []}]`
	svc := newSolveFixture(t, students, nil)

	_, err := svc.SolveTestCase(context.Background(), 1)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrCompile.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "does the student wish to take any courses?")
}

func TestSolveUnsatIsNotAnError(t *testing.T) {
	// Force UNSAT through a wished course that exists in the catalog
	// but has no lecture sections.
	students := `[{"name": "A", "completed_courses": [],
	  "course_wish_list": ["MATH-101", "MATH-102"], "friends": []}]`
	root, registry := writeSolveFixture(t, students)

	// Add a catalog course with no lecture sections.
	coursesPath := filepath.Join(root, "bundle", "courses.json")
	extra := `[
	  {"id": "MATH-101", "department": "MATH", "course_code": "101", "units": 3.0},
	  {"id": "MATH-102", "department": "MATH", "course_code": "102", "units": 3.0}
	]`
	require.NoError(t, os.WriteFile(coursesPath, []byte(extra), 0o644))

	cases, err := NewTestCaseService(registry, nil)
	require.NoError(t, err)
	svc := NewSolveService(cases, nil, nil, nil, nil, nil, nil, SolveServiceConfig{DataDir: root})

	outcome, err := svc.SolveTestCase(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, outcome.Satisfiable)
	assert.Nil(t, outcome.Schedule)
	assert.Nil(t, outcome.Views)
	assert.Equal(t, 0, svc.CountSolutions(context.Background(), outcome))
}

func TestTestCaseServiceListing(t *testing.T) {
	_, registry := writeSolveFixture(t, testStudents)
	cases, err := NewTestCaseService(registry, nil)
	require.NoError(t, err)

	list := cases.List()
	require.Len(t, list, 1)
	assert.Equal(t, "small", list[0].Test)

	summaries := cases.Summaries()
	require.Len(t, summaries, 1)
	assert.Equal(t, "1", summaries[0].ID)
	assert.Equal(t, "small", summaries[0].Name)

	_, ok := cases.Get(1)
	assert.True(t, ok)
	_, ok = cases.Get(99)
	assert.False(t, ok)
}
