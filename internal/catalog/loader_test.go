package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/schedule-sensei/internal/models"
	appErrors "github.com/noah-isme/schedule-sensei/pkg/errors"
)

func writeBundle(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	defaults := map[string]string{
		"courses.json":      "[]",
		"sections.json":     "[]",
		"requirements.json": "[]",
		"students.json":     "[]",
		"departments.json":  "[]",
	}
	for name, content := range files {
		defaults[name] = content
	}
	for name, content := range defaults {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

const coursesFixture = `[
  {"id": "CISC-203", "department": "CISC", "course_code": "203", "course_name": "Discrete Math II", "units": 3.0},
  {"id": "CISC-121", "department": "CISC", "course_code": "121", "course_name": "Intro to Computing I", "units": 3.0},
  {"id": "MATH-120A", "department": "MATH", "course_code": "120A", "course_name": "Calculus I", "units": 3.0},
  {"id": "MATH-120B", "department": "MATH", "course_code": "120B", "course_name": "Calculus II", "units": 3.0}
]`

const sectionsFixture = `[
  {
    "id": "CISC-203-FALL", "year": 2024, "term": "Fall", "department": "CISC", "course_code": "203",
    "course_sections": [
      {
        "class_number": 2041, "section_name": "001", "section_number": "001", "section_type": "Lecture",
        "enrollment_capacity": 80, "enrollment_total": 10,
        "dates": [{"day": "Monday", "start_time": "09:30", "end_time": "10:30", "start_date": "2024-09-05", "end_date": "2024-12-05", "instructors": ["Prof X"], "location": "Goodwin 254"}]
      },
      {
        "class_number": 2042, "section_name": "002", "section_number": "002", "section_type": "Tutorial",
        "enrollment_capacity": 80, "enrollment_total": 0,
        "dates": [{"day": "Tuesday", "start_time": "09:30", "end_time": "10:30", "start_date": "2024-09-05", "end_date": "2024-12-05", "instructors": [], "location": "Goodwin 254"}]
      }
    ]
  }
]`

func TestLoadLinksSectionsAndFiltersNonLectures(t *testing.T) {
	dir := writeBundle(t, map[string]string{
		"courses.json":  coursesFixture,
		"sections.json": sectionsFixture,
	})

	cat, err := NewLoader(nil, nil).Load(dir)
	require.NoError(t, err)

	course, ok := cat.Course("CISC-203")
	require.True(t, ok)
	require.True(t, course.OfferedIn(models.TermFall))
	sections := course.SectionsIn(models.TermFall)
	require.Len(t, sections, 1, "tutorial sections are invisible to the encoder")
	assert.Equal(t, "CISC-203-001", sections[0].ID)
	assert.Equal(t, 9*60+30, sections[0].Dates[0].StartMinute)
}

func TestLoadParsesRequirementBundles(t *testing.T) {
	dir := writeBundle(t, map[string]string{
		"courses.json": coursesFixture,
		"requirements.json": `[
		  {"id": "CISC-203", "requirements": [
		    {"type": "PREREQUISITE", "criteria": "CISC-121"},
		    {"type": "COREQUISITE", "criteria": "NONE"},
		    {"type": "EXCLUSION", "criteria": "NONE"}
		  ]}
		]`,
	})

	cat, err := NewLoader(nil, nil).Load(dir)
	require.NoError(t, err)

	course, _ := cat.Course("CISC-203")
	require.NotNil(t, course.Requirements)
	require.NotNil(t, course.Requirements.Prerequisite)
	assert.Equal(t, []string{"CISC-121"}, course.Requirements.Prerequisite.Atoms())
	assert.Nil(t, course.Requirements.Corequisite)
	assert.Nil(t, course.Requirements.Exclusion)
}

func TestLoadRejectsMalformedRequirement(t *testing.T) {
	dir := writeBundle(t, map[string]string{
		"courses.json": coursesFixture,
		"requirements.json": `[
		  {"id": "CISC-203", "requirements": [{"type": "PREREQUISITE", "criteria": "CISC-121 AND"}]}
		]`,
	})

	_, err := NewLoader(nil, nil).Load(dir)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrIngestion.Code, appErrors.FromError(err).Code)
}

func TestLoadRejectsUnknownSectionCourse(t *testing.T) {
	dir := writeBundle(t, map[string]string{
		"sections.json": sectionsFixture,
	})

	_, err := NewLoader(nil, nil).Load(dir)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrIngestion.Code, appErrors.FromError(err).Code)
}

func TestLoadRejectsOverfullSection(t *testing.T) {
	dir := writeBundle(t, map[string]string{
		"courses.json": coursesFixture,
		"sections.json": `[
		  {"id": "CISC-203-FALL", "term": "FALL", "department": "CISC", "course_code": "203",
		   "course_sections": [
		     {"class_number": 1, "section_name": "001", "section_number": "001", "section_type": "Lecture",
		      "enrollment_capacity": 10, "enrollment_total": 11, "dates": []}
		   ]}
		]`,
	})

	_, err := NewLoader(nil, nil).Load(dir)
	require.Error(t, err)
}

func TestLoadFullYearSubstitution(t *testing.T) {
	dir := writeBundle(t, map[string]string{
		"courses.json": coursesFixture,
		"students.json": `[
		  {"name": "Alice", "academic_year": "SECONDYEAR", "program": "COMP",
		   "completed_courses": ["MATH-120"], "course_wish_list": ["CISC-203"], "friends": []}
		]`,
	})

	cat, err := NewLoader(nil, nil).Load(dir)
	require.NoError(t, err)

	alice, ok := cat.Student("Alice")
	require.True(t, ok)
	assert.True(t, alice.HasCompleted("MATH-120A"))
	assert.True(t, alice.HasCompleted("MATH-120B"))
	assert.False(t, alice.HasCompleted("MATH-120"))
	assert.True(t, alice.Wishes("CISC-203"))
}

func TestLoadDropsUnknownWishedCourse(t *testing.T) {
	dir := writeBundle(t, map[string]string{
		"courses.json": coursesFixture,
		"students.json": `[
		  {"name": "Alice", "course_wish_list": ["ZZZZ-999", "CISC-121"], "completed_courses": [], "friends": []}
		]`,
	})

	cat, err := NewLoader(nil, nil).Load(dir)
	require.NoError(t, err)
	alice, _ := cat.Student("Alice")
	assert.Len(t, alice.WishList, 1)
}

func TestLoadRejectsUnknownFriend(t *testing.T) {
	dir := writeBundle(t, map[string]string{
		"courses.json": coursesFixture,
		"students.json": `[
		  {"name": "Alice", "course_wish_list": [], "completed_courses": [],
		   "friends": [{"name": "Ghost", "shared_courses": []}]}
		]`,
	})

	_, err := NewLoader(nil, nil).Load(dir)
	require.Error(t, err)
}

func TestLoadResolvesFriendEdgesBothWays(t *testing.T) {
	dir := writeBundle(t, map[string]string{
		"courses.json": coursesFixture,
		"students.json": `[
		  {"name": "Alice", "course_wish_list": ["CISC-203"], "completed_courses": [],
		   "friends": [{"name": "Bob", "shared_courses": ["CISC-203"]}]},
		  {"name": "Bob", "course_wish_list": ["CISC-203"], "completed_courses": [],
		   "friends": [{"name": "Alice", "shared_courses": ["CISC-203"]}]}
		]`,
	})

	cat, err := NewLoader(nil, nil).Load(dir)
	require.NoError(t, err)

	alice, _ := cat.Student("Alice")
	bob, _ := cat.Student("Bob")
	assert.True(t, cat.Reciprocal(alice, bob, "CISC-203"))
	assert.True(t, cat.Reciprocal(bob, alice, "CISC-203"))
	assert.False(t, cat.Reciprocal(alice, bob, "CISC-121"))
}

func TestLoadMalformedJSONFails(t *testing.T) {
	dir := writeBundle(t, map[string]string{"courses.json": "{not json"})
	_, err := NewLoader(nil, nil).Load(dir)
	require.Error(t, err)
}

func TestLoadDepartments(t *testing.T) {
	dir := writeBundle(t, map[string]string{
		"departments.json": `[{"id": "1", "code": "CISC", "name": "School of Computing"}]`,
	})
	cat, err := NewLoader(nil, nil).Load(dir)
	require.NoError(t, err)
	require.Len(t, cat.Departments, 1)
	assert.Equal(t, "CISC", cat.Departments[0].Code)
}
