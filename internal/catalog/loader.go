package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sensei/internal/logic"
	"github.com/noah-isme/schedule-sensei/internal/models"
	appErrors "github.com/noah-isme/schedule-sensei/pkg/errors"
)

// Section types other than Lecture are not scheduled and are dropped at
// ingestion, mirroring the upstream feed contract.
var unscheduledSectionTypes = map[string]struct{}{
	"Laboratory": {}, "Tutorial": {}, "Seminar": {}, "Online": {},
	"IndividualStudy": {}, "Clinical": {}, "Research": {}, "Project": {},
	"Practicum": {}, "Blended": {}, "Exam": {}, "Demonstration": {},
	"ThesisResearch": {}, "FieldStudies": {},
}

type courseRecord struct {
	ID               string          `json:"id" validate:"required"`
	Department       string          `json:"department" validate:"required"`
	CourseCode       string          `json:"course_code" validate:"required"`
	CourseName       string          `json:"course_name"`
	Campus           string          `json:"campus"`
	Description      string          `json:"description"`
	GradingBasis     string          `json:"grading_basis"`
	CourseComponents json.RawMessage `json:"course_components"`
	Requirements     json.RawMessage `json:"requirements"`
	AddConsent       string          `json:"add_consent"`
	DropConsent      string          `json:"drop_consent"`
	AcademicLevel    string          `json:"academic_level"`
	AcademicGroup    string          `json:"academic_group"`
	AcademicOrg      string          `json:"academic_org"`
	Units            json.Number     `json:"units"`
	CEAB             json.RawMessage `json:"CEAB"`
}

type requirementRecord struct {
	ID           string `json:"id" validate:"required"`
	Requirements []struct {
		Type     string `json:"type" validate:"required"`
		Criteria string `json:"criteria" validate:"required"`
	} `json:"requirements" validate:"required,dive"`
}

type dateRecord struct {
	Day         string   `json:"day"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Instructors []string `json:"instructors"`
	Location    string   `json:"location"`
}

type innerSectionRecord struct {
	ClassNumber        int          `json:"class_number"`
	CombinedWith       string       `json:"combined_with"`
	Dates              []dateRecord `json:"dates"`
	EnrollmentCapacity int          `json:"enrollment_capacity"`
	EnrollmentTotal    int          `json:"enrollment_total"`
	LastUpdated        string       `json:"last_updated"`
	SectionName        string       `json:"section_name" validate:"required"`
	SectionNumber      string       `json:"section_number" validate:"required"`
	SectionType        string       `json:"section_type" validate:"required"`
	WaitlistCapacity   int          `json:"waitlist_capacity"`
	WaitlistTotal      int          `json:"waitlist_total"`
}

type sectionRecord struct {
	ID             string               `json:"id" validate:"required"`
	Year           json.Number          `json:"year"`
	Term           string               `json:"term" validate:"required"`
	Department     string               `json:"department" validate:"required"`
	CourseCode     string               `json:"course_code" validate:"required"`
	CourseName     string               `json:"course_name"`
	Units          json.Number          `json:"units"`
	Campus         string               `json:"campus"`
	AcademicLevel  string               `json:"academic_level"`
	CourseSections []innerSectionRecord `json:"course_sections" validate:"dive"`
}

type friendRecord struct {
	Name          string   `json:"name" validate:"required"`
	SharedCourses []string `json:"shared_courses"`
}

type studentRecord struct {
	Name             string         `json:"name" validate:"required"`
	AcademicYear     string         `json:"academic_year"`
	Program          string         `json:"program"`
	CompletedCourses []string       `json:"completed_courses"`
	CourseWishList   []string       `json:"course_wish_list"`
	Friends          []friendRecord `json:"friends" validate:"dive"`
}

// Loader ingests a catalog bundle directory holding courses.json,
// sections.json, requirements.json, students.json and departments.json.
type Loader struct {
	validate *validator.Validate
	logger   *zap.Logger
}

// NewLoader wires loader dependencies.
func NewLoader(validate *validator.Validate, logger *zap.Logger) *Loader {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{validate: validate, logger: logger}
}

// Load reads the five bundle files and links the entity graph. Any
// malformed record, unknown course reference on a section, requirement
// parse failure or broken invariant aborts ingestion.
func (l *Loader) Load(dir string) (*Catalog, error) {
	cat := &Catalog{
		Courses:  map[string]*models.Course{},
		Sections: map[string]*models.Section{},
		Students: map[string]*models.Student{},
	}

	if err := l.loadCourses(cat, filepath.Join(dir, "courses.json")); err != nil {
		return nil, err
	}
	if err := l.loadRequirements(cat, filepath.Join(dir, "requirements.json")); err != nil {
		return nil, err
	}
	if err := l.loadSections(cat, filepath.Join(dir, "sections.json")); err != nil {
		return nil, err
	}
	if err := l.loadStudents(cat, filepath.Join(dir, "students.json")); err != nil {
		return nil, err
	}
	if err := l.loadDepartments(cat, filepath.Join(dir, "departments.json")); err != nil {
		return nil, err
	}

	return cat, nil
}

func readJSONFile(path string, dest interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrIngestion.Code, appErrors.ErrIngestion.Status, fmt.Sprintf("failed to read %s", filepath.Base(path)))
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrIngestion.Code, appErrors.ErrIngestion.Status, fmt.Sprintf("malformed JSON in %s", filepath.Base(path)))
	}
	return nil
}

func (l *Loader) loadCourses(cat *Catalog, path string) error {
	var records []courseRecord
	if err := readJSONFile(path, &records); err != nil {
		return err
	}
	for _, rec := range records {
		if err := l.validate.Struct(rec); err != nil {
			return appErrors.Wrap(err, appErrors.ErrIngestion.Code, appErrors.ErrIngestion.Status, fmt.Sprintf("invalid course record %q", rec.ID))
		}
		units, _ := rec.Units.Float64()
		course := &models.Course{
			ID:               rec.ID,
			Department:       rec.Department,
			CourseCode:       rec.CourseCode,
			CourseName:       rec.CourseName,
			Campus:           rec.Campus,
			Description:      rec.Description,
			GradingBasis:     rec.GradingBasis,
			CourseComponents: rec.CourseComponents,
			AddConsent:       rec.AddConsent,
			DropConsent:      rec.DropConsent,
			AcademicLevel:    rec.AcademicLevel,
			AcademicGroup:    rec.AcademicGroup,
			AcademicOrg:      rec.AcademicOrg,
			Units:            units,
			CEAB:             rec.CEAB,
			Sections:         map[models.Term][]*models.Section{},
		}
		cat.Courses[course.ID] = course
	}
	return nil
}

func (l *Loader) loadRequirements(cat *Catalog, path string) error {
	var records []requirementRecord
	if err := readJSONFile(path, &records); err != nil {
		return err
	}
	for _, rec := range records {
		if err := l.validate.Struct(rec); err != nil {
			return appErrors.Wrap(err, appErrors.ErrIngestion.Code, appErrors.ErrIngestion.Status, fmt.Sprintf("invalid requirement record %q", rec.ID))
		}
		course, ok := cat.Courses[rec.ID]
		if !ok {
			l.logger.Warn("requirement bundle references unknown course", zap.String("course", rec.ID))
			continue
		}
		bundle := &models.RequirementBundle{}
		for _, rule := range rec.Requirements {
			expr, err := parseCriteria(rule.Criteria)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrIngestion.Code, appErrors.ErrIngestion.Status,
					fmt.Sprintf("failed to parse %s rule for %s", rule.Type, rec.ID))
			}
			switch models.RequirementKind(rule.Type) {
			case models.KindPrerequisite:
				bundle.Prerequisite = expr
			case models.KindCorequisite:
				bundle.Corequisite = expr
			case models.KindExclusion:
				bundle.Exclusion = expr
			default:
				l.logger.Warn("unknown requirement type", zap.String("course", rec.ID), zap.String("type", rule.Type))
			}
		}
		course.Requirements = bundle
	}
	return nil
}

func parseCriteria(criteria string) (*logic.Expr, error) {
	if strings.TrimSpace(criteria) == "NONE" {
		return nil, nil
	}
	return logic.Parse(criteria)
}

func (l *Loader) loadSections(cat *Catalog, path string) error {
	var records []sectionRecord
	if err := readJSONFile(path, &records); err != nil {
		return err
	}
	for _, parent := range records {
		if err := l.validate.Struct(parent); err != nil {
			return appErrors.Wrap(err, appErrors.ErrIngestion.Code, appErrors.ErrIngestion.Status, fmt.Sprintf("invalid section record %q", parent.ID))
		}
		term, err := models.ParseTerm(parent.Term)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrIngestion.Code, appErrors.ErrIngestion.Status, fmt.Sprintf("section record %q", parent.ID))
		}
		courseID := fmt.Sprintf("%s-%s", parent.Department, parent.CourseCode)
		course, ok := cat.Courses[courseID]
		if !ok {
			return appErrors.Clone(appErrors.ErrIngestion, fmt.Sprintf("section record %q references unknown course %s", parent.ID, courseID))
		}
		for _, inner := range parent.CourseSections {
			if inner.SectionType != "Lecture" {
				continue
			}
			if inner.EnrollmentTotal > inner.EnrollmentCapacity {
				return appErrors.Clone(appErrors.ErrIngestion,
					fmt.Sprintf("section %s-%s enrollment exceeds capacity", courseID, inner.SectionNumber))
			}
			section := &models.Section{
				ID:                 fmt.Sprintf("%s-%s", courseID, inner.SectionNumber),
				CourseID:           courseID,
				Term:               term,
				ClassNumber:        inner.ClassNumber,
				SectionName:        inner.SectionName,
				SectionNumber:      inner.SectionNumber,
				SectionType:        inner.SectionType,
				CombinedWith:       inner.CombinedWith,
				EnrollmentCapacity: inner.EnrollmentCapacity,
				EnrollmentTotal:    inner.EnrollmentTotal,
				WaitlistCapacity:   inner.WaitlistCapacity,
				WaitlistTotal:      inner.WaitlistTotal,
				LastUpdated:        inner.LastUpdated,
			}
			for _, d := range inner.Dates {
				mapped, err := mapDate(d)
				if err != nil {
					return appErrors.Wrap(err, appErrors.ErrIngestion.Code, appErrors.ErrIngestion.Status, fmt.Sprintf("section %s", section.ID))
				}
				section.Dates = append(section.Dates, mapped)
			}
			if _, exists := cat.Sections[section.ID]; exists {
				return appErrors.Clone(appErrors.ErrIngestion, fmt.Sprintf("duplicate section id %s", section.ID))
			}
			cat.Sections[section.ID] = section
			course.AddSection(section)
		}
	}
	return nil
}

func mapDate(rec dateRecord) (models.SectionDate, error) {
	mapped := models.SectionDate{
		Day:         rec.Day,
		StartDate:   rec.StartDate,
		EndDate:     rec.EndDate,
		StartTime:   rec.StartTime,
		EndTime:     rec.EndTime,
		Instructors: rec.Instructors,
		Location:    rec.Location,
		StartMinute: -1,
		EndMinute:   -1,
	}
	if mapped.IsTBA() {
		return mapped, nil
	}
	start, err := parseMinutes(rec.StartTime)
	if err != nil {
		return mapped, err
	}
	end, err := parseMinutes(rec.EndTime)
	if err != nil {
		return mapped, err
	}
	mapped.StartMinute = start
	mapped.EndMinute = end
	return mapped, nil
}

func parseMinutes(raw string) (int, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", raw)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", raw)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("time %q out of range", raw)
	}
	return hours*60 + minutes, nil
}

func (l *Loader) loadStudents(cat *Catalog, path string) error {
	var records []studentRecord
	if err := readJSONFile(path, &records); err != nil {
		return err
	}
	for _, rec := range records {
		if err := l.validate.Struct(rec); err != nil {
			return appErrors.Wrap(err, appErrors.ErrIngestion.Code, appErrors.ErrIngestion.Status, fmt.Sprintf("invalid student record %q", rec.Name))
		}
		if _, exists := cat.Students[rec.Name]; exists {
			return appErrors.Clone(appErrors.ErrIngestion, fmt.Sprintf("duplicate student name %q", rec.Name))
		}
		student := &models.Student{
			Name:         rec.Name,
			AcademicYear: rec.AcademicYear,
			Program:      rec.Program,
			Completed:    l.resolveCourseRefs(cat, rec.Name, rec.CompletedCourses),
			WishList:     l.resolveCourseRefs(cat, rec.Name, rec.CourseWishList),
			Friends:      map[string]models.Friend{},
		}
		cat.Students[rec.Name] = student
	}

	// Friend edges resolve in a second pass so forward references work.
	for _, rec := range records {
		student := cat.Students[rec.Name]
		for _, fr := range rec.Friends {
			if _, ok := cat.Students[fr.Name]; !ok {
				return appErrors.Clone(appErrors.ErrIngestion,
					fmt.Sprintf("student %q lists unknown friend %q", rec.Name, fr.Name))
			}
			student.Friends[fr.Name] = models.Friend{
				Name:          fr.Name,
				SharedCourses: l.resolveCourseRefs(cat, rec.Name, fr.SharedCourses),
			}
		}
	}
	return nil
}

// resolveCourseRefs maps raw course codes to catalog courses. A base
// code X that is absent from the catalog but whose full-year halves XA
// and XB both exist resolves to both halves. Codes that resolve to
// nothing are dropped with a diagnostic rather than failing the solve.
func (l *Loader) resolveCourseRefs(cat *Catalog, student string, codes []string) map[string]*models.Course {
	resolved := map[string]*models.Course{}
	for _, code := range codes {
		course, direct := cat.Courses[code]
		first, hasFirstHalf := cat.Courses[code+"A"]
		second, hasSecondHalf := cat.Courses[code+"B"]
		switch {
		case direct:
			resolved[course.ID] = course
		case hasFirstHalf && hasSecondHalf:
			resolved[first.ID] = first
			resolved[second.ID] = second
		default:
			l.logger.Warn("dropping unknown course reference",
				zap.String("student", student), zap.String("course", code))
		}
	}
	return resolved
}

func (l *Loader) loadDepartments(cat *Catalog, path string) error {
	var records []models.Department
	if err := readJSONFile(path, &records); err != nil {
		return err
	}
	cat.Departments = records
	return nil
}
