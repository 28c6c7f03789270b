// Package catalog owns the typed entity graph built from a catalog
// bundle: courses with their lecture sections, students with resolved
// wish lists, and the parsed requirement rules. The graph is read-only
// after ingestion and may be shared between solves.
package catalog

import (
	"sort"

	"github.com/noah-isme/schedule-sensei/internal/models"
)

// Catalog is the entity graph handed to the encoder. Collections are
// keyed by the entity's natural id; ordered accessors provide the
// deterministic iteration the encoder relies on.
type Catalog struct {
	Courses     map[string]*models.Course
	Sections    map[string]*models.Section
	Students    map[string]*models.Student
	Departments []models.Department
}

// CourseList returns all courses ordered by id.
func (c *Catalog) CourseList() []*models.Course {
	ids := make([]string, 0, len(c.Courses))
	for id := range c.Courses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	courses := make([]*models.Course, 0, len(ids))
	for _, id := range ids {
		courses = append(courses, c.Courses[id])
	}
	return courses
}

// StudentList returns all students ordered by name.
func (c *Catalog) StudentList() []*models.Student {
	names := make([]string, 0, len(c.Students))
	for name := range c.Students {
		names = append(names, name)
	}
	sort.Strings(names)
	students := make([]*models.Student, 0, len(names))
	for _, name := range names {
		students = append(students, c.Students[name])
	}
	return students
}

// Course resolves a course id.
func (c *Catalog) Course(id string) (*models.Course, bool) {
	course, ok := c.Courses[id]
	return course, ok
}

// Section resolves a section id.
func (c *Catalog) Section(id string) (*models.Section, bool) {
	section, ok := c.Sections[id]
	return section, ok
}

// Student resolves a student name.
func (c *Catalog) Student(name string) (*models.Student, bool) {
	student, ok := c.Students[name]
	return student, ok
}

// Reciprocal reports whether the friendship edge s1 -> s2 is mutual and
// the course is shared in both directions and wished by both students.
func (c *Catalog) Reciprocal(s1, s2 *models.Student, courseID string) bool {
	f12, ok := s1.Friends[s2.Name]
	if !ok {
		return false
	}
	f21, ok := s2.Friends[s1.Name]
	if !ok {
		return false
	}
	return f12.SharesCourse(courseID) && f21.SharesCourse(courseID) &&
		s1.Wishes(courseID) && s2.Wishes(courseID)
}
