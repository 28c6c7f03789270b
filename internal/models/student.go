package models

import "sort"

// Friend is one edge of a student's friend list together with the
// courses the student would like to take with that friend.
type Friend struct {
	Name          string
	SharedCourses map[string]*Course
}

// SharesCourse reports whether the friend edge names the course.
func (f Friend) SharesCourse(courseID string) bool {
	_, ok := f.SharedCourses[courseID]
	return ok
}

// Student holds a roster entry after ingestion. Completed and wished
// courses are resolved course references; friends are kept as named
// edges and resolved back to students through the catalog on demand.
type Student struct {
	Name         string
	AcademicYear string
	Program      string

	Completed map[string]*Course
	WishList  map[string]*Course
	Friends   map[string]Friend
}

// Wishes reports whether the course id is on the student's wish list.
func (s *Student) Wishes(courseID string) bool {
	_, ok := s.WishList[courseID]
	return ok
}

// HasCompleted reports whether the student already passed the course.
func (s *Student) HasCompleted(courseID string) bool {
	_, ok := s.Completed[courseID]
	return ok
}

// WishedCourses returns the wish list ordered by course id.
func (s *Student) WishedCourses() []*Course {
	ids := make([]string, 0, len(s.WishList))
	for id := range s.WishList {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	courses := make([]*Course, 0, len(ids))
	for _, id := range ids {
		courses = append(courses, s.WishList[id])
	}
	return courses
}

// HasFriend reports whether the student lists the named student as a friend.
func (s *Student) HasFriend(name string) bool {
	_, ok := s.Friends[name]
	return ok
}

func (s *Student) String() string {
	return s.Name
}

// SolveRecord is the audit-trail row appended after each solve. It
// stores run metadata only, never the model itself.
type SolveRecord struct {
	ID           string `db:"id"`
	TestCase     int    `db:"test_case"`
	StudentCount int    `db:"student_count"`
	Variables    int    `db:"variables"`
	Clauses      int    `db:"clauses"`
	Outcome      string `db:"outcome"`
	DurationMS   int64  `db:"duration_ms"`
}
