package models

import "fmt"

// TBA marks a section-date component whose value is still to be announced.
const TBA = "TBA"

// SectionDate is one weekly meeting of a section. Times are carried both
// as the raw "HH:MM" strings from the feed and as minutes since midnight
// for overlap arithmetic. A date with any TBA component never conflicts
// with anything.
type SectionDate struct {
	Day         string
	StartDate   string
	EndDate     string
	StartTime   string
	EndTime     string
	StartMinute int
	EndMinute   int
	Instructors []string
	Location    string
}

// IsTBA reports whether any scheduling component of the date is TBA.
func (d SectionDate) IsTBA() bool {
	return d.Day == TBA || d.StartTime == TBA || d.EndTime == TBA || d.StartDate == TBA || d.EndDate == TBA
}

// Overlaps reports whether two weekly meetings collide. Intervals are
// half-open over minutes since midnight; the start/end date range is not
// consulted, weekly overlap alone defines a collision.
func (d SectionDate) Overlaps(other SectionDate) bool {
	if d.IsTBA() || other.IsTBA() {
		return false
	}
	if d.Day != other.Day {
		return false
	}
	return d.StartMinute < other.EndMinute && d.EndMinute > other.StartMinute
}

// Section is a concrete lecture instance of a course in one term.
type Section struct {
	ID                 string
	CourseID           string
	Term               Term
	ClassNumber        int
	SectionName        string
	SectionNumber      string
	SectionType        string
	CombinedWith       string
	EnrollmentCapacity int
	EnrollmentTotal    int
	WaitlistCapacity   int
	WaitlistTotal      int
	LastUpdated        string
	Dates              []SectionDate
}

// FreeSeats returns the remaining enrollment headroom.
func (s *Section) FreeSeats() int {
	free := s.EnrollmentCapacity - s.EnrollmentTotal
	if free < 0 {
		return 0
	}
	return free
}

// ConflictsWith decides whether two sections overlap in time. The
// relation is symmetric, and a section with at least one concrete
// meeting conflicts with itself.
func (s *Section) ConflictsWith(other *Section) bool {
	for _, d1 := range s.Dates {
		for _, d2 := range other.Dates {
			if d1.Overlaps(d2) {
				return true
			}
		}
	}
	return false
}

func (s *Section) String() string {
	return fmt.Sprintf("%s (%s %s)", s.ID, s.Term, s.SectionName)
}
