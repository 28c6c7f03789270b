package models

import (
	"encoding/json"
	"sort"

	"github.com/noah-isme/schedule-sensei/internal/logic"
)

// RequirementKind discriminates the three requirement rule families.
type RequirementKind string

const (
	KindPrerequisite RequirementKind = "PREREQUISITE"
	KindCorequisite  RequirementKind = "COREQUISITE"
	KindExclusion    RequirementKind = "EXCLUSION"
)

// RequirementBundle carries the parsed requirement rules of a course.
// A nil expression means the feed said NONE for that kind.
type RequirementBundle struct {
	Exclusion    *logic.Expr
	Prerequisite *logic.Expr
	Corequisite  *logic.Expr
}

// Course is an immutable catalog entry keyed by its code (e.g. "CISC-203").
type Course struct {
	ID               string
	Department       string
	CourseCode       string
	CourseName       string
	Campus           string
	Description      string
	GradingBasis     string
	CourseComponents json.RawMessage
	AddConsent       string
	DropConsent      string
	AcademicLevel    string
	AcademicGroup    string
	AcademicOrg      string
	Units            float64
	CEAB             json.RawMessage

	// Requirements is nil when the feed carries no bundle for the course.
	Requirements *RequirementBundle

	// Sections groups the course's lecture sections by term.
	Sections map[Term][]*Section
}

// OfferedTerms returns the terms with at least one lecture section, in
// temporal order.
func (c *Course) OfferedTerms() []Term {
	var terms []Term
	for _, t := range AllTerms {
		if len(c.Sections[t]) > 0 {
			terms = append(terms, t)
		}
	}
	return terms
}

// OfferedIn reports whether the course has a lecture section in the term.
func (c *Course) OfferedIn(t Term) bool {
	return len(c.Sections[t]) > 0
}

// SectionsIn returns the term's lecture sections ordered by section id.
func (c *Course) SectionsIn(t Term) []*Section {
	sections := append([]*Section(nil), c.Sections[t]...)
	sort.Slice(sections, func(i, j int) bool { return sections[i].ID < sections[j].ID })
	return sections
}

// AddSection attaches a lecture section under its term.
func (c *Course) AddSection(s *Section) {
	if c.Sections == nil {
		c.Sections = make(map[Term][]*Section)
	}
	c.Sections[s.Term] = append(c.Sections[s.Term], s)
}

func (c *Course) String() string {
	return c.ID
}

// Department is used for display only.
type Department struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// TestCase mirrors one entry of tests.config.json.
type TestCase struct {
	ID          int    `json:"id"`
	Test        string `json:"test"`
	Description string `json:"description"`
	Location    string `json:"location"`
}
