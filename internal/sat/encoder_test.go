package sat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/schedule-sensei/internal/catalog"
	"github.com/noah-isme/schedule-sensei/internal/logic"
	"github.com/noah-isme/schedule-sensei/internal/models"
	"github.com/noah-isme/schedule-sensei/internal/solver"
)

// --- Fixtures ---

func lecture(courseID, number string, term models.Term, day string, startMin, endMin, capacity, enrolled int) *models.Section {
	return &models.Section{
		ID:                 courseID + "-" + number,
		CourseID:           courseID,
		Term:               term,
		SectionNumber:      number,
		SectionName:        number,
		SectionType:        "Lecture",
		EnrollmentCapacity: capacity,
		EnrollmentTotal:    enrolled,
		Dates: []models.SectionDate{{
			Day:         day,
			StartTime:   "09:00",
			EndTime:     "10:00",
			StartDate:   "2024-09-05",
			EndDate:     "2024-12-05",
			StartMinute: startMin,
			EndMinute:   endMin,
		}},
	}
}

func course(id string, sections ...*models.Section) *models.Course {
	c := &models.Course{ID: id, Sections: map[models.Term][]*models.Section{}}
	for _, s := range sections {
		c.AddSection(s)
	}
	return c
}

func student(name string, wished, completed []*models.Course) *models.Student {
	s := &models.Student{
		Name:      name,
		Completed: map[string]*models.Course{},
		WishList:  map[string]*models.Course{},
		Friends:   map[string]models.Friend{},
	}
	for _, c := range wished {
		s.WishList[c.ID] = c
	}
	for _, c := range completed {
		s.Completed[c.ID] = c
	}
	return s
}

func buildCatalog(courses []*models.Course, students []*models.Student) *catalog.Catalog {
	cat := &catalog.Catalog{
		Courses:  map[string]*models.Course{},
		Sections: map[string]*models.Section{},
		Students: map[string]*models.Student{},
	}
	for _, c := range courses {
		cat.Courses[c.ID] = c
		for _, sections := range c.Sections {
			for _, s := range sections {
				cat.Sections[s.ID] = s
			}
		}
	}
	for _, s := range students {
		cat.Students[s.Name] = s
	}
	return cat
}

func solve(t *testing.T, cat *catalog.Catalog) (Schedule, bool) {
	t.Helper()
	enc := NewEncoder(cat, nil)
	enc.Encode()
	handle := solver.NewHandle(enc.Theory().Clauses(), enc.Theory().NumVars())
	model, sat := handle.Solve()
	if !sat {
		return nil, false
	}
	return Decode(model, enc.Registry(), cat), true
}

func mustExpr(t *testing.T, raw string) *logic.Expr {
	t.Helper()
	expr, err := logic.Parse(raw)
	require.NoError(t, err)
	return expr
}

// --- Scenarios ---

func TestSingleStudentSingleSection(t *testing.T) {
	math := course("MATH-101", lecture("MATH-101", "001", models.TermFall, "Monday", 9*60, 10*60, 30, 0))
	alice := student("A", []*models.Course{math}, nil)
	cat := buildCatalog([]*models.Course{math}, []*models.Student{alice})

	schedule, sat := solve(t, cat)
	require.True(t, sat)
	assert.Equal(t, []string{"MATH-101-001"}, schedule["A"][models.TermFall])
	assert.Empty(t, schedule["A"][models.TermWinter])
}

func TestTimeConflictForcesUnsat(t *testing.T) {
	x := course("CISC-101", lecture("CISC-101", "001", models.TermFall, "Monday", 9*60, 10*60+30, 30, 0))
	y := course("CISC-102", lecture("CISC-102", "001", models.TermFall, "Monday", 9*60, 10*60+30, 30, 0))
	s := student("A", []*models.Course{x, y}, nil)
	cat := buildCatalog([]*models.Course{x, y}, []*models.Student{s})

	_, sat := solve(t, cat)
	assert.False(t, sat)
}

func TestConflictingCoursesSplitAcrossTerms(t *testing.T) {
	x := course("CISC-101",
		lecture("CISC-101", "001", models.TermFall, "Monday", 9*60, 10*60+30, 30, 0),
		lecture("CISC-101", "002", models.TermWinter, "Monday", 9*60, 10*60+30, 30, 0))
	y := course("CISC-102", lecture("CISC-102", "001", models.TermFall, "Monday", 9*60, 10*60+30, 30, 0))
	s := student("A", []*models.Course{x, y}, nil)
	cat := buildCatalog([]*models.Course{x, y}, []*models.Student{s})

	schedule, sat := solve(t, cat)
	require.True(t, sat)
	assert.Equal(t, []string{"CISC-102-001"}, schedule["A"][models.TermFall])
	assert.Equal(t, []string{"CISC-101-002"}, schedule["A"][models.TermWinter])
}

func TestCapacitySqueezeUnsat(t *testing.T) {
	z := course("CISC-110", lecture("CISC-110", "001", models.TermFall, "Monday", 9*60, 10*60, 2, 0))
	students := []*models.Student{
		student("A", []*models.Course{z}, nil),
		student("B", []*models.Course{z}, nil),
		student("C", []*models.Course{z}, nil),
	}
	cat := buildCatalog([]*models.Course{z}, students)

	_, sat := solve(t, cat)
	assert.False(t, sat)
}

func TestCapacityExactFitSat(t *testing.T) {
	z := course("CISC-110", lecture("CISC-110", "001", models.TermFall, "Monday", 9*60, 10*60, 2, 0))
	students := []*models.Student{
		student("A", []*models.Course{z}, nil),
		student("B", []*models.Course{z}, nil),
	}
	cat := buildCatalog([]*models.Course{z}, students)

	schedule, sat := solve(t, cat)
	require.True(t, sat)
	assert.Equal(t, []string{"CISC-110-001"}, schedule["A"][models.TermFall])
	assert.Equal(t, []string{"CISC-110-001"}, schedule["B"][models.TermFall])
}

func TestFullSectionRejectsEveryone(t *testing.T) {
	z := course("CISC-110", lecture("CISC-110", "001", models.TermFall, "Monday", 9*60, 10*60, 30, 30))
	s := student("A", []*models.Course{z}, nil)
	cat := buildCatalog([]*models.Course{z}, []*models.Student{s})

	_, sat := solve(t, cat)
	assert.False(t, sat)
}

func TestPrerequisiteViaCoschedule(t *testing.T) {
	c1 := course("CISC-121",
		lecture("CISC-121", "001", models.TermFall, "Monday", 9*60, 10*60, 30, 0),
		lecture("CISC-121", "002", models.TermWinter, "Tuesday", 9*60, 10*60, 30, 0))
	c2 := course("CISC-203",
		lecture("CISC-203", "001", models.TermFall, "Wednesday", 9*60, 10*60, 30, 0),
		lecture("CISC-203", "002", models.TermWinter, "Thursday", 9*60, 10*60, 30, 0))
	c2.Requirements = &models.RequirementBundle{Prerequisite: mustExpr(t, "CISC-121")}

	s := student("A", []*models.Course{c1, c2}, nil)
	cat := buildCatalog([]*models.Course{c1, c2}, []*models.Student{s})

	schedule, sat := solve(t, cat)
	require.True(t, sat)
	assert.Equal(t, []string{"CISC-121-001"}, schedule["A"][models.TermFall])
	assert.Equal(t, []string{"CISC-203-002"}, schedule["A"][models.TermWinter])
}

func TestPrerequisiteCompletedSat(t *testing.T) {
	c1 := course("CISC-121")
	c2 := course("CISC-203", lecture("CISC-203", "001", models.TermFall, "Monday", 9*60, 10*60, 30, 0))
	c2.Requirements = &models.RequirementBundle{Prerequisite: mustExpr(t, "CISC-121")}

	s := student("A", []*models.Course{c2}, []*models.Course{c1})
	cat := buildCatalog([]*models.Course{c1, c2}, []*models.Student{s})

	_, sat := solve(t, cat)
	assert.True(t, sat)
}

func TestPrerequisiteMissingUnsat(t *testing.T) {
	c2 := course("CISC-203", lecture("CISC-203", "001", models.TermFall, "Monday", 9*60, 10*60, 30, 0))
	c2.Requirements = &models.RequirementBundle{Prerequisite: mustExpr(t, "CISC-121")}

	s := student("A", []*models.Course{c2}, nil)
	cat := buildCatalog([]*models.Course{c2}, []*models.Student{s})

	_, sat := solve(t, cat)
	assert.False(t, sat)
}

func TestCorequisiteAllowsSameTerm(t *testing.T) {
	c1 := course("CISC-102", lecture("CISC-102", "001", models.TermFall, "Monday", 9*60, 10*60, 30, 0))
	c2 := course("CISC-203", lecture("CISC-203", "001", models.TermFall, "Wednesday", 9*60, 10*60, 30, 0))
	c2.Requirements = &models.RequirementBundle{Corequisite: mustExpr(t, "CISC-102")}

	s := student("A", []*models.Course{c1, c2}, nil)
	cat := buildCatalog([]*models.Course{c1, c2}, []*models.Student{s})

	schedule, sat := solve(t, cat)
	require.True(t, sat)
	assert.ElementsMatch(t, []string{"CISC-102-001", "CISC-203-001"}, schedule["A"][models.TermFall])
}

func TestPrerequisiteRejectsSameTermOnlyOption(t *testing.T) {
	// Both courses only offered in FALL: a wished-only prerequisite can
	// never strictly precede, so the plan is infeasible.
	c1 := course("CISC-102", lecture("CISC-102", "001", models.TermFall, "Monday", 9*60, 10*60, 30, 0))
	c2 := course("CISC-203", lecture("CISC-203", "001", models.TermFall, "Wednesday", 9*60, 10*60, 30, 0))
	c2.Requirements = &models.RequirementBundle{Prerequisite: mustExpr(t, "CISC-102")}

	s := student("A", []*models.Course{c1, c2}, nil)
	cat := buildCatalog([]*models.Course{c1, c2}, []*models.Student{s})

	_, sat := solve(t, cat)
	assert.False(t, sat)
}

func TestExclusionRule(t *testing.T) {
	oldCourse := course("CISC-200")
	newCourse := course("CISC-201", lecture("CISC-201", "001", models.TermFall, "Monday", 9*60, 10*60, 30, 0))
	newCourse.Requirements = &models.RequirementBundle{Exclusion: mustExpr(t, "CISC-200")}

	withHistory := student("A", []*models.Course{newCourse}, []*models.Course{oldCourse})
	cat := buildCatalog([]*models.Course{oldCourse, newCourse}, []*models.Student{withHistory})
	_, sat := solve(t, cat)
	assert.False(t, sat)

	clean := student("A", []*models.Course{newCourse}, nil)
	cat = buildCatalog([]*models.Course{oldCourse, newCourse}, []*models.Student{clean})
	_, sat = solve(t, cat)
	assert.True(t, sat)
}

func TestExclusionWithBooleanStructure(t *testing.T) {
	a := course("MATH-110")
	b := course("MATH-111")
	target := course("MATH-112", lecture("MATH-112", "001", models.TermFall, "Monday", 9*60, 10*60, 30, 0))
	target.Requirements = &models.RequirementBundle{Exclusion: mustExpr(t, "MATH-110 AND MATH-111")}

	// Only one of the excluded pair completed: the conjunction is not
	// satisfied, so enrollment stays admissible.
	s := student("A", []*models.Course{target}, []*models.Course{a})
	cat := buildCatalog([]*models.Course{a, b, target}, []*models.Student{s})
	_, sat := solve(t, cat)
	assert.True(t, sat)

	s = student("A", []*models.Course{target}, []*models.Course{a, b})
	cat = buildCatalog([]*models.Course{a, b, target}, []*models.Student{s})
	_, sat = solve(t, cat)
	assert.False(t, sat)
}

func TestUnknownRequirementAtomIsUnsatisfiable(t *testing.T) {
	c := course("CISC-203", lecture("CISC-203", "001", models.TermFall, "Monday", 9*60, 10*60, 30, 0))
	c.Requirements = &models.RequirementBundle{Prerequisite: mustExpr(t, "ZZZZ-999")}

	s := student("A", []*models.Course{c}, nil)
	cat := buildCatalog([]*models.Course{c}, []*models.Student{s})

	_, sat := solve(t, cat)
	assert.False(t, sat)
}

func TestWishedCourseWithoutOfferingsUnsat(t *testing.T) {
	ghost := course("CISC-999")
	s := student("A", []*models.Course{ghost}, nil)
	cat := buildCatalog([]*models.Course{ghost}, []*models.Student{s})

	_, sat := solve(t, cat)
	assert.False(t, sat)
}

func TestMutualFriendsShareSection(t *testing.T) {
	cs := course("CSCI-101",
		lecture("CSCI-101", "001", models.TermFall, "Monday", 9*60, 10*60, 100, 0),
		lecture("CSCI-101", "002", models.TermFall, "Tuesday", 9*60, 10*60, 100, 0))

	a := student("A", []*models.Course{cs}, nil)
	b := student("B", []*models.Course{cs}, nil)
	a.Friends["B"] = models.Friend{Name: "B", SharedCourses: map[string]*models.Course{cs.ID: cs}}
	b.Friends["A"] = models.Friend{Name: "A", SharedCourses: map[string]*models.Course{cs.ID: cs}}

	cat := buildCatalog([]*models.Course{cs}, []*models.Student{a, b})

	schedule, sat := solve(t, cat)
	require.True(t, sat)
	require.Len(t, schedule["A"][models.TermFall], 1)
	assert.Equal(t, schedule["A"][models.TermFall], schedule["B"][models.TermFall])
}

func TestOneSidedFriendshipDoesNotBind(t *testing.T) {
	cs := course("CSCI-101",
		lecture("CSCI-101", "001", models.TermFall, "Monday", 9*60, 10*60, 100, 0),
		lecture("CSCI-101", "002", models.TermFall, "Tuesday", 9*60, 10*60, 100, 0))

	a := student("A", []*models.Course{cs}, nil)
	b := student("B", []*models.Course{cs}, nil)
	a.Friends["B"] = models.Friend{Name: "B", SharedCourses: map[string]*models.Course{cs.ID: cs}}

	cat := buildCatalog([]*models.Course{cs}, []*models.Student{a, b})

	_, sat := solve(t, cat)
	// Feasible regardless; the Friendship proposition is pinned false.
	require.True(t, sat)

	enc := NewEncoder(cat, nil)
	enc.Encode()
	handle := solver.NewHandle(enc.Theory().Clauses(), enc.Theory().NumVars())
	model, ok := handle.Solve()
	require.True(t, ok)
	friendship := enc.Registry().Friendship("A", "B")
	assert.False(t, model[friendship-1])
}

// --- Universal properties ---

func TestExclusivityAndCoverage(t *testing.T) {
	c := course("CISC-101",
		lecture("CISC-101", "001", models.TermFall, "Monday", 9*60, 10*60, 30, 0),
		lecture("CISC-101", "002", models.TermFall, "Tuesday", 9*60, 10*60, 30, 0),
		lecture("CISC-101", "003", models.TermWinter, "Monday", 9*60, 10*60, 30, 0))
	s := student("A", []*models.Course{c}, nil)
	cat := buildCatalog([]*models.Course{c}, []*models.Student{s})

	schedule, sat := solve(t, cat)
	require.True(t, sat)

	total := 0
	for _, sections := range schedule["A"] {
		total += len(sections)
	}
	assert.Equal(t, 1, total, "exactly one (term, section) per enrolled course")
}

func TestDeterministicEncoding(t *testing.T) {
	build := func() [][]int {
		c1 := course("CISC-101", lecture("CISC-101", "001", models.TermFall, "Monday", 9*60, 10*60, 30, 0))
		c2 := course("CISC-102", lecture("CISC-102", "001", models.TermWinter, "Tuesday", 9*60, 10*60, 30, 0))
		s := student("A", []*models.Course{c1, c2}, nil)
		cat := buildCatalog([]*models.Course{c1, c2}, []*models.Student{s})
		enc := NewEncoder(cat, nil)
		enc.Encode()
		return enc.Theory().Clauses()
	}
	assert.Equal(t, build(), build())
}
