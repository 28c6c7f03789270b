package sat

import (
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sensei/internal/models"
)

// encodeEnrollmentRules emits the course/term/section selection
// skeleton for every (student, wished course) pair:
//
//	Enrolled -> some offered term     (empty offering leaves the empty
//	                                   disjunction, forcing UNSAT)
//	at most one term; unit negations for unoffered terms
//	InTerm -> some section of that term
//	at most one section per (course, term)
//	InSection -> its term
//	Enrolled asserted outright (every wished course is mandatory)
func (e *Encoder) encodeEnrollmentRules() {
	for _, student := range e.cat.StudentList() {
		wished := student.WishedCourses()
		if len(wished) == 0 {
			e.logger.Warn("student does not wish to take any courses, is this an error?",
				zap.String("student", student.Name))
			continue
		}
		for _, course := range wished {
			enrolled := e.reg.Enrolled(student.Name, course.ID)
			e.th.AddUnit(enrolled)

			offered := course.OfferedTerms()
			if len(offered) == 0 {
				e.logger.Warn("wished course is not offered in any term",
					zap.String("student", student.Name), zap.String("course", course.ID))
			}

			termLits := make([]int, 0, len(offered))
			clause := []int{-enrolled}
			for _, term := range offered {
				lit := e.reg.InTerm(student.Name, course.ID, term)
				termLits = append(termLits, lit)
				clause = append(clause, lit)
			}
			e.th.AddClause(clause...)
			e.th.AtMostOne(termLits)

			for _, term := range models.AllTerms {
				if !course.OfferedIn(term) {
					e.th.AddUnit(-e.reg.InTerm(student.Name, course.ID, term))
				}
			}

			for _, term := range offered {
				inTerm := e.reg.InTerm(student.Name, course.ID, term)
				sections := course.SectionsIn(term)
				sectionLits := make([]int, 0, len(sections))
				sectionClause := []int{-inTerm}
				for _, section := range sections {
					lit := e.reg.InSection(student.Name, course.ID, term, section.ID)
					sectionLits = append(sectionLits, lit)
					sectionClause = append(sectionClause, lit)
					e.th.AddImplication(lit, inTerm)
				}
				e.th.AddClause(sectionClause...)
				e.th.AtMostOne(sectionLits)
			}
		}
	}
}
