package sat

import (
	"github.com/noah-isme/schedule-sensei/internal/logic"
	"github.com/noah-isme/schedule-sensei/internal/models"
)

// encodeRequirements compiles every wished course's requirement bundle.
// Each rule kind gets a satisfaction proposition (ExclusionOk, PrereqOk,
// CoreqOk) that gates Enrolled; the rule's boolean expression is
// compiled over per-atom witness variables whose truth is pinned from
// the student's completed and wished sets.
func (e *Encoder) encodeRequirements() {
	for _, student := range e.cat.StudentList() {
		for _, course := range student.WishedCourses() {
			exclusionOk := e.reg.ExclusionOk(student.Name, course.ID)
			prereqOk := e.reg.PrereqOk(student.Name, course.ID)
			coreqOk := e.reg.CoreqOk(student.Name, course.ID)

			enrolled := e.reg.Enrolled(student.Name, course.ID)
			e.th.AddImplication(enrolled, exclusionOk)
			e.th.AddImplication(enrolled, prereqOk)
			e.th.AddImplication(enrolled, coreqOk)

			bundle := course.Requirements
			if bundle == nil {
				e.th.AddUnit(exclusionOk)
				e.th.AddUnit(prereqOk)
				e.th.AddUnit(coreqOk)
				continue
			}

			e.encodeExclusionRule(student, course, bundle.Exclusion, exclusionOk)
			e.encodeRequisiteRule(student, course, bundle.Prerequisite, prereqOk, models.KindPrerequisite)
			e.encodeRequisiteRule(student, course, bundle.Corequisite, coreqOk, models.KindCorequisite)
		}
	}
}

// encodeExclusionRule pins one witness per atom (present in the
// student's completed or wished set) and asserts
// ExclusionOk <-> NOT rule(witnesses): the rule evaluating true means
// an excluded course is present and the rule is broken.
func (e *Encoder) encodeExclusionRule(student *models.Student, course *models.Course, rule *logic.Expr, ok int) {
	if rule == nil {
		e.th.AddUnit(ok)
		return
	}
	for _, atom := range rule.Atoms() {
		witness := e.reg.ExclusionWitness(student.Name, course.ID, atom)
		if student.HasCompleted(atom) || student.Wishes(atom) {
			e.th.AddUnit(witness)
		} else {
			e.th.AddUnit(-witness)
		}
	}
	e.th.AssertEquiv(ok, Not(e.compileRule(rule, func(atom string) int {
		return e.reg.ExclusionWitness(student.Name, course.ID, atom)
	})))
}

// encodeRequisiteRule handles prerequisites and corequisites. A
// completed atom's witness is pinned true; a wished-only atom's witness
// is pinned true together with a temporal ordering constraint (strictly
// before for prerequisites, same-or-before for corequisites); anything
// else, including atoms unknown to the catalog, is pinned false.
func (e *Encoder) encodeRequisiteRule(student *models.Student, course *models.Course, rule *logic.Expr, ok int, kind models.RequirementKind) {
	if rule == nil {
		e.th.AddUnit(ok)
		return
	}

	witness := func(atom string) int {
		if kind == models.KindPrerequisite {
			return e.reg.PrereqWitness(student.Name, course.ID, atom)
		}
		return e.reg.CoreqWitness(student.Name, course.ID, atom)
	}

	for _, atom := range rule.Atoms() {
		w := witness(atom)
		switch {
		case student.HasCompleted(atom):
			e.th.AddUnit(w)
		case student.Wishes(atom):
			e.th.AddUnit(w)
			e.encodeTemporalOrdering(student, course, student.WishList[atom], kind)
		default:
			e.th.AddUnit(-w)
		}
	}

	e.th.AssertEquiv(ok, e.compileRule(rule, witness))
}

// encodeTemporalOrdering forces a co-scheduled requisite into an
// admissible term relative to the dependent course: for every term the
// dependent course may occupy, the requisite must land in a strictly
// earlier term (prerequisite) or the same term or earlier (corequisite).
// When no admissible term exists the dependent term is forbidden.
func (e *Encoder) encodeTemporalOrdering(student *models.Student, course, requisite *models.Course, kind models.RequirementKind) {
	for _, term := range course.OfferedTerms() {
		inTerm := e.reg.InTerm(student.Name, course.ID, term)
		clause := []int{-inTerm}
		for _, earlier := range requisite.OfferedTerms() {
			admissible := earlier.Before(term)
			if kind == models.KindCorequisite {
				admissible = earlier.Before(term) || earlier == term
			}
			if admissible {
				clause = append(clause, e.reg.InTerm(student.Name, requisite.ID, earlier))
			}
		}
		e.th.AddClause(clause...)
	}
}

// compileRule lowers a requirement expression tree onto witness
// literals by structural recursion.
func (e *Encoder) compileRule(rule *logic.Expr, witness func(atom string) int) Formula {
	switch rule.Op {
	case logic.OpAtom:
		return Lit(witness(rule.Atom))
	case logic.OpNot:
		return Not(e.compileRule(rule.Left, witness))
	case logic.OpAnd:
		return And(e.compileRule(rule.Left, witness), e.compileRule(rule.Right, witness))
	default:
		return Or(e.compileRule(rule.Left, witness), e.compileRule(rule.Right, witness))
	}
}
