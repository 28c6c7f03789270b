// Package sat is the constraint-encoding engine. It defines the
// propositional vocabulary over the entity graph, compiles enrollment
// rules, restrictions, requirement bundles and friendships into CNF,
// and projects satisfying models back into per-student timetables.
package sat

import (
	"fmt"

	"github.com/noah-isme/schedule-sensei/internal/models"
)

// Registry interns propositional variables by structural identity:
// requesting the same logical proposition twice yields the same
// variable. Variables are numbered from 1 in creation order, which is
// deterministic given deterministic encoder iteration.
type Registry struct {
	vars  map[string]int
	names []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{vars: map[string]int{}}
}

func (r *Registry) intern(key string) int {
	if v, ok := r.vars[key]; ok {
		return v
	}
	v := len(r.names) + 1
	r.vars[key] = v
	r.names = append(r.names, key)
	return v
}

// NumVars returns the number of interned variables.
func (r *Registry) NumVars() int {
	return len(r.names)
}

// Name returns the structural key of a variable, for diagnostics.
func (r *Registry) Name(v int) string {
	if v < 1 || v > len(r.names) {
		return fmt.Sprintf("?%d", v)
	}
	return r.names[v-1]
}

// Enrolled: the student takes the course in some term.
func (r *Registry) Enrolled(student, course string) int {
	return r.intern("enrolled|" + student + "|" + course)
}

// InTerm: the student takes the course in the given term.
func (r *Registry) InTerm(student, course string, term models.Term) int {
	return r.intern("interm|" + student + "|" + course + "|" + term.String())
}

// InSection: the student takes the given section of the course.
func (r *Registry) InSection(student, course string, term models.Term, section string) int {
	return r.intern("insection|" + student + "|" + course + "|" + term.String() + "|" + section)
}

// HasCapacity: the section has a free seat.
func (r *Registry) HasCapacity(course string, term models.Term, section string) int {
	return r.intern("hascapacity|" + course + "|" + term.String() + "|" + section)
}

// ExclusionOk: the course's exclusion rule is satisfied for the student.
func (r *Registry) ExclusionOk(student, course string) int {
	return r.intern("exclusionok|" + student + "|" + course)
}

// PrereqOk: the course's prerequisite rule is satisfied for the student.
func (r *Registry) PrereqOk(student, course string) int {
	return r.intern("prereqok|" + student + "|" + course)
}

// CoreqOk: the course's corequisite rule is satisfied for the student.
func (r *Registry) CoreqOk(student, course string) int {
	return r.intern("coreqok|" + student + "|" + course)
}

// ExclusionWitness: atom x of the course's exclusion rule is present in
// the student's completed or wished set.
func (r *Registry) ExclusionWitness(student, course, atom string) int {
	return r.intern("excluded|" + student + "|" + course + "|" + atom)
}

// PrereqWitness: atom x of the prerequisite rule is completed or
// co-scheduled by the student.
func (r *Registry) PrereqWitness(student, course, atom string) int {
	return r.intern("prereqtaken|" + student + "|" + course + "|" + atom)
}

// CoreqWitness: atom x of the corequisite rule is completed or
// co-scheduled by the student.
func (r *Registry) CoreqWitness(student, course, atom string) int {
	return r.intern("coreqtaken|" + student + "|" + course + "|" + atom)
}

// Friendship: unordered mutual-friend edge between two students.
func (r *Registry) Friendship(s1, s2 string) int {
	if s2 < s1 {
		s1, s2 = s2, s1
	}
	return r.intern("friendship|" + s1 + "|" + s2)
}

// Aux allocates a fresh auxiliary variable for CNF transformation.
func (r *Registry) Aux(tag string) int {
	return r.intern(fmt.Sprintf("aux|%s|%d", tag, len(r.names)+1))
}
