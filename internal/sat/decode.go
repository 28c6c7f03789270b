package sat

import (
	"github.com/noah-isme/schedule-sensei/internal/catalog"
	"github.com/noah-isme/schedule-sensei/internal/models"
)

// Schedule maps student name -> term -> chosen section ids.
type Schedule map[string]map[models.Term][]string

// Decode projects a satisfying model back onto per-student, per-term
// section lists. Section ids come out ordered by course code because
// the wish-list walk is ordered.
func Decode(model []bool, reg *Registry, cat *catalog.Catalog) Schedule {
	truth := func(v int) bool {
		return v-1 < len(model) && model[v-1]
	}

	schedule := Schedule{}
	for _, student := range cat.StudentList() {
		terms := map[models.Term][]string{}
		for _, course := range student.WishedCourses() {
			if !truth(reg.Enrolled(student.Name, course.ID)) {
				continue
			}
			for _, term := range course.OfferedTerms() {
				if !truth(reg.InTerm(student.Name, course.ID, term)) {
					continue
				}
				for _, section := range course.SectionsIn(term) {
					if truth(reg.InSection(student.Name, course.ID, term, section.ID)) {
						terms[term] = append(terms[term], section.ID)
					}
				}
			}
		}
		schedule[student.Name] = terms
	}
	return schedule
}
