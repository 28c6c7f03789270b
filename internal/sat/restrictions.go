package sat

// encodeRestrictions emits pairwise time-conflict exclusions and
// per-section capacity bounds.
func (e *Encoder) encodeRestrictions() {
	e.encodeTimeConflicts()
	e.encodeCapacities()
}

// encodeTimeConflicts forbids co-enrollment in overlapping sections:
// for each student, each unordered pair of wished courses, each term
// offered by both, and each colliding section pair, at most one of the
// two section picks may hold.
func (e *Encoder) encodeTimeConflicts() {
	for _, student := range e.cat.StudentList() {
		wished := student.WishedCourses()
		for i := 0; i < len(wished); i++ {
			for j := i + 1; j < len(wished); j++ {
				c1, c2 := wished[i], wished[j]
				for _, term := range c1.OfferedTerms() {
					if !c2.OfferedIn(term) {
						continue
					}
					for _, s1 := range c1.SectionsIn(term) {
						for _, s2 := range c2.SectionsIn(term) {
							if !s1.ConflictsWith(s2) {
								continue
							}
							e.th.AddClause(
								-e.reg.InSection(student.Name, c1.ID, term, s1.ID),
								-e.reg.InSection(student.Name, c2.ID, term, s2.ID),
							)
						}
					}
				}
			}
		}
	}
}

// encodeCapacities bounds each section's incoming enrollment by its
// free seats and ties every section pick to the section's HasCapacity
// proposition, which is pinned to the concrete availability.
func (e *Encoder) encodeCapacities() {
	candidates := map[string][]int{}
	var order []string

	for _, student := range e.cat.StudentList() {
		for _, course := range student.WishedCourses() {
			for _, term := range course.OfferedTerms() {
				for _, section := range course.SectionsIn(term) {
					lit := e.reg.InSection(student.Name, course.ID, term, section.ID)

					hasCapacity := e.reg.HasCapacity(course.ID, term, section.ID)
					e.th.AddImplication(lit, hasCapacity)

					if _, seen := candidates[section.ID]; !seen {
						order = append(order, section.ID)
						if section.FreeSeats() > 0 {
							e.th.AddUnit(hasCapacity)
						} else {
							e.th.AddUnit(-hasCapacity)
						}
					}
					candidates[section.ID] = append(candidates[section.ID], lit)
				}
			}
		}
	}

	for _, sectionID := range order {
		section := e.cat.Sections[sectionID]
		lits := candidates[sectionID]
		free := section.FreeSeats()
		switch {
		case free == 0:
			for _, lit := range lits {
				e.th.AddUnit(-lit)
			}
		case len(lits) > free:
			e.th.AtMostK(lits, free)
		}
	}
}
