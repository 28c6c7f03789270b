package sat

import "sort"

// encodeFriendships pins the Friendship proposition of every unordered
// student pair to the mutuality of their friend edges, then forces
// mutually wished shared courses into a common section:
//
//	Enrolled(s1,c) and Enrolled(s2,c) and Friendship(s1,s2)
//	    -> some (term, section) picked by both
func (e *Encoder) encodeFriendships() {
	students := e.cat.StudentList()

	for i := 0; i < len(students); i++ {
		for j := i + 1; j < len(students); j++ {
			s1, s2 := students[i], students[j]
			friendship := e.reg.Friendship(s1.Name, s2.Name)
			if s1.HasFriend(s2.Name) && s2.HasFriend(s1.Name) {
				e.th.AddUnit(friendship)
			} else {
				e.th.AddUnit(-friendship)
				continue
			}

			edge := s1.Friends[s2.Name]
			shared := make([]string, 0, len(edge.SharedCourses))
			for id := range edge.SharedCourses {
				shared = append(shared, id)
			}
			sort.Strings(shared)

			for _, courseID := range shared {
				if !e.cat.Reciprocal(s1, s2, courseID) {
					continue
				}
				course := e.cat.Courses[courseID]

				var options []Formula
				for _, term := range course.OfferedTerms() {
					for _, section := range course.SectionsIn(term) {
						options = append(options, And(
							Lit(e.reg.InSection(s1.Name, courseID, term, section.ID)),
							Lit(e.reg.InSection(s2.Name, courseID, term, section.ID)),
						))
					}
				}

				together := e.th.Encode(Or(options...))
				e.th.AddClause(
					-e.reg.Enrolled(s1.Name, courseID),
					-e.reg.Enrolled(s2.Name, courseID),
					-friendship,
					together,
				)
			}
		}
	}
}
