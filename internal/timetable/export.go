package timetable

import "github.com/noah-isme/schedule-sensei/pkg/export"

// Dataset flattens timetable views into the tabular shape the exporters
// consume, one row per weekly meeting.
func Dataset(views []StudentView) export.Dataset {
	headers := []string{"Student", "Term", "Section", "Start", "End", "Location"}
	data := export.Dataset{Headers: headers}
	for _, student := range views {
		for _, term := range student.Terms {
			for _, course := range term.Courses {
				if len(course.Dates) == 0 {
					data.Rows = append(data.Rows, map[string]string{
						"Student": student.Student,
						"Term":    term.Term,
						"Section": course.Course,
					})
					continue
				}
				for _, date := range course.Dates {
					data.Rows = append(data.Rows, map[string]string{
						"Student":  student.Student,
						"Term":     term.Term,
						"Section":  course.Course,
						"Start":    date.StartTime,
						"End":      date.EndTime,
						"Location": date.Location,
					})
				}
			}
		}
	}
	if len(data.Rows) == 0 {
		data.Rows = append(data.Rows, map[string]string{"Student": "no enrollments"})
	}
	return data
}
