// Package timetable projects a decoded schedule onto the current week
// so calendar frontends can render concrete meeting datetimes.
package timetable

import (
	"time"

	"github.com/noah-isme/schedule-sensei/internal/catalog"
	"github.com/noah-isme/schedule-sensei/internal/models"
	"github.com/noah-isme/schedule-sensei/internal/sat"
)

// DateView is one weekly meeting mapped onto a concrete date. TBA
// components render as the literal string TBA.
type DateView struct {
	StartTime string `json:"starttime"`
	EndTime   string `json:"endtime"`
	Location  string `json:"location"`
}

// CourseView is one enrolled section with its mapped meetings.
type CourseView struct {
	Course string     `json:"course"`
	Dates  []DateView `json:"dates"`
}

// TermView groups a student's sections by term.
type TermView struct {
	Term    string       `json:"term"`
	Courses []CourseView `json:"courses"`
}

// StudentView is one student's solved timetable.
type StudentView struct {
	Student string     `json:"student"`
	Terms   []TermView `json:"terms"`
}

const timestampLayout = "2006-01-02T15:04:05"

// Build converts a decoded schedule into view models. Meetings are
// anchored to the week containing now, starting on Sunday. A nil
// schedule (UNSAT) yields nil, matching the downstream contract.
func Build(schedule sat.Schedule, cat *catalog.Catalog, now time.Time) []StudentView {
	if schedule == nil {
		return nil
	}

	week := weekdayDates(now)
	var views []StudentView
	for _, student := range cat.StudentList() {
		view := StudentView{Student: student.Name}
		terms := schedule[student.Name]
		for _, term := range models.AllTerms {
			sectionIDs := terms[term]
			if len(sectionIDs) == 0 {
				continue
			}
			termView := TermView{Term: term.String()}
			for _, id := range sectionIDs {
				section, ok := cat.Section(id)
				if !ok {
					continue
				}
				courseView := CourseView{Course: section.ID}
				for _, d := range section.Dates {
					courseView.Dates = append(courseView.Dates, mapMeeting(d, week))
				}
				termView.Courses = append(termView.Courses, courseView)
			}
			view.Terms = append(view.Terms, termView)
		}
		views = append(views, view)
	}
	return views
}

func mapMeeting(d models.SectionDate, week map[string]time.Time) DateView {
	if d.IsTBA() {
		return DateView{StartTime: models.TBA, EndTime: models.TBA, Location: d.Location}
	}
	day, ok := week[d.Day]
	if !ok {
		return DateView{StartTime: models.TBA, EndTime: models.TBA, Location: d.Location}
	}
	start := day.Add(time.Duration(d.StartMinute) * time.Minute)
	end := day.Add(time.Duration(d.EndMinute) * time.Minute)
	return DateView{
		StartTime: start.Format(timestampLayout),
		EndTime:   end.Format(timestampLayout),
		Location:  d.Location,
	}
}

// weekdayDates maps weekday names onto the week containing the
// reference date, anchored on Sunday.
func weekdayDates(ref time.Time) map[string]time.Time {
	midnight := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	sunday := midnight.AddDate(0, 0, -int(midnight.Weekday()))

	names := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	week := make(map[string]time.Time, len(names))
	for i, name := range names {
		week[name] = sunday.AddDate(0, 0, i)
	}
	return week
}
