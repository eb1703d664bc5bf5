package attendance

import (
	"fmt"
	"math"

	"github.com/trezcool/darasa/core/roster"
)

// SummarizeCourses computes the course-wide report: one row per classroom, in roster order.
//
// The denominator is enrolled students x recorded sessions, so the percentage only makes sense
// if every enrolled student is expected at every session.
func SummarizeCourses(classrooms []roster.Classroom, students []roster.Student, events []Event) []CourseSummary {
	res := make([]CourseSummary, 0, len(classrooms))
	for _, c := range classrooms {
		var sessions, present int
		for _, evt := range events {
			if evt.Course == c.Name {
				sessions++
				present += len(evt.PresentStudents)
			}
		}

		row := CourseSummary{
			Course:  c.Name,
			Total:   len(c.Enrolled(students)) * sessions,
			Present: present,
		}
		if row.Total > 0 {
			row.Percent = int(math.Floor(float64(row.Present)/float64(row.Total)*100 + 0.5))
		}
		res = append(res, row)
	}
	return res
}

// SummarizeStudent computes studentID's report: one row per course with at least one session,
// in order of first session. A course is reported if the student is enrolled in it or
// was marked present at one of its sessions.
func SummarizeStudent(studentID string, classrooms []roster.Classroom, students []roster.Student, events []Event) []StudentCourseSummary {
	enrolled := make(map[string]bool)
	for _, c := range classrooms {
		for _, id := range c.Enrolled(students) {
			if id == studentID {
				enrolled[c.Name] = true
				break
			}
		}
	}

	var order []string
	groups := make(map[string]*StudentCourseSummary)
	for _, evt := range events {
		row, ok := groups[evt.Course]
		if !ok {
			row = &StudentCourseSummary{Course: evt.Course}
			groups[evt.Course] = row
			order = append(order, evt.Course)
		}
		row.Total++
		if evt.Attended(studentID) {
			row.Present++
		}
	}

	res := make([]StudentCourseSummary, 0, len(order))
	for _, course := range order {
		row := groups[course]
		if !enrolled[course] && row.Present == 0 {
			continue
		}
		row.Percent = "0.00"
		if row.Total > 0 {
			row.Percent = fmt.Sprintf("%.2f", roundHalfUp(float64(row.Present)/float64(row.Total)*100, 2))
		}
		res = append(res, *row)
	}
	return res
}

// roundHalfUp rounds x to the given number of decimals, ties away from zero.
// %.2f alone rounds exact binary ties to even (3.125 -> "3.12").
func roundHalfUp(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Floor(x*p+0.5) / p
}
