package outing

import (
	"fmt"
	"time"
)

// CannedSchedule is the fixed timetable of the example plan.
const CannedSchedule = "14:00 depart → 14:30 cafe → 16:00 walk → 17:30 back home"

const planTemplate = `
[Example plan]
- Starting point: %s
- Activity: Drop by a quiet cafe nearby, then take an easy walk. A park where you can feel some nature is a good pick.
- Schedule: %s
`

// PlanTemplate returns the example plan with only the starting location
// filled in. Genres, time slot and intensity are deliberately not used;
// real planning is left to the model.
func PlanTemplate(location string) string {
	return fmt.Sprintf(planTemplate, location, CannedSchedule)
}

// Filename returns the download name of a plan submitted at t, for example
// outing_plan_2024-01-05.txt. The date is taken in t's own location.
func Filename(t time.Time) string {
	return FilenameForDate(t.Format(time.DateOnly))
}

// FilenameForDate builds the download name from an ISO-8601 date string.
func FilenameForDate(date string) string {
	return "outing_plan_" + date + ".txt"
}
