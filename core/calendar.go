package core

import "time"

// Calendar rules. Every comparison here is date-only: values are
// truncated to midnight in their own location before use so that
// time-of-day never skews a due-date decision.

// DateOnly truncates t to midnight in t's location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsWeekday reports whether d falls on Monday through Friday.
func IsWeekday(d time.Time) bool {
	wd := d.Weekday()
	return wd >= time.Monday && wd <= time.Friday
}

// CurrentWeekRange returns the Monday and Sunday of the Monday-start
// week containing ref, both truncated to midnight. A Sunday reference
// counts as the last day of the week that started six days earlier, not
// the first day of the next one.
func CurrentWeekRange(ref time.Time) (weekStart, weekEnd time.Time) {
	day := DateOnly(ref)
	offset := int(day.Weekday()) - int(time.Monday)
	if day.Weekday() == time.Sunday {
		offset = 6
	}
	weekStart = day.AddDate(0, 0, -offset)
	weekEnd = weekStart.AddDate(0, 0, 6)
	return weekStart, weekEnd
}

// DaysUntil returns the whole calendar days from today to dueDate.
// Negative means the due date has passed. The subtraction happens on
// UTC-anchored dates so DST transitions cannot produce 23- or 25-hour
// days.
func DaysUntil(dueDate, today time.Time) int {
	return int(utcDate(dueDate).Sub(utcDate(today)) / (24 * time.Hour))
}

func utcDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsOverdue reports whether a todo with the given due date and status
// is overdue as of today. Completed todos are never overdue.
func IsOverdue(dueDate time.Time, status TodoStatus, today time.Time) bool {
	if status == StatusCompleted {
		return false
	}
	return DaysUntil(dueDate, today) < 0
}

// AlertLevel is the due-date urgency shown next to a todo.
type AlertLevel string

const (
	AlertNone   AlertLevel = "none"
	AlertGreen  AlertLevel = "green"
	AlertYellow AlertLevel = "yellow"
	AlertRed    AlertLevel = "red"
)

// ComputeAlertLevel classifies a todo's urgency: red when overdue,
// yellow when due within two days, green otherwise. Completed todos
// and todos without a due date carry no alert.
func ComputeAlertLevel(todo Todo, today time.Time) AlertLevel {
	if todo.Status == StatusCompleted || todo.DueDate.IsZero() {
		return AlertNone
	}
	switch d := DaysUntil(todo.DueDate, today); {
	case d < 0:
		return AlertRed
	case d <= 2:
		return AlertYellow
	default:
		return AlertGreen
	}
}

// OverdueCount counts todos overdue as of today.
func OverdueCount(todos []Todo, today time.Time) int {
	n := 0
	for _, t := range todos {
		if !t.DueDate.IsZero() && IsOverdue(t.DueDate, t.Status, today) {
			n++
		}
	}
	return n
}
