// Package reminder decides which tasks are due a reminder and renders the
// reminder email.
package reminder

import (
	"slices"
	"time"

	"github.com/ncobase/remind/data/repository"
)

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// DayDiff returns the number of days until due, rounding partial days up.
// The difference is taken at millisecond precision, so a due date 12 hours
// ahead yields 1 and one a millisecond in the past yields 0.
func DayDiff(due, now time.Time) int {
	ms := due.Sub(now).Milliseconds()
	if ms > 0 {
		return int((ms + dayMillis - 1) / dayMillis)
	}
	return int(ms / dayMillis)
}

// IsDue reports whether task should be reminded at now: it must be
// incomplete, have a due date, and its day difference must appear in its
// reminder schedule.
func IsDue(task *repository.Task, now time.Time) bool {
	if task == nil || task.Completed || task.DueDate == nil || task.DueDate.IsZero() {
		return false
	}
	if len(task.ReminderSchedule) == 0 {
		return false
	}
	return slices.Contains(task.ReminderSchedule, DayDiff(*task.DueDate, now))
}

// ListDue returns the tasks due a reminder at now, in input order.
func ListDue(tasks []*repository.Task, now time.Time) []*repository.Task {
	due := make([]*repository.Task, 0, len(tasks))
	for _, t := range tasks {
		if IsDue(t, now) {
			due = append(due, t)
		}
	}
	return due
}
