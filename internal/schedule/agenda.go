package schedule

import (
	"sort"
	"time"

	"github.com/example/studyplan/internal/domain"
)

// CriticalOverdueDays is how many days past the target date a pending
// review counts as critically overdue.
const CriticalOverdueDays = 3

// DueOn returns the pending reviews targeted at exactly the given day.
func DueOn(reviews []domain.Review, day domain.Date) []domain.Review {
	var due []domain.Review
	for _, r := range reviews {
		if r.TargetDate.Equal(day) {
			due = append(due, r)
		}
	}
	return due
}

// Overdue returns the pending reviews whose target date is strictly
// before today.
func Overdue(reviews []domain.Review, today domain.Date) []domain.Review {
	var late []domain.Review
	for _, r := range reviews {
		if !r.TargetDate.IsZero() && r.TargetDate.Before(today) {
			late = append(late, r)
		}
	}
	return late
}

// Window returns the pending reviews with target dates inside [from, to],
// sorted by target date.
func Window(reviews []domain.Review, from, to domain.Date) []domain.Review {
	var inside []domain.Review
	for _, r := range reviews {
		if r.TargetDate.IsZero() {
			continue
		}
		if !r.TargetDate.Before(from) && !r.TargetDate.After(to) {
			inside = append(inside, r)
		}
	}
	sort.Slice(inside, func(i, j int) bool {
		return inside[i].TargetDate.Before(inside[j].TargetDate)
	})
	return inside
}

// WeekBounds returns the Monday and Sunday of the week containing d.
func WeekBounds(d domain.Date) (domain.Date, domain.Date) {
	weekday := int(d.Time().Weekday())
	// time.Sunday is 0; shift so Monday is the start of the week.
	offset := (weekday + 6) % 7
	start := d.AddDays(-offset)
	return start, start.AddDays(6)
}

// MonthBounds returns the first and last day of the month containing d.
func MonthBounds(d domain.Date) (domain.Date, domain.Date) {
	y, m, _ := d.Time().Date()
	start := domain.NewDate(y, m, 1)
	return start, start.AddDays(daysInMonth(y, m) - 1)
}

func daysInMonth(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AgendaItem is one entry of the merged daily agenda: either a pending
// review (labelled with its subject and lecture) or an ad-hoc task.
type AgendaItem struct {
	ID     string
	Kind   string // "review" or "task"
	Text   string
	Done   bool
	Target domain.Date
}

// ItemsOn merges the pending reviews and daily tasks falling on one day
// into a display agenda: reviews first, then tasks, each sorted by text.
func ItemsOn(st domain.State, day domain.Date) []AgendaItem {
	var items []AgendaItem
	for _, r := range DueOn(st.Reviews, day) {
		text := "-"
		if sub, ok := st.SubjectByID(r.SubjectID); ok {
			text = sub.Name
		}
		if lec, ok := st.LectureByID(r.LectureID); ok {
			text += ": " + lec.Name
		}
		items = append(items, AgendaItem{ID: r.ID, Kind: "review", Text: text, Target: day})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Text < items[j].Text })

	var tasks []AgendaItem
	for _, task := range st.DailyTasks {
		if task.Date.Equal(day) {
			tasks = append(tasks, AgendaItem{ID: task.ID, Kind: "task", Text: task.Text, Done: task.IsCompleted, Target: day})
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Text < tasks[j].Text })

	return append(items, tasks...)
}

// HighlightedDays returns every date that carries a pending review or a
// daily task, for calendar highlighting.
func HighlightedDays(st domain.State) []domain.Date {
	seen := make(map[string]domain.Date)
	for _, r := range st.Reviews {
		if !r.TargetDate.IsZero() {
			seen[r.TargetDate.String()] = r.TargetDate
		}
	}
	for _, task := range st.DailyTasks {
		if !task.Date.IsZero() {
			seen[task.Date.String()] = task.Date
		}
	}
	days := make([]domain.Date, 0, len(seen))
	for _, d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// Stats summarises the snapshot for the dashboard.
type Stats struct {
	TotalCompletedCycles int
	LecturesWithPending  int
	PendingReviews       int
	OverdueReviews       int
	CriticallyOverdue    int
	DueToday             int
}

// Summarise computes dashboard statistics as of today.
func Summarise(st domain.State, today domain.Date) Stats {
	stats := Stats{PendingReviews: len(st.Reviews)}
	for _, lec := range st.Lectures {
		stats.TotalCompletedCycles += lec.CompletedReviewCycles
	}
	withPending := make(map[string]bool)
	criticalBefore := today.AddDays(-CriticalOverdueDays)
	for _, r := range st.Reviews {
		withPending[r.LectureID] = true
		if r.TargetDate.IsZero() {
			continue
		}
		if r.TargetDate.Before(today) {
			stats.OverdueReviews++
		}
		if r.TargetDate.Before(criticalBefore) {
			stats.CriticallyOverdue++
		}
		if r.TargetDate.Equal(today) {
			stats.DueToday++
		}
	}
	stats.LecturesWithPending = len(withPending)
	return stats
}
