package schedule

import (
	"testing"
	"time"

	"github.com/example/studyplan/internal/domain"
)

func TestAgendaQueries(t *testing.T) {
	reviews := []domain.Review{
		{ID: "r1", LectureID: "a", TargetDate: mustDate(t, "2024-01-01")},
		{ID: "r2", LectureID: "b", TargetDate: mustDate(t, "2024-01-05")},
		{ID: "r3", LectureID: "c", TargetDate: mustDate(t, "2024-01-10")},
		{ID: "r4", LectureID: "d", TargetDate: mustDate(t, "2024-01-05")},
	}
	today := mustDate(t, "2024-01-05")

	if due := DueOn(reviews, today); len(due) != 2 {
		t.Errorf("Expected 2 reviews due on %s, but got %d", today, len(due))
	}
	if late := Overdue(reviews, today); len(late) != 1 || late[0].ID != "r1" {
		t.Errorf("Expected only r1 overdue, but got %+v", late)
	}

	window := Window(reviews, mustDate(t, "2024-01-02"), mustDate(t, "2024-01-10"))
	if len(window) != 3 {
		t.Fatalf("Expected 3 reviews in the window, but got %d", len(window))
	}
	for i := 1; i < len(window); i++ {
		if window[i].TargetDate.Before(window[i-1].TargetDate) {
			t.Errorf("Expected window sorted by target date, but got %+v", window)
		}
	}
}

func TestItemsOn(t *testing.T) {
	st := domain.State{
		Subjects: []domain.Subject{{ID: "sub-1", Name: "Anatomy"}},
		Lectures: []domain.Lecture{{ID: "lec-1", SubjectID: "sub-1", Name: "Thorax", FirstStudyDate: mustDate(t, "2024-01-01")}},
		Reviews: []domain.Review{
			{ID: "r1", LectureID: "lec-1", SubjectID: "sub-1", TargetDate: mustDate(t, "2024-01-02")},
		},
		DailyTasks: []domain.DailyTask{
			{ID: "t1", Text: "Buy flashcards", Date: mustDate(t, "2024-01-02"), IsCompleted: true, CreatedAt: time.Now()},
			{ID: "t2", Text: "Other day", Date: mustDate(t, "2024-01-03")},
		},
	}

	items := ItemsOn(st, mustDate(t, "2024-01-02"))
	if len(items) != 2 {
		t.Fatalf("Expected 2 agenda items, but got %d", len(items))
	}
	if items[0].Kind != "review" || items[0].Text != "Anatomy: Thorax" {
		t.Errorf("Expected the review listed first with subject and lecture names, but got %+v", items[0])
	}
	if items[1].Kind != "task" || !items[1].Done {
		t.Errorf("Expected the completed task second, but got %+v", items[1])
	}
}

func TestHighlightedDays(t *testing.T) {
	st := domain.State{
		Reviews: []domain.Review{
			{ID: "r1", TargetDate: mustDate(t, "2024-01-05")},
			{ID: "r2", TargetDate: mustDate(t, "2024-01-02")},
		},
		DailyTasks: []domain.DailyTask{
			{ID: "t1", Date: mustDate(t, "2024-01-05")},
			{ID: "t2", Date: mustDate(t, "2024-01-09")},
		},
	}
	days := HighlightedDays(st)
	if len(days) != 3 {
		t.Fatalf("Expected 3 distinct days, but got %d", len(days))
	}
	if days[0].String() != "2024-01-02" || days[2].String() != "2024-01-09" {
		t.Errorf("Expected days sorted ascending, but got %v", days)
	}
}

func TestSummarise(t *testing.T) {
	today := mustDate(t, "2024-01-10")
	st := domain.State{
		Lectures: []domain.Lecture{
			{ID: "a", CompletedReviewCycles: 2},
			{ID: "b", CompletedReviewCycles: 3},
			{ID: "c"},
		},
		Reviews: []domain.Review{
			{ID: "r1", LectureID: "a", TargetDate: mustDate(t, "2024-01-02")}, // critically overdue
			{ID: "r2", LectureID: "b", TargetDate: mustDate(t, "2024-01-09")}, // overdue
			{ID: "r3", LectureID: "c", TargetDate: mustDate(t, "2024-01-10")}, // due today
		},
	}

	stats := Summarise(st, today)
	if stats.TotalCompletedCycles != 5 {
		t.Errorf("Expected 5 total completed cycles, but got %d", stats.TotalCompletedCycles)
	}
	if stats.LecturesWithPending != 3 {
		t.Errorf("Expected 3 lectures with pending reviews, but got %d", stats.LecturesWithPending)
	}
	if stats.PendingReviews != 3 {
		t.Errorf("Expected 3 pending reviews, but got %d", stats.PendingReviews)
	}
	if stats.OverdueReviews != 2 {
		t.Errorf("Expected 2 overdue reviews, but got %d", stats.OverdueReviews)
	}
	if stats.CriticallyOverdue != 1 {
		t.Errorf("Expected 1 critically overdue review, but got %d", stats.CriticallyOverdue)
	}
	if stats.DueToday != 1 {
		t.Errorf("Expected 1 review due today, but got %d", stats.DueToday)
	}
}
