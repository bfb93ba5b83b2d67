package schedule

import (
	"testing"
	"time"

	"github.com/example/studyplan/internal/domain"
)

func stateFixture(t *testing.T) domain.State {
	t.Helper()
	st := domain.State{
		Subjects: []domain.Subject{
			{ID: "sub-1", Name: "Anatomy"},
			{ID: "sub-2", Name: "Physiology"},
		},
	}
	st, ok := AddLecture(st, "sub-1", "Thorax", mustDate(t, "2024-01-01"), "", defaultIntervals)
	if !ok {
		t.Fatal("Failed to set up lecture for sub-1")
	}
	st, ok = AddLecture(st, "sub-2", "Cardiac cycle", mustDate(t, "2024-01-03"), "", defaultIntervals)
	if !ok {
		t.Fatal("Failed to set up lecture for sub-2")
	}
	return st
}

func TestAddLecture(t *testing.T) {
	st := stateFixture(t)
	if len(st.Lectures) != 2 || len(st.Reviews) != 2 {
		t.Fatalf("Expected 2 lectures with 2 pending reviews, but got %d/%d", len(st.Lectures), len(st.Reviews))
	}
	if st.Reviews[0].TargetDate.String() != "2024-01-02" {
		t.Errorf("Expected the first lecture's review on 2024-01-02, but got %s", st.Reviews[0].TargetDate)
	}

	t.Run("rejects unknown subject", func(t *testing.T) {
		if _, ok := AddLecture(st, "missing", "X", mustDate(t, "2024-01-01"), "", defaultIntervals); ok {
			t.Error("Expected a lecture for an unknown subject to be rejected")
		}
	})

	t.Run("rejects blank name", func(t *testing.T) {
		if _, ok := AddLecture(st, "sub-1", "  ", mustDate(t, "2024-01-01"), "", defaultIntervals); ok {
			t.Error("Expected a blank lecture name to be rejected")
		}
	})
}

func TestEditLecture(t *testing.T) {
	t.Run("changing the study date restarts the cadence", func(t *testing.T) {
		st := stateFixture(t)
		lecID := st.Lectures[0].ID

		// Simulate two completed cycles before the edit.
		lectures := make([]domain.Lecture, len(st.Lectures))
		copy(lectures, st.Lectures)
		lectures[0].CompletedReviewCycles = 2
		st.Lectures = lectures

		st, ok := EditLecture(st, lecID, "Thorax", mustDate(t, "2024-02-01"), "", defaultIntervals)
		if !ok {
			t.Fatal("Expected the edit to be accepted")
		}
		if st.Lectures[0].CompletedReviewCycles != 0 {
			t.Errorf("Expected cycles to reset to 0 after a date change, but got %d", st.Lectures[0].CompletedReviewCycles)
		}
		var target string
		for _, r := range st.Reviews {
			if r.LectureID == lecID {
				target = r.TargetDate.String()
			}
		}
		if target != "2024-02-02" {
			t.Errorf("Expected the review reprojected to 2024-02-02, but got %s", target)
		}
	})

	t.Run("keeping the date keeps the cycle counter", func(t *testing.T) {
		st := stateFixture(t)
		lecID := st.Lectures[0].ID
		lectures := make([]domain.Lecture, len(st.Lectures))
		copy(lectures, st.Lectures)
		lectures[0].CompletedReviewCycles = 2
		st.Lectures = lectures

		st, ok := EditLecture(st, lecID, "Thorax and mediastinum", mustDate(t, "2024-01-01"), "note", defaultIntervals)
		if !ok {
			t.Fatal("Expected the edit to be accepted")
		}
		if st.Lectures[0].CompletedReviewCycles != 2 {
			t.Errorf("Expected cycles preserved on a rename, but got %d", st.Lectures[0].CompletedReviewCycles)
		}
		if st.Lectures[0].Name != "Thorax and mediastinum" || st.Lectures[0].Notes != "note" {
			t.Errorf("Expected name and notes updated, but got %+v", st.Lectures[0])
		}
	})

	t.Run("unknown lecture id is a no-op", func(t *testing.T) {
		st := stateFixture(t)
		if _, ok := EditLecture(st, "missing", "X", mustDate(t, "2024-01-01"), "", defaultIntervals); ok {
			t.Error("Expected an unknown lecture id to be rejected")
		}
	})
}

func TestRemoveSubjectCascades(t *testing.T) {
	st := stateFixture(t)
	st = RemoveSubject(st, "sub-1")

	if len(st.Subjects) != 1 || st.Subjects[0].ID != "sub-2" {
		t.Errorf("Expected only sub-2 to remain, but got %+v", st.Subjects)
	}
	for _, lec := range st.Lectures {
		if lec.SubjectID == "sub-1" {
			t.Errorf("Expected lectures of sub-1 to be deleted, but found %+v", lec)
		}
	}
	for _, r := range st.Reviews {
		if r.SubjectID == "sub-1" {
			t.Errorf("Expected reviews of sub-1 to be deleted, but found %+v", r)
		}
	}
	if len(st.Lectures) != 1 || len(st.Reviews) != 1 {
		t.Errorf("Expected 1 lecture and 1 review to survive, but got %d/%d", len(st.Lectures), len(st.Reviews))
	}
}

func TestRemoveLecture(t *testing.T) {
	st := stateFixture(t)
	lecID := st.Lectures[0].ID
	st = RemoveLecture(st, lecID)

	if len(st.Lectures) != 1 || len(st.Reviews) != 1 {
		t.Fatalf("Expected 1 lecture and 1 review after deletion, but got %d/%d", len(st.Lectures), len(st.Reviews))
	}
	if st.Reviews[0].LectureID == lecID {
		t.Error("Expected the deleted lecture's review to be gone")
	}
}

func TestUpdateIntervals(t *testing.T) {
	st := stateFixture(t)
	lectures := make([]domain.Lecture, len(st.Lectures))
	copy(lectures, st.Lectures)
	lectures[0].CompletedReviewCycles = 3
	st.Lectures = lectures

	st = UpdateIntervals(st, []int{2, 5})
	if got := st.CustomReviewIntervals; len(got) != 2 || got[0] != 2 || got[1] != 5 {
		t.Errorf("Expected custom intervals [2 5], but got %v", got)
	}
	// Lecture with 3 completed cycles is fully reviewed under a 2-element policy.
	if len(st.Reviews) != 1 {
		t.Fatalf("Expected 1 pending review after shortening the policy, but got %d", len(st.Reviews))
	}
	if st.Reviews[0].LectureID != st.Lectures[1].ID {
		t.Errorf("Expected the surviving review to belong to the fresh lecture, but got %+v", st.Reviews[0])
	}
	if st.Reviews[0].TargetDate.String() != "2024-01-05" {
		t.Errorf("Expected the review recomputed as Jan 3 + 2 days, but got %s", st.Reviews[0].TargetDate)
	}

	t.Run("nil custom restores the default policy", func(t *testing.T) {
		st := UpdateIntervals(st, nil)
		if st.CustomReviewIntervals != nil {
			t.Errorf("Expected custom intervals cleared, but got %v", st.CustomReviewIntervals)
		}
		if len(st.Reviews) != 2 {
			t.Errorf("Expected both lectures schedulable under the default policy, but got %d reviews", len(st.Reviews))
		}
	})
}

func TestDailyTasks(t *testing.T) {
	now := time.Date(2024, time.January, 2, 10, 30, 0, 0, time.UTC)
	st := domain.State{}

	st, ok := AddDailyTask(st, "Read pharmacology notes", mustDate(t, "2024-01-02"), now)
	if !ok {
		t.Fatal("Expected the task to be added")
	}
	if len(st.DailyTasks) != 1 || st.DailyTasks[0].IsCompleted {
		t.Fatalf("Expected one incomplete task, but got %+v", st.DailyTasks)
	}

	if _, ok := AddDailyTask(st, "   ", mustDate(t, "2024-01-02"), now); ok {
		t.Error("Expected a blank task to be rejected")
	}

	st = ToggleDailyTask(st, st.DailyTasks[0].ID)
	if !st.DailyTasks[0].IsCompleted {
		t.Error("Expected the task to be marked completed")
	}
	st = ToggleDailyTask(st, st.DailyTasks[0].ID)
	if st.DailyTasks[0].IsCompleted {
		t.Error("Expected the task to be marked incomplete again")
	}

	st = RemoveDailyTask(st, st.DailyTasks[0].ID)
	if len(st.DailyTasks) != 0 {
		t.Errorf("Expected no tasks after deletion, but got %+v", st.DailyTasks)
	}
}

func TestSubjects(t *testing.T) {
	st := domain.State{}
	st, ok := AddSubject(st, "  Anatomy ")
	if !ok || len(st.Subjects) != 1 || st.Subjects[0].Name != "Anatomy" {
		t.Fatalf("Expected one subject named Anatomy, but got %+v", st.Subjects)
	}
	if _, ok := AddSubject(st, ""); ok {
		t.Error("Expected a blank subject name to be rejected")
	}

	st, ok = RenameSubject(st, st.Subjects[0].ID, "Gross Anatomy")
	if !ok || st.Subjects[0].Name != "Gross Anatomy" {
		t.Errorf("Expected the subject renamed, but got %+v", st.Subjects)
	}
	if _, ok := RenameSubject(st, "missing", "X"); ok {
		t.Error("Expected renaming an unknown subject to be rejected")
	}
}
