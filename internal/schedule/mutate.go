package schedule

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/studyplan/internal/domain"
	"github.com/example/studyplan/internal/policy"
)

// AddSubject appends a new subject with a fresh id.
// ok is false when the name is blank.
func AddSubject(st domain.State, name string) (domain.State, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return st, false
	}
	st.Subjects = append(clone(st.Subjects), domain.Subject{ID: uuid.NewString(), Name: name})
	return st, true
}

// RenameSubject changes a subject's display name. Unknown ids and blank
// names are silent no-ops.
func RenameSubject(st domain.State, subjectID, name string) (domain.State, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return st, false
	}
	for i, sub := range st.Subjects {
		if sub.ID == subjectID {
			subjects := clone(st.Subjects)
			subjects[i].Name = name
			st.Subjects = subjects
			return st, true
		}
	}
	return st, false
}

// AddLecture appends a lecture to a subject and schedules its first
// pending review under the active policy. ok is false when the name is
// blank, the date is zero, or the subject does not exist.
func AddLecture(st domain.State, subjectID, name string, firstStudyDate domain.Date, notes string, intervals []int) (domain.State, bool) {
	name = strings.TrimSpace(name)
	if name == "" || firstStudyDate.IsZero() {
		return st, false
	}
	if _, ok := st.SubjectByID(subjectID); !ok {
		return st, false
	}
	lec := domain.Lecture{
		ID:             uuid.NewString(),
		SubjectID:      subjectID,
		Name:           name,
		FirstStudyDate: firstStudyDate,
		Notes:          strings.TrimSpace(notes),
	}
	st.Lectures = append(clone(st.Lectures), lec)
	st.Reviews = RescheduleLecture(lec, st.Reviews, intervals)
	return st, true
}

// EditLecture applies name, first-study-date and notes changes to one
// lecture and reprojects its pending review. Changing the first study
// date restarts the cadence: the cycle counter resets to zero.
func EditLecture(st domain.State, lectureID, name string, firstStudyDate domain.Date, notes string, intervals []int) (domain.State, bool) {
	name = strings.TrimSpace(name)
	if name == "" || firstStudyDate.IsZero() {
		return st, false
	}
	for i, lec := range st.Lectures {
		if lec.ID != lectureID {
			continue
		}
		if !lec.FirstStudyDate.Equal(firstStudyDate) {
			lec.CompletedReviewCycles = 0
		}
		lec.Name = name
		lec.FirstStudyDate = firstStudyDate
		lec.Notes = strings.TrimSpace(notes)

		lectures := clone(st.Lectures)
		lectures[i] = lec
		st.Lectures = lectures
		st.Reviews = RescheduleLecture(lec, st.Reviews, intervals)
		return st, true
	}
	return st, false
}

// RemoveSubject deletes a subject, all of its lectures, and their pending
// reviews. Affected ids are collected up front so all three collections
// are filtered in one replacement with no intermediate inconsistency.
func RemoveSubject(st domain.State, subjectID string) domain.State {
	doomed := make(map[string]bool)
	for _, lec := range st.Lectures {
		if lec.SubjectID == subjectID {
			doomed[lec.ID] = true
		}
	}

	subjects := make([]domain.Subject, 0, len(st.Subjects))
	for _, sub := range st.Subjects {
		if sub.ID != subjectID {
			subjects = append(subjects, sub)
		}
	}
	lectures := make([]domain.Lecture, 0, len(st.Lectures))
	for _, lec := range st.Lectures {
		if lec.SubjectID != subjectID {
			lectures = append(lectures, lec)
		}
	}
	reviews := make([]domain.Review, 0, len(st.Reviews))
	for _, r := range st.Reviews {
		if !doomed[r.LectureID] && r.SubjectID != subjectID {
			reviews = append(reviews, r)
		}
	}

	st.Subjects = subjects
	st.Lectures = lectures
	st.Reviews = reviews
	return st
}

// RemoveLecture deletes a single lecture and its pending review.
func RemoveLecture(st domain.State, lectureID string) domain.State {
	lectures := make([]domain.Lecture, 0, len(st.Lectures))
	for _, lec := range st.Lectures {
		if lec.ID != lectureID {
			lectures = append(lectures, lec)
		}
	}
	reviews := make([]domain.Review, 0, len(st.Reviews))
	for _, r := range st.Reviews {
		if r.LectureID != lectureID {
			reviews = append(reviews, r)
		}
	}
	st.Lectures = lectures
	st.Reviews = reviews
	return st
}

// UpdateIntervals installs a new custom interval policy (nil means the
// default) and reconciles every lecture's pending review against it.
func UpdateIntervals(st domain.State, custom []int) domain.State {
	st.CustomReviewIntervals = custom
	st.Reviews = ReconcileAll(st.Lectures, activeOf(st))
	return st
}

// AddDailyTask appends an ad-hoc task for the given date.
// ok is false when the text is blank or the date is zero.
func AddDailyTask(st domain.State, text string, day domain.Date, now time.Time) (domain.State, bool) {
	text = strings.TrimSpace(text)
	if text == "" || day.IsZero() {
		return st, false
	}
	st.DailyTasks = append(clone(st.DailyTasks), domain.DailyTask{
		ID:        uuid.NewString(),
		Text:      text,
		Date:      day,
		CreatedAt: now,
	})
	return st, true
}

// ToggleDailyTask flips a task's completed flag. Unknown ids are no-ops.
func ToggleDailyTask(st domain.State, taskID string) domain.State {
	for i, task := range st.DailyTasks {
		if task.ID == taskID {
			tasks := clone(st.DailyTasks)
			tasks[i].IsCompleted = !tasks[i].IsCompleted
			st.DailyTasks = tasks
			return st
		}
	}
	return st
}

// RemoveDailyTask deletes a single ad-hoc task.
func RemoveDailyTask(st domain.State, taskID string) domain.State {
	tasks := make([]domain.DailyTask, 0, len(st.DailyTasks))
	for _, task := range st.DailyTasks {
		if task.ID != taskID {
			tasks = append(tasks, task)
		}
	}
	st.DailyTasks = tasks
	return st
}

func activeOf(st domain.State) []int {
	return policy.Active(st.CustomReviewIntervals)
}

func clone[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
