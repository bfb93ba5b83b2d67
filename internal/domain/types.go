package domain

import "time"

// Subject is a course of study that lectures belong to.
type Subject struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// Lecture is a single studied unit inside a subject. Its review cadence
// is measured from FirstStudyDate; CompletedReviewCycles counts how many
// positions of the interval policy have already been consumed.
type Lecture struct {
	ID                    string `json:"id" validate:"required"`
	SubjectID             string `json:"subjectId" validate:"required"`
	Name                  string `json:"name" validate:"required"`
	FirstStudyDate        Date   `json:"firstStudyDate"`
	CompletedReviewCycles int    `json:"completedReviewCycles" validate:"min=0"`
	Notes                 string `json:"notes,omitempty"`
}

// Review is the single pending (not yet completed) review of a lecture.
// Completed reviews are not kept; completion is reflected by the lecture's
// cycle counter and the streak state.
type Review struct {
	ID                 string `json:"id" validate:"required"`
	LectureID          string `json:"lectureId" validate:"required"`
	SubjectID          string `json:"subjectId" validate:"required"`
	TargetDate         Date   `json:"targetDate"`
	IntervalCycleIndex int    `json:"intervalCycleIndex" validate:"min=0"`
}

// DailyTask is an ad-hoc, non-recurring to-do item outside the review cadence.
type DailyTask struct {
	ID          string    `json:"id" validate:"required"`
	Text        string    `json:"text" validate:"required"`
	Date        Date      `json:"date"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Streak tracks consecutive calendar days with at least one completed review.
type Streak struct {
	Current        int
	Longest        int
	LastCompletion Date
}
