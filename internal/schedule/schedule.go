// Package schedule is the review-scheduling engine: pure transformations
// that derive pending reviews from lecture state and an interval policy.
// Every function takes snapshots and returns replacements; callers swap
// old state for new in a single assignment.
package schedule

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/example/studyplan/internal/domain"
)

// ProjectNextReview computes the single pending review a lecture is owed
// under the given interval policy. The target date is cumulative: starting
// at the first study date, each consumed cycle advances by its interval,
// then one more interval gives the next target. Manual edits to a previous
// review's date never feed back into this computation.
//
// ok is false when the lecture is fully reviewed under this policy (the
// cycle counter has reached the policy length, or the policy is empty).
// A lecture whose counter exceeds a newly shortened policy is simply
// fully reviewed, never an error.
func ProjectNextReview(lec domain.Lecture, intervals []int) (domain.Review, bool) {
	if len(intervals) == 0 || lec.CompletedReviewCycles >= len(intervals) {
		return domain.Review{}, false
	}
	if lec.FirstStudyDate.IsZero() {
		slog.Warn("lecture has no first study date, skipping projection", "lecture_id", lec.ID)
		return domain.Review{}, false
	}

	base := lec.FirstStudyDate
	for i := 0; i < lec.CompletedReviewCycles; i++ {
		base = base.AddDays(intervals[i])
	}
	next := lec.CompletedReviewCycles

	return domain.Review{
		ID:                 uuid.NewString(),
		LectureID:          lec.ID,
		SubjectID:          lec.SubjectID,
		TargetDate:         base.AddDays(intervals[next]),
		IntervalCycleIndex: next,
	}, true
}

// ReconcileAll recomputes the complete pending-review set for every
// lecture. The result is a full replacement: the caller must discard the
// entire previous set, since a policy change can shift every date at once.
// Output order follows lecture iteration order; sort separately for display.
func ReconcileAll(lectures []domain.Lecture, intervals []int) []domain.Review {
	reviews := make([]domain.Review, 0, len(lectures))
	for _, lec := range lectures {
		if r, ok := ProjectNextReview(lec, intervals); ok {
			reviews = append(reviews, r)
		}
	}
	return reviews
}

// RescheduleLecture replaces the pending review of a single lecture,
// leaving reviews of other lectures untouched. Used when one lecture is
// added or edited rather than on a global policy change.
func RescheduleLecture(lec domain.Lecture, reviews []domain.Review, intervals []int) []domain.Review {
	kept := make([]domain.Review, 0, len(reviews)+1)
	for _, r := range reviews {
		if r.LectureID != lec.ID {
			kept = append(kept, r)
		}
	}
	if next, ok := ProjectNextReview(lec, intervals); ok {
		kept = append(kept, next)
	}
	return kept
}

// SetReviewTargetDate overrides the target date of one pending review,
// leaving its cycle index and the lecture untouched. The override lasts
// only until the next reconciliation recomputes the date from canonical
// state. ok is false for a zero date or an unknown review id.
func SetReviewTargetDate(reviewID string, newDate domain.Date, reviews []domain.Review) ([]domain.Review, bool) {
	if newDate.IsZero() {
		return reviews, false
	}
	for i, r := range reviews {
		if r.ID == reviewID {
			out := make([]domain.Review, len(reviews))
			copy(out, reviews)
			out[i].TargetDate = newDate
			return out, true
		}
	}
	return reviews, false
}
