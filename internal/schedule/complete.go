package schedule

import "github.com/example/studyplan/internal/domain"

// Completion is the replacement state produced by marking a review done.
type Completion struct {
	Lectures []domain.Lecture
	Reviews  []domain.Review
	Streak   domain.Streak
}

// CompleteReview records a pending review as completed on today's date:
// the lecture's cycle counter advances by one, the completed review is
// removed, the lecture's next review (if any) is projected, and the daily
// streak counters advance.
//
// ok is false, with state unchanged, when the review or its lecture no
// longer exists, or when the review's target date is still in the future.
// The future-date guard is checked here regardless of what callers enforce.
func CompleteReview(reviewID string, lectures []domain.Lecture, reviews []domain.Review, intervals []int, streak domain.Streak, today domain.Date) (Completion, bool) {
	var completed domain.Review
	found := false
	for _, r := range reviews {
		if r.ID == reviewID {
			completed = r
			found = true
			break
		}
	}
	if !found {
		return Completion{}, false
	}
	if completed.TargetDate.IsZero() || completed.TargetDate.After(today) {
		return Completion{}, false
	}

	idx := -1
	for i, l := range lectures {
		if l.ID == completed.LectureID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Completion{}, false
	}

	updatedLectures := make([]domain.Lecture, len(lectures))
	copy(updatedLectures, lectures)
	lec := updatedLectures[idx]
	lec.CompletedReviewCycles++
	updatedLectures[idx] = lec

	next := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if r.ID != reviewID {
			next = append(next, r)
		}
	}
	if proj, ok := ProjectNextReview(lec, intervals); ok {
		next = append(next, proj)
	}

	return Completion{
		Lectures: updatedLectures,
		Reviews:  next,
		Streak:   advanceStreak(streak, today),
	}, true
}

// advanceStreak applies the daily streak rules for a completion on today:
// a repeat completion on the same day changes nothing, a completion the
// day after the last one extends the streak, and any gap restarts it at 1.
// The longest streak never decreases.
func advanceStreak(st domain.Streak, today domain.Date) domain.Streak {
	switch {
	case st.LastCompletion.Equal(today):
	case !st.LastCompletion.IsZero() && st.LastCompletion.Equal(today.AddDays(-1)):
		st.Current++
	default:
		st.Current = 1
	}
	if st.Current > st.Longest {
		st.Longest = st.Current
	}
	st.LastCompletion = today
	return st
}
