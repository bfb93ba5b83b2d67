package domain

// State is the full application snapshot. Every scheduling operation takes
// a State (or parts of it) and returns a replacement; callers swap the old
// snapshot for the new one in a single assignment.
type State struct {
	Subjects              []Subject   `json:"subjects" validate:"dive"`
	Lectures              []Lecture   `json:"lectures" validate:"dive"`
	Reviews               []Review    `json:"reviews" validate:"dive"`
	DailyTasks            []DailyTask `json:"dailyTasks" validate:"dive"`
	CustomReviewIntervals []int       `json:"customReviewIntervals,omitempty" validate:"omitempty,min=1,dive,gt=0"`
	CurrentStreak         int         `json:"currentStreak" validate:"min=0"`
	LongestStreak         int         `json:"longestStreak" validate:"min=0"`
	LastReviewCompletion  Date        `json:"lastReviewCompletionDate"`
}

// Streak extracts the streak counters from the snapshot.
func (s State) Streak() Streak {
	return Streak{
		Current:        s.CurrentStreak,
		Longest:        s.LongestStreak,
		LastCompletion: s.LastReviewCompletion,
	}
}

// WithStreak returns a copy of the snapshot with the streak counters replaced.
func (s State) WithStreak(st Streak) State {
	s.CurrentStreak = st.Current
	s.LongestStreak = st.Longest
	s.LastReviewCompletion = st.LastCompletion
	return s
}

// SubjectByID returns the subject with the given id, if present.
func (s State) SubjectByID(id string) (Subject, bool) {
	for _, sub := range s.Subjects {
		if sub.ID == id {
			return sub, true
		}
	}
	return Subject{}, false
}

// LectureByID returns the lecture with the given id, if present.
func (s State) LectureByID(id string) (Lecture, bool) {
	for _, lec := range s.Lectures {
		if lec.ID == id {
			return lec, true
		}
	}
	return Lecture{}, false
}

// ReviewByID returns the pending review with the given id, if present.
func (s State) ReviewByID(id string) (Review, bool) {
	for _, r := range s.Reviews {
		if r.ID == id {
			return r, true
		}
	}
	return Review{}, false
}
