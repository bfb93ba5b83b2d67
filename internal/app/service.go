// Package app owns the persistence boundary around the scheduling engine:
// each operation loads the current snapshot, applies one pure
// transformation, and atomically replaces the stored snapshot with the
// result. There is a single logical writer, so no locking is needed.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/example/studyplan/internal/backup"
	"github.com/example/studyplan/internal/domain"
	"github.com/example/studyplan/internal/ics"
	"github.com/example/studyplan/internal/policy"
	"github.com/example/studyplan/internal/schedule"
	"github.com/example/studyplan/internal/snapshot"
	"github.com/example/studyplan/internal/storage"
)

// Service coordinates storage, the scheduling engine, and snapshot backups.
type Service struct {
	db           *storage.DB
	backupDir    string
	calendarHost string
	now          func() time.Time
}

// New creates a Service. backupDir may be empty to disable git backups.
func New(db *storage.DB, backupDir, calendarHost string) *Service {
	return &Service{
		db:           db,
		backupDir:    backupDir,
		calendarHost: calendarHost,
		now:          time.Now,
	}
}

// State returns the current snapshot.
func (s *Service) State() (domain.State, error) {
	return s.db.Load()
}

// Today returns the current calendar date.
func (s *Service) Today() domain.Date {
	return domain.DateOf(s.now())
}

// Intervals returns the active interval policy of the current snapshot.
func (s *Service) Intervals() ([]int, error) {
	st, err := s.db.Load()
	if err != nil {
		return nil, err
	}
	return policy.Active(st.CustomReviewIntervals), nil
}

// apply runs one transformation over the current snapshot and persists
// the replacement. Transformations that report no change (stale ids,
// rejected input) leave stored state untouched.
func (s *Service) apply(name string, op func(domain.State) (domain.State, bool)) (domain.State, error) {
	st, err := s.db.Load()
	if err != nil {
		return domain.State{}, err
	}
	next, changed := op(st)
	if !changed {
		slog.Info("operation was a no-op", "op", name)
		return st, nil
	}
	if err := s.db.Save(next); err != nil {
		return domain.State{}, fmt.Errorf("failed to persist %s: %w", name, err)
	}
	s.backup(next)
	return next, nil
}

func (s *Service) backup(st domain.State) {
	if s.backupDir == "" {
		return
	}
	data, err := snapshot.Encode(st)
	if err != nil {
		slog.Warn("failed to encode snapshot for backup", "error", err)
		return
	}
	if err := backup.Commit(s.backupDir, data, s.now()); err != nil {
		slog.Warn("failed to back up snapshot", "error", err)
	}
}

// AddSubject registers a new subject.
func (s *Service) AddSubject(name string) (domain.State, error) {
	return s.apply("add subject", func(st domain.State) (domain.State, bool) {
		return schedule.AddSubject(st, name)
	})
}

// RenameSubject changes a subject's display name.
func (s *Service) RenameSubject(subjectID, name string) (domain.State, error) {
	return s.apply("rename subject", func(st domain.State) (domain.State, bool) {
		return schedule.RenameSubject(st, subjectID, name)
	})
}

// DeleteSubject removes a subject together with its lectures and reviews.
func (s *Service) DeleteSubject(subjectID string) (domain.State, error) {
	return s.apply("delete subject", func(st domain.State) (domain.State, bool) {
		return schedule.RemoveSubject(st, subjectID), true
	})
}

// AddLecture registers a lecture and schedules its first review.
func (s *Service) AddLecture(subjectID, name string, firstStudyDate domain.Date, notes string) (domain.State, error) {
	return s.apply("add lecture", func(st domain.State) (domain.State, bool) {
		return schedule.AddLecture(st, subjectID, name, firstStudyDate, notes, policy.Active(st.CustomReviewIntervals))
	})
}

// EditLecture updates a lecture and reprojects its pending review.
func (s *Service) EditLecture(lectureID, name string, firstStudyDate domain.Date, notes string) (domain.State, error) {
	return s.apply("edit lecture", func(st domain.State) (domain.State, bool) {
		return schedule.EditLecture(st, lectureID, name, firstStudyDate, notes, policy.Active(st.CustomReviewIntervals))
	})
}

// DeleteLecture removes a lecture and its pending review.
func (s *Service) DeleteLecture(lectureID string) (domain.State, error) {
	return s.apply("delete lecture", func(st domain.State) (domain.State, bool) {
		return schedule.RemoveLecture(st, lectureID), true
	})
}

// CompleteReview marks a pending review done as of today.
func (s *Service) CompleteReview(reviewID string) (domain.State, error) {
	return s.apply("complete review", func(st domain.State) (domain.State, bool) {
		result, ok := schedule.CompleteReview(reviewID, st.Lectures, st.Reviews,
			policy.Active(st.CustomReviewIntervals), st.Streak(), s.Today())
		if !ok {
			return st, false
		}
		st.Lectures = result.Lectures
		st.Reviews = result.Reviews
		return st.WithStreak(result.Streak), true
	})
}

// EditReviewDate manually overrides one pending review's target date.
func (s *Service) EditReviewDate(reviewID string, newDate domain.Date) (domain.State, error) {
	return s.apply("edit review date", func(st domain.State) (domain.State, bool) {
		reviews, ok := schedule.SetReviewTargetDate(reviewID, newDate, st.Reviews)
		if !ok {
			return st, false
		}
		st.Reviews = reviews
		return st, true
	})
}

// SetIntervals parses a comma-separated interval list (empty restores the
// default policy), installs it, and reconciles every pending review. A
// parse failure leaves the previous policy in force.
func (s *Service) SetIntervals(input string) (domain.State, error) {
	custom, err := policy.Parse(input)
	if err != nil {
		return domain.State{}, err
	}
	return s.apply("set intervals", func(st domain.State) (domain.State, bool) {
		return schedule.UpdateIntervals(st, custom), true
	})
}

// AddDailyTask adds an ad-hoc task for the given date (today when zero).
func (s *Service) AddDailyTask(text string, day domain.Date) (domain.State, error) {
	if day.IsZero() {
		day = s.Today()
	}
	return s.apply("add daily task", func(st domain.State) (domain.State, bool) {
		return schedule.AddDailyTask(st, text, day, s.now())
	})
}

// ToggleDailyTask flips an ad-hoc task's completion flag.
func (s *Service) ToggleDailyTask(taskID string) (domain.State, error) {
	return s.apply("toggle daily task", func(st domain.State) (domain.State, bool) {
		return schedule.ToggleDailyTask(st, taskID), true
	})
}

// DeleteDailyTask removes an ad-hoc task.
func (s *Service) DeleteDailyTask(taskID string) (domain.State, error) {
	return s.apply("delete daily task", func(st domain.State) (domain.State, bool) {
		return schedule.RemoveDailyTask(st, taskID), true
	})
}

// ExportJSON renders the current snapshot for download.
func (s *Service) ExportJSON() ([]byte, error) {
	st, err := s.db.Load()
	if err != nil {
		return nil, err
	}
	return snapshot.Encode(st)
}

// ImportJSON validates a whole-state snapshot and replaces current state
// with it. An invalid snapshot is rejected without touching stored state.
func (s *Service) ImportJSON(data []byte) (domain.State, error) {
	st, err := snapshot.Decode(data)
	if err != nil {
		return domain.State{}, err
	}
	if err := s.db.Save(st); err != nil {
		return domain.State{}, fmt.Errorf("failed to persist imported snapshot: %w", err)
	}
	s.backup(st)
	return st, nil
}

// ExportICS renders pending reviews as a calendar file. subjectID narrows
// the export to one subject; empty or "all" exports everything.
func (s *Service) ExportICS(subjectID string) (string, error) {
	st, err := s.db.Load()
	if err != nil {
		return "", err
	}
	reviews := st.Reviews
	if subjectID != "" && subjectID != "all" {
		var filtered []domain.Review
		for _, r := range reviews {
			if r.SubjectID == subjectID {
				filtered = append(filtered, r)
			}
		}
		reviews = filtered
	}
	return ics.Build(reviews, st.Subjects, st.Lectures, s.now(), s.calendarHost), nil
}
