package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Registers the sqlite driver

	"github.com/example/studyplan/internal/domain"
	"github.com/example/studyplan/internal/policy"
)

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Execute the schema to create tables if they don't exist.
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Load reads the persisted state snapshot.
func (db *DB) Load() (domain.State, error) {
	var st domain.State

	rows, err := db.conn.Query(`SELECT id, name FROM subjects`)
	if err != nil {
		return st, fmt.Errorf("failed to load subjects: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sub domain.Subject
		if err := rows.Scan(&sub.ID, &sub.Name); err != nil {
			return st, fmt.Errorf("failed to scan subject row: %w", err)
		}
		st.Subjects = append(st.Subjects, sub)
	}
	if err := rows.Err(); err != nil {
		return st, fmt.Errorf("failed to iterate subjects: %w", err)
	}

	if st.Lectures, err = db.loadLectures(); err != nil {
		return st, err
	}
	if st.Reviews, err = db.loadReviews(); err != nil {
		return st, err
	}
	if st.DailyTasks, err = db.loadDailyTasks(); err != nil {
		return st, err
	}

	var customIntervals string
	var lastCompletion sql.NullString
	row := db.conn.QueryRow(`
		SELECT custom_intervals, current_streak, longest_streak, last_review_completion_date
		FROM app_state WHERE id = 1
	`)
	if err := row.Scan(&customIntervals, &st.CurrentStreak, &st.LongestStreak, &lastCompletion); err != nil {
		return st, fmt.Errorf("failed to load app state: %w", err)
	}
	if st.CustomReviewIntervals, err = policy.Parse(customIntervals); err != nil {
		return st, fmt.Errorf("failed to parse stored intervals: %w", err)
	}
	if lastCompletion.Valid && lastCompletion.String != "" {
		if st.LastReviewCompletion, err = domain.ParseDate(lastCompletion.String); err != nil {
			return st, fmt.Errorf("failed to parse last completion date: %w", err)
		}
	}

	return st, nil
}

// Save replaces the entire persisted snapshot with the given state in a
// single transaction, matching the engine's atomic-swap semantics.
func (db *DB) Save(st domain.State) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin save transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"reviews", "lectures", "subjects", "daily_tasks"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, sub := range st.Subjects {
		if _, err := tx.Exec(`INSERT INTO subjects (id, name) VALUES (?, ?)`, sub.ID, sub.Name); err != nil {
			return fmt.Errorf("failed to insert subject %s: %w", sub.ID, err)
		}
	}
	for _, lec := range st.Lectures {
		_, err := tx.Exec(`
			INSERT INTO lectures (id, subject_id, name, first_study_date, completed_review_cycles, notes)
			VALUES (?, ?, ?, ?, ?, ?)
		`, lec.ID, lec.SubjectID, lec.Name, lec.FirstStudyDate.String(), lec.CompletedReviewCycles, lec.Notes)
		if err != nil {
			return fmt.Errorf("failed to insert lecture %s: %w", lec.ID, err)
		}
	}
	for _, r := range st.Reviews {
		_, err := tx.Exec(`
			INSERT INTO reviews (id, lecture_id, subject_id, target_date, interval_cycle_index)
			VALUES (?, ?, ?, ?, ?)
		`, r.ID, r.LectureID, r.SubjectID, r.TargetDate.String(), r.IntervalCycleIndex)
		if err != nil {
			return fmt.Errorf("failed to insert review %s: %w", r.ID, err)
		}
	}
	for _, task := range st.DailyTasks {
		_, err := tx.Exec(`
			INSERT INTO daily_tasks (id, text, date, is_completed, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, task.ID, task.Text, task.Date.String(), task.IsCompleted, task.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert daily task %s: %w", task.ID, err)
		}
	}

	var lastCompletion any
	if !st.LastReviewCompletion.IsZero() {
		lastCompletion = st.LastReviewCompletion.String()
	}
	_, err = tx.Exec(`
		UPDATE app_state
		SET custom_intervals = ?, current_streak = ?, longest_streak = ?, last_review_completion_date = ?
		WHERE id = 1
	`, policy.Format(st.CustomReviewIntervals), st.CurrentStreak, st.LongestStreak, lastCompletion)
	if err != nil {
		return fmt.Errorf("failed to update app state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save transaction: %w", err)
	}
	return nil
}

func (db *DB) loadLectures() ([]domain.Lecture, error) {
	rows, err := db.conn.Query(`
		SELECT id, subject_id, name, first_study_date, completed_review_cycles, notes
		FROM lectures
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load lectures: %w", err)
	}
	defer rows.Close()

	var lectures []domain.Lecture
	for rows.Next() {
		var lec domain.Lecture
		var firstStudy string
		if err := rows.Scan(&lec.ID, &lec.SubjectID, &lec.Name, &firstStudy, &lec.CompletedReviewCycles, &lec.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan lecture row: %w", err)
		}
		if lec.FirstStudyDate, err = domain.ParseDate(firstStudy); err != nil {
			return nil, fmt.Errorf("failed to parse study date for lecture %s: %w", lec.ID, err)
		}
		lectures = append(lectures, lec)
	}
	return lectures, rows.Err()
}

func (db *DB) loadReviews() ([]domain.Review, error) {
	rows, err := db.conn.Query(`
		SELECT id, lecture_id, subject_id, target_date, interval_cycle_index
		FROM reviews
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var r domain.Review
		var target string
		if err := rows.Scan(&r.ID, &r.LectureID, &r.SubjectID, &target, &r.IntervalCycleIndex); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		if r.TargetDate, err = domain.ParseDate(target); err != nil {
			return nil, fmt.Errorf("failed to parse target date for review %s: %w", r.ID, err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (db *DB) loadDailyTasks() ([]domain.DailyTask, error) {
	rows, err := db.conn.Query(`
		SELECT id, text, date, is_completed, created_at
		FROM daily_tasks
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.DailyTask
	for rows.Next() {
		var task domain.DailyTask
		var day string
		var createdAt time.Time
		if err := rows.Scan(&task.ID, &task.Text, &day, &task.IsCompleted, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan daily task row: %w", err)
		}
		if task.Date, err = domain.ParseDate(day); err != nil {
			return nil, fmt.Errorf("failed to parse date for daily task %s: %w", task.ID, err)
		}
		task.CreatedAt = createdAt
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
