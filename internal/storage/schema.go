package storage

const schema = `
-- The 'subjects' table holds the courses lectures belong to.
CREATE TABLE IF NOT EXISTS subjects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL
);

-- The 'lectures' table holds studied units and their review cadence state.
CREATE TABLE IF NOT EXISTS lectures (
    id TEXT PRIMARY KEY,
    subject_id TEXT NOT NULL,
    name TEXT NOT NULL,
    first_study_date TEXT NOT NULL,       -- YYYY-MM-DD
    completed_review_cycles INTEGER NOT NULL DEFAULT 0,
    notes TEXT NOT NULL DEFAULT '',

    FOREIGN KEY(subject_id) REFERENCES subjects(id)
);

-- The 'reviews' table holds at most one pending review per lecture.
CREATE TABLE IF NOT EXISTS reviews (
    id TEXT PRIMARY KEY,
    lecture_id TEXT NOT NULL,
    subject_id TEXT NOT NULL,
    target_date TEXT NOT NULL,            -- YYYY-MM-DD
    interval_cycle_index INTEGER NOT NULL,

    FOREIGN KEY(lecture_id) REFERENCES lectures(id)
);

-- The 'daily_tasks' table holds ad-hoc to-do items outside the cadence.
CREATE TABLE IF NOT EXISTS daily_tasks (
    id TEXT PRIMARY KEY,
    text TEXT NOT NULL,
    date TEXT NOT NULL,                   -- YYYY-MM-DD
    is_completed INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL
);

-- The 'app_state' table is a single row of settings and streak counters.
CREATE TABLE IF NOT EXISTS app_state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    custom_intervals TEXT NOT NULL DEFAULT '',  -- comma-separated days, '' = default policy
    current_streak INTEGER NOT NULL DEFAULT 0,
    longest_streak INTEGER NOT NULL DEFAULT 0,
    last_review_completion_date TEXT            -- YYYY-MM-DD, NULL = never
);

INSERT OR IGNORE INTO app_state (id) VALUES (1);
`
