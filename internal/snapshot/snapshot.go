// Package snapshot encodes and decodes the whole-state JSON form used by
// bulk export and import. Decoding validates shape before anything is
// accepted, so a bad file never replaces current state.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/example/studyplan/internal/domain"
)

// ExportFilenamePrefix is the prefix of downloaded snapshot files.
const ExportFilenamePrefix = "studyplan-data-"

var validate = validator.New()

// requiredFields are the top-level keys every snapshot must carry.
// customReviewIntervals is optional (absent means the default policy).
var requiredFields = []string{
	"subjects",
	"lectures",
	"reviews",
	"dailyTasks",
	"currentStreak",
	"longestStreak",
	"lastReviewCompletionDate",
}

// Encode renders the state as pretty-printed JSON for export.
func Encode(st domain.State) ([]byte, error) {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses and validates a whole-state snapshot. Every top-level
// field must be present with the right type, dates must parse, counters
// must be non-negative, and any custom interval policy must be a
// non-empty sequence of positive day counts. Unknown extra fields are
// ignored so snapshots from older or richer builds still import.
func Decode(data []byte) (domain.State, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.State{}, fmt.Errorf("snapshot is not a JSON object: %w", err)
	}
	for _, field := range requiredFields {
		if _, ok := raw[field]; !ok {
			return domain.State{}, fmt.Errorf("snapshot is missing required field %q", field)
		}
	}

	var st domain.State
	if err := json.Unmarshal(data, &st); err != nil {
		return domain.State{}, fmt.Errorf("snapshot has a malformed field: %w", err)
	}
	if err := validate.Struct(st); err != nil {
		return domain.State{}, fmt.Errorf("snapshot failed validation: %w", err)
	}
	return st, nil
}
