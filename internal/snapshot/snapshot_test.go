package snapshot

import (
	"strings"
	"testing"

	"github.com/example/studyplan/internal/domain"
)

const validSnapshot = `{
  "subjects": [{"id": "sub-1", "name": "Anatomy"}],
  "lectures": [{
    "id": "lec-1",
    "subjectId": "sub-1",
    "name": "Thorax",
    "firstStudyDate": "2024-01-01",
    "completedReviewCycles": 1
  }],
  "reviews": [{
    "id": "rev-1",
    "lectureId": "lec-1",
    "subjectId": "sub-1",
    "targetDate": "2024-01-05",
    "intervalCycleIndex": 1
  }],
  "dailyTasks": [],
  "customReviewIntervals": [1, 3, 7],
  "currentStreak": 2,
  "longestStreak": 4,
  "lastReviewCompletionDate": "2024-01-02"
}`

func TestDecode(t *testing.T) {
	st, err := Decode([]byte(validSnapshot))
	if err != nil {
		t.Fatalf("Decode returned an unexpected error: %v", err)
	}
	if len(st.Subjects) != 1 || st.Subjects[0].Name != "Anatomy" {
		t.Errorf("Expected one subject named Anatomy, but got %+v", st.Subjects)
	}
	if st.Lectures[0].FirstStudyDate.String() != "2024-01-01" {
		t.Errorf("Expected first study date 2024-01-01, but got %s", st.Lectures[0].FirstStudyDate)
	}
	if st.CurrentStreak != 2 || st.LongestStreak != 4 {
		t.Errorf("Expected streak 2/4, but got %d/%d", st.CurrentStreak, st.LongestStreak)
	}
	if st.LastReviewCompletion.String() != "2024-01-02" {
		t.Errorf("Expected last completion 2024-01-02, but got %s", st.LastReviewCompletion)
	}
}

func TestDecodeRejects(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name:    "not json",
			mutate:  func(string) string { return "not json at all" },
			wantErr: "not a JSON object",
		},
		{
			name:    "missing required field",
			mutate:  func(s string) string { return strings.Replace(s, `"dailyTasks"`, `"otherTasks"`, 1) },
			wantErr: `missing required field "dailyTasks"`,
		},
		{
			name:    "wrong field type",
			mutate:  func(s string) string { return strings.Replace(s, `"currentStreak": 2`, `"currentStreak": "two"`, 1) },
			wantErr: "malformed field",
		},
		{
			name:    "malformed date",
			mutate:  func(s string) string { return strings.Replace(s, "2024-01-01", "January first", 1) },
			wantErr: "malformed field",
		},
		{
			name:    "non-positive interval",
			mutate:  func(s string) string { return strings.Replace(s, "[1, 3, 7]", "[1, 0, 7]", 1) },
			wantErr: "failed validation",
		},
		{
			name:    "negative streak",
			mutate:  func(s string) string { return strings.Replace(s, `"currentStreak": 2`, `"currentStreak": -2`, 1) },
			wantErr: "failed validation",
		},
		{
			name:    "entity without id",
			mutate:  func(s string) string { return strings.Replace(s, `"id": "sub-1", `, "", 1) },
			wantErr: "failed validation",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.mutate(validSnapshot)))
			if err == nil {
				t.Fatal("Expected the snapshot to be rejected")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Expected error containing %q, but got %q", tc.wantErr, err)
			}
		})
	}
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	withExtras := strings.Replace(validSnapshot, `"subjects"`, `"theme": "dark", "hasWelcomed": true, "subjects"`, 1)
	if _, err := Decode([]byte(withExtras)); err != nil {
		t.Errorf("Expected unknown fields to be ignored, but got %v", err)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	st, err := Decode([]byte(validSnapshot))
	if err != nil {
		t.Fatalf("Decode returned an unexpected error: %v", err)
	}
	data, err := Encode(st)
	if err != nil {
		t.Fatalf("Encode returned an unexpected error: %v", err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode of encoded snapshot returned an unexpected error: %v", err)
	}
	if len(back.Reviews) != 1 || back.Reviews[0].TargetDate.String() != "2024-01-05" {
		t.Errorf("Expected the review to survive the round trip, but got %+v", back.Reviews)
	}

	t.Run("null last completion survives", func(t *testing.T) {
		st.LastReviewCompletion = domain.Date{}
		data, err := Encode(st)
		if err != nil {
			t.Fatalf("Encode returned an unexpected error: %v", err)
		}
		if !strings.Contains(string(data), `"lastReviewCompletionDate": null`) {
			t.Errorf("Expected a null last completion date in the output, but got %s", data)
		}
		back, err := Decode(data)
		if err != nil {
			t.Fatalf("Decode returned an unexpected error: %v", err)
		}
		if !back.LastReviewCompletion.IsZero() {
			t.Errorf("Expected a zero last completion date, but got %s", back.LastReviewCompletion)
		}
	})
}
