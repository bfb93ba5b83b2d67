package policy

import (
	"fmt"
	"strconv"
	"strings"
)

// Default is the review cadence used when no custom policy is configured:
// reviews 1, 3, 7, 14 and 30 days after the previous step.
var Default = []int{1, 3, 7, 14, 30}

// Active returns the custom policy when one is set, otherwise the default.
func Active(custom []int) []int {
	if len(custom) > 0 {
		return custom
	}
	return Default
}

// Parse converts a comma-separated list of day counts into an interval
// sequence. Empty input means "use the default" and returns nil with no
// error. A single malformed or non-positive element rejects the whole
// input, leaving the previous policy in force at the caller.
func Parse(input string) ([]int, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	parts := strings.Split(input, ",")
	intervals := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid interval %q: %w", strings.TrimSpace(part), err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("invalid interval %d: must be a positive number of days", n)
		}
		intervals = append(intervals, n)
	}
	return intervals, nil
}

// Validate checks that a sequence can serve as an interval policy:
// non-empty, every element a positive day count.
func Validate(intervals []int) error {
	if len(intervals) == 0 {
		return fmt.Errorf("interval policy must not be empty")
	}
	for i, n := range intervals {
		if n <= 0 {
			return fmt.Errorf("interval at position %d is %d: must be positive", i, n)
		}
	}
	return nil
}

// Format renders a policy back into the comma-separated form accepted by Parse.
func Format(intervals []int) string {
	parts := make([]string, len(intervals))
	for i, n := range intervals {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

// CycleLabels returns display labels for each position of an n-element
// policy: "Review 1", "Review 2", ...
func CycleLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("Review %d", i+1)
	}
	return labels
}
