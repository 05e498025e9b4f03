package book

import (
	"math"
	"strings"
)

// String returns a pointer to the trimmed value, or nil when it is blank.
func String(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Int returns a pointer to n, or nil when n is not positive.
func Int(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}

// Rating returns a pointer to the rating rounded to one decimal, or nil when
// the value is outside (0, 5]. Providers report a missing rating as zero.
func Rating(f float64) *float64 {
	if f <= 0 || f > 5 || math.IsNaN(f) {
		return nil
	}
	rounded := math.Round(f*10) / 10
	return &rounded
}
