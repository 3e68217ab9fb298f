package evaluation

import (
	"fmt"
	"strings"
)

// Score bands. Each threshold is the inclusive lower bound of its band.
const (
	ExcellentThreshold = 8.5
	GoodThreshold      = 7.0

	// PraiseThreshold picks the recommendation text. It deliberately differs
	// from ExcellentThreshold: scores in [8.0, 8.5) are "good" yet praised.
	PraiseThreshold = 8.0
)

// ClassifyScore maps a score to its status bucket.
func ClassifyScore(score float64) Status {
	switch {
	case score >= ExcellentThreshold:
		return StatusExcellent
	case score >= GoodThreshold:
		return StatusGood
	default:
		return StatusWarning
	}
}

// StatusFilter is a status bucket name, including the catch-all "all".
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterExcellent StatusFilter = StatusFilter(StatusExcellent)
	FilterGood      StatusFilter = StatusFilter(StatusGood)
	FilterWarning   StatusFilter = StatusFilter(StatusWarning)
)

// StatusFilters lists the buckets in tab order.
var StatusFilters = []StatusFilter{FilterAll, FilterExcellent, FilterGood, FilterWarning}

// ParseStatusFilter validates a bucket name coming from a caller.
func ParseStatusFilter(s string) (StatusFilter, error) {
	f := StatusFilter(strings.TrimSpace(s))
	if !f.Valid() {
		return "", fmt.Errorf("%w: unknown status %q (allowed: all, excellent, good, warning)", ErrInvalidArgument, s)
	}
	return f, nil
}

// Valid reports whether f is one of the four buckets.
func (f StatusFilter) Valid() bool {
	switch f {
	case FilterAll, FilterExcellent, FilterGood, FilterWarning:
		return true
	}
	return false
}
