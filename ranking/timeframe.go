package ranking

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimeframe = errors.New("invalid timeframe")

// Timeframe is a closed set of supported windows. Each maps to an explicit
// cutoff computed in Go and passed to the store as a bind parameter; caller
// input is never spliced into SQL.
type Timeframe string

const (
	TimeframeWeek     Timeframe = "7d"
	TimeframeMonth    Timeframe = "30d"
	TimeframeQuarter  Timeframe = "90d"
	TimeframeHalfYear Timeframe = "6m"
	TimeframeYear     Timeframe = "1y"
	TimeframeLifetime Timeframe = "lifetime"
)

// ParseTimeframe maps a request token to a Timeframe. Empty means lifetime.
func ParseTimeframe(s string) (Timeframe, error) {
	if s == "" {
		return TimeframeLifetime, nil
	}
	switch t := Timeframe(s); t {
	case TimeframeWeek, TimeframeMonth, TimeframeQuarter,
		TimeframeHalfYear, TimeframeYear, TimeframeLifetime:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTimeframe, s)
}

// Cutoff returns the earliest game date included in the window, relative to
// now. ok is false for lifetime, meaning no filter applies.
func (t Timeframe) Cutoff(now time.Time) (cutoff time.Time, ok bool) {
	switch t {
	case TimeframeWeek:
		return now.AddDate(0, 0, -7), true
	case TimeframeMonth:
		return now.AddDate(0, 0, -30), true
	case TimeframeQuarter:
		return now.AddDate(0, 0, -90), true
	case TimeframeHalfYear:
		return now.AddDate(0, -6, 0), true
	case TimeframeYear:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}
