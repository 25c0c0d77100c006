// Package align translates a billing-source window into the equivalent
// window in the flow-accounting source's calendar, timezone, and end-bound
// convention, so that both usage totals describe the identical elapsed
// wall-clock interval.
package align

import (
	"errors"
	"fmt"
	"time"
)

// dateLayout is the date-granularity form both sources report.
const dateLayout = "2006-01-02"

// flowTimeLayout is the timestamp format the flow-accounting query interface
// accepts: local wall-clock time with no zone suffix.
const flowTimeLayout = "2006-01-02 15:04:05"

// ErrEmptyWindow is returned when an unset window reaches alignment. Callers
// with an empty router batch must skip flow-accounting pulls entirely rather
// than query an arbitrary default window.
var ErrEmptyWindow = errors.New("align: empty window")

// Window is a half-open [Start, End) billing window at date granularity.
// Both bounds are midnights anchored in UTC, the billing source's
// convention. Windows are plain values threaded explicitly through a run;
// nothing in this package holds ambient window state.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewWindow builds a Window from "YYYY-MM-DD" bounds. The end bound is
// exclusive and must fall strictly after the start.
func NewWindow(start, end string) (Window, error) {
	s, err := time.ParseInLocation(dateLayout, start, time.UTC)
	if err != nil {
		return Window{}, fmt.Errorf("align: start date %q: %w", start, err)
	}
	e, err := time.ParseInLocation(dateLayout, end, time.UTC)
	if err != nil {
		return Window{}, fmt.Errorf("align: end date %q: %w", end, err)
	}
	if !e.After(s) {
		return Window{}, fmt.Errorf("align: end %s does not follow start %s", end, start)
	}
	return Window{Start: s, End: e}, nil
}

// IsZero reports whether the window is unset.
func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// StartDate returns the start bound as "YYYY-MM-DD".
func (w Window) StartDate() string {
	return w.Start.Format(dateLayout)
}

// EndDate returns the exclusive end bound as "YYYY-MM-DD".
func (w Window) EndDate() string {
	return w.End.Format(dateLayout)
}

// FlowBounds converts the billing window into the flow-accounting source's
// convention and returns the formatted query bounds. Two corrections apply,
// in this order:
//
//  1. Inclusivity: the billing end is exclusive while the flow source treats
//     its end bound as inclusive, so the last day the window covers is
//     End minus one day.
//  2. Timezone: billing bounds are UTC-anchored midnights; both boundary
//     instants are converted into the flow source's zone. The instant that
//     closes the last covered day is the exclusive End midnight itself, and
//     in a zone west of UTC it renders on that last day, which is exactly
//     the inclusive bound the flow source expects.
//
// Applying the zone shift before the inclusivity correction would move the
// exclusive bound onto the wrong calendar day. For the window
// [2024-09-01, 2024-10-01) at UTC-7 the bounds come out as
// "2024-08-31 17:00:00" and "2024-09-30 17:00:00".
func FlowBounds(w Window, loc *time.Location) (start, end string, err error) {
	if w.IsZero() {
		return "", "", ErrEmptyWindow
	}
	if loc == nil {
		return "", "", errors.New("align: nil flow location")
	}

	lastCovered := w.End.AddDate(0, 0, -1)
	if lastCovered.Before(w.Start) {
		return "", "", fmt.Errorf("align: window [%s, %s) covers no full day", w.StartDate(), w.EndDate())
	}

	start = w.Start.In(loc).Format(flowTimeLayout)
	end = w.End.In(loc).Format(flowTimeLayout)
	return start, end, nil
}
