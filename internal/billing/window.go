package billing

import (
	"errors"
	"fmt"

	"github.com/remdambrosio/bridgetroll/internal/align"
)

// ErrNoCycles is returned for a payload with zero billing cycles. Such a
// router cannot be reconciled and must be excluded by the caller; the error
// is never swallowed into a zero window.
var ErrNoCycles = errors.New("billing: payload contains no billing cycles")

// dateLen is the prefix length of an ISO 8601 timestamp that carries the
// date component, e.g. "2024-09-01" in "2024-09-01T00:00:00Z".
const dateLen = 10

// EarliestCycle selects the cycle with the minimal start timestamp. The
// source guarantees cycle start times are unique within one payload, so
// ties cannot occur in practice and are broken arbitrarily. ISO 8601
// timestamps order lexicographically, so no parsing is needed to compare.
func EarliestCycle(p UsagePayload) (BillingCycle, error) {
	if len(p.BillingCycles) == 0 {
		return BillingCycle{}, ErrNoCycles
	}
	earliest := p.BillingCycles[0]
	for _, c := range p.BillingCycles[1:] {
		if c.StartDate < earliest.StartDate {
			earliest = c
		}
	}
	return earliest, nil
}

// CycleWindow truncates the cycle's timestamps to date granularity and
// returns the half-open [start, end) billing window.
func CycleWindow(c BillingCycle) (align.Window, error) {
	start, err := truncateToDate(c.StartDate)
	if err != nil {
		return align.Window{}, err
	}
	end, err := truncateToDate(c.EndDate)
	if err != nil {
		return align.Window{}, err
	}
	return align.NewWindow(start, end)
}

// truncateToDate drops the time-of-day and zone suffix from an ISO 8601
// timestamp, leaving "YYYY-MM-DD".
func truncateToDate(ts string) (string, error) {
	if len(ts) < dateLen {
		return "", fmt.Errorf("billing: timestamp %q too short to carry a date", ts)
	}
	return ts[:dateLen], nil
}
