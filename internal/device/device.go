// Package device resolves the differently-formatted router identifiers used
// by each measurement source into one canonical per-router key.
package device

import (
	"regexp"
	"strings"
)

// ID is the canonical, uppercase-normalized router identifier used to join
// records across all sources. Resolution is assumed injective: no two
// physical routers share a resolved ID (an inventory invariant this package
// does not verify).
type ID string

// labelPattern matches the router token embedded in a billing service-line
// nickname, e.g. "SITE7-SKvan012-BACKUP" carries router "van012". The token
// is bounded by the "-SK" marker and the next "-".
var labelPattern = regexp.MustCompile(`-SK([^-]+)-`)

// prefixWidth is the fixed width of the router field that leads every
// flow-accounting line. The field is always terminated by a '-'.
const prefixWidth = 8

// FromLabel extracts the router identifier embedded in a billing label.
// Returns ("", false) when the label carries no -SK<token>- marker, which
// is the normal case for service lines not tied to a managed router.
func FromLabel(label string) (ID, bool) {
	m := labelPattern.FindStringSubmatch(label)
	if m == nil {
		return "", false
	}
	return Normalize(m[1]), true
}

// FromPrefix extracts the router identifier from the fixed-width leading
// field of a flow-accounting line. Lines shorter than the field, or lines
// where the field is not terminated by '-', are rejected rather than read
// out of bounds.
func FromPrefix(line string) (ID, bool) {
	if len(line) <= prefixWidth || line[prefixWidth] != '-' {
		return "", false
	}
	return Normalize(line[:prefixWidth]), true
}

// Normalize maps a raw router name onto its canonical form.
func Normalize(name string) ID {
	return ID(strings.ToUpper(name))
}
