// Package flow extracts directional byte counters for a router's interface
// from the flow-accounting system's raw multi-line counter dump.
package flow

import (
	"strconv"
	"strings"

	"github.com/remdambrosio/bridgetroll/internal/device"
)

// Counter names as they appear in flow-accounting lines.
const (
	inCounter  = "IF-MIB.ifHCInOctets"
	outCounter = "IF-MIB.ifHCOutOctets"
)

// gbPerByte converts octet counters to decimal gigabytes, matching the
// billing source's unit. Decimal GB, not GiB.
const gbPerByte = 1e-9

// Extract scans the batch blob for the router's inbound and outbound octet
// counter lines on iface and returns their sum in GB. The blob interleaves
// lines for every router in the batch; only lines whose fixed-width leading
// field resolves to router are considered.
//
// found is true only when at least one counter line matched. A router with
// no matching counter lines has no secondary total at all; absence is not
// the same as a true zero and the caller must exclude the router.
//
// Relevant lines are comma-delimited:
//
//	<8-char router prefix>-<...>,<iface>,IF-MIB.ifHCInOctets,=,<digits>
//
// Short lines, lines for other routers or interfaces, and lines whose value
// field is not an unsigned integer contribute nothing.
func Extract(blob string, router device.ID, iface string) (gb float64, found bool) {
	if iface == "" {
		return 0, false
	}

	var totalBytes float64
	for _, line := range strings.Split(blob, "\n") {
		id, ok := device.FromPrefix(line)
		if !ok || id != router {
			continue
		}
		value, ok := counterValue(line, iface)
		if !ok {
			continue
		}
		totalBytes += value
		found = true
	}
	return totalBytes * gbPerByte, found
}

// counterValue returns the counter reading if the line reports an octet
// counter for iface. The interface, counter name, equality marker, and
// value occupy consecutive comma-separated fields.
func counterValue(line, iface string) (float64, bool) {
	fields := strings.Split(line, ",")
	for i := 0; i+3 < len(fields); i++ {
		if fields[i] != iface {
			continue
		}
		if fields[i+1] != inCounter && fields[i+1] != outCounter {
			continue
		}
		if fields[i+2] != "=" {
			continue
		}
		value, err := strconv.ParseUint(fields[i+3], 10, 64)
		if err != nil {
			continue
		}
		return float64(value), true
	}
	return 0, false
}
