package exporter

import (
	"math"
	"strconv"
)

// formatValue formats a matrix cell for CSV output. Values use the shortest
// representation that parses back to the same float64; missing cells become
// empty fields.
func formatValue(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatEpoch formats an epoch_day header value
func formatEpoch(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatLabel formats a 0/1 label cell as an integer
func formatLabel(f float64) string {
	if math.IsNaN(f) {
		return "0"
	}
	return strconv.Itoa(int(f))
}
