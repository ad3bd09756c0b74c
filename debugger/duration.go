package debugger

import (
	"math"
	"strconv"
	"time"
)

const tooFast = "too fast to measure"

var durationUnits = []string{"sec", "ms", "us", "ns", "ps", "fs", "as", "zs", "ys"}

// FormatDuration renders d in the largest unit whose value rounded to three
// decimals is at least one, e.g. "1.200 ms".
func FormatDuration(d time.Duration) string {
	return formatSeconds(d.Seconds())
}

func formatSeconds(sec float64) string {
	scale := 1.0
	v := 0.0
	for _, unit := range durationUnits {
		v = math.Round(sec*scale*1000) / 1000
		if v >= 1 {
			return strconv.FormatFloat(v, 'f', 3, 64) + " " + unit
		}
		scale *= 1000
	}
	if v == 0 {
		return tooFast
	}
	return strconv.FormatFloat(v, 'f', 3, 64) + " " + durationUnits[len(durationUnits)-1]
}
