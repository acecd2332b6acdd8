package audio

import (
	"fmt"
	"math"
)

// FormatClock renders the transport readout "MM:SS / MM:SS". The total
// shows as --:-- while the duration is unknown (<= 0) or non-finite.
// Minutes run past 99 rather than wrap.
func FormatClock(elapsed, total float64) string {
	totalStr := "--:--"
	if total > 0 && !math.IsInf(total, 0) && !math.IsNaN(total) {
		totalStr = formatMMSS(total)
	}
	return formatMMSS(elapsed) + " / " + totalStr
}

func formatMMSS(sec float64) string {
	if sec < 0 || math.IsNaN(sec) || math.IsInf(sec, 0) {
		sec = 0
	}
	s := int(sec)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
