// Package duration converts between user-entered time text and whole seconds.
package duration

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseDigits reads raw as a packed minutes+seconds digit run, the way a
// microwave keypad does: "125" is 1m25s, not 125 seconds. Non-digits are
// ignored and a seconds part of 60 or more carries into minutes, so "190"
// becomes 2m30s. It reports false when raw holds no digits at all.
func ParseDigits(raw string) (int, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimLeft(b.String(), "0")
	if b.Len() == 0 {
		return 0, false
	}
	if digits == "" {
		return 0, true
	}
	// Anything longer than nine digits cannot be a workout duration; keep
	// the trailing ones so the value stays within int range.
	if len(digits) > 9 {
		digits = digits[len(digits)-9:]
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	minutes := n / 100
	seconds := n % 100
	if seconds >= 60 {
		minutes += seconds / 60
		seconds %= 60
	}
	return minutes*60 + seconds, true
}

// maxMinutes is the largest minute count whose seconds still fit in an int.
const maxMinutes = (math.MaxInt - 59) / 60

// ParseColon reads "M:SS" text. Missing or non-numeric parts count as zero
// and the result is never negative. Values too large for an int give 0.
func ParseColon(text string) int {
	parts := strings.Split(strings.TrimSpace(text), ":")
	minutes := atoiOrZero(parts[0])
	seconds := 0
	if len(parts) > 1 {
		seconds = atoiOrZero(parts[1])
	}
	if minutes > maxMinutes || minutes < -maxMinutes {
		return 0
	}
	m := minutes * 60
	if (m > 0 && seconds > math.MaxInt-m) || (m < 0 && seconds < math.MinInt-m) {
		return 0
	}
	total := m + seconds
	if total < 0 {
		return 0
	}
	return total
}

// Format renders total seconds as M:SS. Negative totals render as 0:00.
func Format(total int) string {
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatLong renders total seconds as "Xm Ys" for summary lines.
func FormatLong(total int) string {
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
