package dashboard

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberPrinter = message.NewPrinter(language.English)

// FormatCurrency renders whole US dollars with thousands separators ("$73,210").
func FormatCurrency(amount int) string {
	if amount < 0 {
		// -amount overflows for math.MinInt, so format the magnitude as uint.
		return "-$" + numberPrinter.Sprintf("%d", uint(-(amount+1))+1)
	}
	return "$" + FormatCount(amount)
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return numberPrinter.Sprintf("%d", n)
}

// FormatPercent renders a whole percentage.
func FormatPercent(p int) string {
	return fmt.Sprintf("%d%%", p)
}

// FormatDecimalPercent renders a percentage with one decimal place.
func FormatDecimalPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatSessionDuration renders seconds as M:SS.
func FormatSessionDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
