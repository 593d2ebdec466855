package service

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// formatAmount renders a rupee amount with thousands separators and no
// decimals, e.g. 1,240,000.
func formatAmount(v float64) string {
	return printer.Sprintf("%.0f", v)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func orNA(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "N/A"
	}
	return *s
}

func dashboardKey(constituencyName string) string {
	return strings.ToLower(strings.TrimSpace(constituencyName))
}
