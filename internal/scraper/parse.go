package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// parseCurrency converts a scraped money string like "$12,345.67" to a
// decimal. An empty or dash-only cell parses to zero.
func parseCurrency(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" || s == "N/A" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparseable amount %q: %w", raw, err)
	}
	return d, nil
}

// saleDateLayouts are the date formats seen across county sale lists.
var saleDateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"2006-01-02",
}

// parseSaleDate converts a scraped date cell to a time. County lists publish
// bare dates; the result is midnight UTC.
func parseSaleDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range saleDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable sale date %q", raw)
}

// cleanText collapses the whitespace runs that HTML table cells accumulate.
func cleanText(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
