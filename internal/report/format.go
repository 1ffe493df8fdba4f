package report

import (
	"math"

	"github.com/KaramelBytes/sosdash/internal/pipeline"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Int formats n with thousands separators.
func Int(n int) string { return printer.Sprintf("%d", n) }

// Float formats f with two decimals and thousands separators.
func Float(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "-"
	}
	return printer.Sprintf("%.2f", f)
}

// Money formats a dollar amount.
func Money(f float64) string { return "$" + Float(f) }

// Percent formats an already-scaled percentage.
func Percent(f float64) string { return printer.Sprintf("%.1f%%", f) }

// Cell formats a dataset value for a table. Nulls print as "-".
func Cell(v pipeline.Value) string {
	switch v.Kind {
	case pipeline.KindNull:
		return "-"
	case pipeline.KindFloat:
		if v.F == math.Trunc(v.F) && math.Abs(v.F) < 1e15 {
			return printer.Sprintf("%d", int64(v.F))
		}
		return Float(v.F)
	}
	return v.String()
}
