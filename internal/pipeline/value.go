package pipeline

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Kind tags the dynamic type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
	KindTime
)

// Value is a nullable cell of the cleaned dataset.
type Value struct {
	Kind Kind
	I    int64
	F    float64
	S    string
	T    time.Time
}

// Null is the missing value.
var Null = Value{}

func IntValue(i int64) Value { return Value{Kind: KindInt, I: i} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, F: f} }
func TimeValue(t time.Time) Value { return Value{Kind: KindTime, T: t} }
func StringValue(s string) Value {
	if s == "" {
		return Null
	}
	return Value{Kind: KindString, S: s}
}

// IsNull reports whether v is missing.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Float returns the numeric value of Int and Float kinds.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.I), true
	case KindFloat:
		return v.F, true
	}
	return 0, false
}

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.I, 10)
	case KindFloat:
		return strconv.FormatFloat(v.F, 'f', -1, 64)
	case KindString:
		return v.S
	case KindTime:
		if v.T.Hour() == 0 && v.T.Minute() == 0 && v.T.Second() == 0 {
			return v.T.Format("2006-01-02")
		}
		return v.T.Format("2006-01-02 15:04:05")
	}
	return ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindInt:
		return json.Marshal(v.I)
	case KindFloat:
		if math.IsNaN(v.F) || math.IsInf(v.F, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.F)
	case KindString, KindTime:
		return json.Marshal(v.String())
	}
	return []byte("null"), nil
}

// Compare orders values: nulls first, then numbers, times, strings.
func Compare(a, b Value) int {
	ra, rb := rank(a.Kind), rank(b.Kind)
	if ra != rb {
		return cmpInt(ra, rb)
	}
	switch ra {
	case 1:
		fa, _ := a.Float()
		fb, _ := b.Float()
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case 2:
		return a.T.Compare(b.T)
	case 3:
		return strings.Compare(a.S, b.S)
	}
	return 0
}

func rank(k Kind) int {
	switch k {
	case KindInt, KindFloat:
		return 1
	case KindTime:
		return 2
	case KindString:
		return 3
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// parseNumeric parses a cell as a number, accepting either ',' or '.' as
// the decimal separator and dropping thousands separators.
func parseNumeric(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	dec := '.'
	switch {
	case cpos >= 0 && dpos >= 0 && cpos > dpos:
		dec = ','
	case cpos >= 0 && dpos < 0 && strings.Count(raw, ",") == 1 && len(raw)-cpos-1 != 3:
		// "2,5" is a decimal; "1,234" is a thousands group.
		dec = ','
	}
	for _, sep := range []rune{',', '.', ' '} {
		if sep != dec {
			raw = strings.ReplaceAll(raw, string(sep), "")
		}
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseInt parses an integral cell. "16.0" is accepted, "16.5" is not.
func parseInt(s string) (int64, bool) {
	f, ok := parseNumeric(s)
	if !ok || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}

var dateLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "01/02/2006", "1/2/2006", "02/01/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "2006-01-02T15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	"01/02/2006 15:04:05", "Jan 2, 2006", "January 2, 2006",
}

// parseTimeMaybe parses a date cell: an Excel serial number or one of the
// common text layouts. US month-first order wins over day-first.
func parseTimeMaybe(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if !strings.ContainsAny(s, "-/: ") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			if f < 1 || f > 2958465 {
				return time.Time{}, false
			}
			t, err := excelize.ExcelDateToTime(f, false)
			if err != nil {
				return time.Time{}, false
			}
			return t.Round(time.Second), true
		}
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// inferValue turns free text into an Int, Float or String value.
func inferValue(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Null
	}
	if i, ok := parseInt(s); ok && !strings.ContainsAny(s, ", ") {
		return IntValue(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return FloatValue(f)
	}
	return StringValue(s)
}
