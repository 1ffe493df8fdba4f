// Package freq builds frequency tables and cross-tabulations over the
// cleaned client table, with an optional population filter and year slice.
package freq

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/sosdash/internal/pipeline"
	"github.com/spf13/cast"
)

// All disables the population filter.
const All = "all"

// Class decides how a filter value is coerced before comparison.
type Class int

const (
	// Unfilterable columns are rejected as filters.
	Unfilterable Class = iota
	// Binary columns hold 0/1 and compare as integers.
	Binary
	// Categorical columns compare as strings.
	Categorical
)

func (c Class) String() string {
	switch c {
	case Binary:
		return "binary"
	case Categorical:
		return "categorical"
	}
	return "unfilterable"
}

// filterColumns is the allow-list of population filters.
var filterColumns = map[string]Class{
	pipeline.ColFollowThrough: Binary,
	pipeline.ColClub:          Binary,
	pipeline.ColLearn:         Binary,
	pipeline.ColExplore:       Binary,
	pipeline.ColMakeItHappen:  Binary,
	pipeline.ColTripEligible:  Binary,
	pipeline.ColScholarship:   Binary,

	pipeline.ColIncomeRange: Categorical,
	pipeline.ColDistrict:    Categorical,
	pipeline.ColSchool:      Categorical,
	pipeline.ColGender:      Categorical,
	pipeline.ColRace:        Categorical,
}

// ClassOf returns the filter class of a column.
func ClassOf(column string) Class { return filterColumns[column] }

// Filterable lists the filter columns in name order.
func Filterable() []string {
	out := make([]string, 0, len(filterColumns))
	for c := range filterColumns {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Filter is a coerced population filter ready to match clients.
type Filter struct {
	Column string
	Class  Class
	Value  pipeline.Value
}

// NewFilter validates column and coerces raw to the column's class. Binary
// columns take 1/0, "1"/"0", "yes"/"no" and booleans; categorical columns
// take any scalar. Income bracket filters accept a bracket label or a number
// naming the bracket, in thousands ("50") or dollars (55000).
func NewFilter(column string, raw any) (*Filter, error) {
	class := ClassOf(column)
	switch class {
	case Binary:
		i, err := toBinary(raw)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", column, err)
		}
		return &Filter{Column: column, Class: class, Value: pipeline.IntValue(i)}, nil
	case Categorical:
		s, err := cast.ToStringE(raw)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", column, err)
		}
		s = strings.TrimSpace(s)
		if column == pipeline.ColIncomeRange {
			s = normalizeBracket(s)
		}
		if s == "" {
			return nil, fmt.Errorf("filter %q: empty value", column)
		}
		return &Filter{Column: column, Class: class, Value: pipeline.StringValue(s)}, nil
	}
	return nil, fmt.Errorf("column %q cannot be used as a filter", column)
}

func toBinary(raw any) (int64, error) {
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		switch strings.ToLower(s) {
		case "yes", "true", "y":
			return 1, nil
		case "no", "false", "n":
			return 0, nil
		}
		raw = s
	}
	switch f := raw.(type) {
	case float64:
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("value %v is not 0 or 1", f)
		}
	case float32:
		if float64(f) != math.Trunc(float64(f)) {
			return 0, fmt.Errorf("value %v is not 0 or 1", f)
		}
	}
	i, err := cast.ToInt64E(raw)
	if err != nil {
		return 0, err
	}
	if i != 0 && i != 1 {
		return 0, fmt.Errorf("value %d is not 0 or 1", i)
	}
	return i, nil
}

func normalizeBracket(s string) string {
	if strings.Contains(s, "-") {
		parts := strings.SplitN(s, "-", 2)
		return strings.TrimSpace(parts[0]) + " - " + strings.TrimSpace(parts[1])
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return s
	}
	if f >= 1000 {
		return pipeline.IncomeBracket(int(f))
	}
	lo := int(f) / 10 * 10
	return fmt.Sprintf("%d - %d", lo, lo+9)
}

// Match reports whether the client passes the filter.
func (f *Filter) Match(c *pipeline.Client) bool {
	if f == nil {
		return true
	}
	v, ok := c.Field(f.Column)
	if !ok || v.IsNull() {
		return false
	}
	switch f.Class {
	case Binary:
		n, ok := v.Float()
		return ok && int64(n) == f.Value.I
	case Categorical:
		return v.String() == f.Value.S
	}
	return false
}
