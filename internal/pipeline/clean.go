// Package pipeline cleans an uploaded workbook into the analytics dataset
// and derives the summary tables built from it.
package pipeline

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/KaramelBytes/sosdash/internal/geo"
)

// Options controls cleaning policy.
type Options struct {
	// AgeFloor replaces unknown, blank and too-small sign-up ages.
	AgeFloor int
	// MaxAge excludes rows whose adjusted age is above it.
	MaxAge int
	// EnrollmentCutoff drops clients added before it. Zero disables the filter.
	EnrollmentCutoff time.Time
	// ClubSchools is the club allow-list; nil means DefaultClubSchools.
	ClubSchools []string
	// HourlyValue prices a volunteer hour for the processing summary.
	HourlyValue float64
}

// DefaultOptions returns the standard cleaning policy.
func DefaultOptions() Options {
	return Options{
		AgeFloor:         15,
		MaxAge:           20,
		EnrollmentCutoff: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		HourlyValue:      31,
	}
}

// Counts records how many rows each cleaning rule removed.
type Counts struct {
	RawClients        int `json:"raw_clients"`
	RawEvents         int `json:"raw_events"`
	DroppedNoID       int `json:"dropped_no_id"`
	DroppedAge        int `json:"dropped_age"`
	DroppedEnrollment int `json:"dropped_enrollment"`
	DroppedEvents     int `json:"dropped_events"`
	AgesFloored       int `json:"ages_floored"`
}

// Run cleans raw rows and derives every per-client field and summary table.
// Malformed cells become nulls; only a missing ID, an age above MaxAge or an
// enrollment before the cutoff remove a row.
func Run(raw *RawData, opt Options) (*Dataset, error) {
	if raw == nil || raw.Clients == nil || raw.Hours == nil {
		return nil, errors.New("pipeline: clients and service hours tables are required")
	}
	if opt.MaxAge <= 0 {
		return nil, fmt.Errorf("pipeline: invalid max age %d", opt.MaxAge)
	}
	clubs := newClubSet(opt.ClubSchools)
	if opt.ClubSchools == nil {
		clubs = newClubSet(DefaultClubSchools)
	}

	ds := &Dataset{Options: opt}
	ds.Counts.RawClients = raw.Clients.Len()
	ds.Counts.RawEvents = raw.Hours.Len()

	ds.Events = readEvents(raw, &ds.Counts)
	agg := aggregateEvents(ds.Events)
	ds.extraCols = extraColumns(raw.Clients.Header)

	for i := 0; i < raw.Clients.Len(); i++ {
		c, ok := readClient(raw, i, opt, &ds.Counts, ds.extraCols)
		if !ok {
			continue
		}
		derive(&c, agg, clubs)
		ds.Clients = append(ds.Clients, c)
	}

	ds.ClubHours = clubHours(ds.Clients, clubs)
	ds.Quarters = activityBuckets(ds.Events, quarterKey)
	ds.Months = activityBuckets(ds.Events, monthKey)
	ds.activeByYear = activeByYear(ds.Events)
	if raw.Survey != nil {
		ds.Survey = raw.Survey
	}
	return ds, nil
}

func readEvents(raw *RawData, counts *Counts) []ServiceEvent {
	t := raw.Hours
	out := make([]ServiceEvent, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		id, ok := parseInt(t.Value(i, ColGalaxyID))
		if !ok {
			counts.DroppedEvents++
			continue
		}
		ev := ServiceEvent{GalaxyID: id, Zip: normalizeZip(t.Value(i, ColEventZip))}
		if d, ok := parseTimeMaybe(t.Value(i, ColEventDate)); ok {
			ev.Date = TimeValue(d)
		}
		if h, ok := parseNumeric(t.Value(i, ColEventHrs)); ok {
			ev.Hours = FloatValue(h)
		}
		out = append(out, ev)
	}
	return out
}

func readClient(raw *RawData, i int, opt Options, counts *Counts, extra []string) (Client, bool) {
	t := raw.Clients
	id, ok := parseInt(t.Value(i, ColGalaxyID))
	if !ok {
		counts.DroppedNoID++
		return Client{}, false
	}
	age, floored := normalizeAge(t.Value(i, ColAgeAtSignUp), opt.AgeFloor)
	if age > opt.MaxAge {
		counts.DroppedAge++
		return Client{}, false
	}
	if floored {
		counts.AgesFloored++
	}
	c := Client{
		GalaxyID:    id,
		AgeAtSignUp: age,
		AgeNow:      nullableInt(t.Value(i, ColAgeNow)),
		GradYear:    nullableInt(t.Value(i, ColGradYear)),
		School:      t.Value(i, ColSchool),
		District:    t.Value(i, ColDistrict),
		Race:        t.Value(i, ColRace),
		Gender:      t.Value(i, ColGender),
		Zip:         normalizeZip(t.Value(i, ColZip)),
	}
	if d, ok := parseTimeMaybe(t.Value(i, ColDateAdded)); ok {
		if !opt.EnrollmentCutoff.IsZero() && d.Before(opt.EnrollmentCutoff) {
			counts.DroppedEnrollment++
			return Client{}, false
		}
		c.DateAdded = TimeValue(d)
	}
	// "0" is the sheet's placeholder for an unknown graduation year.
	if c.GradYear.Kind == KindInt && c.GradYear.I == 0 {
		c.GradYear = Null
	}
	c.Learn = yesNo(t.Value(i, ColLearn))
	c.Explore = yesNo(t.Value(i, ColExplore))
	c.MakeItHappen = yesNo(t.Value(i, ColMakeItHappen))
	c.TripEligible = yesNo(t.Value(i, ColTripEligible))
	c.Scholarship = yesNo(t.Value(i, ColScholarship))
	if h, ok := parseNumeric(t.Value(i, ColHours)); ok {
		c.Hours = FloatValue(h)
	}
	if r, ok := parseNumeric(t.Value(i, ColResponses)); ok {
		c.Responses = FloatValue(r)
	}
	if len(extra) > 0 {
		c.Extra = make(map[string]Value, len(extra))
		for _, col := range extra {
			c.Extra[col] = inferValue(t.Value(i, col))
		}
	}
	return c, true
}

// normalizeAge maps "Unknown", blanks, unparseable text and ages below the
// floor to the floor. The flag reports whether a substitution happened.
func normalizeAge(s string, floor int) (int, bool) {
	if strings.EqualFold(strings.TrimSpace(s), "unknown") {
		return floor, true
	}
	f, ok := parseNumeric(s)
	if !ok {
		return floor, true
	}
	if f < float64(floor) {
		return floor, true
	}
	// saturate so the caller's max-age check still sees an oversized age
	if f > math.MaxInt32 {
		return math.MaxInt32, false
	}
	return int(math.Floor(f)), false
}

// nullableInt parses an integer column where "Unknown" and junk are null.
func nullableInt(s string) Value {
	if i, ok := parseInt(s); ok {
		return IntValue(i)
	}
	return Null
}

func yesNo(s string) Value {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "1", "true":
		return IntValue(1)
	case "no", "n", "0", "false":
		return IntValue(0)
	}
	return Null
}

// normalizeZip keeps the first five characters of a zip code ("78245-1234"
// and "78245.0" both give 78245). Non-numeric input is null.
func normalizeZip(s string) Value {
	s = strings.TrimSpace(s)
	if len(s) > 5 {
		s = s[:5]
	}
	if len(s) == 0 {
		return Null
	}
	i, ok := parseInt(s)
	if !ok || i < 0 {
		return Null
	}
	return IntValue(i)
}

type serviceAgg struct {
	hours    float64
	count    int
	earliest time.Time
	latest   time.Time
}

func aggregateEvents(events []ServiceEvent) map[int64]*serviceAgg {
	m := make(map[int64]*serviceAgg)
	for _, e := range events {
		a := m[e.GalaxyID]
		if a == nil {
			a = &serviceAgg{}
			m[e.GalaxyID] = a
		}
		if h, ok := e.Hours.Float(); ok {
			a.hours += h
		}
		if e.Date.Kind != KindTime {
			continue
		}
		a.count++
		if a.earliest.IsZero() || e.Date.T.Before(a.earliest) {
			a.earliest = e.Date.T
		}
		if a.latest.IsZero() || e.Date.T.After(a.latest) {
			a.latest = e.Date.T
		}
	}
	return m
}

func derive(c *Client, agg map[int64]*serviceAgg, clubs clubSet) {
	if a, ok := agg[c.GalaxyID]; ok {
		c.CollectedHours = FloatValue(a.hours)
		c.ServiceCount = IntValue(int64(a.count))
		if a.count > 0 {
			c.Earliest = TimeValue(a.earliest)
			c.Latest = TimeValue(a.latest)
			if days := dayDiff(a.earliest, a.latest); days > 0 {
				c.ServiceRange = IntValue(int64(days))
			}
		}
	}
	if h, ok := c.Hours.Float(); ok && h > 0 {
		c.FollowThrough = 1
	}
	if clubs.has(c.School) {
		c.Club = 1
	}
	if c.Zip.Kind == KindInt {
		zip := int(c.Zip.I)
		if county, ok := geo.CountyOf(zip); ok {
			c.County = StringValue(string(county))
		}
		if income, ok := geo.ResolveIncome(zip); ok {
			c.Income = IntValue(int64(income))
			c.IncomeRange = StringValue(IncomeBracket(income))
		}
	}
}

// IncomeBracket collapses an income to its ten-thousand band, labelled in
// thousands: 64082 becomes "60 - 69".
func IncomeBracket(income int) string {
	if income < 0 {
		income = 0
	}
	lo := income / 10000 * 10
	return fmt.Sprintf("%d - %d", lo, lo+9)
}

func extraColumns(header []string) []string {
	known := make(map[string]struct{}, len(knownColumns))
	for _, k := range knownColumns {
		known[strings.ToLower(k)] = struct{}{}
	}
	var out []string
	for _, h := range header {
		if h == "" {
			continue
		}
		if _, ok := known[strings.ToLower(h)]; ok {
			continue
		}
		out = append(out, h)
	}
	return out
}
