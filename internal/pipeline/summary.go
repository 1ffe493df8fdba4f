package pipeline

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/sosdash/internal/geo"
)

// SchoolHours is one row of the club-hours summary.
type SchoolHours struct {
	School string  `json:"school"`
	Hours  float64 `json:"hours"`
	Club   int     `json:"club"`
}

// ActivityBucket counts distinct active volunteers in a period such as
// "2022-Q1" or "2022-03".
type ActivityBucket struct {
	Period     string `json:"period"`
	Volunteers int    `json:"active_volunteers"`
}

// clubHours sums directly reported hours per school. Clients with no school
// are left out; null hours count as zero.
func clubHours(clients []Client, clubs clubSet) []SchoolHours {
	idx := map[string]int{}
	var out []SchoolHours
	for _, c := range clients {
		if c.School == "" {
			continue
		}
		i, ok := idx[c.School]
		if !ok {
			i = len(out)
			idx[c.School] = i
			sh := SchoolHours{School: c.School}
			if clubs.has(c.School) {
				sh.Club = 1
			}
			out = append(out, sh)
		}
		if h, ok := c.Hours.Float(); ok {
			out[i].Hours += h
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].School < out[j].School })
	return out
}

func quarterKey(e ServiceEvent) string {
	t := e.Date.T
	return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
}

func monthKey(e ServiceEvent) string {
	return e.Date.T.Format("2006-01")
}

// activityBuckets counts distinct IDs per period over dated events, in
// period order.
func activityBuckets(events []ServiceEvent, key func(ServiceEvent) string) []ActivityBucket {
	sets := map[string]map[int64]struct{}{}
	for _, e := range events {
		if e.Date.Kind != KindTime {
			continue
		}
		k := key(e)
		if sets[k] == nil {
			sets[k] = map[int64]struct{}{}
		}
		sets[k][e.GalaxyID] = struct{}{}
	}
	out := make([]ActivityBucket, 0, len(sets))
	for k, s := range sets {
		out = append(out, ActivityBucket{Period: k, Volunteers: len(s)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// ProcessingSummary is the headline report shown after an upload.
type ProcessingSummary struct {
	Counts
	Clients           int     `json:"clients"`
	Events            int     `json:"events"`
	SurveyResponses   int     `json:"survey_responses"`
	FollowThroughRate float64 `json:"follow_through_rate"`
	AvgActiveHours    float64 `json:"avg_active_hours"`
	TotalHours        float64 `json:"total_hours"`
	VolunteerValue    float64 `json:"volunteer_value"`
	ClubSchools       int     `json:"club_schools"`
	TotalSchools      int     `json:"total_schools"`
}

// Summary computes the processing summary. Rates are percentages; the
// volunteer value prices reported hours at Options.HourlyValue.
func (d *Dataset) Summary() ProcessingSummary {
	s := ProcessingSummary{}
	if d == nil {
		return s
	}
	s.Counts = d.Counts
	s.Clients = len(d.Clients)
	s.Events = len(d.Events)
	if d.Survey != nil {
		s.SurveyResponses = d.Survey.Len()
	}
	var follow, active int
	var activeHours float64
	for _, c := range d.Clients {
		follow += c.FollowThrough
		if h, ok := c.Hours.Float(); ok {
			s.TotalHours += h
			if h > 0 {
				active++
				activeHours += h
			}
		}
	}
	if s.Clients > 0 {
		s.FollowThroughRate = float64(follow) * 100 / float64(s.Clients)
	}
	if active > 0 {
		s.AvgActiveHours = activeHours / float64(active)
	}
	s.VolunteerValue = s.TotalHours * d.Options.HourlyValue
	s.TotalSchools = len(d.ClubHours)
	for _, sh := range d.ClubHours {
		s.ClubSchools += sh.Club
	}
	return s
}

// ZipActivity is the event load at one service location.
type ZipActivity struct {
	Zip    int64   `json:"zip"`
	County string  `json:"county,omitempty"`
	Events int     `json:"events"`
	Hours  float64 `json:"hours"`
}

func countyName(zip int64) string {
	c, _ := geo.CountyOf(int(zip))
	return string(c)
}

// EventSummary splits service events into virtual and located ones.
type EventSummary struct {
	TotalEvents      int           `json:"total_events"`
	VirtualEvents    int           `json:"virtual_events"`
	LocatedEvents    int           `json:"located_events"`
	TotalHours       float64       `json:"total_hours"`
	VirtualHours     float64       `json:"virtual_hours"`
	LocatedHours     float64       `json:"located_hours"`
	UniqueZips       int           `json:"unique_zips"`
	AvgHoursPerEvent float64       `json:"avg_hours_per_event"`
	VirtualPct       float64       `json:"virtual_pct"`
	LocatedPct       float64       `json:"located_pct"`
	ByZip            []ZipActivity `json:"by_zip"`
}

// EventSummary aggregates the service events. ByZip is sorted by event count
// descending, then zip ascending.
func (d *Dataset) EventSummary() EventSummary {
	var s EventSummary
	if d == nil {
		return s
	}
	zips := map[int64]*ZipActivity{}
	for _, e := range d.Events {
		h, _ := e.Hours.Float()
		s.TotalEvents++
		s.TotalHours += h
		if e.Virtual() {
			s.VirtualEvents++
			s.VirtualHours += h
			continue
		}
		s.LocatedEvents++
		s.LocatedHours += h
		z := zips[e.Zip.I]
		if z == nil {
			z = &ZipActivity{Zip: e.Zip.I, County: countyName(e.Zip.I)}
			zips[e.Zip.I] = z
		}
		z.Events++
		z.Hours += h
	}
	s.UniqueZips = len(zips)
	if s.TotalEvents > 0 {
		s.AvgHoursPerEvent = s.TotalHours / float64(s.TotalEvents)
		s.VirtualPct = float64(s.VirtualEvents) * 100 / float64(s.TotalEvents)
		s.LocatedPct = float64(s.LocatedEvents) * 100 / float64(s.TotalEvents)
	}
	s.ByZip = make([]ZipActivity, 0, len(zips))
	for _, z := range zips {
		s.ByZip = append(s.ByZip, *z)
	}
	sort.Slice(s.ByZip, func(i, j int) bool {
		if s.ByZip[i].Events == s.ByZip[j].Events {
			return s.ByZip[i].Zip < s.ByZip[j].Zip
		}
		return s.ByZip[i].Events > s.ByZip[j].Events
	})
	return s
}
