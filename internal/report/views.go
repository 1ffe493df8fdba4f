package report

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/sosdash/internal/freq"
	"github.com/KaramelBytes/sosdash/internal/pipeline"
	"github.com/KaramelBytes/sosdash/internal/stats"
)

// FreqTable lays out a frequency table with counts and shares.
func FreqTable(t *freq.Table) Table {
	out := Table{Title: "Frequency of " + t.Variable, Headers: []string{t.Variable, "Count", "Share"}, Note: t.Note}
	for _, r := range t.Rows {
		share := 0.0
		if t.Total > 0 {
			share = float64(r.Count) * 100 / float64(t.Total)
		}
		out.Rows = append(out.Rows, []string{Cell(r.Value), Int(r.Count), Percent(share)})
	}
	if len(out.Rows) > 0 {
		out.Rows = append(out.Rows, []string{"Total", Int(t.Total), Percent(100)})
	}
	return out
}

// CrosstabTable lays out a cross-tabulation with row totals.
func CrosstabTable(x *freq.Crosstab) Table {
	out := Table{Title: fmt.Sprintf("%s by %s", x.Var1, x.Var2), Note: x.Note}
	out.Headers = append(out.Headers, x.Var1)
	for _, c := range x.Cols {
		out.Headers = append(out.Headers, Cell(c))
	}
	out.Headers = append(out.Headers, "Total")
	for i, r := range x.Rows {
		row := []string{Cell(r)}
		total := 0
		for _, n := range x.Counts[i] {
			row = append(row, Int(n))
			total += n
		}
		out.Rows = append(out.Rows, append(row, Int(total)))
	}
	return out
}

// PopulationTable lays out the flat population statistics.
func PopulationTable(t *stats.PopulationTable) Table {
	ft := t.Flat()
	out := Table{Title: "Population by " + t.GroupBy, Headers: ft.Columns}
	for _, r := range ft.Rows {
		row := make([]string, len(r))
		for i, v := range r {
			row[i] = Cell(v)
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// CITable lays out the club and no-club intervals.
func CITable(ci stats.ClubInterval) Table {
	out := Table{
		Title:   fmt.Sprintf("%.0f%% confidence interval of mean hours per school", (1-stats.Alpha)*100),
		Headers: []string{"Group", "Schools", "Mean", "Lower", "Upper"},
	}
	for _, g := range []struct {
		name string
		iv   stats.Interval
	}{{"Club", ci.Club}, {"No club", ci.NoClub}} {
		out.Rows = append(out.Rows, []string{g.name, Int(g.iv.N), Float(g.iv.Mean), Float(g.iv.Lower), Float(g.iv.Upper)})
	}
	return out
}

// ClubHoursTable lays out hours per school.
func ClubHoursTable(rows []pipeline.SchoolHours) Table {
	out := Table{Title: "Hours by school", Headers: []string{"School", "Hours", "Club"}}
	for _, r := range rows {
		club := "no"
		if r.Club == 1 {
			club = "yes"
		}
		out.Rows = append(out.Rows, []string{r.School, Float(r.Hours), club})
	}
	return out
}

// ActivityTable lays out active volunteers per period.
func ActivityTable(by string, buckets []pipeline.ActivityBucket) Table {
	out := Table{Title: "Active volunteers by " + by, Headers: []string{"Period", "Volunteers"}}
	for _, b := range buckets {
		out.Rows = append(out.Rows, []string{b.Period, Int(b.Volunteers)})
	}
	return out
}

// SummaryTable lays out the processing summary as label/value pairs.
func SummaryTable(s pipeline.ProcessingSummary) Table {
	return Table{
		Title:   "Processing summary",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Client rows read", Int(s.RawClients)},
			{"Clients kept", Int(s.Clients)},
			{"Dropped (no ID)", Int(s.DroppedNoID)},
			{"Dropped (age)", Int(s.DroppedAge)},
			{"Dropped (enrollment date)", Int(s.DroppedEnrollment)},
			{"Ages floored", Int(s.AgesFloored)},
			{"Service events", Int(s.Events)},
			{"Events dropped", Int(s.DroppedEvents)},
			{"Survey responses", Int(s.SurveyResponses)},
			{"Follow-through rate", Percent(s.FollowThroughRate)},
			{"Avg hours (active)", Float(s.AvgActiveHours)},
			{"Total hours", Float(s.TotalHours)},
			{"Volunteer value", Money(s.VolunteerValue)},
			{"Club schools", Int(s.ClubSchools) + " / " + Int(s.TotalSchools)},
		},
	}
}

// EventTable lays out the busiest service locations.
func EventTable(s pipeline.EventSummary, limit int) Table {
	out := Table{
		Title:   "Service events by location",
		Headers: []string{"Zip", "County", "Events", "Hours"},
		Note: fmt.Sprintf("%s events, %s virtual (%s), %s zips",
			Int(s.TotalEvents), Int(s.VirtualEvents), Percent(s.VirtualPct), Int(s.UniqueZips)),
	}
	for i, z := range s.ByZip {
		if limit > 0 && i >= limit {
			break
		}
		county := z.County
		if county == "" {
			county = "-"
		}
		out.Rows = append(out.Rows, []string{strconv.FormatInt(z.Zip, 10), county, Int(z.Events), Float(z.Hours)})
	}
	return out
}

// ZipLayerTable lays out clients per coverage zip. With occupiedOnly, zero
// rows are skipped and counted in the note.
func ZipLayerTable(zips []pipeline.ZipClients, occupiedOnly bool) Table {
	out := Table{Title: "Clients by zip code", Headers: []string{"Zip", "County", "Income", "Clients"}}
	empty := 0
	for _, z := range zips {
		if z.Clients == 0 {
			empty++
			if occupiedOnly {
				continue
			}
		}
		out.Rows = append(out.Rows, []string{strconv.FormatInt(z.Zip, 10), z.County, "$"+Int(z.Income), Int(z.Clients)})
	}
	out.Note = fmt.Sprintf("%s of %s zips without clients", Int(empty), Int(len(zips)))
	return out
}

// CountyLayerTable lays out clients per county.
func CountyLayerTable(counties []pipeline.CountyClients) Table {
	out := Table{Title: "Clients by county", Headers: []string{"County", "Income", "Clients"}}
	for _, c := range counties {
		out.Rows = append(out.Rows, []string{c.County, "$"+Int(c.Income), Int(c.Clients)})
	}
	return out
}
