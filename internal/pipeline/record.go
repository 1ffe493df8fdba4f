package pipeline

import "time"

// Client is one cleaned and enriched student row.
type Client struct {
	GalaxyID    int64
	AgeAtSignUp int
	AgeNow      Value
	GradYear    Value
	School      string
	District    string
	Race        string
	Gender      string
	Zip         Value
	DateAdded   Value

	// Yes/no participation flags: 1, 0 or null.
	Learn        Value
	Explore      Value
	MakeItHappen Value
	TripEligible Value
	Scholarship  Value

	Hours     Value
	Responses Value

	CollectedHours Value
	Earliest       Value
	Latest         Value
	ServiceCount   Value
	ServiceRange   Value // whole days, only when positive
	FollowThrough  int
	Club           int
	County         Value
	Income         Value
	IncomeRange    Value

	// Extra holds sheet columns without a dedicated field, e.g. "Step".
	Extra map[string]Value
}

// ServiceEvent is one row of the Service Hours sheet.
type ServiceEvent struct {
	GalaxyID int64
	Date     Value
	Hours    Value
	Zip      Value // service location; null or 0 means virtual
}

// Virtual reports whether the event had no physical location.
func (e ServiceEvent) Virtual() bool {
	return e.Zip.IsNull() || (e.Zip.Kind == KindInt && e.Zip.I == 0)
}

// Year returns the calendar year of the event, or 0 when undated.
func (e ServiceEvent) Year() int {
	if e.Date.Kind != KindTime {
		return 0
	}
	return e.Date.T.Year()
}

type getter func(*Client) Value

func str(s string) Value { return StringValue(s) }

func flag(i int) Value { return IntValue(int64(i)) }

var fieldGetters = map[string]getter{
	ColGalaxyID:       func(c *Client) Value { return IntValue(c.GalaxyID) },
	ColAgeAtSignUp:    func(c *Client) Value { return IntValue(int64(c.AgeAtSignUp)) },
	ColAgeNow:         func(c *Client) Value { return c.AgeNow },
	ColGradYear:       func(c *Client) Value { return c.GradYear },
	ColSchool:         func(c *Client) Value { return str(c.School) },
	ColDistrict:       func(c *Client) Value { return str(c.District) },
	ColRace:           func(c *Client) Value { return str(c.Race) },
	ColGender:         func(c *Client) Value { return str(c.Gender) },
	ColZip:            func(c *Client) Value { return c.Zip },
	ColDateAdded:      func(c *Client) Value { return c.DateAdded },
	ColLearn:          func(c *Client) Value { return c.Learn },
	ColExplore:        func(c *Client) Value { return c.Explore },
	ColMakeItHappen:   func(c *Client) Value { return c.MakeItHappen },
	ColTripEligible:   func(c *Client) Value { return c.TripEligible },
	ColScholarship:    func(c *Client) Value { return c.Scholarship },
	ColHours:          func(c *Client) Value { return c.Hours },
	ColResponses:      func(c *Client) Value { return c.Responses },
	ColCollectedHours: func(c *Client) Value { return c.CollectedHours },
	ColEarliest:       func(c *Client) Value { return c.Earliest },
	ColLatest:         func(c *Client) Value { return c.Latest },
	ColServiceCount:   func(c *Client) Value { return c.ServiceCount },
	ColServiceRange:   func(c *Client) Value { return c.ServiceRange },
	ColFollowThrough:  func(c *Client) Value { return flag(c.FollowThrough) },
	ColClub:           func(c *Client) Value { return flag(c.Club) },
	ColCounty:         func(c *Client) Value { return c.County },
	ColIncome:         func(c *Client) Value { return c.Income },
	ColIncomeRange:    func(c *Client) Value { return c.IncomeRange },
}

// Field returns a column by name. ok is false for unknown columns.
func (c *Client) Field(name string) (Value, bool) {
	if g, ok := fieldGetters[name]; ok {
		return g(c), true
	}
	if v, ok := c.Extra[name]; ok {
		return v, true
	}
	return Null, false
}

// knownColumns lists the typed columns in output order.
var knownColumns = []string{
	ColGalaxyID, ColAgeAtSignUp, ColAgeNow, ColGradYear, ColSchool, ColDistrict, ColZip,
	ColRace, ColGender, ColDateAdded, ColHours, ColResponses,
	ColLearn, ColExplore, ColMakeItHappen, ColTripEligible, ColScholarship,
	ColCollectedHours, ColEarliest, ColLatest, ColServiceCount, ColServiceRange,
	ColFollowThrough, ColClub, ColCounty, ColIncome, ColIncomeRange,
}

func dayDiff(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
