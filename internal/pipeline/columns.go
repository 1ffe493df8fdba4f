package pipeline

import "strings"

// Column names as they appear in the workbook and in query parameters.
const (
	ColGalaxyID    = "Galaxy ID"
	ColAgeAtSignUp = "Age at Sign Up"
	ColAgeNow      = "Age Now"
	ColGradYear    = "HS Graduation Year"
	ColSchool      = "School"
	ColDistrict    = "District"
	ColZip         = "Zip Code"
	ColRace        = "Race/Ethnicity"
	ColGender      = "Gender"
	ColDateAdded   = "dateAdded"
	ColHours       = "Hours"
	ColResponses   = "Responses"

	ColLearn        = "Learn Participation 2022"
	ColExplore      = "Explore Participation"
	ColMakeItHappen = "Make It Happen Badge (Yes/No)"
	ColTripEligible = "Trip Eligible (Yes/No)"
	ColScholarship  = "Scholarship Badge (Yes/No)"

	ColCollectedHours = "Collected Hours"
	ColEarliest       = "Earliest Service"
	ColLatest         = "Latest Service"
	ColServiceCount   = "Service Count"
	ColServiceRange   = "Service Range"
	ColFollowThrough  = "Follow Through"
	ColClub           = "Club"
	ColCounty         = "County"
	ColIncome         = "Median Family Income"
	ColIncomeRange    = "Income Range (Thousands)"
)

// Service Hours sheet columns.
const (
	ColUserID    = "userId"
	ColEventDate = "Event Date"
	ColEventHrs  = "hours"
	ColEventZip  = "zipCodeNeed"
)

// Sheet names.
const (
	SheetClients = "Clients"
	SheetHours   = "Service Hours"
)

// SurveySheets are the accepted names of the optional survey sheet.
var SurveySheets = []string{"Survey Responses", "Likert Scale"}

// YesNoColumns are the participation flags normalised to 1/0.
var YesNoColumns = []string{ColLearn, ColExplore, ColMakeItHappen, ColTripEligible, ColScholarship}

// DefaultClubSchools is the allow-list of schools with a volunteering club.
var DefaultClubSchools = []string{
	"Brackenridge High School",
	"Whittier Middle School",
	"Driscoll Middle school",
	"Advanced Learning Academy",
	"Young Women's Leadership Academy",
	"CAST Med High School",
	"International School of the Americas",
	"South San High School",
	"Churchill High School",
	"Johnson High School",
	"CAST Tech High School",
	"IDEA Converse",
	"RISE Inspire Academy",
	"Nimitz Middle School",
	"Thomas Jefferson High School",
	"Young Men's Leadership Academy",
	"Southside High School",
}

// clubSet matches school names case-insensitively.
type clubSet map[string]struct{}

func newClubSet(schools []string) clubSet {
	s := make(clubSet, len(schools))
	for _, name := range schools {
		s[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	return s
}

func (s clubSet) has(school string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(school))]
	return ok
}
