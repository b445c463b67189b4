package questionnaire

import "time"

// Bracket is an age group with its own questionnaire.
type Bracket string

const (
	Months6To12  Bracket = "6-12 months"
	Months12To18 Bracket = "12-18 months"
	Months18To24 Bracket = "18-24 months"
	Months24To36 Bracket = "24-36 months"
	Years3To5    Bracket = "3-5 years"

	// BracketOutOfRange means no screening is possible at this age.
	BracketOutOfRange Bracket = "out_of_range"
)

// Brackets lists the screenable brackets, youngest first.
var Brackets = []Bracket{Months6To12, Months12To18, Months18To24, Months24To36, Years3To5}

// Screenable age window in whole months, upper bound exclusive.
const (
	MinAgeMonths = 6
	MaxAgeMonths = 60
)

// AgeInMonths counts whole calendar months between dob and now.
// Day of month is ignored; a child born on the 31st is a month older on the 1st.
func AgeInMonths(dob, now time.Time) int {
	dy, dm, _ := dob.Date()
	ny, nm, _ := now.Date()
	return (ny-dy)*12 + int(nm-dm)
}

// BracketFor classifies a birth date at the given instant.
func BracketFor(dob, now time.Time) Bracket {
	return BracketForMonths(AgeInMonths(dob, now))
}

// BracketForMonths maps an age in months onto a bracket.
func BracketForMonths(months int) Bracket {
	switch {
	case months < MinAgeMonths || months >= MaxAgeMonths:
		return BracketOutOfRange
	case months < 12:
		return Months6To12
	case months < 18:
		return Months12To18
	case months < 24:
		return Months18To24
	case months < 36:
		return Months24To36
	default:
		return Years3To5
	}
}
