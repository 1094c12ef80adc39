package engine

import (
	"time"
)

// ============================================================================
// AGE CALCULATOR
// ============================================================================
// Two notions of age:
//   MonthsBetween — fractional months (days / mean Gregorian month), for x axes
//   AgeBreakdown  — calendar years/months/days, for display
// ============================================================================

// DaysPerMonth is the mean Gregorian month length.
const DaysPerMonth = 30.4375

// MonthsBetween returns the fractional number of months from birthDate to
// eventDate. ok is false when either date is missing or invalid.
// Negative ages are returned unchanged; callers discard them.
func MonthsBetween(birthDate, eventDate string) (months float64, ok bool) {
	birth, err := ParseDate(birthDate)
	if err != nil {
		return 0, false
	}
	event, err := ParseDate(eventDate)
	if err != nil {
		return 0, false
	}
	return monthsBetween(birth, event), true
}

func monthsBetween(birth, event time.Time) float64 {
	days := event.Sub(birth).Hours() / 24
	return days / DaysPerMonth
}

// Age is a calendar age.
type Age struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// AgeBreakdown returns the calendar age on today of a child born on birthDate.
// ok is false when birthDate is missing or invalid, or lies after today.
func AgeBreakdown(birthDate string, today time.Time) (Age, bool) {
	birth, err := ParseDate(birthDate)
	if err != nil {
		return Age{}, false
	}
	ty, tm, td := today.Date()
	by, bm, bd := birth.Date()

	years := ty - by
	months := int(tm) - int(bm)
	days := td - bd

	// Borrow whole months walking backwards from the month before today's.
	// A short month can leave days negative, hence the loop.
	for back := 0; days < 0; back++ {
		months--
		days += daysIn(ty, tm-time.Month(back))
	}
	for months < 0 {
		years--
		months += 12
	}
	if years < 0 {
		return Age{}, false
	}
	return Age{Years: years, Months: months, Days: days}, true
}

// daysIn returns the length of the month before (year, month).
// Day 0 of a month is the last day of the previous one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month, 0, 0, 0, 0, 0, time.UTC).Day()
}

// TotalMonths returns the age in whole calendar months.
func (a Age) TotalMonths() int {
	return a.Years*12 + a.Months
}
