package domain

import "time"

// LocalDate is a calendar day in a fixed location, constructed once at trip
// start. All scheduling instants for a day are derived from it, so no caller
// needs to repeat timezone arithmetic.
type LocalDate struct {
	year  int
	month time.Month
	day   int
	loc   *time.Location
}

func NewLocalDate(year int, month time.Month, day int, loc *time.Location) LocalDate {
	if loc == nil {
		loc = time.UTC
	}
	return LocalDate{year: year, month: month, day: day, loc: loc}
}

// DateOf truncates an instant to its calendar day in the instant's location.
func DateOf(t time.Time) LocalDate {
	y, m, d := t.Date()
	return LocalDate{year: y, month: m, day: d, loc: t.Location()}
}

// At returns the instant at hour:min on this day.
func (d LocalDate) At(hour, min int) time.Time {
	return time.Date(d.year, d.month, d.day, hour, min, 0, 0, d.loc)
}

// AtMinutes returns the instant at the given minutes past midnight.
func (d LocalDate) AtMinutes(min int) time.Time {
	return d.At(0, 0).Add(time.Duration(min) * time.Minute)
}

func (d LocalDate) AddDays(n int) LocalDate {
	t := d.At(12, 0).AddDate(0, 0, n)
	return DateOf(t)
}

func (d LocalDate) Equal(o LocalDate) bool {
	return d.year == o.year && d.month == o.month && d.day == o.day
}

// Before reports whether d is an earlier calendar day than o.
func (d LocalDate) Before(o LocalDate) bool {
	return d.At(12, 0).Before(o.At(12, 0)) && !d.Equal(o)
}

func (d LocalDate) String() string {
	return d.At(0, 0).Format("2006-01-02")
}
