package util

import (
	"time"
)

const layout = "2006-01-02"

func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func DateLte(t1, t2 time.Time) bool {
	return t1.Before(t2) || t1.Format(layout) == t2.Format(layout)
}

// QuarterEnd returns the last calendar day of t's quarter.
func QuarterEnd(t time.Time) time.Time {
	quarterEndMonth := ((int(t.Month())-1)/3)*3 + 3
	return NewDate(t.Year(), quarterEndMonth+1, 1).AddDate(0, 0, -1)
}

// YearEnd returns December 31 of t's year.
func YearEnd(t time.Time) time.Time {
	return NewDate(t.Year(), 12, 31)
}
