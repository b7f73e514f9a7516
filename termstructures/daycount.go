package termstructures

import "time"

// DayCounter names a day count convention.
type DayCounter string

const (
	Actual360      DayCounter = "ACT/360"
	Actual365Fixed DayCounter = "ACT/365F"
	Thirty360      DayCounter = "30/360"
)

// YearFraction between two dates. Unknown conventions fall back to ACT/365F.
func (dc DayCounter) YearFraction(start, end time.Time) float64 {
	switch dc {
	case Actual360:
		return days(start, end) / 360.0
	case Thirty360:
		d1, d2 := min(start.Day(), 30), min(end.Day(), 30)
		y1, m1 := start.Year(), int(start.Month())
		y2, m2 := end.Year(), int(end.Month())
		return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
	default:
		return days(start, end) / 365.0
	}
}

func days(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}
