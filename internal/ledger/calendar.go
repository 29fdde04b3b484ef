package ledger

import (
	"math"
	"sort"
	"time"

	"ledgerly/internal/models"
)

// Calendar is a run of consecutive days, each at midnight UTC.
type Calendar []time.Time

// NewCalendar returns every day in [start, end]. It is empty when end is
// before start.
func NewCalendar(start, end time.Time) Calendar {
	start, end = models.Day(start), models.Day(end)
	if end.Before(start) {
		return nil
	}
	n := int(end.Sub(start).Hours()/24) + 1
	cal := make(Calendar, n)
	for i := range cal {
		cal[i] = start.AddDate(0, 0, i)
	}
	return cal
}

// Index returns the position of d in the calendar, or -1.
func (c Calendar) Index(d time.Time) int {
	if len(c) == 0 {
		return -1
	}
	i := int(models.Day(d).Sub(c[0]).Hours() / 24)
	if i < 0 || i >= len(c) {
		return -1
	}
	return i
}

// Point is one dated observation.
type Point struct {
	Date  time.Time
	Value float64
}

// sortPoints orders points by date in place.
func sortPoints(points []Point) {
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
}

// alignDaily projects sparse observations onto the calendar, forward-filling
// gaps and back-filling the days before the first observation. Without any
// observation every value is undefined.
func alignDaily(points []Point, cal Calendar) []float64 {
	out := make([]float64, len(cal))
	if len(points) == 0 {
		for i := range out {
			out[i] = Undefined
		}
		return out
	}
	pts := append([]Point(nil), points...)
	sortPoints(pts)

	j := 0
	last := math.NaN()
	for i, day := range cal {
		for j < len(pts) && !models.Day(pts[j].Date).After(day) {
			if !IsUndefined(pts[j].Value) {
				last = pts[j].Value
			}
			j++
		}
		out[i] = last
	}
	first := math.NaN()
	for _, p := range pts {
		if !IsUndefined(p.Value) {
			first = p.Value
			break
		}
	}
	for i := range out {
		if !IsUndefined(out[i]) {
			break
		}
		out[i] = first
	}
	return out
}

// sparseDaily places observations on their exact calendar day and leaves
// every other day at zero. Observations on the same day are summed.
func sparseDaily(points []Point, cal Calendar) []float64 {
	out := make([]float64, len(cal))
	for _, p := range points {
		if i := cal.Index(p.Date); i >= 0 && !IsUndefined(p.Value) {
			out[i] += p.Value
		}
	}
	return out
}

// monthEnd returns the last day of d's month.
func monthEnd(d time.Time) time.Time {
	y, m, _ := d.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)
}
