// Package maintenance is the scheduling and status engine for biomedical equipment.
// Everything here is pure: no I/O, no clock, no logging. Callers pass "today"
// explicitly and persist whatever a transition returns.
package maintenance

import (
	"sort"
	"time"

	"biomed-system/internal/entities"
)

// Cadence is the interval in months between preventive visits.
type Cadence int

const (
	CadenceUnknown    Cadence = 0
	CadenceSemiAnnual Cadence = 6
	CadenceAnnual     Cadence = 12
)

// A last/next gap of up to this many months is treated as semi-annual.
const semiAnnualMaxGapMonths = 7

const (
	LabelFirstVisit  = "MP1"
	LabelSecondVisit = "MP2"
)

func (c Cadence) Months() int { return int(c) }

func (c Cadence) String() string {
	switch c {
	case CadenceSemiAnnual:
		return "semi-annual"
	case CadenceAnnual:
		return "annual"
	default:
		return "unknown"
	}
}

// Visit is one scheduled preventive-maintenance occurrence. Month is zero-based.
type Visit struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Label string `json:"label"`
}

func cadenceFromGap(last, next time.Time) Cadence {
	if monthsBetween(last, next) <= semiAnnualMaxGapMonths {
		return CadenceSemiAnnual
	}
	return CadenceAnnual
}

// CadenceOf infers the equipment's cadence from its last/next maintenance dates.
// ok is false when either date is missing or unparsable.
func CadenceOf(eq entities.Equipment) (cadence Cadence, ok bool) {
	last, okLast := parseNullDate(eq.LastMaintenanceDate)
	next, okNext := ParseDate(eq.NextMaintenanceDate)
	if !okLast || !okNext {
		return CadenceUnknown, false
	}
	return cadenceFromGap(last, next), true
}

// ComputeSchedule projects the preventive visits of eq onto year.
// The result is never stored; it is re-derived for every year asked for.
// Equipment without usable dates has an empty schedule.
func ComputeSchedule(eq entities.Equipment, year int) []Visit {
	last, okLast := parseNullDate(eq.LastMaintenanceDate)
	next, okNext := ParseDate(eq.NextMaintenanceDate)
	if !okLast || !okNext {
		return []Visit{}
	}

	if cadenceFromGap(last, next) == CadenceAnnual {
		return []Visit{{Year: year, Month: int(next.Month()) - 1, Label: LabelFirstVisit}}
	}

	first := anchorMonth(year, last.Month(), last)
	second := anchorMonth(year, next.Month(), last)
	if first == second {
		second = (first + 6) % 12
	}
	months := []int{first, second}
	sort.Ints(months)

	return []Visit{
		{Year: year, Month: months[0], Label: LabelFirstVisit},
		{Year: year, Month: months[1], Label: LabelSecondVisit},
	}
}

// anchorMonth places month in year and, when that lands before the month of the
// last maintenance, moves it six months forward to stay inside the current cycle.
// Across a year boundary this can put a visit in the wrong relative year; the
// behaviour is kept as the operators know it.
func anchorMonth(year int, month time.Month, last time.Time) int {
	m := int(month) - 1
	anchor := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastMonth := time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, time.UTC)
	if anchor.Before(lastMonth) {
		m = (m + 6) % 12
	}
	return m
}

// MonthSlots spreads a schedule over the twelve months of the year.
func MonthSlots(schedule []Visit) [12]string {
	var slots [12]string
	for _, v := range schedule {
		if v.Month >= 0 && v.Month < 12 {
			slots[v.Month] = v.Label
		}
	}
	return slots
}
