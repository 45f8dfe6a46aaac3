package option

import (
	"fmt"
	"strings"
	"time"
)

// RelativeDatePeriod is a symbolic date resolved against the clock at read
// time. PeriodAbsolute marks a date option holding a concrete timestamp and
// is never a settable period.
type RelativeDatePeriod int

const (
	PeriodAbsolute RelativeDatePeriod = iota - 1
	PeriodToday
	PeriodStartThisMonth
	PeriodEndThisMonth
	PeriodStartPrevMonth
	PeriodEndPrevMonth
	PeriodStartCurrentQuarter
	PeriodEndCurrentQuarter
	PeriodStartPrevQuarter
	PeriodEndPrevQuarter
	PeriodStartCalYear
	PeriodEndCalYear
	PeriodStartPrevYear
	PeriodEndPrevYear
	PeriodStartAccountingPeriod
	PeriodEndAccountingPeriod
)

type periodInfo struct {
	storage     string
	display     string
	description string
}

var periods = map[RelativeDatePeriod]periodInfo{
	PeriodAbsolute:              {"absolute", "Absolute", "An absolute date"},
	PeriodToday:                 {"today", "Today", "The current date."},
	PeriodStartThisMonth:        {"start-this-month", "Start of this month", "First day of the current month."},
	PeriodEndThisMonth:          {"end-this-month", "End of this month", "Last day of the current month."},
	PeriodStartPrevMonth:        {"start-prev-month", "Start of previous month", "First day of the previous month."},
	PeriodEndPrevMonth:          {"end-prev-month", "End of previous month", "Last day of the previous month."},
	PeriodStartCurrentQuarter:   {"start-current-quarter", "Start of current quarter", "First day of the current quarterly accounting period."},
	PeriodEndCurrentQuarter:     {"end-current-quarter", "End of current quarter", "Last day of the current quarterly accounting period."},
	PeriodStartPrevQuarter:      {"start-prev-quarter", "Start of previous quarter", "First day of the previous quarterly accounting period."},
	PeriodEndPrevQuarter:        {"end-prev-quarter", "End of previous quarter", "Last day of the previous quarterly accounting period."},
	PeriodStartCalYear:          {"start-cal-year", "Start of this year", "First day of the current calendar year."},
	PeriodEndCalYear:            {"end-cal-year", "End of this year", "Last day of the current calendar year."},
	PeriodStartPrevYear:         {"start-prev-year", "Start of previous year", "First day of the previous calendar year."},
	PeriodEndPrevYear:           {"end-prev-year", "End of previous year", "Last day of the previous calendar year."},
	PeriodStartAccountingPeriod: {"start-accounting-period", "Start of accounting period", "First day of the accounting period."},
	PeriodEndAccountingPeriod:   {"end-accounting-period", "End of accounting period", "Last day of the accounting period."},
}

// RelativePeriods lists every settable period in display order.
func RelativePeriods() []RelativeDatePeriod {
	out := make([]RelativeDatePeriod, 0, len(periods)-1)
	for p := PeriodToday; p <= PeriodEndAccountingPeriod; p++ {
		out = append(out, p)
	}
	return out
}

// Valid reports whether p is a known period, PeriodAbsolute included.
func (p RelativeDatePeriod) Valid() bool {
	_, ok := periods[p]
	return ok
}

// String returns the storage spelling, e.g. "start-this-month".
func (p RelativeDatePeriod) String() string {
	if info, ok := periods[p]; ok {
		return info.storage
	}
	return fmt.Sprintf("period(%d)", int(p))
}

// DisplayName returns the label shown in pickers.
func (p RelativeDatePeriod) DisplayName() string { return periods[p].display }

// Description returns the tooltip text.
func (p RelativeDatePeriod) Description() string { return periods[p].description }

// ParseRelativeDatePeriod resolves a storage spelling. "absolute" is
// rejected because it is not a relative period.
func ParseRelativeDatePeriod(raw string) (RelativeDatePeriod, error) {
	candidate := strings.ToLower(strings.TrimSpace(raw))
	for p, info := range periods {
		if p != PeriodAbsolute && info.storage == candidate {
			return p, nil
		}
	}
	return PeriodAbsolute, fmt.Errorf("option: unknown relative date period %q", raw)
}

// DateResolver turns relative periods into concrete times.
type DateResolver struct {
	Now func() time.Time
	// FiscalYearStart is the first month of the accounting period.
	FiscalYearStart time.Month
}

// DefaultDateResolver uses the wall clock and a calendar-year accounting
// period.
var DefaultDateResolver = DateResolver{Now: time.Now, FiscalYearStart: time.January}

// Resolve returns the concrete time for p. Start periods resolve to the first
// second of the day, end periods to the last.
func (r DateResolver) Resolve(p RelativeDatePeriod) time.Time {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	fiscal := r.FiscalYearStart
	if fiscal < time.January || fiscal > time.December {
		fiscal = time.January
	}
	loc := now.Location()
	year, month, _ := now.Date()
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	quarterStart := time.Date(year, month-(month-1)%3, 1, 0, 0, 0, 0, loc)
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	fiscalStart := time.Date(year, fiscal, 1, 0, 0, 0, 0, loc)
	if month < fiscal {
		fiscalStart = fiscalStart.AddDate(-1, 0, 0)
	}

	switch p {
	case PeriodStartThisMonth:
		return monthStart
	case PeriodEndThisMonth:
		return endBefore(monthStart.AddDate(0, 1, 0))
	case PeriodStartPrevMonth:
		return monthStart.AddDate(0, -1, 0)
	case PeriodEndPrevMonth:
		return endBefore(monthStart)
	case PeriodStartCurrentQuarter:
		return quarterStart
	case PeriodEndCurrentQuarter:
		return endBefore(quarterStart.AddDate(0, 3, 0))
	case PeriodStartPrevQuarter:
		return quarterStart.AddDate(0, -3, 0)
	case PeriodEndPrevQuarter:
		return endBefore(quarterStart)
	case PeriodStartCalYear:
		return yearStart
	case PeriodEndCalYear:
		return endBefore(yearStart.AddDate(1, 0, 0))
	case PeriodStartPrevYear:
		return yearStart.AddDate(-1, 0, 0)
	case PeriodEndPrevYear:
		return endBefore(yearStart)
	case PeriodStartAccountingPeriod:
		return fiscalStart
	case PeriodEndAccountingPeriod:
		return endBefore(fiscalStart.AddDate(1, 0, 0))
	default:
		return now
	}
}

func endBefore(t time.Time) time.Time { return t.Add(-time.Second) }
