package option

import (
	"testing"
	"time"
)

func TestDateResolver_Resolve(t *testing.T) {
	now := time.Date(2024, time.May, 17, 14, 30, 0, 0, time.UTC)
	r := DateResolver{Now: func() time.Time { return now }, FiscalYearStart: time.July}

	cases := []struct {
		period RelativeDatePeriod
		want   time.Time
	}{
		{PeriodToday, now},
		{PeriodStartThisMonth, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)},
		{PeriodEndThisMonth, time.Date(2024, time.May, 31, 23, 59, 59, 0, time.UTC)},
		{PeriodStartPrevMonth, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{PeriodEndPrevMonth, time.Date(2024, time.April, 30, 23, 59, 59, 0, time.UTC)},
		{PeriodStartCurrentQuarter, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{PeriodEndCurrentQuarter, time.Date(2024, time.June, 30, 23, 59, 59, 0, time.UTC)},
		{PeriodStartPrevQuarter, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{PeriodEndPrevQuarter, time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC)},
		{PeriodStartCalYear, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{PeriodEndCalYear, time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)},
		{PeriodStartPrevYear, time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{PeriodEndPrevYear, time.Date(2023, time.December, 31, 23, 59, 59, 0, time.UTC)},
		{PeriodStartAccountingPeriod, time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC)},
		{PeriodEndAccountingPeriod, time.Date(2024, time.June, 30, 23, 59, 59, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.period.String(), func(t *testing.T) {
			if got := r.Resolve(tc.period); !got.Equal(tc.want) {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDateValue_UsesResolver(t *testing.T) {
	now := time.Date(2024, time.February, 10, 9, 0, 0, 0, time.UTC)
	opt, err := NewRelativeDateOption(classifier("d"), "", PeriodEndThisMonth)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	dv := opt.Value().(*DateValue)
	dv.SetResolver(DateResolver{Now: func() time.Time { return now }})

	want := time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC).Unix()
	if got, _ := Get[int64](opt); got != want {
		t.Fatalf("expected leap day end %d, got %d", want, got)
	}
}

func TestParseRelativeDatePeriod(t *testing.T) {
	p, err := ParseRelativeDatePeriod(" Start-Prev-Quarter ")
	if err != nil || p != PeriodStartPrevQuarter {
		t.Fatalf("expected start-prev-quarter, got %v (err=%v)", p, err)
	}
	if _, err := ParseRelativeDatePeriod("absolute"); err == nil {
		t.Fatalf("absolute must not parse as a relative period")
	}
	if _, err := ParseRelativeDatePeriod("next-week"); err == nil {
		t.Fatalf("expected unknown period error")
	}
}
