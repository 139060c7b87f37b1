package domain

import "time"

// BillingWindowTolerance absorbs clock skew at calendar-month boundaries so a
// record written moments around midnight still lands in the intended period.
const BillingWindowTolerance = 5 * time.Minute

// PreviousMonthWindow returns the [first, last] instants of the calendar month
// before now, in UTC, widened by BillingWindowTolerance on both ends.
func PreviousMonthWindow(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	first := firstOfThisMonth.AddDate(0, -1, 0)
	last := firstOfThisMonth.Add(-time.Nanosecond)
	return first.Add(-BillingWindowTolerance), last.Add(BillingWindowTolerance)
}

// PeriodOf truncates a window start down to the first day of its month, the
// canonical period value stored on an invoice.
func PeriodOf(windowStart time.Time) time.Time {
	t := windowStart.Add(BillingWindowTolerance).UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
