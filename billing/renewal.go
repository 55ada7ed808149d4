package billing

import (
	"time"

	"memberbill/models"
)

// NextRenewal computes the end of the cycle starting at date.
//
// Calendar cycles (monthly, quarterly, yearly) preserve the day of month and
// clamp when the target month is shorter: Jan 31 + monthly = Feb 28 (Feb 29
// in leap years). Feb 29 + yearly clamps to Feb 28 under the same rule.
// Weekly and fixed-30-day cycles are exact day counts.
func NextRenewal(date time.Time, cycle models.BillingCycle) (time.Time, error) {
	switch cycle {
	case models.CycleWeekly:
		return date.AddDate(0, 0, 7), nil
	case models.CycleFixed30:
		return date.AddDate(0, 0, 30), nil
	case models.CycleMonthly:
		return addMonthsClamped(date, 1), nil
	case models.CycleQuarterly:
		return addMonthsClamped(date, 3), nil
	case models.CycleYearly:
		return addMonthsClamped(date, 12), nil
	default:
		return time.Time{}, ErrInvalidCycle
	}
}

func validCycle(cycle models.BillingCycle) bool {
	switch cycle {
	case models.CycleWeekly, models.CycleFixed30, models.CycleMonthly,
		models.CycleQuarterly, models.CycleYearly:
		return true
	}
	return false
}

// addMonthsClamped adds months without letting time.AddDate's day overflow
// roll into the following month (Jan 31 + 1 month would otherwise become
// Mar 2/3).
func addMonthsClamped(date time.Time, months int) time.Time {
	y, m, d := date.Date()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, date.Location())
	if last := lastDayOfMonth(firstOfTarget); d > last {
		d = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d,
		date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
