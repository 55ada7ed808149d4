package billing

import (
	"testing"
	"time"

	"memberbill/models"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextRenewalMonthlyClampsShortMonths(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{"leap year Jan 31", date(2024, time.January, 31), date(2024, time.February, 29)},
		{"non-leap Jan 31", date(2023, time.January, 31), date(2023, time.February, 28)},
		{"May 31 to June 30", date(2024, time.May, 31), date(2024, time.June, 30)},
		{"mid-month unaffected", date(2024, time.January, 15), date(2024, time.February, 15)},
		{"Dec rolls into next year", date(2023, time.December, 31), date(2024, time.January, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRenewal(tt.from, models.CycleMonthly)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextRenewalQuarterly(t *testing.T) {
	got, err := NextRenewal(date(2024, time.March, 31), models.CycleQuarterly)
	assert.NoError(t, err)
	assert.Equal(t, date(2024, time.June, 30), got)

	got, err = NextRenewal(date(2024, time.November, 30), models.CycleQuarterly)
	assert.NoError(t, err)
	assert.Equal(t, date(2025, time.February, 28), got)
}

func TestNextRenewalYearlyClampsFeb29(t *testing.T) {
	got, err := NextRenewal(date(2024, time.February, 29), models.CycleYearly)
	assert.NoError(t, err)
	assert.Equal(t, date(2025, time.February, 28), got)

	got, err = NextRenewal(date(2023, time.June, 15), models.CycleYearly)
	assert.NoError(t, err)
	assert.Equal(t, date(2024, time.June, 15), got)
}

func TestNextRenewalWeeklyIsExactlySevenDays(t *testing.T) {
	for _, from := range []time.Time{
		date(2024, time.January, 1),
		date(2024, time.February, 26),
		date(2023, time.December, 28),
	} {
		got, err := NextRenewal(from, models.CycleWeekly)
		assert.NoError(t, err)
		assert.Equal(t, from.AddDate(0, 0, 7), got)
		assert.Equal(t, 7*24*time.Hour, got.Sub(from))
	}
}

func TestNextRenewalFixed30(t *testing.T) {
	from := date(2024, time.January, 15)
	got, err := NextRenewal(from, models.CycleFixed30)
	assert.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 14), got)
	assert.Equal(t, 30*24*time.Hour, got.Sub(from))
}

func TestNextRenewalInvalidCycle(t *testing.T) {
	_, err := NextRenewal(date(2024, time.January, 1), models.BillingCycle("biweekly"))
	assert.ErrorIs(t, err, ErrInvalidCycle)
}
