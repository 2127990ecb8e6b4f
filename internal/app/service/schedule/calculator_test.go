package schedule

import (
	"testing"
	"time"

	cfgpkg "github.com/fatmeal/commerce/pkg/config"
	"github.com/fatmeal/commerce/pkg/types"

	"github.com/stretchr/testify/require"
)

func newTestCalculator() *Calculator {
	return NewCalculator(&cfgpkg.Config{Plans: cfgpkg.DefaultPlans()})
}

func TestInitialSchedule_WeeklyPlanSpacing(t *testing.T) {
	calc := newTestCalculator()
	start := time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC)

	entries, err := calc.InitialSchedule("subscription-weekly-6", start)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, e := range entries {
		require.Equal(t, i+1, e.DeliveryNumber)
		require.Equal(t, base.AddDate(0, 0, i*7), e.ScheduledDate)
		require.Equal(t, "standard-6", e.MenuSet)
		require.Equal(t, 6, e.MealsPerDelivery)
		require.Equal(t, 1, e.Quantity)
	}
}

func TestInitialSchedule_MonthlyPlanSingleDelivery(t *testing.T) {
	calc := newTestCalculator()
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	entries, err := calc.InitialSchedule("subscription-monthly-12", start)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 1, entries[0].DeliveryNumber)
	require.Equal(t, start, entries[0].ScheduledDate)
	require.Equal(t, 12, entries[0].MealsPerDelivery)
}

func TestInitialSchedule_BiweeklySpacing(t *testing.T) {
	calc := newTestCalculator()
	start := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	entries, err := calc.InitialSchedule("subscription-biweekly-8", start)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, start, entries[0].ScheduledDate)
	require.Equal(t, start.AddDate(0, 0, 14), entries[1].ScheduledDate)
}

func TestInitialSchedule_UnknownPlan(t *testing.T) {
	calc := newTestCalculator()

	_, err := calc.InitialSchedule("no-such-plan", time.Now())
	require.ErrorIs(t, err, ErrInvalidPlan)
}

func TestInitialSchedule_Deterministic(t *testing.T) {
	calc := newTestCalculator()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	a, err := calc.InitialSchedule("subscription-weekly-6", start)
	require.NoError(t, err)
	b, err := calc.InitialSchedule("subscription-weekly-6", start)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestMonthlyRenewalSchedule_NumberingRestartsAtOne(t *testing.T) {
	calc := newTestCalculator()
	cycleStart := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	entries, err := calc.MonthlyRenewalSchedule("subscription-biweekly-8", cycleStart)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, 1, entries[0].DeliveryNumber)
	require.Equal(t, 2, entries[1].DeliveryNumber)
}

func TestDateOf_TruncatesToUTCMidnight(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)
	in := time.Date(2025, 3, 2, 3, 15, 0, 0, jst) // 2025-03-01 18:15 UTC

	got := DateOf(in)
	require.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestPlanCatalog_TotalDeliveries(t *testing.T) {
	for _, tc := range []struct {
		planID string
		total  int
	}{
		{"subscription-monthly-12", 3},
		{"subscription-biweekly-8", 6},
		{"subscription-weekly-6", 12},
	} {
		plan := newTestCalculator().PlanByID(tc.planID)
		require.NotNil(t, plan, tc.planID)
		require.Equal(t, tc.total, plan.TotalDeliveries(), tc.planID)
	}
}

func TestNewCalculator_IgnoresPlansOutsideCatalog(t *testing.T) {
	calc := NewCalculator(&cfgpkg.Config{Plans: []*types.Plan{
		{ID: "custom", MenuSet: "custom-4", MealsPerDelivery: 4, DeliveriesPerMonth: 2, CommitmentMonths: 1},
	}})
	require.NotNil(t, calc.PlanByID("custom"))
	require.Nil(t, calc.PlanByID("subscription-weekly-6"))
}
