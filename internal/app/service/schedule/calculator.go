package schedule

import (
	"errors"
	"fmt"
	"time"

	cfgpkg "github.com/fatmeal/commerce/pkg/config"
	"github.com/fatmeal/commerce/pkg/types"
)

// ErrInvalidPlan is returned when a billing event references a plan id the
// catalog does not know. Callers must not materialize schedule rows then.
var ErrInvalidPlan = errors.New("schedule: unknown plan id")

// cycleDays is the length of one billing cycle for spacing purposes;
// deliveries are spread evenly across it.
const cycleDays = 28

// ScheduledDelivery is one planned shipment computed from a plan and a start
// date. DeliveryNumber starts at 1 within the computed batch.
type ScheduledDelivery struct {
	DeliveryNumber   int       `json:"delivery_number"`
	ScheduledDate    time.Time `json:"scheduled_date"`
	MenuSet          string    `json:"menu_set"`
	MealsPerDelivery int       `json:"meals_per_delivery"`
	Quantity         int       `json:"quantity"`
}

// Calculator derives delivery dates from the static plan catalog. It is pure:
// identical inputs always produce identical output, and the reference date is
// always passed in by the caller.
type Calculator struct {
	plans map[string]*types.Plan
}

func NewCalculator(cfg *cfgpkg.Config) *Calculator {
	plans := make(map[string]*types.Plan, len(cfg.Plans))
	for _, p := range cfg.Plans {
		plans[p.ID] = p
	}
	return &Calculator{plans: plans}
}

func (c *Calculator) PlanByID(planID string) *types.Plan {
	return c.plans[planID]
}

// InitialSchedule returns the deliveries due before the next billing date for
// a fresh subscription: N deliveries spaced cycleDays/N apart starting at
// startDate, numbered 1..N.
func (c *Calculator) InitialSchedule(planID string, startDate time.Time) ([]ScheduledDelivery, error) {
	return c.cycleSchedule(planID, startDate)
}

// MonthlyRenewalSchedule returns the deliveries paid for by one successful
// recurring charge, using the same spacing rule anchored on the cycle start.
// Numbering restarts at 1; the caller offsets it to continue the
// subscription's sequence.
func (c *Calculator) MonthlyRenewalSchedule(planID string, billingCycleStart time.Time) ([]ScheduledDelivery, error) {
	return c.cycleSchedule(planID, billingCycleStart)
}

func (c *Calculator) cycleSchedule(planID string, start time.Time) ([]ScheduledDelivery, error) {
	plan := c.plans[planID]
	if plan == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPlan, planID)
	}
	n := plan.DeliveriesPerMonth
	if n <= 0 {
		return nil, fmt.Errorf("%w: %s has no deliveries per month", ErrInvalidPlan, planID)
	}

	interval := cycleDays / n
	base := DateOf(start)
	out := make([]ScheduledDelivery, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, ScheduledDelivery{
			DeliveryNumber:   i + 1,
			ScheduledDate:    base.AddDate(0, 0, i*interval),
			MenuSet:          plan.MenuSet,
			MealsPerDelivery: plan.MealsPerDelivery,
			Quantity:         1,
		})
	}
	return out, nil
}

// DateOf truncates a timestamp to its calendar date in UTC. Schedule rows and
// due-date queries always compare whole dates, never clock times.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
