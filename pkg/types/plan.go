package types

// Plan is one sellable meal-subscription plan. The catalog is static and
// loaded from configuration; plans are addressed by ID in billing events.
type Plan struct {
	ID                 string `json:"id" mapstructure:"id"`
	Name               string `json:"name" mapstructure:"name"`
	MenuSet            string `json:"menu_set" mapstructure:"menu_set"`
	MealsPerDelivery   int    `json:"meals_per_delivery" mapstructure:"meals_per_delivery"`
	DeliveriesPerMonth int    `json:"deliveries_per_month" mapstructure:"deliveries_per_month"`
	CommitmentMonths   int    `json:"commitment_months" mapstructure:"commitment_months"`
	ProductPrice       int64  `json:"product_price" mapstructure:"product_price"`
	ShippingFeePerBox  int64  `json:"shipping_fee_per_box" mapstructure:"shipping_fee_per_box"`
	MonthlyTotalAmount int64  `json:"monthly_total_amount" mapstructure:"monthly_total_amount"`
}

// TotalDeliveries is the contractual number of deliveries across the whole
// commitment period.
func (p *Plan) TotalDeliveries() int {
	return p.DeliveriesPerMonth * p.CommitmentMonths
}

// PerDeliveryAmount is the charge attributable to a single delivery,
// shipping included.
func (p *Plan) PerDeliveryAmount() int64 {
	if p.DeliveriesPerMonth <= 0 {
		return 0
	}
	return p.MonthlyTotalAmount / int64(p.DeliveriesPerMonth)
}

// Product is a one-time purchasable item (for example the trial box) sold
// through the checkout flow rather than a recurring plan.
type Product struct {
	ID       string `json:"id" mapstructure:"id"`
	Name     string `json:"name" mapstructure:"name"`
	MenuSet  string `json:"menu_set" mapstructure:"menu_set"`
	Quantity int    `json:"quantity" mapstructure:"quantity"`
	Price    int64  `json:"price" mapstructure:"price"`
}
