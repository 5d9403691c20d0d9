package entity

import "time"

// PlanID names one of the purchasable credit bundles.
type PlanID string

const (
	PlanBasic    PlanID = "Basic"
	PlanAdvanced PlanID = "Advanced"
	PlanBusiness PlanID = "Business"
)

// Plan maps a bundle to its credits and price in major currency units.
type Plan struct {
	ID      PlanID `json:"id"`
	Credits int    `json:"credits"`
	Price   int64  `json:"price"`
}

var plans = map[PlanID]Plan{
	PlanBasic:    {ID: PlanBasic, Credits: 100, Price: 10},
	PlanAdvanced: {ID: PlanAdvanced, Credits: 500, Price: 50},
	PlanBusiness: {ID: PlanBusiness, Credits: 5000, Price: 250},
}

// LookupPlan resolves a caller-supplied plan id. The set is closed.
func LookupPlan(id string) (Plan, bool) {
	p, ok := plans[PlanID(id)]
	return p, ok
}

// Plans returns every plan, cheapest first.
func Plans() []Plan {
	return []Plan{plans[PlanBasic], plans[PlanAdvanced], plans[PlanBusiness]}
}

// Transaction is one credit purchase attempt. Payment flips to true exactly
// once, when the gateway reports the order paid.
type Transaction struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Plan      PlanID     `json:"plan"`
	Credits   int        `json:"credits"`
	Amount    int64      `json:"amount"`
	Currency  string     `json:"currency"`
	OrderID   string     `json:"order_id,omitempty"`
	Payment   bool       `json:"payment"`
	CreatedAt time.Time  `json:"created_at"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
}

// Settlement is the result of crediting a transaction.
type Settlement struct {
	TransactionID string `json:"transaction_id"`
	UserID        string `json:"user_id"`
	Credits       int    `json:"credits"`
	Balance       int    `json:"balance"`
}

// GatewayOrder is the payment gateway's view of an order. Receipt carries the
// transaction id it was created for.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

const OrderStatusPaid = "paid"
