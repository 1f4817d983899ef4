package model

import "fmt"

// Price is an amount in minor units (cents) plus an ISO currency code.
type Price struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

func (p Price) String() string {
	if p.AmountCents%100 == 0 {
		return fmt.Sprintf("%d %s", p.AmountCents/100, p.Currency)
	}
	return fmt.Sprintf("%.2f %s", float64(p.AmountCents)/100, p.Currency)
}

// WalkerPrice is one row of a walker's price list: at most one per
// (walker, service) pair.
type WalkerPrice struct {
	ID        int64 `json:"id"`
	WalkerID  int64 `json:"walker_id"`
	ServiceID int64 `json:"service_id"`
	Price
}
