package model

import "github.com/shopspring/decimal"

type SortKey string

const (
	SortDateDesc  SortKey = "date_desc"
	SortDateAsc   SortKey = "date_asc"
	SortPriceDesc SortKey = "price_desc"
	SortPriceAsc  SortKey = "price_asc"
)

// Stats are the dashboard aggregates, always computed over the full
// unfiltered store. Average and LastRefillDate are meaningful only
// when Count > 0.
type Stats struct {
	Total          decimal.Decimal
	Count          int
	Average        decimal.Decimal
	LastRefillDate string
}
