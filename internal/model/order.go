package model

import (
	"time"

	"github.com/shopspring/decimal"

	"main/internal/model/enum"
)

// Order is the venue's record of an order. All fields are forwarded
// verbatim from the venue response; nothing here is derived locally.
type Order struct {
	ID            string
	ClientOrderID string
	Symbol        string
	Side          enum.OrderSide
	Type          enum.OrderType
	TimeInForce   enum.OrderTimeInForce

	// Status is the venue-reported status string, e.g. "pending_new",
	// "filled", "canceled". Not normalized.
	Status string

	Qty        decimal.Decimal
	FilledQty  decimal.Decimal
	LimitPrice decimal.Decimal
	FillPrice  decimal.Decimal
	CreatedAt  time.Time
}

// Position is a read-only snapshot of a venue-held position.
type Position struct {
	Symbol       string
	Qty          decimal.Decimal
	Side         string
	EntryPrice   decimal.Decimal
	MarketValue  decimal.Decimal
	UnrealizedPL decimal.Decimal
}
