package alpaca

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"main/internal/model"
	"main/internal/model/enum"
)

type placeOrderBody struct {
	Symbol      string `json:"symbol"`
	Qty         string `json:"qty"`
	Side        string `json:"side"`
	Type        string `json:"type"`
	TimeInForce string `json:"time_in_force"`
	LimitPrice  string `json:"limit_price,omitempty"`
}

type replaceOrderBody struct {
	Qty        string `json:"qty,omitempty"`
	LimitPrice string `json:"limit_price,omitempty"`
}

type alpacaError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type alpacaOrder struct {
	ID             string    `json:"id"`
	ClientOrderID  string    `json:"client_order_id"`
	CreatedAt      time.Time `json:"created_at"`
	Symbol         string    `json:"symbol"`
	Qty            string    `json:"qty"`
	FilledQty      string    `json:"filled_qty"`
	FilledAvgPrice string    `json:"filled_avg_price"`
	OrderType      string    `json:"order_type"`
	Side           string    `json:"side"`
	TimeInForce    string    `json:"time_in_force"`
	LimitPrice     string    `json:"limit_price"`
	Status         string    `json:"status"`
}

// toModel forwards venue fields verbatim; status strings are not
// normalized.
func (o alpacaOrder) toModel() (model.Order, error) {
	out := model.Order{
		ID:            o.ID,
		ClientOrderID: o.ClientOrderID,
		Symbol:        o.Symbol,
		Side:          enum.ParseOrderSide(o.Side),
		Type:          enum.ParseOrderType(o.OrderType),
		TimeInForce:   enum.ParseOrderTimeInForce(o.TimeInForce),
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
	}

	fields := []struct {
		name  string
		raw   string
		value *decimal.Decimal
	}{
		{"qty", o.Qty, &out.Qty},
		{"filled_qty", o.FilledQty, &out.FilledQty},
		{"limit_price", o.LimitPrice, &out.LimitPrice},
		{"filled_avg_price", o.FilledAvgPrice, &out.FillPrice},
	}
	for _, field := range fields {
		parsed, err := optionalDecimal(field.raw)
		if err != nil {
			return model.Order{}, errors.Wrap(err, "parse order field "+field.name)
		}
		*field.value = parsed
	}

	return out, nil
}

type alpacaPosition struct {
	Symbol        string `json:"symbol"`
	Qty           string `json:"qty"`
	Side          string `json:"side"`
	AvgEntryPrice string `json:"avg_entry_price"`
	MarketValue   string `json:"market_value"`
	UnrealizedPL  string `json:"unrealized_pl"`
}

func (p alpacaPosition) toModel() (model.Position, error) {
	out := model.Position{
		Symbol: p.Symbol,
		Side:   p.Side,
	}

	fields := []struct {
		name  string
		raw   string
		value *decimal.Decimal
	}{
		{"qty", p.Qty, &out.Qty},
		{"avg_entry_price", p.AvgEntryPrice, &out.EntryPrice},
		{"market_value", p.MarketValue, &out.MarketValue},
		{"unrealized_pl", p.UnrealizedPL, &out.UnrealizedPL},
	}
	for _, field := range fields {
		parsed, err := optionalDecimal(field.raw)
		if err != nil {
			return model.Position{}, errors.Wrap(err, "parse position field "+field.name)
		}
		*field.value = parsed
	}

	return out, nil
}

// Venues null out numeric fields that do not apply yet, e.g. the fill
// price of a pending order.
func optionalDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, nil
	}

	return decimal.NewFromString(s)
}
