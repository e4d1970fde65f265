package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"main/internal/logger"
	"main/internal/model"
	"main/internal/model/enum"
	"main/pkg/exception"
)

// Delegator is the execution venue behind the manager. Business
// rejections come back as exception sentinels (ErrOrderRejected,
// ErrOrderTerminal, ErrOrderUnknown, ErrReplaceUnsupported); anything
// else is a fault.
type Delegator interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (model.Order, error)
	CancelOrder(ctx context.Context, orderID string) error
	GetOrder(ctx context.Context, orderID string) (model.Order, error)
	OpenOrders(ctx context.Context) ([]model.Order, error)
	Positions(ctx context.Context) ([]model.Position, error)
	ReplaceOrder(ctx context.Context, orderID string, req ReplaceOrderRequest) (model.Order, error)
}

// PlaceOrderRequest is a new-order submission.
type PlaceOrderRequest struct {
	Symbol      string
	Type        enum.OrderType
	Side        enum.OrderSide
	Qty         decimal.Decimal
	LimitPrice  decimal.Decimal
	TimeInForce enum.OrderTimeInForce
}

// ReplaceOrderRequest carries the fields of a venue-side replace.
// Zero values leave the corresponding field unchanged.
type ReplaceOrderRequest struct {
	Qty        decimal.Decimal
	LimitPrice decimal.Decimal
}

// Manager submits, cancels, and queries orders and positions against a
// venue. It keeps no order state of its own; every read hits the venue.
type Manager struct {
	delegator Delegator
	logger    *logger.Logger
}

// NewManager creates a Manager. logger may be nil.
func NewManager(delegator Delegator, log *logger.Logger) *Manager {
	return &Manager{delegator: delegator, logger: log}
}

// OrderOption tweaks a CreateOrder submission.
type OrderOption func(*PlaceOrderRequest)

// WithLimitPrice sets the limit price. Required for limit orders.
func WithLimitPrice(price decimal.Decimal) OrderOption {
	return func(req *PlaceOrderRequest) { req.LimitPrice = price }
}

// WithTimeInForce overrides the default GTC time in force.
func WithTimeInForce(tif enum.OrderTimeInForce) OrderOption {
	return func(req *PlaceOrderRequest) { req.TimeInForce = tif }
}

// CreateOrder submits a new order and returns the venue's record of
// it, including the venue-assigned id and initial status. It returns
// (nil, nil) when the venue rejects the submission; callers must
// nil-check. Faults propagate as errors.
func (m *Manager) CreateOrder(ctx context.Context, symbol string, typ enum.OrderType, side enum.OrderSide, qty decimal.Decimal, opts ...OrderOption) (*model.Order, error) {
	if m == nil || m.delegator == nil {
		return nil, exception.ErrOrderNilDelegator
	}

	req := PlaceOrderRequest{
		Symbol:      symbol,
		Type:        typ,
		Side:        side,
		Qty:         qty,
		TimeInForce: enum.OrderTimeInForceGTC,
	}
	for _, opt := range opts {
		opt(&req)
	}

	if err := validatePlaceOrder(req); err != nil {
		return nil, err
	}

	placed, err := m.delegator.PlaceOrder(ctx, req)
	if err != nil {
		if errors.Is(err, exception.ErrOrderRejected) {
			_ = m.logger.Error(fmt.Sprintf("error placing order: %v", err))
			return nil, nil
		}

		return nil, fmt.Errorf("place order: %w", err)
	}

	_ = m.logger.Log(fmt.Sprintf("order placed: %+v", placed))

	return &placed, nil
}

func validatePlaceOrder(req PlaceOrderRequest) error {
	if req.Symbol == "" || !req.Qty.IsPositive() {
		return exception.ErrOrderInvalidRequest
	}
	if !req.Type.IsAvailable() {
		return exception.ErrOrderUnsupportedType
	}
	if !req.Side.IsAvailable() || !req.TimeInForce.IsAvailable() {
		return exception.ErrOrderInvalidRequest
	}
	if req.Type == enum.OrderTypeLimit && !req.LimitPrice.IsPositive() {
		return exception.ErrOrderMissingPrice
	}

	return nil
}

// CancelOrder requests cancellation of orderID. A venue rejection
// because the order already reached a terminal state (or is unknown)
// returns (false, nil) with exactly one error-level log entry; this
// is an expected outcome, not a fault.
func (m *Manager) CancelOrder(ctx context.Context, orderID string) (bool, error) {
	if m == nil || m.delegator == nil {
		return false, exception.ErrOrderNilDelegator
	}

	if err := m.delegator.CancelOrder(ctx, orderID); err != nil {
		if errors.Is(err, exception.ErrOrderTerminal) ||
			errors.Is(err, exception.ErrOrderUnknown) {
			_ = m.logger.Error(fmt.Sprintf("error canceling order %s: %v", orderID, err))
			return false, nil
		}

		return false, fmt.Errorf("cancel order: %w", err)
	}

	_ = m.logger.Log(fmt.Sprintf("order %s canceled", orderID))

	return true, nil
}

// FetchPositions returns a fresh snapshot of open positions.
func (m *Manager) FetchPositions(ctx context.Context) ([]model.Position, error) {
	if m == nil || m.delegator == nil {
		return nil, exception.ErrOrderNilDelegator
	}

	positions, err := m.delegator.Positions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch positions: %w", err)
	}

	_ = m.logger.Log(fmt.Sprintf("fetched positions: %+v", positions))

	return positions, nil
}

// ExitPosition looks up the open position for symbol and submits an
// offsetting market order sized to the held quantity. It returns
// whether the offsetting order was accepted; (false, nil) when no
// matching position exists, in which case nothing is submitted.
func (m *Manager) ExitPosition(ctx context.Context, symbol string) (bool, error) {
	if m == nil || m.delegator == nil {
		return false, exception.ErrOrderNilDelegator
	}

	positions, err := m.delegator.Positions(ctx)
	if err != nil {
		return false, fmt.Errorf("fetch positions: %w", err)
	}

	for _, position := range positions {
		if position.Symbol != symbol || position.Qty.IsZero() {
			continue
		}

		side := enum.OrderSideSell // close a long
		if position.Qty.IsNegative() {
			side = enum.OrderSideBuy // close a short
		}
		qty := position.Qty.Abs()

		_ = m.logger.Log(fmt.Sprintf(
			"exiting position: %s %s with a %s order", qty, symbol, side.Wire(),
		))

		placed, err := m.CreateOrder(ctx, symbol, enum.OrderTypeMarket, side, qty)
		if err != nil {
			return false, err
		}

		return placed != nil, nil
	}

	_ = m.logger.Error(fmt.Sprintf("%v: %s", exception.ErrPositionNotFound, symbol))

	return false, nil
}

// FetchOpenOrders returns a fresh snapshot of working orders.
func (m *Manager) FetchOpenOrders(ctx context.Context) ([]model.Order, error) {
	if m == nil || m.delegator == nil {
		return nil, exception.ErrOrderNilDelegator
	}

	orders, err := m.delegator.OpenOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch open orders: %w", err)
	}

	_ = m.logger.Log(fmt.Sprintf("open orders: %+v", orders))

	return orders, nil
}

// FetchOrderStatus reads the venue's current record of orderID. It
// returns (nil, nil) when the venue does not know the order.
func (m *Manager) FetchOrderStatus(ctx context.Context, orderID string) (*model.Order, error) {
	if m == nil || m.delegator == nil {
		return nil, exception.ErrOrderNilDelegator
	}

	current, err := m.delegator.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, exception.ErrOrderUnknown) {
			_ = m.logger.Error(fmt.Sprintf("error fetching order status for %s: %v", orderID, err))
			return nil, nil
		}

		return nil, fmt.Errorf("fetch order status: %w", err)
	}

	_ = m.logger.Log(fmt.Sprintf("order status for %s: %+v", orderID, current))

	return &current, nil
}

// ModifyOrder replaces qty and/or limit price of a working order on
// the venue side. Zero-valued fields stay unchanged. It returns
// (nil, nil) when the venue rejects the replace or does not support it.
func (m *Manager) ModifyOrder(ctx context.Context, orderID string, qty, limitPrice decimal.Decimal) (*model.Order, error) {
	if m == nil || m.delegator == nil {
		return nil, exception.ErrOrderNilDelegator
	}

	replaced, err := m.delegator.ReplaceOrder(ctx, orderID, ReplaceOrderRequest{
		Qty:        qty,
		LimitPrice: limitPrice,
	})
	if err != nil {
		if errors.Is(err, exception.ErrOrderRejected) ||
			errors.Is(err, exception.ErrOrderTerminal) ||
			errors.Is(err, exception.ErrOrderUnknown) ||
			errors.Is(err, exception.ErrReplaceUnsupported) {
			_ = m.logger.Error(fmt.Sprintf("error modifying order %s: %v", orderID, err))
			return nil, nil
		}

		return nil, fmt.Errorf("modify order: %w", err)
	}

	_ = m.logger.Log(fmt.Sprintf("order modified: %+v", replaced))

	return &replaced, nil
}
