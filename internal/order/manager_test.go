package order

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/logger"
	"main/internal/model"
	"main/internal/model/enum"
	"main/pkg/exception"
)

type fakeDelegator struct {
	placeCalls   int
	lastPlaced   PlaceOrderRequest
	placeErr     error
	cancelErr    error
	getErr       error
	replaceErr   error
	positions    []model.Position
	positionsErr error
	openOrders   []model.Order
}

func (f *fakeDelegator) PlaceOrder(_ context.Context, req PlaceOrderRequest) (model.Order, error) {
	f.placeCalls++
	f.lastPlaced = req
	if f.placeErr != nil {
		return model.Order{}, f.placeErr
	}

	return model.Order{
		ID:     "ord-1",
		Symbol: req.Symbol,
		Side:   req.Side,
		Type:   req.Type,
		Status: "pending_new",
		Qty:    req.Qty,
	}, nil
}

func (f *fakeDelegator) CancelOrder(context.Context, string) error {
	return f.cancelErr
}

func (f *fakeDelegator) GetOrder(_ context.Context, orderID string) (model.Order, error) {
	if f.getErr != nil {
		return model.Order{}, f.getErr
	}
	return model.Order{ID: orderID, Status: "filled"}, nil
}

func (f *fakeDelegator) OpenOrders(context.Context) ([]model.Order, error) {
	return f.openOrders, nil
}

func (f *fakeDelegator) Positions(context.Context) ([]model.Position, error) {
	return f.positions, f.positionsErr
}

func (f *fakeDelegator) ReplaceOrder(_ context.Context, orderID string, req ReplaceOrderRequest) (model.Order, error) {
	if f.replaceErr != nil {
		return model.Order{}, f.replaceErr
	}
	return model.Order{ID: orderID, Qty: req.Qty, LimitPrice: req.LimitPrice, Status: "pending_replace"}, nil
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.Open(filepath.Join(t.TempDir(), "test_logs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })

	return log
}

func TestCreateOrderSuccess(t *testing.T) {
	fake := &fakeDelegator{}
	log := newTestLogger(t)
	m := NewManager(fake, log)

	placed, err := m.CreateOrder(t.Context(), "BTC/USD", enum.OrderTypeMarket, enum.OrderSideBuy, decimal.RequireFromString("0.1"))
	require.NoError(t, err)
	require.NotNil(t, placed)
	assert.Equal(t, "ord-1", placed.ID)
	assert.Equal(t, "pending_new", placed.Status)
	assert.Equal(t, enum.OrderTimeInForceGTC, fake.lastPlaced.TimeInForce, "time in force defaults to GTC")

	entries, err := log.FetchAll(t.Context())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "order placed")
}

func TestCreateOrderVenueRejectionIsAbsentNotFault(t *testing.T) {
	fake := &fakeDelegator{placeErr: exception.ErrOrderRejected}
	m := NewManager(fake, newTestLogger(t))

	placed, err := m.CreateOrder(t.Context(), "BTC/USD", enum.OrderTypeMarket, enum.OrderSideBuy, decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Nil(t, placed)
}

func TestCreateOrderValidation(t *testing.T) {
	m := NewManager(&fakeDelegator{}, nil)
	qty := decimal.NewFromInt(1)

	_, err := m.CreateOrder(t.Context(), "BTC/USD", enum.OrderTypeLimit, enum.OrderSideBuy, qty)
	assert.ErrorIs(t, err, exception.ErrOrderMissingPrice)

	_, err = m.CreateOrder(t.Context(), "", enum.OrderTypeMarket, enum.OrderSideBuy, qty)
	assert.ErrorIs(t, err, exception.ErrOrderInvalidRequest)

	_, err = m.CreateOrder(t.Context(), "BTC/USD", enum.OrderTypeMarket, enum.OrderSideBuy, decimal.Zero)
	assert.ErrorIs(t, err, exception.ErrOrderInvalidRequest)

	_, err = m.CreateOrder(t.Context(), "BTC/USD", enum.OrderType(99), enum.OrderSideBuy, qty)
	assert.ErrorIs(t, err, exception.ErrOrderUnsupportedType)
}

func TestCreateLimitOrderCarriesPrice(t *testing.T) {
	fake := &fakeDelegator{}
	m := NewManager(fake, nil)

	price := decimal.RequireFromString("25000.5")
	placed, err := m.CreateOrder(
		t.Context(), "BTC/USD", enum.OrderTypeLimit, enum.OrderSideBuy, decimal.NewFromInt(1),
		WithLimitPrice(price), WithTimeInForce(enum.OrderTimeInForceIOC),
	)
	require.NoError(t, err)
	require.NotNil(t, placed)
	assert.True(t, fake.lastPlaced.LimitPrice.Equal(price))
	assert.Equal(t, enum.OrderTimeInForceIOC, fake.lastPlaced.TimeInForce)
}

func TestCancelOrderTerminalReturnsFalseAndLogsOnce(t *testing.T) {
	fake := &fakeDelegator{cancelErr: exception.ErrOrderTerminal}
	log := newTestLogger(t)
	m := NewManager(fake, log)

	ok, err := m.CancelOrder(t.Context(), "ord-9")
	require.NoError(t, err)
	assert.False(t, ok)

	entries, err := log.FetchAll(t.Context())
	require.NoError(t, err)
	require.Len(t, entries, 1, "terminal cancel must produce exactly one log entry")
	assert.Contains(t, entries[0].Message, "error canceling order ord-9")
}

func TestCancelOrderAccepted(t *testing.T) {
	m := NewManager(&fakeDelegator{}, nil)

	ok, err := m.CancelOrder(t.Context(), "ord-9")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCancelOrderFaultPropagates(t *testing.T) {
	fake := &fakeDelegator{cancelErr: context.DeadlineExceeded}
	m := NewManager(fake, nil)

	_, err := m.CancelOrder(t.Context(), "ord-9")
	assert.Error(t, err)
}

func TestExitPositionNoMatchSubmitsNothing(t *testing.T) {
	fake := &fakeDelegator{positions: []model.Position{
		{Symbol: "ETH/USD", Qty: decimal.NewFromInt(2)},
	}}
	log := newTestLogger(t)
	m := NewManager(fake, log)

	ok, err := m.ExitPosition(t.Context(), "BTC/USD")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, fake.placeCalls, "no order may be submitted without a position")

	entries, err := log.FetchAll(t.Context())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, exception.ErrPositionNotFound.Error())
	assert.Contains(t, entries[0].Message, "BTC/USD")
}

func TestExitPositionClosesLongWithSell(t *testing.T) {
	fake := &fakeDelegator{positions: []model.Position{
		{Symbol: "BTC/USD", Qty: decimal.RequireFromString("0.5")},
	}}
	m := NewManager(fake, nil)

	ok, err := m.ExitPosition(t.Context(), "BTC/USD")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Equal(t, 1, fake.placeCalls)
	assert.Equal(t, enum.OrderSideSell, fake.lastPlaced.Side)
	assert.Equal(t, enum.OrderTypeMarket, fake.lastPlaced.Type)
	assert.True(t, fake.lastPlaced.Qty.Equal(decimal.RequireFromString("0.5")))
}

func TestExitPositionClosesShortWithBuy(t *testing.T) {
	fake := &fakeDelegator{positions: []model.Position{
		{Symbol: "BTC/USD", Qty: decimal.RequireFromString("-0.25")},
	}}
	m := NewManager(fake, nil)

	ok, err := m.ExitPosition(t.Context(), "BTC/USD")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, enum.OrderSideBuy, fake.lastPlaced.Side)
	assert.True(t, fake.lastPlaced.Qty.Equal(decimal.RequireFromString("0.25")), "offsetting qty must be absolute")
}

func TestFetchPositionsLogsSnapshot(t *testing.T) {
	fake := &fakeDelegator{positions: []model.Position{
		{Symbol: "BTC/USD", Qty: decimal.NewFromInt(1)},
	}}
	log := newTestLogger(t)
	m := NewManager(fake, log)

	positions, err := m.FetchPositions(t.Context())
	require.NoError(t, err)
	require.Len(t, positions, 1)

	entries, err := log.FetchAll(t.Context())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "fetched positions")
}

func TestFetchOpenOrders(t *testing.T) {
	fake := &fakeDelegator{openOrders: []model.Order{
		{ID: "ord-1", Status: "new"},
		{ID: "ord-2", Status: "partially_filled"},
	}}
	m := NewManager(fake, nil)

	orders, err := m.FetchOpenOrders(t.Context())
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestFetchOrderStatusUnknownIsAbsent(t *testing.T) {
	fake := &fakeDelegator{getErr: exception.ErrOrderUnknown}
	m := NewManager(fake, newTestLogger(t))

	current, err := m.FetchOrderStatus(t.Context(), "ord-404")
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestFetchOrderStatusReadsFresh(t *testing.T) {
	m := NewManager(&fakeDelegator{}, nil)

	current, err := m.FetchOrderStatus(t.Context(), "ord-7")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "filled", current.Status)
}

func TestModifyOrderRejectionIsAbsent(t *testing.T) {
	fake := &fakeDelegator{replaceErr: exception.ErrReplaceUnsupported}
	m := NewManager(fake, newTestLogger(t))

	replaced, err := m.ModifyOrder(t.Context(), "ord-7", decimal.NewFromInt(2), decimal.Zero)
	require.NoError(t, err)
	assert.Nil(t, replaced)
}

func TestModifyOrderSuccess(t *testing.T) {
	m := NewManager(&fakeDelegator{}, nil)

	replaced, err := m.ModifyOrder(t.Context(), "ord-7", decimal.NewFromInt(2), decimal.RequireFromString("101.5"))
	require.NoError(t, err)
	require.NotNil(t, replaced)
	assert.Equal(t, "pending_replace", replaced.Status)
}

func TestNilManagerGuards(t *testing.T) {
	var m *Manager

	_, err := m.CreateOrder(t.Context(), "BTC/USD", enum.OrderTypeMarket, enum.OrderSideBuy, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, exception.ErrOrderNilDelegator)

	_, err = m.CancelOrder(t.Context(), "x")
	assert.ErrorIs(t, err, exception.ErrOrderNilDelegator)

	_, err = m.FetchPositions(t.Context())
	assert.ErrorIs(t, err, exception.ErrOrderNilDelegator)
}
