package alpaca

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/errors"

	"main/internal/model"
	"main/internal/order"
	"main/pkg/exception"
)

const (
	_alpacaBaseUrl      = "https://api.alpaca.markets"
	_alpacaPaperBaseUrl = "https://paper-api.alpaca.markets"

	_headerAPIKeyID  = "APCA-API-KEY-ID"
	_headerAPISecret = "APCA-API-SECRET-KEY"
)

var _ order.Delegator = (*Delegator)(nil)

// Delegator is an Alpaca trading-API client. It holds the credentials
// for the process lifetime and signs every request with them.
type Delegator struct {
	client      *http.Client
	baseURL     string
	credentials model.Credentials
}

// NewDelegator creates a Delegator. Pass an empty baseURL to target
// the paper-trading venue.
func NewDelegator(client *http.Client, baseURL string, credentials model.Credentials) *Delegator {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if baseURL == "" {
		baseURL = _alpacaPaperBaseUrl
	}

	return &Delegator{
		client:      client,
		baseURL:     baseURL,
		credentials: credentials,
	}
}

// PlaceOrder submits a new order. Venue-side rejections map to
// exception.ErrOrderRejected.
func (d *Delegator) PlaceOrder(ctx context.Context, req order.PlaceOrderRequest) (model.Order, error) {
	body := placeOrderBody{
		Symbol:      req.Symbol,
		Qty:         req.Qty.String(),
		Side:        req.Side.Wire(),
		Type:        req.Type.Wire(),
		TimeInForce: req.TimeInForce.Wire(),
	}
	if req.Type.Wire() == "limit" {
		body.LimitPrice = req.LimitPrice.String()
	}

	resp, err := d.do(ctx, http.MethodPost, "/v2/orders", body)
	if err != nil {
		return model.Order{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusForbidden, http.StatusUnprocessableEntity:
		return model.Order{}, errors.Wrap(exception.ErrOrderRejected, venueMessage(resp.Body))
	default:
		return model.Order{}, errors.Errorf("place order response status %d", resp.StatusCode)
	}

	return decodeOrder(resp.Body)
}

// CancelOrder requests cancellation. An order the venue will not
// cancel because it already reached a terminal state maps to
// exception.ErrOrderTerminal; an unknown id to ErrOrderUnknown.
func (d *Delegator) CancelOrder(ctx context.Context, orderID string) error {
	resp, err := d.do(ctx, http.MethodDelete, "/v2/orders/"+orderID, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return exception.ErrOrderUnknown
	case http.StatusUnprocessableEntity:
		return errors.Wrap(exception.ErrOrderTerminal, venueMessage(resp.Body))
	default:
		return errors.Errorf("cancel order response status %d", resp.StatusCode)
	}
}

// GetOrder reads the venue's current record of orderID.
func (d *Delegator) GetOrder(ctx context.Context, orderID string) (model.Order, error) {
	resp, err := d.do(ctx, http.MethodGet, "/v2/orders/"+orderID, nil)
	if err != nil {
		return model.Order{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return model.Order{}, exception.ErrOrderUnknown
	default:
		return model.Order{}, errors.Errorf("get order response status %d", resp.StatusCode)
	}

	return decodeOrder(resp.Body)
}

// OpenOrders lists unfilled working orders.
func (d *Delegator) OpenOrders(ctx context.Context) ([]model.Order, error) {
	resp, err := d.do(ctx, http.MethodGet, "/v2/orders?status=open", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("open orders response status %d", resp.StatusCode)
	}

	var rows []alpacaOrder
	if err := sonic.ConfigFastest.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, errors.Wrap(exception.ErrOrderDecodeResponseBody, err.Error())
	}

	orders := make([]model.Order, 0, len(rows))
	for _, row := range rows {
		converted, err := row.toModel()
		if err != nil {
			return nil, err
		}
		orders = append(orders, converted)
	}

	return orders, nil
}

// Positions lists currently open positions.
func (d *Delegator) Positions(ctx context.Context) ([]model.Position, error) {
	resp, err := d.do(ctx, http.MethodGet, "/v2/positions", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("positions response status %d", resp.StatusCode)
	}

	var rows []alpacaPosition
	if err := sonic.ConfigFastest.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, errors.Wrap(exception.ErrOrderDecodeResponseBody, err.Error())
	}

	positions := make([]model.Position, 0, len(rows))
	for _, row := range rows {
		converted, err := row.toModel()
		if err != nil {
			return nil, err
		}
		positions = append(positions, converted)
	}

	return positions, nil
}

// ReplaceOrder patches qty and/or limit price of a working order.
func (d *Delegator) ReplaceOrder(ctx context.Context, orderID string, req order.ReplaceOrderRequest) (model.Order, error) {
	var body replaceOrderBody
	if req.Qty.IsPositive() {
		body.Qty = req.Qty.String()
	}
	if req.LimitPrice.IsPositive() {
		body.LimitPrice = req.LimitPrice.String()
	}

	resp, err := d.do(ctx, http.MethodPatch, "/v2/orders/"+orderID, body)
	if err != nil {
		return model.Order{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return model.Order{}, exception.ErrOrderUnknown
	case http.StatusForbidden, http.StatusUnprocessableEntity:
		return model.Order{}, errors.Wrap(exception.ErrOrderRejected, venueMessage(resp.Body))
	default:
		return model.Order{}, errors.Errorf("replace order response status %d", resp.StatusCode)
	}

	return decodeOrder(resp.Body)
}

func (d *Delegator) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := sonic.ConfigFastest.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(_headerAPIKeyID, d.credentials.Key)
	req.Header.Set(_headerAPISecret, d.credentials.Secret)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send request")
	}

	return resp, nil
}

func decodeOrder(body io.Reader) (model.Order, error) {
	var row alpacaOrder
	if err := sonic.ConfigFastest.NewDecoder(body).Decode(&row); err != nil {
		return model.Order{}, errors.Wrap(exception.ErrOrderDecodeResponseBody, err.Error())
	}
	if row.ID == "" {
		return model.Order{}, exception.ErrOrderEmptyResponseID
	}

	return row.toModel()
}

func venueMessage(body io.Reader) string {
	var apiErr alpacaError
	if err := sonic.ConfigFastest.NewDecoder(body).Decode(&apiErr); err != nil {
		return "unreadable venue error"
	}

	return apiErr.Message
}
