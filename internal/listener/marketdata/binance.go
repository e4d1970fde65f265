package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"main/internal/model"
	"main/pkg/exception"
)

const (
	_binanceBaseUrl = "https://api.binance.com"

	_binanceMaxKlineLimit = 1000
)

// Binance is a public-data REST client for Binance spot. It needs no
// credentials; both endpoints it touches are unauthenticated.
type Binance struct {
	client  *http.Client
	baseURL string
}

// NewBinance creates a client. Pass an empty baseURL for production.
func NewBinance(client *http.Client, baseURL string) *Binance {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = _binanceBaseUrl
	}

	return &Binance{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

type binanceTicker struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// FetchTicker requests the latest price for symbol. Symbols the venue
// does not list map to exception.ErrUnsupportedSymbol.
func (b *Binance) FetchTicker(ctx context.Context, symbol string) (model.PricePoint, error) {
	var point model.PricePoint

	query := url.Values{}
	query.Set("symbol", binanceSymbol(symbol))

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		b.baseURL+"/api/v3/ticker/price?"+query.Encode(),
		nil,
	)
	if err != nil {
		return point, err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return point, errors.Wrap(err, "request ticker")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusNotFound:
		// Binance answers 400 with code -1121 for unknown symbols.
		return point, exception.ErrUnsupportedSymbol
	default:
		return point, errors.Errorf("ticker response status %d", resp.StatusCode)
	}

	var data binanceTicker
	if err := sonic.ConfigFastest.NewDecoder(resp.Body).Decode(&data); err != nil {
		return point, errors.Wrap(exception.ErrDecodeResponseBody, err.Error())
	}

	if data.Price == "" {
		return point, exception.ErrTickerUnavailable
	}

	price, err := decimal.NewFromString(data.Price)
	if err != nil {
		return point, errors.Wrap(err, "parse ticker price")
	}

	return model.PricePoint{Symbol: symbol, Price: price}, nil
}

// FetchOHLCV requests up to limit candles of the given timeframe
// starting at since. An empty slice means the venue has no data there.
func (b *Binance) FetchOHLCV(ctx context.Context, symbol string, timeframe model.Timeframe, since time.Time, limit int) ([]model.Candle, error) {
	if !timeframe.IsAvailable() {
		return nil, exception.ErrInvalidTimeframe
	}
	if limit <= 0 || limit > _binanceMaxKlineLimit {
		limit = _binanceMaxKlineLimit
	}

	query := url.Values{}
	query.Set("symbol", binanceSymbol(symbol))
	query.Set("interval", string(timeframe))
	query.Set("startTime", strconv.FormatInt(since.UnixMilli(), 10))
	query.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		b.baseURL+"/api/v3/klines?"+query.Encode(),
		nil,
	)
	if err != nil {
		return nil, err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request klines")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusNotFound:
		return nil, exception.ErrUnsupportedSymbol
	default:
		return nil, errors.Errorf("klines response status %d", resp.StatusCode)
	}

	var rows [][]any
	if err := sonic.ConfigFastest.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, errors.Wrap(exception.ErrDecodeResponseBody, err.Error())
	}

	candles := make([]model.Candle, 0, len(rows))
	for _, row := range rows {
		candle, err := parseKlineRow(row)
		if err != nil {
			return nil, err
		}
		candles = append(candles, candle)
	}

	return candles, nil
}

// Kline rows arrive as mixed arrays:
// [openTime, open, high, low, close, volume, closeTime, ...]
func parseKlineRow(row []any) (model.Candle, error) {
	var candle model.Candle
	if len(row) < 6 {
		return candle, exception.ErrUnexpectedRowLayout
	}

	openTime, ok := row[0].(float64)
	if !ok {
		return candle, exception.ErrUnexpectedRowLayout
	}
	candle.Timestamp = time.UnixMilli(int64(openTime)).UTC()

	fields := []*decimal.Decimal{
		&candle.Open, &candle.High, &candle.Low, &candle.Close, &candle.Volume,
	}
	for i, field := range fields {
		value, err := decimalFromAny(row[i+1])
		if err != nil {
			return candle, err
		}
		*field = value
	}

	return candle, nil
}

func decimalFromAny(v any) (decimal.Decimal, error) {
	switch value := v.(type) {
	case string:
		return decimal.NewFromString(value)
	case float64:
		return decimal.NewFromFloat(value), nil
	default:
		return decimal.Decimal{}, errors.Wrap(
			exception.ErrUnexpectedRowLayout,
			fmt.Sprintf("unexpected field type %T", v),
		)
	}
}

// binanceSymbol maps a unified symbol like "BTC/USDT" to the venue
// form "BTCUSDT".
func binanceSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "/", ""))
}
