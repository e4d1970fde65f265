package exception

import "errors"

var (
	ErrTickerUnavailable   = errors.New("market data: ticker unavailable")
	ErrNoHistoricalData    = errors.New("market data: no data in range")
	ErrInvalidTimeframe    = errors.New("market data: invalid timeframe")
	ErrInvalidTimeRange    = errors.New("market data: end must be after start")
	ErrNilMarketDataVenue  = errors.New("market data: nil venue")
	ErrUnsupportedSymbol   = errors.New("market data: unsupported symbol")
	ErrDecodeResponseBody  = errors.New("market data: decode response body")
	ErrUnexpectedRowLayout = errors.New("market data: unexpected kline row layout")
)
