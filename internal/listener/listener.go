package listener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yanun0323/pkg/sys"

	"main/internal/logger"
	"main/internal/model"
	"main/pkg/exception"
)

// A single OHLCV request is capped by the venue; pages are fetched at
// this size and stitched together.
const defaultPageLimit = 500

// MarketDataVenue is the upstream market-data provider. Business
// absences (unknown symbol, no ticker) are signalled with
// exception sentinels; anything else is a fault.
type MarketDataVenue interface {
	FetchTicker(ctx context.Context, symbol string) (model.PricePoint, error)
	FetchOHLCV(ctx context.Context, symbol string, timeframe model.Timeframe, since time.Time, limit int) ([]model.Candle, error)
}

// Listener polls a market-data venue for live prices and historical
// candles. All calls are synchronous; polling is caller-driven.
type Listener struct {
	venue     MarketDataVenue
	symbols   []string
	logger    *logger.Logger
	pageLimit int
}

// New creates a Listener. logger may be nil.
func New(venue MarketDataVenue, symbols []string, log *logger.Logger) *Listener {
	return &Listener{
		venue:     venue,
		symbols:   symbols,
		logger:    log,
		pageLimit: defaultPageLimit,
	}
}

// FetchPrice requests the latest trade price for symbol. It returns
// (nil, nil) when the venue cannot supply a price; callers must
// nil-check. Faults propagate as errors.
func (l *Listener) FetchPrice(ctx context.Context, symbol string) (*model.PricePoint, error) {
	if l == nil || l.venue == nil {
		return nil, exception.ErrNilMarketDataVenue
	}

	point, err := l.venue.FetchTicker(ctx, symbol)
	if err != nil {
		if errors.Is(err, exception.ErrTickerUnavailable) ||
			errors.Is(err, exception.ErrUnsupportedSymbol) {
			_ = l.logger.Error(fmt.Sprintf("no live price for %s: %v", symbol, err))
			return nil, nil
		}

		return nil, fmt.Errorf("fetch ticker: %w", err)
	}

	_ = l.logger.Log(fmt.Sprintf("live price of %s: %s", symbol, point.Price))

	return &point, nil
}

// FetchHistoricalData fetches OHLCV candles for symbol across the
// half-open range [start, end), paging venue requests as needed. The
// result is chronological and strictly within the range. No data in
// the range yields an empty slice, not an error.
func (l *Listener) FetchHistoricalData(ctx context.Context, symbol string, timeframe model.Timeframe, start, end time.Time) ([]model.Candle, error) {
	if l == nil || l.venue == nil {
		return nil, exception.ErrNilMarketDataVenue
	}
	if !timeframe.IsAvailable() {
		return nil, exception.ErrInvalidTimeframe
	}
	if !end.After(start) {
		return nil, exception.ErrInvalidTimeRange
	}

	limit := l.pageLimit
	if limit <= 0 {
		limit = defaultPageLimit
	}

	var candles []model.Candle
	since := start
	for since.Before(end) {
		page, err := l.venue.FetchOHLCV(ctx, symbol, timeframe, since, limit)
		if err != nil {
			if errors.Is(err, exception.ErrNoHistoricalData) {
				break
			}
			if errors.Is(err, exception.ErrUnsupportedSymbol) {
				_ = l.logger.Error(fmt.Sprintf("no historical data for %s: %v", symbol, err))
				return candles, nil
			}
			return nil, fmt.Errorf("fetch ohlcv page: %w", err)
		}
		if len(page) == 0 {
			break
		}

		_ = l.logger.Log(fmt.Sprintf(
			"fetched batch of %d %s candles for %s since %s",
			len(page), timeframe, symbol, since.UTC().Format(time.RFC3339),
		))

		for _, candle := range page {
			if candle.Timestamp.Before(start) || !candle.Timestamp.Before(end) {
				continue
			}
			candles = append(candles, candle)
		}

		last := page[len(page)-1].Timestamp
		if !last.Before(end) {
			break
		}

		next := last.Add(time.Millisecond)
		if !next.After(since) {
			break
		}
		since = next
	}

	if len(candles) == 0 {
		_ = l.logger.Log(fmt.Sprintf("no historical data for %s in requested range", symbol))
	}

	return candles, nil
}

// PollPrices runs a sequential poll loop over the configured symbols
// with a fixed sleep between rounds, invoking handler for every price
// the venue supplies. It returns when ctx is done or the process
// receives a shutdown signal. Requests never overlap.
func (l *Listener) PollPrices(ctx context.Context, interval time.Duration, handler func(model.PricePoint)) {
	if l == nil {
		return
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}

	for {
		for _, symbol := range l.symbols {
			point, err := l.FetchPrice(ctx, symbol)
			if err != nil {
				_ = l.logger.Error(fmt.Sprintf("error fetching live price for %s: %v", symbol, err))
				continue
			}
			if point == nil {
				continue
			}
			if handler != nil {
				handler(*point)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-sys.Shutdown():
			return
		case <-time.After(interval):
		}
	}
}
