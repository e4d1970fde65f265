package model

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"main/pkg/exception"
)

// PricePoint is a single observed trade price for an instrument.
// Produced per poll, never persisted.
type PricePoint struct {
	Symbol string
	Price  decimal.Decimal
}

// Candle is one OHLCV bar. Timestamp is the bar open time.
type Candle struct {
	Timestamp time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
}

// Timeframe is a bar interval in venue notation, e.g. "1m", "4h", "1d".
type Timeframe string

// Duration parses the timeframe into its bar length.
func (tf Timeframe) Duration() (time.Duration, error) {
	s := string(tf)
	if len(s) < 2 {
		return 0, exception.ErrInvalidTimeframe
	}

	value, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || value <= 0 {
		return 0, exception.ErrInvalidTimeframe
	}

	var unit time.Duration
	switch s[len(s)-1] {
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	case 'w':
		unit = 7 * 24 * time.Hour
	default:
		return 0, exception.ErrInvalidTimeframe
	}

	return time.Duration(value) * unit, nil
}

// IsAvailable reports whether the timeframe parses.
func (tf Timeframe) IsAvailable() bool {
	_, err := tf.Duration()
	return err == nil
}
