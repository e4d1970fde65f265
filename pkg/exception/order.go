package exception

import "errors"

var (
	ErrOrderRejected        = errors.New("order: rejected by venue")
	ErrOrderTerminal        = errors.New("order: already in terminal state")
	ErrOrderUnknown         = errors.New("order: unknown order id")
	ErrOrderNilDelegator    = errors.New("order: nil delegator")
	ErrOrderInvalidRequest  = errors.New("order: invalid request")
	ErrOrderUnsupportedType = errors.New("order: unsupported type")
	ErrOrderMissingPrice    = errors.New("order: limit order requires a price")
	ErrPositionNotFound     = errors.New("order: no open position for symbol")
	ErrReplaceUnsupported   = errors.New("order: venue does not support replace")
)

var (
	ErrOrderDecodeResponseBody = errors.New("order: decode response body")
	ErrOrderEmptyResponseID    = errors.New("order: empty response order id")
)
