package enum

// OrderSide buy, sell
type OrderSide uint8

const (
	_order_side_beg OrderSide = iota
	OrderSideBuy
	OrderSideSell
	_order_side_end
)

func (s OrderSide) IsAvailable() bool {
	return s > _order_side_beg && s < _order_side_end
}

// Wire returns the venue wire form.
func (s OrderSide) Wire() string {
	switch s {
	case OrderSideBuy:
		return "buy"
	case OrderSideSell:
		return "sell"
	default:
		return ""
	}
}

// Opposite returns the offsetting side, used to close a position.
func (s OrderSide) Opposite() OrderSide {
	switch s {
	case OrderSideBuy:
		return OrderSideSell
	case OrderSideSell:
		return OrderSideBuy
	default:
		return s
	}
}

func ParseOrderSide(s string) OrderSide {
	switch s {
	case "buy":
		return OrderSideBuy
	case "sell":
		return OrderSideSell
	default:
		return _order_side_beg
	}
}

// OrderType limit, market
type OrderType uint8

const (
	_order_type_beg OrderType = iota
	OrderTypeLimit
	OrderTypeMarket
	_order_type_end
)

func (t OrderType) IsAvailable() bool {
	return t > _order_type_beg && t < _order_type_end
}

// Wire returns the venue wire form.
func (t OrderType) Wire() string {
	switch t {
	case OrderTypeLimit:
		return "limit"
	case OrderTypeMarket:
		return "market"
	default:
		return ""
	}
}

func ParseOrderType(s string) OrderType {
	switch s {
	case "limit":
		return OrderTypeLimit
	case "market":
		return OrderTypeMarket
	default:
		return _order_type_beg
	}
}

// OrderTimeInForce GTC, IOC, FOK
type OrderTimeInForce uint8

const (
	_order_time_in_force_beg OrderTimeInForce = iota
	OrderTimeInForceGTC
	OrderTimeInForceIOC
	OrderTimeInForceFOK
	_order_time_in_force_end
)

func (s OrderTimeInForce) IsAvailable() bool {
	return s > _order_time_in_force_beg && s < _order_time_in_force_end
}

// Wire returns the venue wire form.
func (s OrderTimeInForce) Wire() string {
	switch s {
	case OrderTimeInForceGTC:
		return "gtc"
	case OrderTimeInForceIOC:
		return "ioc"
	case OrderTimeInForceFOK:
		return "fok"
	default:
		return ""
	}
}

func ParseOrderTimeInForce(s string) OrderTimeInForce {
	switch s {
	case "gtc":
		return OrderTimeInForceGTC
	case "ioc":
		return OrderTimeInForceIOC
	case "fok":
		return OrderTimeInForceFOK
	default:
		return _order_time_in_force_beg
	}
}
