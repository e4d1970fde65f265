package enum

import "testing"

func TestOrderSideWireRoundTrip(t *testing.T) {
	for _, side := range []OrderSide{OrderSideBuy, OrderSideSell} {
		if !side.IsAvailable() {
			t.Fatalf("side %d should be available", side)
		}
		if got := ParseOrderSide(side.Wire()); got != side {
			t.Fatalf("side wire round-trip mismatch! should be %d but got %d", side, got)
		}
	}

	if ParseOrderSide("hold").IsAvailable() {
		t.Fatal("unknown side should not be available")
	}
}

func TestOrderSideOpposite(t *testing.T) {
	if OrderSideBuy.Opposite() != OrderSideSell {
		t.Fatal("opposite of buy should be sell")
	}
	if OrderSideSell.Opposite() != OrderSideBuy {
		t.Fatal("opposite of sell should be buy")
	}
}

func TestOrderTypeWireRoundTrip(t *testing.T) {
	for _, typ := range []OrderType{OrderTypeLimit, OrderTypeMarket} {
		if got := ParseOrderType(typ.Wire()); got != typ {
			t.Fatalf("type wire round-trip mismatch! should be %d but got %d", typ, got)
		}
	}
}

func TestOrderTimeInForceWireRoundTrip(t *testing.T) {
	for _, tif := range []OrderTimeInForce{OrderTimeInForceGTC, OrderTimeInForceIOC, OrderTimeInForceFOK} {
		if got := ParseOrderTimeInForce(tif.Wire()); got != tif {
			t.Fatalf("tif wire round-trip mismatch! should be %d but got %d", tif, got)
		}
	}
}
