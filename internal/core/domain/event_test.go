package domain

import (
	"encoding/json"
	"testing"
)

func TestLogLine(t *testing.T) {
	placed := LogLine(OrderPlaced{OrderID: "o-1", ProductID: "p-1", Quantity: 2})
	if placed != "OrderPlaced: o-1" {
		t.Errorf("unexpected log line: %s", placed)
	}

	rejected := LogLine(OrderRejected{Reason: "Quantity must be > 0"})
	if rejected != "OrderRejected: Quantity must be > 0" {
		t.Errorf("unexpected log line: %s", rejected)
	}
}

func TestOrderPlaced_WireFormat(t *testing.T) {
	payload, err := json.Marshal(OrderPlaced{OrderID: "o-1", ProductID: "p-1", Quantity: 3})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, key := range []string{"orderId", "productId", "quantity"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing wire field %q in %s", key, payload)
		}
	}
}
