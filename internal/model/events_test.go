package model

import (
	"encoding/json"
	"testing"
)

func TestSwapEventDataJSONStringFields(t *testing.T) {
	payload := SwapEventData{
		Sender:       "0x1111111111111111111111111111111111111111",
		Recipient:    "0x2222222222222222222222222222222222222222",
		Amount0:      "12345678901234567890",
		Amount1:      "-42",
		SqrtPriceX96: "79228162514264337593543950336",
		Liquidity:    "5000000000000000000",
		Tick:         10,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if _, ok := decoded["amount0"].(string); !ok {
		t.Fatalf("amount0 should be string")
	}
	if _, ok := decoded["amount1"].(string); !ok {
		t.Fatalf("amount1 should be string")
	}
	if _, ok := decoded["sqrt_price_x96"].(string); !ok {
		t.Fatalf("sqrt_price_x96 should be string")
	}
	if _, ok := decoded["liquidity"].(string); !ok {
		t.Fatalf("liquidity should be string")
	}
}

func TestPoolEventEnvelopeRoundTrip(t *testing.T) {
	original := PoolEvent{
		Sequence:  3,
		Pool:      "0x3333333333333333333333333333333333333333",
		EventName: "Mint",
		Topic0:    "0x7a53080ba414158be7ec69b987b5fb7d07dee101fe85488f0853ae16239d0bde",
		EmittedAt: "2024-01-01T00:00:00Z",
		Decoded: MintEventData{
			Sender:    "0x1111111111111111111111111111111111111111",
			Owner:     "0x1111111111111111111111111111111111111111",
			TickLower: -600,
			TickUpper: 600,
			Amount:    "1000",
			Amount0:   "3",
			Amount1:   "3",
		},
	}

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var record PoolEventRecord
	if err := json.Unmarshal(b, &record); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if record.Sequence != original.Sequence || record.EventName != original.EventName {
		t.Fatalf("envelope mismatch: %+v", record)
	}

	var payload MintEventData
	if err := json.Unmarshal(record.Decoded, &payload); err != nil {
		t.Fatalf("payload unmarshal failed: %v", err)
	}
	if payload != original.Decoded {
		t.Fatalf("payload mismatch: %+v != %+v", payload, original.Decoded)
	}
}
