package model

import "encoding/json"

// PoolEvent wraps an emitted pool event with its stream envelope. Sequence
// is the pool's monotonic event counter.
type PoolEvent struct {
	Sequence  uint64      `json:"sequence"`
	Pool      string      `json:"pool"`
	EventName string      `json:"event_name"`
	Topic0    string      `json:"topic0"`
	EmittedAt string      `json:"emitted_at"`
	Decoded   interface{} `json:"decoded"`
}

// PoolEventRecord is the JSON representation used when reading an event
// stream back, with the payload left undecoded.
type PoolEventRecord struct {
	Sequence  uint64          `json:"sequence"`
	Pool      string          `json:"pool"`
	EventName string          `json:"event_name"`
	Topic0    string          `json:"topic0"`
	EmittedAt string          `json:"emitted_at"`
	Decoded   json.RawMessage `json:"decoded"`
}
