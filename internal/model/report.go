package model

// PoolReport stores aggregate totals over one pool's event stream.
// Volumes sum absolute swap amounts per asset.
type PoolReport struct {
	Pool              string `json:"pool"`
	MintCount         uint64 `json:"mint_count"`
	SwapCount         uint64 `json:"swap_count"`
	Volume0           string `json:"volume0"`
	Volume1           string `json:"volume1"`
	MintedLiquidity   string `json:"minted_liquidity"`
	FinalSqrtPriceX96 string `json:"final_sqrt_price_x96"`
	FinalTick         int32  `json:"final_tick"`
	FinalLiquidity    string `json:"final_liquidity"`
	FirstSequence     uint64 `json:"first_sequence"`
	LastSequence      uint64 `json:"last_sequence"`
	SkippedLines      uint64 `json:"skipped_lines,omitempty"`
}

// RecordError describes a malformed line encountered while reading an
// event stream.
type RecordError struct {
	Line  uint64 `json:"line"`
	Error string `json:"error"`
}
