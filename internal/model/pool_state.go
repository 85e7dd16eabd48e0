package model

// PoolState is the serialized snapshot of a pool's accounting state.
// Big quantities travel as decimal strings, bitmap words as hex.
type PoolState struct {
	Pool         string          `json:"pool"`
	Token0       string          `json:"token0"`
	Token1       string          `json:"token1"`
	TickSpacing  int32           `json:"tick_spacing"`
	SqrtPriceX96 string          `json:"sqrt_price_x96"`
	Tick         int32           `json:"tick"`
	Liquidity    string          `json:"liquidity"`
	EventSeq     uint64          `json:"event_seq"`
	Ticks        []TickState     `json:"ticks"`
	Words        []WordState     `json:"words"`
	Positions    []PositionState `json:"positions"`
	UpdatedAt    string          `json:"updated_at"`
}

// TickState is one boundary tick entry in a snapshot.
type TickState struct {
	Tick           int32  `json:"tick"`
	LiquidityGross string `json:"liquidity_gross"`
	LiquidityNet   string `json:"liquidity_net"`
}

// WordState is one nonzero bitmap word in a snapshot.
type WordState struct {
	Pos  int16  `json:"pos"`
	Bits string `json:"bits"`
}

// PositionState is one position entry in a snapshot.
type PositionState struct {
	Owner     string `json:"owner"`
	LowerTick int32  `json:"lower_tick"`
	UpperTick int32  `json:"upper_tick"`
	Liquidity string `json:"liquidity"`
}
