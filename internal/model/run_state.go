package model

// RunState captures a scenario run's progress: the last applied step,
// the pool snapshot taken after it, and every asset balance so a resumed
// run settles against the same ledger.
type RunState struct {
	LastProcessedStep uint64          `json:"last_processed_step"`
	UpdatedAt         string          `json:"updated_at"`
	State             PoolState       `json:"state"`
	Balances          []TokenBalances `json:"balances"`
}

// TokenBalances lists the holders of one asset.
type TokenBalances struct {
	Token   string           `json:"token"`
	Holders []AccountBalance `json:"holders"`
}

// AccountBalance is one holder's balance of an asset.
type AccountBalance struct {
	Owner  string `json:"owner"`
	Amount string `json:"amount"`
}
