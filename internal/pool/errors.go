package pool

import "errors"

var (
	// ErrInvalidTickRange rejects mint ranges that are inverted, out of
	// bounds or not aligned to the pool's tick spacing.
	ErrInvalidTickRange = errors.New("invalid tick range")

	// ErrZeroLiquidity rejects mints of zero or negative liquidity.
	ErrZeroLiquidity = errors.New("zero liquidity")

	// ErrInvalidAmountIn rejects swaps with a zero or negative input.
	ErrInvalidAmountIn = errors.New("invalid input amount")

	// ErrInsufficientInputAmount reports that a payer callback returned
	// without transferring what the pool is owed. The operation is rolled
	// back before it is returned.
	ErrInsufficientInputAmount = errors.New("insufficient input amount")

	// ErrReentrantCall reports a pool entry while another operation is in
	// flight, typically from inside a payer callback.
	ErrReentrantCall = errors.New("reentrant pool call")
)
