package pricemath

import (
	"errors"
	"math/big"
)

var ErrDivisionByZero = errors.New("division by zero")

// MulDiv computes floor(a * b / denominator) with a full-precision
// intermediate product.
func MulDiv(a, b, denominator *big.Int) (*big.Int, error) {
	if denominator == nil || denominator.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	product := new(big.Int).Mul(a, b)
	return product.Quo(product, denominator), nil
}

// MulDivRoundingUp computes ceil(a * b / denominator).
func MulDivRoundingUp(a, b, denominator *big.Int) (*big.Int, error) {
	if denominator == nil || denominator.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	product := new(big.Int).Mul(a, b)
	quotient, remainder := new(big.Int).QuoRem(product, denominator, new(big.Int))
	if remainder.Sign() != 0 {
		quotient.Add(quotient, big.NewInt(1))
	}
	return quotient, nil
}

// DivRoundingUp computes ceil(numerator / denominator).
func DivRoundingUp(numerator, denominator *big.Int) (*big.Int, error) {
	if denominator == nil || denominator.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	quotient, remainder := new(big.Int).QuoRem(numerator, denominator, new(big.Int))
	if remainder.Sign() != 0 {
		quotient.Add(quotient, big.NewInt(1))
	}
	return quotient, nil
}
