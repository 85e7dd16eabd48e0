package sim

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ParseAddress converts a string address into common.Address.
func ParseAddress(input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid address: %s", input)
	}
	return common.HexToAddress(input), nil
}

// ParseAmount converts a decimal string into a big integer. It rejects
// empty input; use ParseOptionalAmount where zero is an acceptable default.
func ParseAmount(input string) (*big.Int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("amount is required")
	}
	parsed, ok := new(big.Int).SetString(input, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", input)
	}
	return parsed, nil
}

// ParseOptionalAmount is ParseAmount with empty input meaning zero.
func ParseOptionalAmount(input string) (*big.Int, error) {
	if strings.TrimSpace(input) == "" {
		return new(big.Int), nil
	}
	return ParseAmount(input)
}
