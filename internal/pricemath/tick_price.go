package pricemath

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
)

// Tick bounds of the price curve; price = 1.0001^tick.
const (
	MinTick int32 = -887272
	MaxTick int32 = 887272
)

var (
	// MinSqrtRatio is SqrtPriceAtTick(MinTick).
	MinSqrtRatio = big.NewInt(4295128739)
	// MaxSqrtRatio is SqrtPriceAtTick(MaxTick). Valid sqrt prices live in
	// [MinSqrtRatio, MaxSqrtRatio).
	MaxSqrtRatio = mustBig("1461446703485210103287273052203988822378723970342")
)

var (
	ErrTickRange      = errors.New("tick out of range")
	ErrSqrtPriceRange = errors.New("sqrt price out of range")
)

// Q128.128 multipliers for each bit of the absolute tick.
var (
	sqrtRatioBase = uint256.MustFromHex("0x100000000000000000000000000000000")
	sqrtRatioMul  = [20]*uint256.Int{
		uint256.MustFromHex("0xfffcb933bd6fad37aa2d162d1a594001"),
		uint256.MustFromHex("0xfff97272373d413259a46990580e213a"),
		uint256.MustFromHex("0xfff2e50f5f656932ef12357cf3c7fdcc"),
		uint256.MustFromHex("0xffe5caca7e10e4e61c3624eaa0941cd0"),
		uint256.MustFromHex("0xffcb9843d60f6159c9db58835c926644"),
		uint256.MustFromHex("0xff973b41fa98c081472e6896dfb254c0"),
		uint256.MustFromHex("0xff2ea16466c96a3843ec78b326b52861"),
		uint256.MustFromHex("0xfe5dee046a99a2a811c461f1969c3053"),
		uint256.MustFromHex("0xfcbe86c7900a88aedcffc83b479aa3a4"),
		uint256.MustFromHex("0xf987a7253ac413176f2b074cf7815e54"),
		uint256.MustFromHex("0xf3392b0822b70005940c7a398e4b70f3"),
		uint256.MustFromHex("0xe7159475a2c29b7443b29c7fa6e889d9"),
		uint256.MustFromHex("0xd097f3bdfd2022b8845ad8f792aa5825"),
		uint256.MustFromHex("0xa9f746462d870fdf8a65dc1f90e061e5"),
		uint256.MustFromHex("0x70d869a156d2a1b890bb3df62baf32f7"),
		uint256.MustFromHex("0x31be135f97d08fd981231505542fcfa6"),
		uint256.MustFromHex("0x9aa508b5b7a84e1c677de54f3e99bc9"),
		uint256.MustFromHex("0x5d6af8dedb81196699c329225ee604"),
		uint256.MustFromHex("0x2216e584f5fa1ea926041bedfe98"),
		uint256.MustFromHex("0x48a170391f7dc42444e8fa2"),
	}
	maxUint256 = new(uint256.Int).Not(new(uint256.Int))
	maskLow32  = uint256.NewInt(0xffffffff)
)

// SqrtPriceAtTick returns sqrt(1.0001^tick) * 2^96, exact and strictly
// increasing in tick.
func SqrtPriceAtTick(tick int32) (*big.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return nil, ErrTickRange
	}

	abs := uint32(tick)
	if tick < 0 {
		abs = uint32(-tick)
	}

	ratio := new(uint256.Int)
	if abs&1 != 0 {
		ratio.Set(sqrtRatioMul[0])
	} else {
		ratio.Set(sqrtRatioBase)
	}
	for i := 1; i < len(sqrtRatioMul); i++ {
		if abs&(1<<uint(i)) != 0 {
			ratio.Mul(ratio, sqrtRatioMul[i])
			ratio.Rsh(ratio, 128)
		}
	}

	if tick > 0 {
		ratio.Div(maxUint256, ratio)
	}

	// Q128.128 -> Q64.96, rounding up so the result round-trips.
	sqrtPrice := new(uint256.Int).Rsh(ratio, 32)
	if !new(uint256.Int).And(ratio, maskLow32).IsZero() {
		sqrtPrice.AddUint64(sqrtPrice, 1)
	}
	return sqrtPrice.ToBig(), nil
}

// TickAtSqrtPrice returns the greatest tick whose sqrt price does not exceed
// sqrtPriceX96. The input must be in [MinSqrtRatio, MaxSqrtRatio).
func TickAtSqrtPrice(sqrtPriceX96 *big.Int) (int32, error) {
	if sqrtPriceX96 == nil || sqrtPriceX96.Cmp(MinSqrtRatio) < 0 || sqrtPriceX96.Cmp(MaxSqrtRatio) >= 0 {
		return 0, ErrSqrtPriceRange
	}

	low, high := MinTick, MaxTick
	tick := MinTick
	for low <= high {
		mid := low + (high-low)/2
		ratio, err := SqrtPriceAtTick(mid)
		if err != nil {
			return 0, err
		}
		if ratio.Cmp(sqrtPriceX96) <= 0 {
			tick = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return tick, nil
}

func mustBig(value string) *big.Int {
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		panic("pricemath: invalid constant " + value)
	}
	return parsed
}
