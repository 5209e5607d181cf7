package ps2ce

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

var ErrInvalidInputLength = errors.New("invalid input length")

// Bounds describes the representable range of an integer value type.
type Bounds[T constraints.Integer] struct {
	Min, Max T
}

var (
	U8  = Bounds[uint8]{Min: 0, Max: math.MaxUint8}
	I16 = Bounds[int16]{Min: math.MinInt16, Max: math.MaxInt16}
)

// Midpoint returns (Max+Min)/2: 127 for uint8, 0 for int16.
func (b Bounds[T]) Midpoint() T {
	return (b.Max + b.Min) / 2
}

// ButtonToAnalog expands a digital button into the extreme values of b.
func ButtonToAnalog[T constraints.Integer](b Bounds[T], pressed bool) T {
	if pressed {
		return b.Max
	}
	return b.Min
}

// AnalogToButton collapses an analog value into a digital one. The threshold
// is strict, so for uint8 128 is the first pressed value.
func AnalogToButton[T constraints.Integer](b Bounds[T], v T) bool {
	return v > b.Midpoint()
}

// CollapseBits packs exactly 8 analog values into one byte, values[0] being
// the most significant bit.
func CollapseBits[T constraints.Integer](b Bounds[T], values []T) (byte, error) {
	if len(values) != 8 {
		return 0, fmt.Errorf("%w: need 8 values, got %d", ErrInvalidInputLength, len(values))
	}
	var out byte
	for i, v := range values {
		if AnalogToButton(b, v) {
			out |= 0x80 >> i
		}
	}
	return out, nil
}

// ScaleForWire keeps the top 8 bits of a signed axis and recentres it on 0x80.
func ScaleForWire(axis int16) uint8 {
	return uint8(int(axis>>8) + 0x80)
}

// HalfAxisPositive stretches the positive half of an axis over the full int16
// range. MaxInt16 maps onto itself, anything <= 0 maps to MinInt16.
func HalfAxisPositive(axis int16) int16 {
	if axis == math.MaxInt16 {
		return math.MaxInt16
	}
	if axis <= 0 {
		return math.MinInt16
	}
	return satMul2(satAdd(axis, math.MinInt16/2))
}

// HalfAxisNegative mirrors HalfAxisPositive onto the negative half. The +1
// accounts for MinInt16 having no positive counterpart.
func HalfAxisNegative(axis int16) int16 {
	return HalfAxisPositive(-satAdd(axis, 1))
}

// NormalizeStick widens a stick position by 10% per axis, saturating at the
// int16 range. This is a linear approximation of scaling the polar radius by
// 1.1; the two differ by rounding in the last bit and this one is the
// reference behaviour.
func NormalizeStick(x, y int16) (int16, int16) {
	return satAdd(x, x/10), satAdd(y, y/10)
}

func satAdd(a, b int16) int16 {
	return clampI16(int32(a) + int32(b))
}

func satMul2(a int16) int16 {
	return clampI16(int32(a) * 2)
}

func clampI16(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
