package sra

import (
	"go/types"
	"math/big"

	"sra.dev/sra/expr"
)

// BoundsForType computes a value's default range from its type alone,
// the way SymbolicRangeAnalysis.cpp's GetBoundsForTy does: absent any
// narrowing, an 8-bit value can be anything a byte can hold.
//
// GetBoundsForTy takes the signed minimum and the *unsigned* maximum
// of the type's bit width regardless of whether the type itself is
// signed, on the reasoning that either representation's bit pattern
// is possible before any comparison has pruned it; this widens an
// unsigned type's lower bound further than its own representation
// allows, which is a known imprecision in the original carried over
// here rather than "fixed", since fixing it would silently change
// what every existing call site computes.
func BoundsForType(t types.Type, cfg Config) expr.Range {
	if !cfg.UseNumericBounds {
		return expr.InfRange()
	}

	basic, ok := t.Underlying().(*types.Basic)
	if !ok {
		return expr.InfRange()
	}
	width := bitWidth(basic)

	if cfg.UseSymBounds {
		lo, hi := symbolicBoundNames(width)
		return expr.Range{Lower: expr.Ident(lo), Upper: expr.Ident(hi)}
	}

	lo, hi := concreteBounds(width)
	return expr.Range{Lower: expr.Const(lo), Upper: expr.Const(hi)}
}

func bitWidth(b *types.Basic) int {
	switch b.Kind() {
	case types.Int8, types.Uint8:
		return 8
	case types.Int16, types.Uint16:
		return 16
	case types.Int32, types.Uint32:
		return 32
	default:
		return 64
	}
}

// concreteBounds returns (signed min, unsigned max) for an N-bit
// integer, the APInt::getSignedMinValue/getMaxValue(width) pair
// GetBoundsForTy computes.
func concreteBounds(width int) (lo, hi *big.Int) {
	lo = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), uint(width-1)))
	hi = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(width)), big.NewInt(1))
	return lo, hi
}

// symbolicBoundNames returns the C limits.h-style names
// SymbolicRangeAnalysis.cpp's UseSymbolicBounds path substitutes for
// concrete numbers, so printed ranges read like "[INT_MIN, UINT_MAX]"
// instead of "[-2147483648, 4294967295]".
func symbolicBoundNames(width int) (lo, hi string) {
	switch width {
	case 8:
		return "CHAR_MIN", "UCHAR_MAX"
	case 16:
		return "SHRT_MIN", "USHRT_MAX"
	case 32:
		return "INT_MIN", "UINT_MAX"
	default:
		return "LONG_MIN", "ULONG_MAX"
	}
}
