package expr

import "fmt"

// Range is a value's inferred [Lower, Upper] bound. Grounded on the
// original's SAGERange: a pair of Exprs plus the interval arithmetic
// the solver's transfer functions need.
type Range struct {
	Lower, Upper Expr
}

// NewRange builds the point range [e, e].
func NewRange(e Expr) Range { return Range{Lower: e, Upper: e} }

// BottomRange is the uninitialized range every value starts at.
func BottomRange() Range { return Range{Lower: Bottom, Upper: Bottom} }

// InfRange is the default, maximally imprecise range.
func InfRange() Range { return Range{Lower: NegInf, Upper: PosInf} }

func (r Range) IsBottom() bool { return r.Lower.IsBottom() && r.Upper.IsBottom() }

func (r Range) Equal(o Range) bool {
	return r.Lower.Equal(o.Lower) && r.Upper.Equal(o.Upper)
}

func (r Range) String() string { return fmt.Sprintf("[%s, %s]", r.Lower, r.Upper) }

// Add is interval addition: monotonic increasing in both operands.
func (r Range) Add(o Range) Range {
	return Range{Lower: r.Lower.Add(o.Lower), Upper: r.Upper.Add(o.Upper)}
}

// Sub is interval subtraction: monotonic increasing in r, decreasing
// in o.
func (r Range) Sub(o Range) Range {
	return Range{Lower: r.Lower.Sub(o.Upper), Upper: r.Upper.Sub(o.Lower)}
}

// Mul is interval multiplication via the standard four-corner
// formula: the product of two intervals is bounded by the min/max of
// the products of their endpoints. The sra package's binaryOp only invokes
// this once both operands are known to avoid ±∞, so every corner
// product is itself finite or symbolic, never an indeterminate ∞×0.
func (r Range) Mul(o Range) Range {
	ll := r.Lower.Mul(o.Lower)
	lu := r.Lower.Mul(o.Upper)
	ul := r.Upper.Mul(o.Lower)
	uu := r.Upper.Mul(o.Upper)
	return Range{
		Lower: ll.Min(lu).Min(ul.Min(uu)),
		Upper: ll.Max(lu).Max(ul.Max(uu)),
	}
}

// Div is interval division via the same four-corner formula as Mul.
// It does not special-case a divisor range that straddles zero
// (unlike multiplication, division is not monotonic there), and the
// sra package's binaryOp does not either: it falls back to type bounds
// only when an operand touches ±∞, and otherwise uses this result as
// is. A divisor endpoint that is the constant 0 makes its corners NaN.
func (r Range) Div(o Range) Range {
	ll := r.Lower.Div(o.Lower)
	lu := r.Lower.Div(o.Upper)
	ul := r.Upper.Div(o.Lower)
	uu := r.Upper.Div(o.Upper)
	return Range{
		Lower: ll.Min(lu).Min(ul.Min(uu)),
		Upper: ll.Max(lu).Max(ul.Max(uu)),
	}
}

// Meet folds o into r as a phi operand: the join of two ranges is the
// smallest range containing both.
func (r Range) Meet(o Range) Range {
	return Range{Lower: r.Lower.Min(o.Lower), Upper: r.Upper.Max(o.Upper)}
}
