// Package expr is a small symbolic algebra backend: opaque, mostly
// uninterpreted expressions over integer constants and named idents,
// supporting the handful of operations the solver needs (+, -, *, /,
// min, max) plus the sentinels ±∞, ⊥ and NaN.
//
// There is no real CAS in the Go ecosystem retrieved alongside this
// module (the original implementation leans on SAGE/QEPCAD, a
// Python/C++-only quantifier-elimination engine with no Go
// equivalent), so this stays deliberately light: enough algebraic
// simplification to fold constants and recognize identical
// subexpressions, nothing resembling general symbolic equation
// solving. Grounded in shape on honnef.co/go/tools/go/vrp's own
// numeric backend (go/vrp/int.go's Int[T]/Uint[T] infinity handling),
// generalized from concrete numbers to symbolic names.
package expr

import (
	"fmt"
	"go/constant"
	"go/token"
	"go/types"
	"math/big"

	"sra.dev/sra/ir"
)

// Kind discriminates an Expr's shape.
type Kind int

const (
	KindConst Kind = iota
	KindIdent
	KindNegInf
	KindPosInf
	KindBottom
	KindNaN
	KindAdd
	KindSub
	KindMul
	KindDiv
	KindMin
	KindMax
)

// Expr is an immutable symbolic expression. The zero value is not
// meaningful; use the constructors below.
type Expr struct {
	kind Kind
	val  *big.Int
	name string
	x, y *Expr
}

var (
	NegInf = Expr{kind: KindNegInf}
	PosInf = Expr{kind: KindPosInf}
	// Bottom is ⊥, the uninitialized/never-evaluated state.
	Bottom = Expr{kind: KindBottom}
	// NaN marks an indeterminate result (e.g. ∞ - ∞, or division by a
	// constant zero), rather than panicking the analysis.
	NaN = Expr{kind: KindNaN}
)

// Const wraps a concrete integer value.
func Const(n *big.Int) Expr { return Expr{kind: KindConst, val: n} }

// ConstInt64 is a convenience Const constructor.
func ConstInt64(n int64) Expr { return Const(big.NewInt(n)) }

// Ident is a named, otherwise-opaque symbolic value (an argument, or
// a variable's value named by namevault).
func Ident(name string) Expr { return Expr{kind: KindIdent, name: name} }

func bin(kind Kind, x, y Expr) Expr { return Expr{kind: kind, x: &x, y: &y} }

func (e Expr) IsNegInf() bool { return e.kind == KindNegInf }
func (e Expr) IsPosInf() bool { return e.kind == KindPosInf }
func (e Expr) IsBottom() bool { return e.kind == KindBottom }
func (e Expr) IsNaN() bool    { return e.kind == KindNaN }

// Int returns e's constant value, if e is a KindConst.
func (e Expr) Int() (*big.Int, bool) {
	if e.kind != KindConst {
		return nil, false
	}
	return e.val, true
}

// Equal reports whether e and o are the identical expression: this is
// structural equality (recursively matching constants, idents and
// operators), not a decision procedure for numeric equivalence. Two
// expressions that happen to always evaluate the same but are built
// differently (x+y vs y+x) compare unequal. The solver only uses this
// to detect that a value's state changed between rounds, so a false
// "changed" here just costs an extra, harmless evaluation round.
func (e Expr) Equal(o Expr) bool {
	if e.kind != o.kind {
		return false
	}
	switch e.kind {
	case KindConst:
		return e.val.Cmp(o.val) == 0
	case KindIdent:
		return e.name == o.name
	case KindNegInf, KindPosInf, KindBottom, KindNaN:
		return true
	default:
		return e.x.Equal(*o.x) && e.y.Equal(*o.y)
	}
}

// Size is the expression's syntactic size (node count), used by the
// solver to cap how deeply a range is allowed to grow before it's
// widened back to type bounds (SymbolicRangeAnalysis.cpp's
// MaxExprSize).
func (e Expr) Size() int {
	switch e.kind {
	case KindAdd, KindSub, KindMul, KindDiv, KindMin, KindMax:
		return 1 + e.x.Size() + e.y.Size()
	default:
		return 1
	}
}

func (e Expr) String() string {
	switch e.kind {
	case KindConst:
		return e.val.String()
	case KindIdent:
		return e.name
	case KindNegInf:
		return "-∞"
	case KindPosInf:
		return "+∞"
	case KindBottom:
		return "⊥"
	case KindNaN:
		return "NaN"
	case KindAdd:
		return fmt.Sprintf("(%s + %s)", e.x, e.y)
	case KindSub:
		return fmt.Sprintf("(%s - %s)", e.x, e.y)
	case KindMul:
		return fmt.Sprintf("(%s * %s)", e.x, e.y)
	case KindDiv:
		return fmt.Sprintf("(%s / %s)", e.x, e.y)
	case KindMin:
		return fmt.Sprintf("min(%s, %s)", e.x, e.y)
	case KindMax:
		return fmt.Sprintf("max(%s, %s)", e.x, e.y)
	default:
		panic("expr: unhandled kind")
	}
}

// Add computes e + o, folding constants and ∞ arithmetic where
// possible and otherwise building a symbolic node.
func (e Expr) Add(o Expr) Expr {
	if e.IsBottom() || o.IsBottom() {
		return Bottom
	}
	if e.IsNaN() || o.IsNaN() {
		return NaN
	}
	if (e.IsNegInf() && o.IsPosInf()) || (e.IsPosInf() && o.IsNegInf()) {
		return NaN
	}
	if e.IsNegInf() || o.IsNegInf() {
		return NegInf
	}
	if e.IsPosInf() || o.IsPosInf() {
		return PosInf
	}
	if ev, ok := e.Int(); ok {
		if ov, ok := o.Int(); ok {
			return Const(new(big.Int).Add(ev, ov))
		}
	}
	return bin(KindAdd, e, o)
}

// Sub computes e - o.
func (e Expr) Sub(o Expr) Expr {
	if e.IsBottom() || o.IsBottom() {
		return Bottom
	}
	if e.IsNaN() || o.IsNaN() {
		return NaN
	}
	if (e.IsNegInf() && o.IsNegInf()) || (e.IsPosInf() && o.IsPosInf()) {
		return NaN
	}
	if e.IsNegInf() || o.IsPosInf() {
		return NegInf
	}
	if e.IsPosInf() || o.IsNegInf() {
		return PosInf
	}
	if ev, ok := e.Int(); ok {
		if ov, ok := o.Int(); ok {
			return Const(new(big.Int).Sub(ev, ov))
		}
	}
	return bin(KindSub, e, o)
}

// Mul computes e * o. Called by the solver only once it has already
// confirmed neither operand's range touches ±∞ (see the sra package's
// binaryOp), so
// the ∞ cases here are defensive rather than load-bearing.
func (e Expr) Mul(o Expr) Expr {
	if e.IsBottom() || o.IsBottom() {
		return Bottom
	}
	if e.IsNaN() || o.IsNaN() {
		return NaN
	}
	if e.IsNegInf() || e.IsPosInf() || o.IsNegInf() || o.IsPosInf() {
		return NaN
	}
	if ev, ok := e.Int(); ok {
		if ov, ok := o.Int(); ok {
			return Const(new(big.Int).Mul(ev, ov))
		}
	}
	return bin(KindMul, e, o)
}

// Div computes e / o (truncating toward zero, as SDiv/UDiv do).
func (e Expr) Div(o Expr) Expr {
	if e.IsBottom() || o.IsBottom() {
		return Bottom
	}
	if e.IsNaN() || o.IsNaN() {
		return NaN
	}
	if e.IsNegInf() || e.IsPosInf() || o.IsNegInf() || o.IsPosInf() {
		return NaN
	}
	if ov, ok := o.Int(); ok && ov.Sign() == 0 {
		return NaN
	}
	if ev, ok := e.Int(); ok {
		if ov, ok := o.Int(); ok {
			return Const(new(big.Int).Quo(ev, ov))
		}
	}
	return bin(KindDiv, e, o)
}

// Min computes the pointwise minimum of e and o: -∞ absorbs, +∞ is
// the identity.
func (e Expr) Min(o Expr) Expr {
	if e.Equal(o) {
		return e
	}
	if e.IsNaN() || o.IsNaN() {
		return NaN
	}
	if e.IsNegInf() || o.IsNegInf() {
		return NegInf
	}
	if e.IsPosInf() {
		return o
	}
	if o.IsPosInf() {
		return e
	}
	if ev, ok := e.Int(); ok {
		if ov, ok := o.Int(); ok {
			if ev.Cmp(ov) <= 0 {
				return e
			}
			return o
		}
	}
	return bin(KindMin, e, o)
}

// Max computes the pointwise maximum of e and o: +∞ absorbs, -∞ is
// the identity.
func (e Expr) Max(o Expr) Expr {
	if e.Equal(o) {
		return e
	}
	if e.IsNaN() || o.IsNaN() {
		return NaN
	}
	if e.IsPosInf() || o.IsPosInf() {
		return PosInf
	}
	if e.IsNegInf() {
		return o
	}
	if o.IsNegInf() {
		return e
	}
	if ev, ok := e.Int(); ok {
		if ov, ok := o.Int(); ok {
			if ev.Cmp(ov) >= 0 {
				return e
			}
			return o
		}
	}
	return bin(KindMax, e, o)
}

// binOpTokens maps the arithmetic Kinds to the token.Token NewBinOp
// expects, so Materialize can hand a compound expression straight to
// the same constructor the rest of the IR builds binops with.
var binOpTokens = map[Kind]token.Token{
	KindAdd: token.ADD,
	KindSub: token.SUB,
	KindMul: token.MUL,
	KindDiv: token.QUO,
}

// Materialize turns e into a runtime ir.Value of type ty, emitting
// whatever instructions it takes at at's insertion point: SAGEExpr::
// toValue's role, played here by appending *ir.BinOp instructions to
// at instead of building them through an IRBuilder<>. A constant
// becomes an *ir.Const, an ident is looked up in binds, and a
// compound +, -, *, / expression recurses on both operands and
// appends one new BinOp per node, in evaluation order. min/max have no
// instruction of their own (they'd need a runtime comparison, not
// just an operator) and the sentinels ±∞/⊥/NaN don't denote a runtime
// value at all; both return ok=false so the caller (sra.Result.
// MaterializeRange) can fall back to the type's own bounds instead of
// synthesizing nonsense.
func (e Expr) Materialize(at *ir.BasicBlock, ty types.Type, binds map[string]ir.Value) (ir.Value, bool) {
	switch e.kind {
	case KindConst:
		return ir.NewConst(constant.Make(e.val), ty), true
	case KindIdent:
		v, ok := binds[e.name]
		return v, ok
	case KindAdd, KindSub, KindMul, KindDiv:
		x, ok := e.x.Materialize(at, ty, binds)
		if !ok {
			return nil, false
		}
		y, ok := e.y.Materialize(at, ty, binds)
		if !ok {
			return nil, false
		}
		instr := ir.NewBinOp(at.Parent.NewTempName("sra"), ty, binOpTokens[e.kind], x, y)
		at.Append(instr)
		return instr, true
	default:
		return nil, false
	}
}
