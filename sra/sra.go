package sra

import (
	"go/constant"
	"go/types"
	"math/big"

	"sra.dev/sra/expr"
	"sra.dev/sra/graph"
	"sra.dev/sra/ir"
	"sra.dev/sra/namevault"
	"sra.dev/sra/redef"
)

// Result is one function's analysis: every integer value's inferred
// range, plus the pieces needed to query or print it.
type Result struct {
	Fn    *ir.Function
	Names *namevault.Vault
	Graph *graph.Graph
	state map[ir.Value]expr.Range
	cfg   Config
}

// Analyze runs the complete pipeline over fn: live-range splitting
// (redef.Pass), constraint-graph construction (graph.Build) and the
// fixed-point solver, in that order, the way
// SymbolicRangeAnalysis.cpp's runOnFunction runs after Redefinition's
// pass has already transformed the function it's handed.
//
// leaf chooses how values with no interpretable defining instruction
// are treated; pass graph.SymbolicLeaf or graph.NumericLeaf (see
// SPEC_FULL.md §13 for the tradeoff).
func Analyze(fn *ir.Function, cfg Config, leaf graph.LeafPolicy) *Result {
	redef.Pass(fn)
	names := namevault.New(fn)
	g := graph.Build(fn, names, leaf)
	state := run(g, names, cfg)
	return &Result{Fn: fn, Names: names, Graph: g, state: state, cfg: cfg}
}

// RangeOf returns v's inferred range, or its type's default bounds
// (BoundsForType: ±∞ unless Config.UseNumericBounds is set) if v was
// never part of the analyzed graph (e.g. a non-integer value, or one
// from a different function).
func (r *Result) RangeOf(v ir.Value) expr.Range {
	if s, ok := r.state[v]; ok {
		return s
	}
	return BoundsForType(v.Type(), r.cfg)
}

// NameOf returns v's stable diagnostic name.
func (r *Result) NameOf(v ir.Value) string {
	return r.Names.Name(v)
}

// MaterializeRange turns v's inferred range into a pair of runtime
// ir.Values, emitting whatever instructions it takes at at's
// insertion point (getRangeValuesFor's role): for callers
// (optimizations, printers) that want real operands to guard a
// bounds check with, rather than a symbolic description. binds
// resolves any named idents the range's bounds mention (e.g. an
// argument's name) back to the ir.Value they denote. A bound that
// doesn't reduce to a constant, a bound ident, or an arithmetic
// expression over either (min/max, or a sentinel like an unconverged
// ⊥) has no direct IR translation; rather than fail outright,
// MaterializeRange inserts that side's concrete type bound instead,
// the same fallback GetBoundsForTy provides the rest of the analysis
// whenever a range hasn't been pinned down.
func (r *Result) MaterializeRange(v ir.Value, at *ir.BasicBlock, binds map[string]ir.Value) (lo, hi ir.Value) {
	ty := v.Type()
	rng := r.RangeOf(v)

	lo, ok := rng.Lower.Materialize(at, ty, binds)
	if !ok {
		lo = ir.NewConst(constant.Make(concreteBoundFor(ty, true)), ty)
	}
	hi, ok = rng.Upper.Materialize(at, ty, binds)
	if !ok {
		hi = ir.NewConst(constant.Make(concreteBoundFor(ty, false)), ty)
	}
	return lo, hi
}

// concreteBoundFor returns ty's signed-minimum or unsigned-maximum
// bound (see concreteBounds), independent of Config.UseSymBounds/
// UseNumericBounds: those knobs control what the solver's unconverged
// default looks like when printed, not whether a fallback constant
// can actually be materialized, so this always has a concrete number
// to hand back.
func concreteBoundFor(ty types.Type, lower bool) *big.Int {
	width := 64
	if basic, ok := ty.Underlying().(*types.Basic); ok {
		width = bitWidth(basic)
	}
	lo, hi := concreteBounds(width)
	if lower {
		return lo
	}
	return hi
}
