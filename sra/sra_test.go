package sra

import (
	"go/token"
	"testing"

	"sra.dev/sra/expr"
	"sra.dev/sra/graph"
	"sra.dev/sra/ir"
)

// findSigma returns the sigma splitting v's live range at the top of
// bb, or nil if there isn't one. Stands in for Redefinition::getRedef
// from SymbolicRangeAnalysisTest.cpp's testSimpleIf, which looks the
// split up by a side table instead of scanning, since this module's
// redef.Pass doesn't keep one (nothing else needs it).
func findSigma(bb *ir.BasicBlock, v ir.Value) *ir.Sigma {
	for _, instr := range bb.Instrs {
		if sig, ok := instr.(*ir.Sigma); ok && sig.X == v {
			return sig
		}
	}
	return nil
}

func assertRange(t *testing.T, label string, got expr.Range, want expr.Range) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s: got %s, want %s", label, got, want)
	}
}

// TestSimpleIf translates SymbolicRangeAnalysisTest.cpp's testSimpleIf:
//
//	func test_simple_if(a, b int32) {
//	  if a < b {
//	    // a < b, b > a
//	  } else {
//	    // a >= b, b <= a
//	  }
//	}
func TestSimpleIf(t *testing.T) {
	b := ir.NewTestFunction("test_simple_if", 2)
	a0, a1 := b.Args[0], b.Args[1]

	entry := b.Block("entry")
	then := b.Block("if.then")
	els := b.Block("if.else")
	end := b.Block("if.end")

	cmp := b.BinOp(entry, "cmp", token.LSS, a0, a1)
	b.If(entry, cmp, then, els)
	b.Use(then, a0)
	b.Use(then, a1)
	b.Use(els, a0)
	b.Use(els, a1)
	b.Jump(then, end)
	b.Jump(els, end)
	b.Return(end)

	r := Analyze(b.Fn, DefaultConfig(), graph.SymbolicLeaf)

	exprA := expr.Ident(r.NameOf(a0))
	exprB := expr.Ident(r.NameOf(a1))
	one := expr.ConstInt64(1)

	thenA := findSigma(then, a0)
	thenB := findSigma(then, a1)
	elseA := findSigma(els, a0)
	elseB := findSigma(els, a1)
	if thenA == nil || thenB == nil || elseA == nil || elseB == nil {
		t.Fatal("redef.Pass did not split all four live ranges")
	}

	assertRange(t, "a@then", r.RangeOf(thenA), expr.Range{Lower: exprA, Upper: exprB.Sub(one)})
	assertRange(t, "b@then", r.RangeOf(thenB), expr.Range{Lower: exprA.Add(one), Upper: exprB})
	assertRange(t, "a@else", r.RangeOf(elseA), expr.Range{Lower: exprB, Upper: exprA})
	assertRange(t, "b@else", r.RangeOf(elseB), expr.Range{Lower: exprB, Upper: exprA})
}

// TestConstantFold checks that an unconditional arithmetic chain over
// constants folds all the way down to a point range, with no ±∞ or
// symbolic leftovers.
func TestConstantFold(t *testing.T) {
	b := ir.NewTestFunction("test_const_fold", 0)
	entry := b.Block("entry")

	c5 := b.ConstInt32(5)
	c3 := b.ConstInt32(3)
	sum := b.BinOp(entry, "sum", token.ADD, c5, c3)
	c2 := b.ConstInt32(2)
	prod := b.BinOp(entry, "prod", token.MUL, sum, c2)
	b.Return(entry)

	r := Analyze(b.Fn, DefaultConfig(), graph.SymbolicLeaf)

	assertRange(t, "sum", r.RangeOf(sum), expr.NewRange(expr.ConstInt64(8)))
	assertRange(t, "prod", r.RangeOf(prod), expr.NewRange(expr.ConstInt64(16)))
}

// TestCountedLoopPhiWidens exercises a loop-carried phi whose lower
// bound stabilizes at its initial value (0) while its upper bound
// keeps climbing by one every round, so widen() only promotes the
// side that never settled, the upper bound, to the type's maximum.
func TestCountedLoopPhiWidens(t *testing.T) {
	b := ir.NewTestFunction("test_loop", 1)
	n := b.Args[0]

	entry := b.Block("entry")
	loop := b.Block("loop")
	exit := b.Block("exit")

	b.Jump(entry, loop)
	b.PreEdge(loop, loop)
	b.PreEdge(loop, exit)

	zero := b.ConstInt32(0)
	one := b.ConstInt32(1)
	// i = phi(0 from entry, i.next from loop's own back edge)
	i := b.Phi(loop, "i", ir.Int32Type, zero, nil)
	iNext := b.BinOp(loop, "i.next", token.ADD, i, one)
	i.Edges[1] = iNext
	ir.AddOperand(iNext, i)

	cmp := b.BinOp(loop, "cmp", token.LSS, i, n)
	b.SetIf(loop, cmp)
	b.Return(exit)

	cfg := DefaultConfig()
	cfg.UseNumericBounds = true
	r := Analyze(b.Fn, cfg, graph.SymbolicLeaf)

	got := r.RangeOf(i)
	bounds := BoundsForType(ir.Int32Type, cfg)
	want := expr.Range{Lower: expr.ConstInt64(0), Upper: bounds.Upper}
	assertRange(t, "i", got, want)
}

// TestMaterializeRangeEmitsInstructions checks that a compound bound
// (b-1, from testSimpleIf's "a < b" narrowing) is actually built as a
// new *ir.BinOp appended to the requested insertion block, and that a
// bound that's already a bare value (a itself) is returned directly
// rather than wrapped in anything.
func TestMaterializeRangeEmitsInstructions(t *testing.T) {
	b := ir.NewTestFunction("test_materialize", 2)
	a0, a1 := b.Args[0], b.Args[1]

	entry := b.Block("entry")
	then := b.Block("if.then")
	els := b.Block("if.else")
	end := b.Block("if.end")

	cmp := b.BinOp(entry, "cmp", token.LSS, a0, a1)
	b.If(entry, cmp, then, els)
	b.Use(then, a0)
	b.Use(then, a1)
	b.Jump(then, end)
	b.Jump(els, end)
	b.Return(end)

	r := Analyze(b.Fn, DefaultConfig(), graph.SymbolicLeaf)

	thenA := findSigma(then, a0)
	if thenA == nil {
		t.Fatal("redef.Pass did not split a0 at then")
	}

	binds := map[string]ir.Value{
		r.NameOf(a0): a0,
		r.NameOf(a1): a1,
	}
	before := len(then.Instrs)
	lo, hi := r.MaterializeRange(thenA, then, binds)

	if lo != a0 {
		t.Errorf("lower bound = %v, want a0 itself (range is [a, b-1])", lo)
	}
	bo, ok := hi.(*ir.BinOp)
	if !ok || bo.Op != token.SUB {
		t.Fatalf("upper bound = %v, want a SUB *ir.BinOp", hi)
	}
	if bo.X != a1 {
		t.Errorf("upper bound's LHS = %v, want a1", bo.X)
	}
	if len(then.Instrs) != before+1 {
		t.Errorf("then has %d instructions after Materialize, want %d (one new BinOp appended)", len(then.Instrs), before+1)
	}
}

// TestMaterializeRangeFallsBackToTypeBounds checks that a bound with
// no direct IR translation (here, an argument's own ident with no
// matching entry in binds) inserts the type's concrete bound constant
// instead of failing outright.
func TestMaterializeRangeFallsBackToTypeBounds(t *testing.T) {
	b := ir.NewTestFunction("test_materialize_fallback", 1)
	a0 := b.Args[0]
	entry := b.Block("entry")
	b.Return(entry, a0)

	r := Analyze(b.Fn, DefaultConfig(), graph.SymbolicLeaf)

	lo, hi := r.MaterializeRange(a0, entry, nil)

	loConst, ok := lo.(*ir.Const)
	if !ok {
		t.Fatalf("lower bound = %v, want *ir.Const fallback", lo)
	}
	hiConst, ok := hi.(*ir.Const)
	if !ok {
		t.Fatalf("upper bound = %v, want *ir.Const fallback", hi)
	}
	wantLo, wantHi := concreteBounds(32)
	if loConst.Int64() != wantLo.Int64() {
		t.Errorf("lower fallback = %d, want %d", loConst.Int64(), wantLo.Int64())
	}
	if hiConst.Int64() != wantHi.Int64() {
		t.Errorf("upper fallback = %d, want %d", hiConst.Int64(), wantHi.Int64())
	}
}
