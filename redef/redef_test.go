package redef

import (
	"go/token"
	"testing"

	"sra.dev/sra/ir"
)

// TestSimpleIfSplitsBothOperands mirrors the fixture
// SymbolicRangeAnalysisTest.cpp's testSimpleIf builds: splitting both
// sides of "a < b" should produce one sigma per operand in each
// single-predecessor successor, each pointing back at the right
// branch.
func TestSimpleIfSplitsBothOperands(t *testing.T) {
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

	Pass(b.Fn)

	for _, tc := range []struct {
		block *ir.BasicBlock
		v     ir.Value
		label string
	}{
		{then, a0, "a@then"},
		{then, a1, "b@then"},
		{els, a0, "a@else"},
		{els, a1, "b@else"},
	} {
		sig := findSigma(tc.block, tc.v)
		if sig == nil {
			t.Errorf("%s: no sigma created", tc.label)
			continue
		}
		if sig.From != entry {
			t.Errorf("%s: sigma.From = %v, want entry", tc.label, sig.From)
		}
	}
}

// TestNoSplitWithoutDominatedUse checks that redef.Pass leaves a
// branch alone when neither operand has any use a successor
// dominates — splitting would just add dead instructions.
func TestNoSplitWithoutDominatedUse(t *testing.T) {
	b := ir.NewTestFunction("test_no_use", 2)
	a0, a1 := b.Args[0], b.Args[1]

	entry := b.Block("entry")
	then := b.Block("if.then")
	els := b.Block("if.else")
	end := b.Block("if.end")

	cmp := b.BinOp(entry, "cmp", token.LSS, a0, a1)
	b.If(entry, cmp, then, els)
	b.Jump(then, end)
	b.Jump(els, end)
	b.Return(end)

	Pass(b.Fn)

	if sig := findSigma(then, a0); sig != nil {
		t.Errorf("unexpected sigma for a0 at then: %v", sig)
	}
	if sig := findSigma(els, a1); sig != nil {
		t.Errorf("unexpected sigma for a1 at else: %v", sig)
	}
}

// TestDuplicateCompareOperandsSplitOnce checks the left==right case:
// createSigmasForCondBranch processes both operands, and the dedup scan
// in createSigmaNodeForValueAt must keep a value compared against
// itself from getting two sigmas in the same block.
func TestDuplicateCompareOperandsSplitOnce(t *testing.T) {
	b := ir.NewTestFunction("test_self_cmp", 1)
	a0 := b.Args[0]

	entry := b.Block("entry")
	then := b.Block("if.then")
	els := b.Block("if.else")
	end := b.Block("if.end")

	cmp := b.BinOp(entry, "cmp", token.LSS, a0, a0)
	b.If(entry, cmp, then, els)
	b.Use(then, a0)
	b.Use(els, a0)
	b.Jump(then, end)
	b.Jump(els, end)
	b.Return(end)

	Pass(b.Fn)

	count := 0
	for _, instr := range then.Instrs {
		if sig, ok := instr.(*ir.Sigma); ok && sig.X == a0 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("then block has %d sigmas for a0, want 1", count)
	}
}

func findSigma(bb *ir.BasicBlock, v ir.Value) *ir.Sigma {
	for _, instr := range bb.Instrs {
		if sig, ok := instr.(*ir.Sigma); ok && sig.X == v {
			return sig
		}
	}
	return nil
}
