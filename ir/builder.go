package ir

import (
	"fmt"
	"go/constant"
	"go/token"
	"go/types"
)

// Int32Type is the type NewTestFunction gives every argument, matching
// SymbolicRangeAnalysisTest.cpp's createTestFunction building every
// test function over Type::getInt32Ty.
var Int32Type = types.Typ[types.Int32]

// FuncBuilder is a small fluent constructor for hand-built test
// fixtures, grounded on SymbolicRangeAnalysisTest.cpp's
// createTestFunction/createIRB/createBB/createIfElse/createUse: where
// that builds LLVM IR with an IRBuilder, this builds this package's
// own IR directly, one BasicBlock/instruction at a time.
type FuncBuilder struct {
	Fn   *Function
	Args []*Parameter
}

// NewTestFunction creates a function named name taking numArgs
// Int32Type parameters, with no blocks yet (callers add their own via
// Block).
func NewTestFunction(name string, numArgs int) *FuncBuilder {
	fn := &Function{Name_: name}
	b := &FuncBuilder{Fn: fn}
	for i := 0; i < numArgs; i++ {
		b.Args = append(b.Args, NewParameter(fn, fmt.Sprintf("arg%d", i), Int32Type))
	}
	return b
}

// Block appends a new, empty block.
func (b *FuncBuilder) Block(comment string) *BasicBlock {
	return b.Fn.NewBasicBlock(comment)
}

// PreEdge records that from branches to to, without yet attaching a
// terminator. Needed when building a block with a loop-carried phi:
// the phi's edge count must match bb.Preds before the terminator that
// would normally add that edge exists yet, so the back edge has to be
// wired ahead of time (see SetIf).
func (b *FuncBuilder) PreEdge(from, to *BasicBlock) {
	AddEdge(from, to)
}

// SetIf attaches an If terminator to bb without adding any edges,
// for use after the bb's edges were already wired with PreEdge.
func (b *FuncBuilder) SetIf(bb *BasicBlock, cond Value) *If {
	ifInstr := NewIf(cond)
	bb.addInstr(ifInstr)
	bb.Control = ifInstr
	return ifInstr
}

// Jump terminates from with an unconditional branch to to.
func (b *FuncBuilder) Jump(from, to *BasicBlock) {
	AddEdge(from, to)
	j := &Jump{}
	from.addInstr(j)
	from.Control = j
}

// If terminates from with a two-way branch on cond, Succs[0]=then,
// Succs[1]=els.
func (b *FuncBuilder) If(from *BasicBlock, cond Value, then, els *BasicBlock) *If {
	AddEdge(from, then)
	AddEdge(from, els)
	ifInstr := NewIf(cond)
	from.addInstr(ifInstr)
	from.Control = ifInstr
	return ifInstr
}

// Return terminates from, optionally carrying results.
func (b *FuncBuilder) Return(from *BasicBlock, results ...Value) *Return {
	ret := &Return{Results: results}
	for _, r := range results {
		AddOperand(r, ret)
	}
	from.addInstr(ret)
	from.Control = ret
	return ret
}

// BinOp appends a binary instruction to bb. Comparisons (op one of the
// six orderings) get Bool type, since they're only ever used as an
// If's Cond; anything else gets x's type.
func (b *FuncBuilder) BinOp(bb *BasicBlock, name string, op token.Token, x, y Value) *BinOp {
	typ := x.Type()
	if IsComparison(op) {
		typ = types.Typ[types.Bool]
	}
	v := NewBinOp(name, typ, op, x, y)
	bb.addInstr(v)
	return v
}

// Phi appends a phi joining one value per entry in bb.Preds, in order.
func (b *FuncBuilder) Phi(bb *BasicBlock, name string, typ types.Type, edges ...Value) *Phi {
	if len(edges) != len(bb.Preds) {
		panic(fmt.Sprintf("ir: Phi for %s given %d edges, block has %d preds", name, len(edges), len(bb.Preds)))
	}
	phi := &Phi{Edges: edges}
	phi.name, phi.typ = name, typ
	for _, e := range edges {
		AddOperand(e, phi)
	}
	bb.addInstr(phi)
	return phi
}

// Use appends a dummy opaque consumer of v to bb, the way
// SymbolicRangeAnalysisTest.cpp's createUse inserts a call to an
// external "use" function: redef.Pass only splits a value's live
// range across a branch if some later use is actually dominated by
// the split point, so a fixture that wants a sigma inserted needs a
// real (if otherwise meaningless) use to dominate.
func (b *FuncBuilder) Use(bb *BasicBlock, v Value) *Opaque {
	o := NewOpaque(fmt.Sprintf("use.%s.%d", v.Name(), len(bb.Instrs)), types.Typ[types.Bool], []Value{v})
	bb.addInstr(o)
	return o
}

// ConstInt32 wraps n as an Int32Type constant.
func (b *FuncBuilder) ConstInt32(n int64) *Const {
	return NewConst(constant.MakeInt64(n), Int32Type)
}
