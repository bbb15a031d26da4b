package ir

import (
	"fmt"
	"go/token"
	"go/types"
)

// BinOp is a binary instruction: an arithmetic op (add/sub/mul/sdiv/
// udiv) or an integer comparison (the six token.Token orderings),
// used only as the Cond of an If.
type BinOp struct {
	register
	Op   token.Token
	X, Y Value
}

// NewBinOp creates a binary instruction and wires its operand edges.
func NewBinOp(name string, typ types.Type, op token.Token, x, y Value) *BinOp {
	bo := &BinOp{Op: op, X: x, Y: y}
	bo.name, bo.typ = name, typ
	AddOperand(x, bo)
	AddOperand(y, bo)
	return bo
}

func (v *BinOp) Operands(rands []*Value) []*Value {
	return append(rands, &v.X, &v.Y)
}

func (v *BinOp) String() string {
	return fmt.Sprintf("%s = %s %s %s", v.name, v.X.Name(), v.Op, v.Y.Name())
}

// IsComparison reports whether op is one of the six integer orderings
// Redef and the graph builder care about.
func IsComparison(op token.Token) bool {
	switch op {
	case token.LSS, token.LEQ, token.GTR, token.GEQ, token.EQL, token.NEQ:
		return true
	default:
		return false
	}
}

// Phi is a multi-operand join at the top of a block, one incoming
// value per predecessor (same order as Block().Preds).
type Phi struct {
	register
	Edges []Value
}

// NewPhi creates a phi with len(preds) edges all set to same, the way
// Redefinition::createPhiNodeAt seeds every predecessor with the
// pre-split definition before rewiring the ones dominated by the
// sigma's block.
func NewPhi(name string, typ types.Type, preds []*BasicBlock, same Value) *Phi {
	phi := &Phi{Edges: make([]Value, len(preds))}
	phi.name, phi.typ = name, typ
	for i := range phi.Edges {
		phi.Edges[i] = same
		AddOperand(same, phi)
	}
	return phi
}

func (v *Phi) Operands(rands []*Value) []*Value {
	for i := range v.Edges {
		rands = append(rands, &v.Edges[i])
	}
	return rands
}

func (v *Phi) String() string {
	return fmt.Sprintf("%s = phi %v", v.name, v.Edges)
}

// Sigma is a single-operand join inserted at the top of a block with
// exactly one predecessor, whose terminator is a conditional branch
// on an integer comparison. From is that predecessor (the block whose
// Control is the branch), matching the From field of
// honnef.co/go/tools's own ir.Sigma.
type Sigma struct {
	register
	From *BasicBlock
	X    Value
}

// NewSigma creates a sigma with incoming value x from block from.
func NewSigma(name string, typ types.Type, from *BasicBlock, x Value) *Sigma {
	s := &Sigma{From: from, X: x}
	s.name, s.typ = name, typ
	AddOperand(x, s)
	return s
}

func (v *Sigma) Operands(rands []*Value) []*Value {
	return append(rands, &v.X)
}

func (v *Sigma) String() string {
	return fmt.Sprintf("%s = sigma %s", v.name, v.X.Name())
}

// Bound returns the branch predicate and the value the sigma is
// bounded by, derived from the controlling branch at From, per
// spec.md §4.3 / SraGraph.cpp's GetSigmaBound.
func (v *Sigma) Bound() (pred token.Token, bound Value) {
	ifInstr, ok := v.From.Control.(*If)
	if !ok {
		panic("ir: sigma's From block is not terminated by an If")
	}
	cond, ok := ifInstr.Cond.(*BinOp)
	if !ok || !IsComparison(cond.Op) {
		panic("ir: sigma's controlling branch is not an integer comparison")
	}

	isThen := v.From.Succs[0] == v.block
	isElse := v.From.Succs[1] == v.block
	if !isThen && !isElse {
		panic("ir: sigma's block is not a successor of its From block")
	}

	a, b := cond.X, cond.Y
	switch {
	case isThen && v.X == a:
		return cond.Op, b
	case isThen && v.X == b:
		return swapToken(cond.Op), a
	case isElse && v.X == a:
		return negateToken(cond.Op), b
	default: // isElse && v.X == b
		return negateToken(swapToken(cond.Op)), a
	}
}

// swapToken flips a binary comparison operator: a OP b  <=>  b swap(OP) a.
func swapToken(op token.Token) token.Token {
	switch op {
	case token.LSS:
		return token.GTR
	case token.GTR:
		return token.LSS
	case token.LEQ:
		return token.GEQ
	case token.GEQ:
		return token.LEQ
	case token.EQL:
		return token.EQL
	case token.NEQ:
		return token.NEQ
	default:
		panic(fmt.Sprintf("ir: unhandled token %s", op))
	}
}

// negateToken negates a binary comparison operator: the opposite-
// closed ordering on the same side (< -> >=, <= -> >, etc).
func negateToken(op token.Token) token.Token {
	switch op {
	case token.LSS:
		return token.GEQ
	case token.GTR:
		return token.LEQ
	case token.LEQ:
		return token.GTR
	case token.GEQ:
		return token.LSS
	case token.EQL:
		return token.NEQ
	case token.NEQ:
		return token.EQL
	default:
		panic(fmt.Sprintf("ir: unhandled token %s", op))
	}
}

// If is a two-way conditional branch terminating a block. Succs[0] is
// the "then" (true) successor, Succs[1] the "else" (false) successor.
type If struct {
	anInstruction
	Cond Value
}

func NewIf(cond Value) *If {
	i := &If{Cond: cond}
	AddOperand(cond, i)
	return i
}

func (v *If) Operands(rands []*Value) []*Value { return append(rands, &v.Cond) }
func (v *If) String() string                   { return fmt.Sprintf("if %s", v.Cond.Name()) }

// Jump is an unconditional branch to Block().Succs[0].
type Jump struct{ anInstruction }

func (v *Jump) Operands(rands []*Value) []*Value { return rands }
func (v *Jump) String() string                   { return "jump" }

// Return ends the function, optionally carrying result values.
type Return struct {
	anInstruction
	Results []Value
}

func (v *Return) Operands(rands []*Value) []*Value {
	for i := range v.Results {
		rands = append(rands, &v.Results[i])
	}
	return rands
}

func (v *Return) String() string { return "return" }
