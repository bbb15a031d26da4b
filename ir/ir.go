// Package ir implements a small SSA-form intermediate representation
// for single functions, in the shape the rest of this module's
// packages (redef, graph, sra) consume.
//
// The package is grounded on honnef.co/go/tools's own SSA fork
// (its ir/lift.go, ir/exits.go and ssa/dom.go): BasicBlocks carry
// Preds/Succs and a dominator tree, Values carry a Referrers list,
// and instructions expose their operands as rewritable *Value slots
// the way ir.Instruction.Operands does, so that passes like Redef can
// replace a value's uses in place without walking every instruction's
// concrete type by hand.
package ir

import (
	"fmt"
	"go/token"
	"go/types"
)

// Value is anything that produces a value usable by other
// instructions: a constant, a function parameter, or an instruction.
type Value interface {
	// Name returns the value's source-level or synthesized name.
	Name() string
	// Type returns the value's Go type.
	Type() types.Type
	// Referrers returns the list of instructions that use this
	// value, or nil if the value does not track referrers (currently
	// true only for Const).
	Referrers() *[]Instruction
	String() string
}

// Instruction is a Value produced by a position in a BasicBlock, or a
// block terminator that produces no value (If, Jump, Return).
type Instruction interface {
	// Block returns the instruction's parent block.
	Block() *BasicBlock
	setBlock(*BasicBlock)
	// Operands returns the instruction's operands, appended to rands.
	// Each returned pointer aliases the field holding that operand,
	// so *rands[i] = newValue rewrites the instruction in place.
	Operands(rands []*Value) []*Value
	String() string
}

// anInstruction is embedded by every Instruction that is not itself a
// Value (If, Jump, Return).
type anInstruction struct {
	block *BasicBlock
}

func (i *anInstruction) Block() *BasicBlock   { return i.block }
func (i *anInstruction) setBlock(b *BasicBlock) { i.block = b }

// register is embedded by every Instruction that also produces a
// Value (BinOp, Phi, Sigma, Opaque). It is named for the analogous type in
// golang.org/x/tools/go/ssa and honnef.co/go/tools/go/ir.
type register struct {
	anInstruction
	name      string
	typ       types.Type
	pos       token.Pos
	referrers []Instruction
}

func (v *register) Name() string             { return v.name }
func (v *register) Type() types.Type         { return v.typ }
func (v *register) Pos() token.Pos           { return v.pos }
func (v *register) Referrers() *[]Instruction   { return &v.referrers }

// AddOperand records that user uses operand by appending it to
// operand's referrer list. Builders must call this after wiring a new
// operand edge; Redef's rewrites call it too when they introduce a
// fresh edge (e.g. a sigma's initial incoming value).
func AddOperand(operand Value, user Instruction) {
	if operand == nil {
		return
	}
	refs := operand.Referrers()
	if refs == nil {
		return
	}
	*refs = append(*refs, user)
}

// RemoveOperand undoes one AddOperand call; used when an edge is
// rewired away. It removes a single matching entry, not every
// occurrence of user: a multi-operand instruction like Phi can call
// AddOperand(operand, user) once per edge that shares the same
// incoming value, so operand's referrer list legitimately holds
// several identical entries for the same user. Callers rewire one
// edge at a time and call RemoveOperand once per edge rewired, so
// removing everything in one pass would also drop the entries for
// edges that still point at operand.
func RemoveOperand(operand Value, user Instruction) {
	if operand == nil {
		return
	}
	refs := operand.Referrers()
	if refs == nil {
		return
	}
	for i, r := range *refs {
		if r == user {
			*refs = append((*refs)[:i], (*refs)[i+1:]...)
			return
		}
	}
}

func (v *register) String() string {
	return fmt.Sprintf("%s: %s", v.name, v.typ)
}
