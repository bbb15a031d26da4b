// Package redef implements the integer live-range splitting pass that
// turns a plain SSA function into the SSI-ish form the graph builder
// and solver expect: every value guarded by an integer comparison
// branch gets a fresh σ at the top of the branch's single-predecessor
// successors, and that split is threaded back through a plain φ at
// any dominance-frontier block it would otherwise still reach under
// its old name.
//
// Grounded on Redefinition.cpp: the function-level entry point is
// Pass, what there is Redefinition::runOnFunction plus
// createSigmasInFunction.
package redef

import (
	"sra.dev/sra/ir"
)

// Pass splits the live ranges of fn's integer values across every
// conditional branch on an integer comparison, in place.
func Pass(fn *ir.Function) {
	ir.BuildDomTree(fn)
	df := ir.BuildDomFrontier(fn)
	p := &pass{fn: fn, df: df}
	p.run()
}

type pass struct {
	fn *ir.Function
	df ir.DomFrontier
}

func (p *pass) run() {
	// Snapshot the block list: createSigmaNodeForValueAt appends new
	// blocks' worth of instructions but never new blocks, so this is
	// mostly defensive, mirroring the original's range-for-over-F.
	blocks := make([]*ir.BasicBlock, len(p.fn.Blocks))
	copy(blocks, p.fn.Blocks)
	for _, bb := range blocks {
		p.createSigmasForBlock(bb)
	}
}

// isRedefinable reports whether v is an integer, non-constant value;
// constants are never split since they're already as narrow as
// possible. Mirrors Redefinition.cpp's IsRedefinable.
func isRedefinable(v ir.Value) bool {
	if _, ok := v.(*ir.Const); ok {
		return false
	}
	return ir.IsInteger(v.Type())
}

// createSigmasForBlock is createSigmasInFunction's per-block body:
// if bb ends in a conditional branch on an integer comparison, split
// both compared operands across its successors.
func (p *pass) createSigmasForBlock(bb *ir.BasicBlock) {
	ifInstr, ok := bb.Control.(*ir.If)
	if !ok {
		return
	}
	cmp, ok := ifInstr.Cond.(*ir.BinOp)
	if !ok || !ir.IsComparison(cmp.Op) {
		return
	}
	p.createSigmasForCondBranch(bb, cmp)
}

func (p *pass) createSigmasForCondBranch(branch *ir.BasicBlock, cmp *ir.BinOp) {
	left, right := cmp.X, cmp.Y
	tb, fb := branch.Succs[0], branch.Succs[1]

	hasSinglePredTB := tb.SinglePredecessor() != nil
	hasSinglePredFB := fb.SinglePredecessor() != nil

	if isRedefinable(left) {
		if hasSinglePredTB {
			p.createSigmaNodeForValueAtIfUsed(left, tb)
		}
		if hasSinglePredFB {
			p.createSigmaNodeForValueAtIfUsed(left, fb)
		}
	}

	// left == right (e.g. `x < x`) would otherwise place two identical
	// sigmas at the same block; the dedup scan at the top of
	// createSigmaNodeForValueAt already guards against that, so right
	// is processed unconditionally alongside left rather than needing
	// its own "already handled" plumbing.
	if isRedefinable(right) {
		if hasSinglePredTB {
			p.createSigmaNodeForValueAtIfUsed(right, tb)
		}
		if hasSinglePredFB {
			p.createSigmaNodeForValueAtIfUsed(right, fb)
		}
	}
}

func (p *pass) createSigmaNodeForValueAtIfUsed(v ir.Value, bb *ir.BasicBlock) {
	if p.dominatesUse(v, bb) {
		p.createSigmaNodeForValueAt(v, bb)
	}
}

// createSigmaNodeForValueAt creates a σ for v at the top of bb (whose
// sole predecessor is the branch being split on), then threads that
// split through any dominance-frontier block it still reaches under
// v's old name.
func (p *pass) createSigmaNodeForValueAt(v ir.Value, bb *ir.BasicBlock) {
	from := bb.SinglePredecessor()

	for _, instr := range bb.Instrs {
		sig, ok := instr.(*ir.Sigma)
		if !ok {
			continue
		}
		if sig.X == v && sig.From == from {
			return
		}
	}

	branchRedef := ir.NewSigma(p.fn.NewTempName("redef"), v.Type(), from, v)
	bb.InsertAtTop(branchRedef)

	var frontierRedefs []*ir.Phi
	for _, frontier := range p.df.At(bb) {
		if !p.dominatesUse(v, frontier) {
			continue
		}
		frontierRedef := p.createPhiNodeAt(v, frontier)
		if frontierRedef == nil {
			continue
		}
		frontierRedefs = append(frontierRedefs, frontierRedef)
		for i, pred := range frontier.Preds {
			if bb.Dominates(pred) {
				frontierRedef.Edges[i] = branchRedef
				ir.AddOperand(branchRedef, frontierRedef)
				ir.RemoveOperand(v, frontierRedef)
			}
		}
	}

	p.replaceUsesOfWithAfter(v, branchRedef, bb)
	for _, frontierRedef := range frontierRedefs {
		p.replaceUsesOfWithAfter(frontierRedef, branchRedef, bb)
	}
}

// createPhiNodeAt creates a φ for v at the top of bb, seeded with v on
// every predecessor, or returns nil if v isn't defined on all of them.
func (p *pass) createPhiNodeAt(v ir.Value, bb *ir.BasicBlock) *ir.Phi {
	if def := definingBlock(v); def != nil {
		for _, pred := range bb.Preds {
			if !def.Dominates(pred) {
				return nil
			}
		}
	}

	phi := ir.NewPhi(p.fn.NewTempName("phi"), v.Type(), bb.Preds, v)
	bb.InsertAtTop(phi)

	p.replaceUsesOfWithAfter(v, phi, bb)
	return phi
}

// dominatesUse reports whether bb dominates any non-phi, non-self use
// of v. Phis are excluded since a phi can legally use a value it
// dominates (the value flows in along a back edge).
func (p *pass) dominatesUse(v ir.Value, bb *ir.BasicBlock) bool {
	refs := v.Referrers()
	if refs == nil {
		return false
	}
	for _, user := range *refs {
		if uv, ok := user.(ir.Value); ok && uv == v {
			continue
		}
		if _, ok := user.(*ir.Phi); ok {
			continue
		}
		if bb.Dominates(user.Block()) {
			return true
		}
	}
	return false
}

// replaceUsesOfWithAfter rewrites every use of v with r, except: uses
// not dominated by bb are left alone unless they're a phi edge whose
// incoming block is dominated by bb, in which case just that edge is
// rewired.
func (p *pass) replaceUsesOfWithAfter(v, r ir.Value, bb *ir.BasicBlock) {
	refs := v.Referrers()
	if refs == nil {
		return
	}
	users := append([]ir.Instruction(nil), *refs...)

	var rands []*ir.Value
	for _, user := range users {
		if uv, ok := user.(ir.Value); ok && uv == r {
			continue
		}
		if bb.Dominates(user.Block()) {
			rands = user.Operands(rands[:0])
			for _, rand := range rands {
				if *rand == v {
					*rand = r
					ir.AddOperand(r, user)
				}
			}
			ir.RemoveOperand(v, user)
			continue
		}
		phi, ok := user.(*ir.Phi)
		if !ok {
			continue
		}
		for i, pred := range phi.Block().Preds {
			if phi.Edges[i] == v && bb.Dominates(pred) {
				phi.Edges[i] = r
				ir.AddOperand(r, phi)
				ir.RemoveOperand(v, phi)
			}
		}
	}
}

// definingBlock returns the block v is defined in, or nil for values
// with no block (parameters, constants), which are treated as
// defined everywhere.
func definingBlock(v ir.Value) *ir.BasicBlock {
	instr, ok := v.(ir.Instruction)
	if !ok {
		return nil
	}
	return instr.Block()
}
