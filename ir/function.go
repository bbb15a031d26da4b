package ir

import "fmt"

// BasicBlock is a single-entry, single-exit sequence of instructions
// ending in a Control instruction (If, Jump, or Return).
//
// Preds/Succs and the dom fields mirror honnef.co/go/tools's ssa/dom.go
// exactly, so that ir/dom.go's dominator-tree construction and
// ir/domfrontier.go's frontier construction can be lifted from it
// almost verbatim.
type BasicBlock struct {
	Index   int
	Comment string
	Instrs  []Instruction
	Control Instruction
	Preds   []*BasicBlock
	Succs   []*BasicBlock
	Parent  *Function

	dom domInfo
}

// domInfo contains a BasicBlock's dominance information; see ir/dom.go.
type domInfo struct {
	idom      *BasicBlock
	children  []*BasicBlock
	pre, post int32
}

// Idom returns b's immediate dominator, or nil for the entry block.
func (b *BasicBlock) Idom() *BasicBlock { return b.dom.idom }

// Dominees returns the blocks b immediately dominates.
func (b *BasicBlock) Dominees() []*BasicBlock { return b.dom.children }

// Dominates reports whether b dominates c (reflexively).
func (b *BasicBlock) Dominates(c *BasicBlock) bool {
	return b.dom.pre <= c.dom.pre && c.dom.post <= b.dom.post
}

// SinglePredecessor returns b's sole predecessor, or nil if b has
// zero or more than one.
func (b *BasicBlock) SinglePredecessor() *BasicBlock {
	if len(b.Preds) == 1 {
		return b.Preds[0]
	}
	return nil
}

func (b *BasicBlock) String() string {
	if b.Comment != "" {
		return fmt.Sprintf("%d.%s", b.Index, b.Comment)
	}
	return fmt.Sprintf("%d", b.Index)
}

// addInstr appends instr to b's instruction list and binds its block.
func (b *BasicBlock) addInstr(instr Instruction) {
	instr.setBlock(b)
	b.Instrs = append(b.Instrs, instr)
}

// insertInstrAt inserts instr at position i in b's instruction list
// (used to place sigmas/phis at the very top of a block, after any
// sigmas/phis already there — see redef.Pass).
func (b *BasicBlock) insertInstrAt(i int, instr Instruction) {
	instr.setBlock(b)
	b.Instrs = append(b.Instrs, nil)
	copy(b.Instrs[i+1:], b.Instrs[i:])
	b.Instrs[i] = instr
}

// Append adds instr to the end of b's ordinary instructions, the
// insertion point an IRBuilder<> left at the end of a block (rather
// than positioned before some specific mark) would use. b's
// terminator, once attached, is always the last element of Instrs
// (every Control constructor in this package appends it there before
// recording it as Control), so Append inserts immediately ahead of it
// when one is already present instead of blindly appending, which
// would otherwise leave new instructions stranded after the block has
// already branched away.
func (b *BasicBlock) Append(instr Instruction) {
	if b.Control != nil && len(b.Instrs) > 0 && b.Instrs[len(b.Instrs)-1] == b.Control {
		b.insertInstrAt(len(b.Instrs)-1, instr)
		return
	}
	b.addInstr(instr)
}

// InsertAtTop inserts instr after any σ/φ nodes already at the top of
// b, the way Redefinition.cpp's createSigmaNodeForValueAt and
// createPhiNodeAt both insert at BB->getFirstInsertionPt() /
// BB->begin() ahead of the block's ordinary instructions.
func (b *BasicBlock) InsertAtTop(instr Instruction) {
	b.insertInstrAt(b.firstNonJoinIndex(), instr)
}

// firstNonJoinIndex returns the index of the first instruction in b
// that is not a *Phi or *Sigma.
func (b *BasicBlock) firstNonJoinIndex() int {
	for i, instr := range b.Instrs {
		switch instr.(type) {
		case *Phi, *Sigma:
			continue
		default:
			return i
		}
	}
	return len(b.Instrs)
}

// Function is a single SSA-form function: the unit the engine
// analyzes. Redef mutates a Function's blocks in place before the
// graph builder reads it.
type Function struct {
	Name_  string
	Params []*Parameter
	Blocks []*BasicBlock

	nextTemp int
}

func (f *Function) Name() string { return f.Name_ }

// NewBasicBlock creates and appends a new block to f.
func (f *Function) NewBasicBlock(comment string) *BasicBlock {
	b := &BasicBlock{Index: len(f.Blocks), Comment: comment, Parent: f}
	f.Blocks = append(f.Blocks, b)
	return b
}

// AddEdge records that from branches to to.
func AddEdge(from, to *BasicBlock) {
	from.Succs = append(from.Succs, to)
	to.Preds = append(to.Preds, from)
}

// NewTempName returns a fresh "prefix.N" name, used by redef when it
// synthesizes a σ or φ; N is scoped to f so names stay stable and
// collision-free without any process-global counter.
func (f *Function) NewTempName(prefix string) string {
	f.nextTemp++
	return fmt.Sprintf("%s.%d", prefix, f.nextTemp)
}
