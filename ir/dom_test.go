package ir

import "testing"

// TestDiamondDominance builds the classic diamond CFG (entry -> {then,
// else} -> end) and checks the resulting dominator tree and frontier.
func TestDiamondDominance(t *testing.T) {
	fn := &Function{Name_: "diamond"}
	entry := fn.NewBasicBlock("entry")
	then := fn.NewBasicBlock("then")
	els := fn.NewBasicBlock("else")
	end := fn.NewBasicBlock("end")

	AddEdge(entry, then)
	AddEdge(entry, els)
	AddEdge(then, end)
	AddEdge(els, end)

	BuildDomTree(fn)

	if then.Idom() != entry {
		t.Errorf("then.Idom() = %v, want entry", then.Idom())
	}
	if els.Idom() != entry {
		t.Errorf("else.Idom() = %v, want entry", els.Idom())
	}
	if end.Idom() != entry {
		t.Errorf("end.Idom() = %v, want entry (neither then nor else alone dominates it)", end.Idom())
	}
	if !entry.Dominates(end) {
		t.Errorf("entry should dominate end")
	}
	if then.Dominates(end) {
		t.Errorf("then should not dominate end")
	}

	df := BuildDomFrontier(fn)
	frontier := df.At(then)
	if len(frontier) != 1 || frontier[0] != end {
		t.Errorf("DF(then) = %v, want [end]", frontier)
	}
}

// TestLoopBackEdgeDominance builds entry -> loop -> {loop, exit} and
// checks that the back edge doesn't confuse idom computation.
func TestLoopBackEdgeDominance(t *testing.T) {
	fn := &Function{Name_: "loop"}
	entry := fn.NewBasicBlock("entry")
	loop := fn.NewBasicBlock("loop")
	exit := fn.NewBasicBlock("exit")

	AddEdge(entry, loop)
	AddEdge(loop, loop)
	AddEdge(loop, exit)

	BuildDomTree(fn)

	if loop.Idom() != entry {
		t.Errorf("loop.Idom() = %v, want entry", loop.Idom())
	}
	if exit.Idom() != loop {
		t.Errorf("exit.Idom() = %v, want loop", exit.Idom())
	}
	if loop.SinglePredecessor() != nil {
		t.Errorf("loop has two preds, SinglePredecessor() should be nil, got %v", loop.SinglePredecessor())
	}
	if exit.SinglePredecessor() != loop {
		t.Errorf("exit.SinglePredecessor() = %v, want loop", exit.SinglePredecessor())
	}
}
