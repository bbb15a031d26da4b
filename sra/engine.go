// Package sra is the fixed-point solver: given a redef-split
// function's constraint graph, it computes every integer value's
// [lo, hi] symbolic range.
//
// Grounded on SymbolicRangeAnalysis.cpp's runOnFunction: initialize
// seeds every value, then reset/iterate runs three times to let
// narrowing settle before widen() promotes anything that never
// stabilized back up to its type's full bounds. The one structural
// change from the original: there, "does this instruction get
// evaluated at all" is decided by whether a Fn_ closure was attached
// to it (loads get none and stay at their initial seed forever,
// everything else gets BinaryOp/Narrow/Meet); here, every graph.Node
// is evaluated by a single total switch over its Kind; leaf kinds
// just evaluate to a fixed point on their first pass (KindIdentLeaf
// to its own name, KindInfLeaf straight to type bounds), which is an
// equivalent outcome reached by a simpler mechanism than relying on
// an instruction that nothing ever calls.
package sra

import (
	"container/heap"
	"go/token"
	"log"

	"sra.dev/sra/expr"
	"sra.dev/sra/graph"
	"sra.dev/sra/ir"
	"sra.dev/sra/namevault"
)

// Debug gates the solver's trace logging, the Go equivalent of
// LLVM's own "-debug-only=sra" switch: SymbolicRangeAnalysis.cpp logs
// through DEBUG(dbgs() << ...) regardless of its own four cl::opts,
// so this is a separate package-level flag rather than a Config
// field.
var Debug bool

// changed bit flags, set on a value when setState observes its lower
// and/or upper bound move between rounds. Mirrors the original's
// Changed_ map of the same two bits.
const (
	changedLower = 1 << 0
	changedUpper = 1 << 1
)

// engine holds one function's analysis state across the three
// reset/iterate rounds and the final widen.
type engine struct {
	g     *graph.Graph
	names *namevault.Vault
	cfg   Config

	state   map[ir.Value]expr.Range
	changed map[ir.Value]int
	// stable[v] is (lower stable, upper stable): whether that bound has
	// never changed across any round so far. Narrow's != case gates on
	// this the same way the original's hasStableLowerBound/
	// hasStableUpperBound do.
	stable map[ir.Value][2]bool
	// position assigns each non-argument node its graph.Order index, so
	// the worklist drains in the same order SraGraph.cpp's
	// ReversePostOrderTraversal produced it.
	position map[ir.Value]int
	evaled   map[ir.Value]bool
	queued   map[ir.Value]bool
	work     workQueue
}

// Run performs the full initialize → (reset → iterate) × 3 → widen
// sequence over g and returns the resulting per-value state.
func run(g *graph.Graph, names *namevault.Vault, cfg Config) map[ir.Value]expr.Range {
	e := &engine{
		g:        g,
		names:    names,
		cfg:      cfg,
		state:    make(map[ir.Value]expr.Range),
		changed:  make(map[ir.Value]int),
		stable:   make(map[ir.Value][2]bool),
		position: make(map[ir.Value]int),
		evaled:   make(map[ir.Value]bool),
		queued:   make(map[ir.Value]bool),
	}
	e.initialize()
	for round := 0; round < 2; round++ {
		e.reset()
		e.iterate()
	}
	e.reset()
	e.iterate()
	e.widen()
	return e.state
}

func (e *engine) initialize() {
	for v, n := range e.g.Nodes {
		if n.Kind == graph.KindArg {
			// Through setState, not a direct e.state write, so e.stable
			// also gets seeded true/true for this value — otherwise a
			// sigma narrowing a bare parameter on != could never see
			// hasStableLowerBound/hasStableUpperBound return true. This
			// also marks the argument changed, so the first reset queues
			// it and eval re-affirms the same Ident range.
			e.setState(v, expr.NewRange(expr.Ident(n.Name)))
		}
	}
	for i, n := range e.g.Order {
		e.position[n.Value] = i
		e.setState(n.Value, expr.BottomRange())
	}
}

// reset queues every value whose state moved during the previous
// round (or, on the very first call, every value initialize() just
// seeded) and clears the per-round evaluation and change-tracking
// state, mirroring the original's reset().
func (e *engine) reset() {
	for v, bits := range e.changed {
		if bits != 0 {
			e.push(v)
		}
	}
	e.evaled = make(map[ir.Value]bool)
	e.changed = make(map[ir.Value]int)
}

func (e *engine) push(v ir.Value) {
	if e.queued[v] {
		return
	}
	e.queued[v] = true
	heap.Push(&e.work, workItem{pos: e.position[v], v: v})
}

// iterate drains the worklist, evaluating each value's node once per
// round and re-queuing any referrer that is itself a graph node and
// hasn't been evaluated yet this round.
func (e *engine) iterate() {
	if Debug {
		log.Printf("sra: iterate")
	}
	for e.work.Len() > 0 {
		item := heap.Pop(&e.work).(workItem)
		v := item.v
		e.queued[v] = false
		if e.evaled[v] {
			continue
		}
		e.evaled[v] = true

		n := e.g.Nodes[v]
		if Debug {
			log.Printf("sra: eval %s (%s)", e.names.Name(v), NodeKindString(n.Kind))
		}
		e.setState(v, e.eval(n))

		refs := v.Referrers()
		if refs == nil {
			continue
		}
		for _, user := range *refs {
			uv, ok := user.(ir.Value)
			if !ok {
				continue
			}
			if _, ok := e.g.Nodes[uv]; !ok {
				continue
			}
			if !e.evaled[uv] {
				e.push(uv)
			}
		}
	}
}

// widen promotes any value whose bound(s) never settled across all
// three rounds back up to full type bounds, the original's final
// defense against a range the narrowing passes left in an unsound or
// merely unconverged state.
func (e *engine) widen() {
	if Debug {
		log.Printf("sra: widen")
	}
	for _, n := range e.g.Order {
		bits := e.changed[n.Value]
		if bits == 0 {
			continue
		}
		cur := e.stateOrInf(n)
		bounds := BoundsForType(n.Value.Type(), e.cfg)
		if bits&changedLower != 0 {
			cur.Lower = bounds.Lower
		}
		if bits&changedUpper != 0 {
			cur.Upper = bounds.Upper
		}
		e.setState(n.Value, cur)
	}
}

// eval is the total dispatch the original expresses as a map of
// per-instruction Fn_ closures (BinaryOp/Narrow/Meet, assigned in
// handleBranch/handleIntInst), collapsed here into one switch since
// every node's transfer function is fully determined by its Kind.
func (e *engine) eval(n *graph.Node) expr.Range {
	switch n.Kind {
	case graph.KindConst:
		return expr.NewRange(expr.Const(n.ConstVal))
	case graph.KindArg, graph.KindIdentLeaf:
		return expr.NewRange(expr.Ident(n.Name))
	case graph.KindInfLeaf:
		return BoundsForType(n.Value.Type(), e.cfg)
	case graph.KindBinOp:
		return e.binaryOp(n)
	case graph.KindSigma:
		return e.narrow(n)
	case graph.KindPhi:
		return e.meet(n)
	default:
		return BoundsForType(n.Value.Type(), e.cfg)
	}
}

// binaryOp is SymbolicRangeAnalysis.cpp's BinaryOp: interval
// arithmetic over the operands' current ranges, falling back to type
// bounds for Mul/Div the moment either operand still touches ±∞
// (interval multiplication/division isn't sound across an infinite
// endpoint without case-splitting the original doesn't do either).
func (e *engine) binaryOp(n *graph.Node) expr.Range {
	x := e.stateOrInf(n.X)
	y := e.stateOrInf(n.Y)
	switch n.Op {
	case token.ADD:
		return x.Add(y)
	case token.SUB:
		return x.Sub(y)
	case token.MUL:
		if touchesInf(x) || touchesInf(y) {
			return BoundsForType(n.Value.Type(), e.cfg)
		}
		return x.Mul(y)
	case token.QUO:
		if touchesInf(x) || touchesInf(y) {
			return BoundsForType(n.Value.Type(), e.cfg)
		}
		return x.Div(y)
	default:
		return BoundsForType(n.Value.Type(), e.cfg)
	}
}

func touchesInf(r expr.Range) bool {
	return r.Lower.IsNegInf() || r.Upper.IsPosInf()
}

// narrow is SymbolicRangeAnalysis.cpp's Narrow: a σ's range is its
// incoming value's range, clipped by the comparison predicate its
// controlling branch proved true against the bound edge. != narrows
// only once one side of the incoming range has already proven stable
// (createNarrowingFn's handling of CmpInst::ICMP_NE), since otherwise
// excluding a single moving point is no narrowing at all.
func (e *engine) narrow(n *graph.Node) expr.Range {
	ret := e.stateOrInf(n.X)
	bound := e.stateOrInf(n.Bound)
	one := expr.ConstInt64(1)

	switch n.Op {
	case token.LSS:
		ret.Upper = bound.Upper.Sub(one)
	case token.LEQ:
		ret.Upper = bound.Upper
	case token.GTR:
		ret.Lower = bound.Lower.Add(one)
	case token.GEQ:
		ret.Lower = bound.Lower
	case token.EQL:
		ret = bound
	case token.NEQ:
		if e.hasStableLowerBound(n.X.Value) {
			ret.Upper = bound.Upper.Sub(one)
		} else if e.hasStableUpperBound(n.X.Value) {
			ret.Lower = bound.Lower.Add(one)
		}
	}
	return ret
}

// meet is SymbolicRangeAnalysis.cpp's Meet: a φ's range is the union
// of its live incoming ranges, bottom operands (not yet evaluated)
// excluded. A φ with more incoming edges than MaxPhiEvalSize allows
// gives up and returns type bounds outright, the same cutoff the
// original applies before even building the closure.
func (e *engine) meet(n *graph.Node) expr.Range {
	if e.cfg.MaxPhiEvalSize > 0 && len(n.Incoming) > e.cfg.MaxPhiEvalSize {
		return BoundsForType(n.Value.Type(), e.cfg)
	}

	var ret expr.Range
	found := false
	for _, in := range n.Incoming {
		s := e.rawState(in)
		if s.IsBottom() {
			continue
		}
		if !found {
			ret = s
			found = true
			continue
		}
		ret = ret.Meet(s)
	}
	if !found {
		return expr.BottomRange()
	}
	return ret
}

// rawState returns n's exact current state (possibly ⊥), the way the
// original's getState does for a Phi operand: an un-evaluated
// predecessor contributes nothing to the meet rather than being
// treated as unbounded.
func (e *engine) rawState(n *graph.Node) expr.Range {
	if n.Kind == graph.KindConst {
		return expr.NewRange(expr.Const(n.ConstVal))
	}
	if s, ok := e.state[n.Value]; ok {
		return s
	}
	return expr.BottomRange()
}

// stateOrInf is the original's getStateOrInf: a ⊥ operand (not yet
// evaluated, or never will be) stands in for its type's full bounds
// rather than contributing ⊥ to an arithmetic expression.
func (e *engine) stateOrInf(n *graph.Node) expr.Range {
	s := e.rawState(n)
	if s.IsBottom() {
		return BoundsForType(n.Value.Type(), e.cfg)
	}
	return s
}

// setState installs newRange as v's state, capping each bound's
// syntactic size back to type bounds if it grew past MaxExprSize and
// recording which side(s) changed from the previous round.
func (e *engine) setState(v ir.Value, newRange expr.Range) {
	bounds := BoundsForType(v.Type(), e.cfg)
	if newRange.Lower.Size() > e.cfg.MaxExprSize {
		newRange.Lower = bounds.Lower
	}
	if newRange.Upper.Size() > e.cfg.MaxExprSize {
		newRange.Upper = bounds.Upper
	}

	prev, existed := e.state[v]
	e.state[v] = newRange
	if !existed {
		e.changed[v] = changedLower | changedUpper
		e.stable[v] = [2]bool{true, true}
		return
	}

	var bits int
	if !prev.Lower.Equal(newRange.Lower) {
		bits |= changedLower
	}
	if !prev.Upper.Equal(newRange.Upper) {
		bits |= changedUpper
	}
	e.changed[v] = bits

	st := e.stable[v]
	st[0] = st[0] && bits&changedLower == 0
	st[1] = st[1] && bits&changedUpper == 0
	e.stable[v] = st
}

func (e *engine) hasStableLowerBound(v ir.Value) bool {
	st, ok := e.stable[v]
	return ok && st[0]
}

func (e *engine) hasStableUpperBound(v ir.Value) bool {
	st, ok := e.stable[v]
	return ok && st[1]
}

// workItem is one pending (re-)evaluation, ordered by the value's
// fixed graph.Order position so the worklist drains in reverse
// postorder the way the original's std::set<pair<unsigned,
// Instruction*>> does.
type workItem struct {
	pos int
	v   ir.Value
}

type workQueue []workItem

func (w workQueue) Len() int            { return len(w) }
func (w workQueue) Less(i, j int) bool  { return w[i].pos < w[j].pos }
func (w workQueue) Swap(i, j int)       { w[i], w[j] = w[j], w[i] }
func (w *workQueue) Push(x interface{}) { *w = append(*w, x.(workItem)) }
func (w *workQueue) Pop() interface{} {
	old := *w
	n := len(old)
	item := old[n-1]
	*w = old[:n-1]
	return item
}
