// Package graph classifies a redef-split function's values into the
// typed constraint-graph nodes the solver evaluates: constants,
// arguments, binary operations, φ-joins and σ-joins (each carrying
// the extra "bound" edge derived from its controlling branch), plus
// an opaque leaf kind for anything else.
//
// Grounded on two independent implementations of the same idea: the
// native Go one in honnef.co/go/tools's go/vrp/vrp.go (XXX's classification
// switch over ir.Value, its flipToken/negateToken and its
// ReversePostOrderTraversal-ordered construction), and SraGraph.cpp/
// RAGraphBase.cpp's addBinOp/addPhiNode/addSigmaNode/GetSigmaBound —
// those two build a graph for an external Python/SAGE solver, so only
// their classification and edge-wiring logic transfers; the solving
// itself happens natively in the sra package, grounded on
// SymbolicRangeAnalysis.cpp instead.
package graph

import (
	"fmt"
	"go/constant"
	"go/token"
	"math/big"

	"sra.dev/sra/ir"
	"sra.dev/sra/namevault"
)

// Kind discriminates a Node's role in the graph.
type Kind int

const (
	KindConst Kind = iota
	KindArg
	KindBinOp
	KindPhi
	KindSigma
	// KindIdentLeaf and KindInfLeaf are both "opaque" nodes for values
	// whose defining instruction isn't one the analysis interprets
	// (e.g. loads, calls): KindIdentLeaf treats the value as a fresh
	// named symbol, KindInfLeaf as unconditionally unbounded. Which one
	// a leaf gets is decided by the LeafPolicy passed to Build.
	KindIdentLeaf
	KindInfLeaf
)

// Node is one value's place in the constraint graph.
type Node struct {
	Kind  Kind
	Value ir.Value
	Name  string

	// ConstVal holds KindConst's literal value.
	ConstVal *big.Int

	// Op is the arithmetic token for KindBinOp, or the comparison
	// predicate a KindSigma node narrows by.
	Op token.Token

	// X, Y are KindBinOp's operands; X alone is KindSigma's incoming
	// value.
	X, Y *Node
	// Bound is KindSigma's extra edge: the value it's compared against.
	Bound *Node
	// Incoming holds KindPhi's per-predecessor operands, same order as
	// Value.(*ir.Phi).Edges.
	Incoming []*Node
}

// LeafPolicy builds the node for an integer value whose defining
// instruction the graph doesn't otherwise interpret.
type LeafPolicy func(v ir.Value, name string) *Node

// SymbolicLeaf treats an uninterpreted value as a fresh opaque
// symbol, the way SymbolicRangeAnalysis.cpp's handleIntInst does for
// a load (SAGEExpr(*SI_, name)).
func SymbolicLeaf(v ir.Value, name string) *Node {
	return &Node{Kind: KindIdentLeaf, Value: v, Name: name}
}

// NumericLeaf treats an uninterpreted value as unconditionally
// unbounded, the way any instruction with no attached Fn_ closure
// ends up after SymbolicRangeAnalysis.cpp's widen() replaces its
// never-evaluated ⊥ state with full type bounds.
func NumericLeaf(v ir.Value, name string) *Node {
	return &Node{Kind: KindInfLeaf, Value: v, Name: name}
}

// Graph is a redef-split function's constraint graph.
type Graph struct {
	Nodes map[ir.Value]*Node
	// Order lists the graph's instruction nodes (arguments excluded)
	// in the reverse-postorder they were discovered, for solvers that
	// want a deterministic evaluation-position assignment.
	Order []*Node

	names *namevault.Vault
}

// Build classifies every integer value in fn into a Node.
func Build(fn *ir.Function, names *namevault.Vault, leaf LeafPolicy) *Graph {
	g := &Graph{Nodes: make(map[ir.Value]*Node), names: names}

	for _, p := range fn.Params {
		if !ir.IsInteger(p.Type()) {
			continue
		}
		g.Nodes[p] = &Node{Kind: KindArg, Value: p, Name: names.Name(p)}
	}

	for _, bb := range reversePostorder(fn) {
		for _, instr := range bb.Instrs {
			v, ok := instr.(ir.Value)
			if !ok || !ir.IsInteger(v.Type()) {
				continue
			}
			n := g.addIntValue(v, leaf)
			g.Order = append(g.Order, n)
		}
	}

	for v, n := range g.Nodes {
		switch n.Kind {
		case KindBinOp:
			bo := v.(*ir.BinOp)
			n.X = g.getNode(bo.X)
			n.Y = g.getNode(bo.Y)
		case KindPhi:
			phi := v.(*ir.Phi)
			for _, e := range phi.Edges {
				n.Incoming = append(n.Incoming, g.getNode(e))
			}
		case KindSigma:
			sig := v.(*ir.Sigma)
			n.X = g.getNode(sig.X)
			pred, bound := sig.Bound()
			n.Op = pred
			n.Bound = g.getNode(bound)
			// Bound is derived from the controlling branch rather than
			// stored as one of Sigma's own operand fields, so nothing
			// wires it as a referrer edge at construction time. Add it
			// here so the solver's worklist re-evaluates the sigma
			// whenever bound's range changes, not just when X's does.
			ir.AddOperand(bound, sig)
		}
	}

	return g
}

func (g *Graph) addIntValue(v ir.Value, leaf LeafPolicy) *Node {
	var n *Node
	switch v.(type) {
	case *ir.BinOp:
		n = &Node{Kind: KindBinOp, Value: v, Op: v.(*ir.BinOp).Op, Name: g.names.Name(v)}
	case *ir.Phi:
		n = &Node{Kind: KindPhi, Value: v, Name: g.names.Name(v)}
	case *ir.Sigma:
		n = &Node{Kind: KindSigma, Value: v, Name: g.names.Name(v)}
	default:
		n = leaf(v, g.names.Name(v))
	}
	g.Nodes[v] = n
	return n
}

// getNode returns v's node, creating a KindConst node on demand if v
// is a constant operand encountered only while wiring edges (constants
// never appear in a block's instruction list, so Build's first pass
// never visits them directly) — mirrors SraGraph.cpp's getNode doing
// the same lazy lookup-or-create for ConstantInt operands.
func (g *Graph) getNode(v ir.Value) *Node {
	if n, ok := g.Nodes[v]; ok {
		return n
	}
	c, ok := v.(*ir.Const)
	if !ok {
		panic(fmt.Sprintf("graph: %s has no node and is not a constant", v.Name()))
	}
	n := &Node{Kind: KindConst, Value: v, Name: g.names.Name(v), ConstVal: bigIntFromConst(c)}
	g.Nodes[v] = n
	return n
}

func bigIntFromConst(c *ir.Const) *big.Int {
	iv := constant.ToInt(c.Value)
	switch v := constant.Val(iv).(type) {
	case int64:
		return big.NewInt(v)
	case *big.Int:
		return new(big.Int).Set(v)
	default:
		panic(fmt.Sprintf("graph: unexpected constant representation %T", v))
	}
}

// reversePostorder orders fn's blocks the way SraGraph.cpp's
// initializeIntInsts does via LLVM's ReversePostOrderTraversal:
// depth-first over Succs, then the postorder reversed, so a block
// generally precedes its successors.
func reversePostorder(fn *ir.Function) []*ir.BasicBlock {
	if len(fn.Blocks) == 0 {
		return nil
	}
	var order []*ir.BasicBlock
	seen := make(map[*ir.BasicBlock]bool)
	var dfs func(b *ir.BasicBlock)
	dfs = func(b *ir.BasicBlock) {
		if seen[b] {
			return
		}
		seen[b] = true
		for _, s := range b.Succs {
			dfs(s)
		}
		order = append(order, b)
	}
	dfs(fn.Blocks[0])
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}
