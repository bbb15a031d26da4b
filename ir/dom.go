package ir

// Dominator tree construction, adapted from honnef.co/go/tools's
// ssa/dom.go (itself golang.org/x/tools/go/ssa). Immediate dominators
// are computed with the iterative "two-finger" intersection of Cooper,
// Harvey & Kennedy over a reverse postorder, not with Lengauer & Tarjan.
//
// Redef (spec.md §4.1) depends on O(1) dominance queries, which is
// what the pre/post numbering here buys.

import "sort"

type byDomPreorder []*BasicBlock

func (a byDomPreorder) Len() int           { return len(a) }
func (a byDomPreorder) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byDomPreorder) Less(i, j int) bool { return a[i].dom.pre < a[j].dom.pre }

// DomPreorder returns f's blocks in dominator-tree preorder.
func (f *Function) DomPreorder() []*BasicBlock {
	order := make(byDomPreorder, len(f.Blocks))
	copy(order, f.Blocks)
	sort.Sort(order)
	return order
}

// blockSet is a small bitset of block indices, used only during dom
// tree construction's initial DFS.
type blockSet struct{ bits []bool }

func (s *blockSet) add(b *BasicBlock) bool {
	if b.Index >= len(s.bits) {
		grown := make([]bool, b.Index+1)
		copy(grown, s.bits)
		s.bits = grown
	}
	if s.bits[b.Index] {
		return false
	}
	s.bits[b.Index] = true
	return true
}

// BuildDomTree computes the dominator tree of fn. Precondition: every
// block in fn.Blocks is reachable from fn.Blocks[0].
func BuildDomTree(fn *Function) {
	for _, b := range fn.Blocks {
		b.dom = domInfo{}
	}
	if len(fn.Blocks) == 0 {
		return
	}

	idoms := make([]*BasicBlock, len(fn.Blocks))
	post := make([]int, len(fn.Blocks))

	var order []*BasicBlock
	var seen blockSet
	var dfs func(b *BasicBlock)
	dfs = func(b *BasicBlock) {
		if !seen.add(b) {
			return
		}
		for _, succ := range b.Succs {
			dfs(succ)
		}
		order = append(order, b)
		post[b.Index] = len(order) - 1
	}
	dfs(fn.Blocks[0])

	for i := 0; i < len(order)/2; i++ {
		o := len(order) - i - 1
		order[i], order[o] = order[o], order[i]
	}

	idoms[fn.Blocks[0].Index] = fn.Blocks[0]
	changed := true
	for changed {
		changed = false
		for _, b := range order[1:] {
			var newIdom *BasicBlock
			for _, p := range b.Preds {
				if idoms[p.Index] == nil {
					continue
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				finger1, finger2 := p, newIdom
				for finger1 != finger2 {
					for post[finger1.Index] < post[finger2.Index] {
						finger1 = idoms[finger1.Index]
					}
					for post[finger2.Index] < post[finger1.Index] {
						finger2 = idoms[finger2.Index]
					}
				}
				newIdom = finger1
			}
			if idoms[b.Index] != newIdom {
				idoms[b.Index] = newIdom
				changed = true
			}
		}
	}

	for i, b := range idoms {
		fn.Blocks[i].dom.idom = b
		if i == b.Index {
			continue
		}
		b.dom.children = append(b.dom.children, fn.Blocks[i])
	}
	fn.Blocks[0].dom.idom = nil

	numberDomTree(fn.Blocks[0], 0, 0)
}

// numberDomTree assigns pre/post numbers to a depth-first traversal
// of the dominator tree rooted at v, which is what lets Dominates
// answer in O(1).
func numberDomTree(v *BasicBlock, pre, post int32) (int32, int32) {
	v.dom.pre = pre
	pre++
	for _, child := range v.dom.children {
		pre, post = numberDomTree(child, pre, post)
	}
	v.dom.post = post
	post++
	return pre, post
}
