package ir

// Dominance frontier construction, adapted from the Cytron et al.
// algorithm as implemented by honnef.co/go/tools's ir/lift.go
// (domFrontier / domFrontier.add / domFrontier.build) and by
// uber-research/GOCC's tools/gocc/cfg/domFrontier.go.
//
// Redef (spec.md §4.1) needs this to find the blocks where a
// branch-local sigma must additionally be threaded through a phi: any
// block in DF(sigma's block) that the pre-split value reaches.

// DomFrontier maps a block index to the blocks in its dominance
// frontier.
type DomFrontier [][]*BasicBlock

func (df DomFrontier) add(u, v *BasicBlock) {
	df[u.Index] = append(df[u.Index], v)
}

// BuildDomFrontier computes the dominance frontier of every block in
// fn, which must already have had BuildDomTree run on it.
func BuildDomFrontier(fn *Function) DomFrontier {
	df := make(DomFrontier, len(fn.Blocks))
	for _, b := range fn.Blocks {
		if len(b.Preds) < 2 {
			continue
		}
		for _, p := range b.Preds {
			runner := p
			for runner != b.Idom() {
				df.add(runner, b)
				runner = runner.Idom()
			}
		}
	}
	return df
}

// At returns the dominance frontier of b.
func (df DomFrontier) At(b *BasicBlock) []*BasicBlock {
	if b.Index >= len(df) {
		return nil
	}
	return df[b.Index]
}
