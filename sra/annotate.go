package sra

import (
	"fmt"
	"sort"

	"sra.dev/sra/expr"
)

// Annotation is the recorded range for one named value, keyed by its
// namevault name rather than the ir.Value itself so it survives being
// written out and read back by a different process or test.
//
// Grounded on SymbolicRangeAnalysisAnnotator.cpp, which stamps each
// analyzed instruction's range onto it as LLVM metadata so a later
// pass (or a human reading -S output) can see what the solver
// concluded without rerunning it. This IR has no metadata-node
// concept to attach that to, so Annotate collects the same
// information into a plain side table instead.
type Annotation struct {
	Lower, Upper string
}

// Annotate snapshots every analyzed value's range into a name-keyed
// table.
func Annotate(r *Result) map[string]Annotation {
	out := make(map[string]Annotation, len(r.Graph.Nodes))
	for _, n := range r.Graph.Nodes {
		rng := r.RangeOf(n.Value)
		out[n.Name] = Annotation{Lower: rng.Lower.String(), Upper: rng.Upper.String()}
	}
	return out
}

// Mismatch describes one value whose computed range disagrees with an
// expected one.
type Mismatch struct {
	Name string
	Got  expr.Range
	Want expr.Range
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: got %s, want %s", m.Name, m.Got, m.Want)
}

// Verify compares r's computed ranges against a name-keyed table of
// expected ranges (typically hand-written in a test) and reports every
// disagreement. Annotate's string table is a different type and cannot
// be passed here directly.
//
// Grounded on SymbolicRangeAnalysisVerifier.cpp, which re-derives each
// instruction's range metadata and errors out if a later pass
// invalidated it; this is the same idea pointed at test fixtures
// instead of metadata left behind by a previous pass, since nothing
// in this pipeline mutates the IR after Analyze runs.
func Verify(r *Result, want map[string]expr.Range) []Mismatch {
	var mismatches []Mismatch
	for _, n := range r.Graph.Nodes {
		expected, ok := want[n.Name]
		if !ok {
			continue
		}
		got := r.RangeOf(n.Value)
		if !got.Equal(expected) {
			mismatches = append(mismatches, Mismatch{Name: n.Name, Got: got, Want: expected})
		}
	}
	sort.Slice(mismatches, func(i, j int) bool { return mismatches[i].Name < mismatches[j].Name })
	return mismatches
}
