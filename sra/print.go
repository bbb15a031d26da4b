package sra

import (
	"fmt"
	"io"

	"sra.dev/sra/graph"
)

// PrintResults writes one line per analyzed value, in graph.Order, in
// the exact form SymbolicRangeAnalysis.cpp's print() uses: "OS <<
// "[[" << getName(P.first) << "]] = " << P.second".
func (r *Result) PrintResults(w io.Writer) error {
	for _, n := range r.Graph.Order {
		if _, err := fmt.Fprintf(w, "[[%s]] = %s\n", n.Name, r.RangeOf(n.Value)); err != nil {
			return err
		}
	}
	return nil
}

// NodeKindString names a graph.Kind for diagnostics; used by the
// solver's Debug trace logging (see sra/engine.go).
func NodeKindString(k graph.Kind) string {
	switch k {
	case graph.KindConst:
		return "const"
	case graph.KindArg:
		return "arg"
	case graph.KindBinOp:
		return "binop"
	case graph.KindPhi:
		return "phi"
	case graph.KindSigma:
		return "sigma"
	case graph.KindIdentLeaf:
		return "ident-leaf"
	case graph.KindInfLeaf:
		return "inf-leaf"
	default:
		return "?"
	}
}
