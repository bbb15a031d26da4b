package ir

import (
	"fmt"
	"go/types"
)

// Opaque stands in for any instruction this IR has no dedicated
// representation for. Hand-built fixtures use one only as a dummy
// consumer of a value (FuncBuilder.Use) — a test otherwise builds
// exactly the BinOp/Phi/Sigma shapes it wants to exercise — but
// lowering a real Go function's SSA form (see LowerFunction) runs into
// call results, loads, type conversions, interface extractions and
// every other instruction kind go/ssa has and this module's domain
// doesn't interpret. Opaque is this IR's analog of the uninterpreted
// "everything else" category SraGraph.cpp's classification switch
// falls through to for any LLVM instruction that isn't add/sub/phi/
// icmp; the graph package's LeafPolicy decides what an Opaque value's
// range should be treated as.
type Opaque struct {
	register
	Rands []Value
}

// NewOpaque creates an opaque value of type typ. rands are recorded
// only for inspection (String, debugging); the solver never reads
// them, since an Opaque node is always a graph leaf.
func NewOpaque(name string, typ types.Type, rands []Value) *Opaque {
	o := &Opaque{Rands: rands}
	o.name, o.typ = name, typ
	for _, r := range rands {
		AddOperand(r, o)
	}
	return o
}

func (v *Opaque) Operands(rands []*Value) []*Value {
	for i := range v.Rands {
		rands = append(rands, &v.Rands[i])
	}
	return rands
}

func (v *Opaque) String() string {
	return fmt.Sprintf("%s = opaque%v", v.name, v.Rands)
}
