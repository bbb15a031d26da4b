package ir

import (
	"fmt"
	"go/constant"

	"golang.org/x/tools/go/ssa"
)

// LowerFunction translates a golang.org/x/tools/go/ssa function into
// this package's own Function, so the solver can run against real Go
// source rather than only hand-built fixtures (see ir/builder.go and
// cmd/sra, which load a package with go/packages, build its
// *ssa.Program with go/ssa, and pass the function of interest here).
//
// Only the shapes this module's domain cares about get a dedicated
// translation: arithmetic/comparison BinOps, Phis, Consts and the
// three control-flow terminators. Everything else go/ssa's
// instruction set can produce (calls, loads, type conversions,
// interface operations, ...) becomes an Opaque value if it's
// integer-typed and skipped entirely otherwise — this module analyzes
// integer ranges, not memory or control-flow side effects, so a
// non-integer instruction contributes nothing a leaf node wouldn't
// already represent, and an Opaque leaf's own operands are never read
// by the solver (see graph.LeafPolicy), so they aren't wired up.
func LowerFunction(sf *ssa.Function) *Function {
	fn := &Function{Name_: sf.Name()}
	vals := make(map[ssa.Value]Value)
	consts := make(map[*ssa.Const]*Const)

	for _, p := range sf.Params {
		vals[p] = NewParameter(fn, p.Name(), p.Type())
	}

	blocks := make(map[*ssa.BasicBlock]*BasicBlock)
	for _, b := range sf.Blocks {
		blocks[b] = fn.NewBasicBlock(b.Comment)
	}
	for _, b := range sf.Blocks {
		nb := blocks[b]
		for _, s := range b.Succs {
			AddEdge(nb, blocks[s])
		}
	}

	resolve := func(v ssa.Value) Value {
		if c, ok := v.(*ssa.Const); ok {
			return constOf(consts, c)
		}
		if iv, ok := vals[v]; ok {
			return iv
		}
		panic(fmt.Sprintf("ir: %s used before its defining instruction was lowered", v.Name()))
	}

	// First pass: create every value-producing instruction, in
	// program order, so a Phi's forward (back-edge) operands can be
	// resolved against vals in the second pass.
	for _, b := range sf.Blocks {
		nb := blocks[b]
		for _, instr := range b.Instrs {
			v, ok := instr.(ssa.Value)
			if !ok {
				continue
			}
			switch v := v.(type) {
			case *ssa.BinOp:
				bo := &BinOp{Op: v.Op}
				bo.name, bo.typ = v.Name(), v.Type()
				nb.addInstr(bo)
				vals[v] = bo
			case *ssa.Phi:
				phi := &Phi{Edges: make([]Value, len(v.Edges))}
				phi.name, phi.typ = v.Name(), v.Type()
				nb.addInstr(phi)
				vals[v] = phi
			default:
				if !IsInteger(v.Type()) {
					continue
				}
				o := &Opaque{}
				o.name, o.typ = v.Name(), v.Type()
				nb.addInstr(o)
				vals[v] = o
			}
		}
	}

	// Second pass: wire operands now that every value has a node, and
	// translate each block's terminator.
	for _, b := range sf.Blocks {
		nb := blocks[b]
		for _, instr := range b.Instrs {
			switch v := instr.(type) {
			case *ssa.BinOp:
				bo := vals[v].(*BinOp)
				bo.X, bo.Y = resolve(v.X), resolve(v.Y)
				AddOperand(bo.X, bo)
				AddOperand(bo.Y, bo)
			case *ssa.Phi:
				phi := vals[v].(*Phi)
				for i, e := range v.Edges {
					phi.Edges[i] = resolve(e)
					AddOperand(phi.Edges[i], phi)
				}
			case *ssa.If:
				ifInstr := NewIf(resolve(v.Cond))
				nb.addInstr(ifInstr)
				nb.Control = ifInstr
			case *ssa.Jump:
				j := &Jump{}
				nb.addInstr(j)
				nb.Control = j
			case *ssa.Return:
				results := make([]Value, len(v.Results))
				for i, r := range v.Results {
					results[i] = resolve(r)
				}
				ret := &Return{Results: results}
				for _, r := range results {
					AddOperand(r, ret)
				}
				nb.addInstr(ret)
				nb.Control = ret
			}
		}
	}

	return fn
}

func constOf(cache map[*ssa.Const]*Const, c *ssa.Const) *Const {
	if ic, ok := cache[c]; ok {
		return ic
	}
	var val constant.Value
	if c.Value != nil {
		val = c.Value
	} else {
		val = constant.MakeInt64(0)
	}
	ic := NewConst(val, c.Type())
	cache[c] = ic
	return ic
}
