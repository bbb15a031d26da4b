package ir

import (
	"fmt"
	"go/constant"
	"go/types"
)

// Const is an integer (or other) constant. Constants are never
// redefined by Redef and the graph builder looks them up or creates
// them on demand, so, like honnef.co/go/tools/go/ir's Const, they do
// not track referrers.
type Const struct {
	Value constant.Value
	typ   types.Type
}

// NewConst wraps an integer literal as a Const of type typ.
func NewConst(value constant.Value, typ types.Type) *Const {
	return &Const{Value: value, typ: typ}
}

func (c *Const) Name() string             { return c.Value.String() }
func (c *Const) Type() types.Type         { return c.typ }
func (c *Const) Referrers() *[]Instruction { return nil }
func (c *Const) String() string           { return c.Value.String() }

// Int64 returns the constant's value as an int64. Panics if the
// constant cannot be exactly represented, mirroring the original's
// ConstToNumeric "cannot represent constant" assertion.
func (c *Const) Int64() int64 {
	n, exact := constant.Int64Val(constant.ToInt(c.Value))
	if !exact {
		panic("ir: constant cannot be represented as int64")
	}
	return n
}

// Parameter is a function argument.
type Parameter struct {
	name      string
	typ       types.Type
	parent    *Function
	referrers []Instruction
}

// NewParameter creates a parameter and appends it to f.Params.
func NewParameter(f *Function, name string, typ types.Type) *Parameter {
	p := &Parameter{name: name, typ: typ, parent: f}
	f.Params = append(f.Params, p)
	return p
}

func (p *Parameter) Name() string             { return p.name }
func (p *Parameter) Type() types.Type         { return p.typ }
func (p *Parameter) Parent() *Function        { return p.parent }
func (p *Parameter) Referrers() *[]Instruction { return &p.referrers }
func (p *Parameter) String() string           { return fmt.Sprintf("parameter %s : %s", p.name, p.typ) }
