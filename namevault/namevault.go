// Package namevault gives every value a stable, human-readable,
// function-qualified name for diagnostics and annotation output,
// built from the name the IR builder gave it, or from a per-Vault
// counter when it has none.
//
// Grounded on SraNameVault.cpp. The one deliberate departure: the
// original's fallback counter for unnamed values (SraNameVault::
// makeName's "static unsigned Temp") is a process-global static, so
// two functions analyzed in the same process would fight over the
// same counter and get non-deterministic-looking names depending on
// analysis order. This is treated as a design smell worth fixing
// rather than reproducing: Vault here owns its own counter, and the
// engine gives every function its own Vault.
package namevault

import (
	"strconv"
	"strings"

	"sra.dev/sra/ir"
)

// Vault memoizes value names the way SraNameVault does.
type Vault struct {
	fn    *ir.Function
	names map[ir.Value]string
	temp  int
}

// New creates a Vault for naming values that belong to fn.
func New(fn *ir.Function) *Vault {
	return &Vault{fn: fn, names: make(map[ir.Value]string)}
}

// Name returns v's stable name, computing and caching it on first
// use.
func (vt *Vault) Name(v ir.Value) string {
	if name, ok := vt.names[v]; ok {
		return name
	}
	name := vt.makeName(v)
	vt.names[v] = name
	return name
}

func (vt *Vault) makeName(v ir.Value) string {
	var prefix string
	switch v.(type) {
	case *ir.Const:
		prefix = "GLOBAL_"
	default:
		prefix = vt.fn.Name() + "_"
	}

	name := v.Name()
	if name == "" {
		vt.temp++
		name = strconv.Itoa(vt.temp)
	}

	return strings.ReplaceAll(prefix+name, ".", "_")
}
