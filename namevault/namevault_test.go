package namevault

import (
	"go/token"
	"testing"

	"sra.dev/sra/ir"
)

func TestNameIsStableAndFunctionQualified(t *testing.T) {
	b := ir.NewTestFunction("frobnicate", 1)
	a0 := b.Args[0]

	entry := b.Block("entry")
	sum := b.BinOp(entry, "sum", token.ADD, a0, a0)
	b.Return(entry, sum)

	vt := New(b.Fn)

	first := vt.Name(sum)
	second := vt.Name(sum)
	if first != second {
		t.Errorf("Name(sum) not stable across calls: %q then %q", first, second)
	}
	if want := "frobnicate_sum"; first != want {
		t.Errorf("Name(sum) = %q, want %q", first, want)
	}
}

func TestNameFallsBackToTempCounterPerVault(t *testing.T) {
	b := ir.NewTestFunction("anon", 2)
	a0, a1 := b.Args[0], b.Args[1]

	entry := b.Block("entry")
	// BinOp built with an empty name exercises makeName's temp-counter
	// fallback rather than echoing v.Name().
	unnamed := b.BinOp(entry, "", token.ADD, a0, a1)
	b.Return(entry, unnamed)

	const want = "anon_1"

	vt := New(b.Fn)
	got := vt.Name(unnamed)
	if got != want {
		t.Errorf("Name(unnamed) = %q, want %q", got, want)
	}

	// A second Vault for the same function starts its counter over,
	// since the counter is owned by the Vault and not by the value
	// or the function.
	vt2 := New(b.Fn)
	if got2 := vt2.Name(unnamed); got2 != want {
		t.Errorf("second vault: Name(unnamed) = %q, want %q", got2, want)
	}
}

func TestConstNameUsesGlobalPrefix(t *testing.T) {
	b := ir.NewTestFunction("uses_const", 0)
	entry := b.Block("entry")
	c := b.ConstInt32(7)
	b.Return(entry, c)

	vt := New(b.Fn)
	got := vt.Name(c)
	if want := "GLOBAL_7"; got != want {
		t.Errorf("Name(const) = %q, want %q", got, want)
	}
}

func TestNameReplacesDotsWithUnderscores(t *testing.T) {
	b := ir.NewTestFunction("pkg.Dotted", 1)
	a0 := b.Args[0]
	entry := b.Block("entry")
	b.Return(entry, a0)

	vt := New(b.Fn)
	got := vt.Name(a0)
	if got == "" || containsDot(got) {
		t.Errorf("Name(a0) = %q, want no literal dots", got)
	}
}

func containsDot(s string) bool {
	for _, r := range s {
		if r == '.' {
			return true
		}
	}
	return false
}
