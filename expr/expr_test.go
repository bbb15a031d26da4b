package expr

import "testing"

func TestConstFolding(t *testing.T) {
	sum := ConstInt64(2).Add(ConstInt64(3))
	if v, ok := sum.Int(); !ok || v.Int64() != 5 {
		t.Fatalf("2+3 = %s, want 5", sum)
	}
}

func TestInfinityAbsorption(t *testing.T) {
	if got := ConstInt64(5).Add(PosInf); !got.IsPosInf() {
		t.Errorf("5 + +inf = %s, want +inf", got)
	}
	if got := NegInf.Add(PosInf); !got.IsNaN() {
		t.Errorf("-inf + +inf = %s, want NaN", got)
	}
}

func TestDivByConstZero(t *testing.T) {
	if got := ConstInt64(4).Div(ConstInt64(0)); !got.IsNaN() {
		t.Errorf("4/0 = %s, want NaN", got)
	}
}

func TestEqualIsStructuralOnly(t *testing.T) {
	a := Ident("x").Add(Ident("y"))
	b := Ident("y").Add(Ident("x"))
	if a.Equal(b) {
		t.Errorf("x+y and y+x compared equal, Equal is documented structural-only")
	}
	if !a.Equal(Ident("x").Add(Ident("y"))) {
		t.Errorf("identically-built expressions compared unequal")
	}
}

func TestSizeCountsSyntacticNodes(t *testing.T) {
	e := Ident("a").Add(Ident("b")).Add(Ident("c"))
	if got, want := e.Size(), 5; got != want {
		t.Errorf("Size() = %d, want %d", got, want)
	}
}

func TestRangeMeetIsUnion(t *testing.T) {
	r1 := NewRange(ConstInt64(1))
	r2 := NewRange(ConstInt64(5))
	got := r1.Meet(r2)
	want := Range{Lower: ConstInt64(1), Upper: ConstInt64(5)}
	if !got.Equal(want) {
		t.Errorf("Meet([1,1],[5,5]) = %s, want %s", got, want)
	}
}

func TestRangeMulFourCorner(t *testing.T) {
	r := Range{Lower: ConstInt64(-2), Upper: ConstInt64(3)}
	o := Range{Lower: ConstInt64(-1), Upper: ConstInt64(4)}
	got := r.Mul(o)
	want := Range{Lower: ConstInt64(-8), Upper: ConstInt64(12)}
	if !got.Equal(want) {
		t.Errorf("[-2,3]*[-1,4] = %s, want %s", got, want)
	}
}
