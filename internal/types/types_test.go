package types

import "testing"

func TestIntWidening(t *testing.T) {
	i32 := &IntType{Signed: true, Bits: 32}
	i64 := &IntType{Signed: true, Bits: 64}

	if got := Wider(i32, i64); got != i64 {
		t.Fatalf("expected i64, got=%s", got.Type())
	}
	if got := Wider(i64, i32); got != i64 {
		t.Fatalf("expected i64, got=%s", got.Type())
	}
	if got := Wider(&BoolType{}, i32); got != i32 {
		t.Fatalf("expected bool to widen to i32, got=%s", got.Type())
	}
	if i32.SameAs(i64) || !i32.SameAs(&IntType{Signed: true, Bits: 32}) {
		t.Fatalf("SameAs compares signedness and width")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		bits     int
		in       int64
		expected int64
	}{
		{32, 1 << 31, -(1 << 31)},
		{32, (1 << 32) + 5, 5},
		{32, -7, -7},
		{64, 1 << 40, 1 << 40},
	}

	for _, tt := range tests {
		got := (&IntType{Signed: true, Bits: tt.bits}).Truncate(tt.in)
		if got != tt.expected {
			t.Errorf("Truncate(%d) to i%d = %d, expected %d", tt.in, tt.bits, got, tt.expected)
		}
	}
}

func TestFunctionTypeString(t *testing.T) {
	f := &FunctionType{
		Name: "f",
		Args: []FunctionArgType{
			{Name: "a", Type: &IntType{Signed: true, Bits: 32}},
			{Name: "b", Type: &IntType{Signed: true, Bits: 64}},
		},
		ReturnType: &IntType{Signed: true, Bits: 32},
	}

	if got := f.Type(); got != "fun f(i32, i64) i32" {
		t.Fatalf("unexpected function type string, got=%q", got)
	}
}
