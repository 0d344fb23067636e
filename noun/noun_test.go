package noun

import (
	"bytes"
	"testing"
)

func TestDEncoding(t *testing.T) {
	tests := []struct {
		name string
		v    uint64
		want []byte
	}{
		{name: "Zero", v: 0, want: []byte{}},
		{name: "One", v: 1, want: []byte{1}},
		{name: "TwoBytes", v: 0x1234, want: []byte{0x34, 0x12}},
		{name: "Full", v: 0x0102030405060708, want: []byte{8, 7, 6, 5, 4, 3, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := D(tt.v)
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("D(%#x) = %v, want %v", tt.v, []byte(got), tt.want)
			}
			if Num(got) != tt.v {
				t.Fatalf("Num(D(%#x)) = %#x", tt.v, Num(got))
			}
		})
	}
}

func TestTupleNesting(t *testing.T) {
	n := T(D(1), D(2), D(3))
	// [1 [2 3]]
	if !Equal(n, C(D(1), C(D(2), D(3)))) {
		t.Fatalf("T(1, 2, 3) nested wrongly: %s", String(n))
	}
}

func TestEqBytes(t *testing.T) {
	if !EqBytes(Cord("mine"), "mine") {
		t.Fatalf("EqBytes(Cord(mine), mine) = false")
	}
	if EqBytes(Cord("mine"), "mined") {
		t.Fatalf("EqBytes(mine, mined) = true")
	}
	if EqBytes(C(D(1), D(2)), "mine") {
		t.Fatalf("EqBytes on cell = true")
	}
}

func TestCopyIsDeep(t *testing.T) {
	orig := T(Cord("mine"), Atom([]byte{1, 2, 3}))
	cp := Copy(orig).(*Cell)

	tail := cp.Tail.(Atom)
	tail[0] = 99
	if origTail := orig.Tail.(Atom); origTail[0] != 1 {
		t.Fatalf("Copy shared the atom buffer")
	}
}

func TestFlatten(t *testing.T) {
	n := T(Cord("ab"), Cord("cd"), Cord("ef"))
	if got := Flatten(n); !bytes.Equal(got, []byte("abcdef")) {
		t.Fatalf("Flatten = %q", got)
	}
}

func TestHeadTailOfAtom(t *testing.T) {
	if _, err := Head(D(1)); err == nil {
		t.Fatalf("Head(atom) expected error")
	}
	if _, err := Tail(D(1)); err == nil {
		t.Fatalf("Tail(atom) expected error")
	}
}
