package field

import (
	"math/big"
	"math/rand"
	"testing"
)

func TestAddVectors(t *testing.T) {
	tests := []struct {
		name string
		a    uint64
		b    uint64
		want uint64
	}{
		{name: "Zero", a: 0, b: 0, want: 0},
		{name: "Identity", a: 12345, b: 0, want: 12345},
		{name: "WrapToZero", a: Prime - 1, b: 1, want: 0},
		{name: "WrapPastPrime", a: Prime - 1, b: 2, want: 1},
		{name: "Overflow64", a: Prime - 1, b: Prime - 1, want: Prime - 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Add(tt.a, tt.b); got != tt.want {
				t.Fatalf("Add(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSubVectors(t *testing.T) {
	if got := Sub(0, 1); got != Prime-1 {
		t.Fatalf("Sub(0, 1) = %d, want %d", got, Prime-1)
	}
	if got := Sub(5, 3); got != 2 {
		t.Fatalf("Sub(5, 3) = %d, want 2", got)
	}
}

func TestNeg(t *testing.T) {
	if got := Neg(0); got != 0 {
		t.Fatalf("Neg(0) = %d, want 0", got)
	}
	if got := Neg(1); got != Prime-1 {
		t.Fatalf("Neg(1) = %d, want %d", got, Prime-1)
	}
}

func TestInv(t *testing.T) {
	if got := Mul(888, Inv(888)); got != 1 {
		t.Fatalf("Mul(888, Inv(888)) = %d, want 1", got)
	}
}

func TestInvZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Inv(0) expected panic")
		}
	}()
	Inv(0)
}

func TestReduceVectors(t *testing.T) {
	// Prime * 5 + 123 as a 128-bit value.
	n := new(big.Int).SetUint64(Prime)
	n.Mul(n, big.NewInt(5))
	n.Add(n, big.NewInt(123))
	hi := new(big.Int).Rsh(n, 64).Uint64()
	lo := new(big.Int).And(n, new(big.Int).SetUint64(^uint64(0))).Uint64()
	if got := Reduce(hi, lo); got != 123 {
		t.Fatalf("Reduce(5p + 123) = %d, want 123", got)
	}

	if got := Reduce(0, Prime); got != 0 {
		t.Fatalf("Reduce(0, Prime) = %d, want 0", got)
	}
	if got := Reduce(0, Prime-1); got != Prime-1 {
		t.Fatalf("Reduce(0, Prime-1) = %d, want %d", got, Prime-1)
	}
}

func TestReduceAgainstBigInt(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	prime := new(big.Int).SetUint64(Prime)

	for i := 0; i < 10000; i++ {
		hi := rng.Uint64()
		lo := rng.Uint64()

		n := new(big.Int).SetUint64(hi)
		n.Lsh(n, 64)
		n.Add(n, new(big.Int).SetUint64(lo))
		want := new(big.Int).Mod(n, prime).Uint64()

		got := Reduce(hi, lo)
		if got != want {
			t.Fatalf("Reduce(%d, %d) = %d, want %d", hi, lo, got, want)
		}
		if got >= Prime {
			t.Fatalf("Reduce(%d, %d) = %d out of field", hi, lo, got)
		}
	}
}

func TestPowSubgroupOrder(t *testing.T) {
	if got := Pow(H, Order); got != 1 {
		t.Fatalf("Pow(H, 2^32) = %d, want 1", got)
	}
	if got := Pow(H, 0); got != 1 {
		t.Fatalf("Pow(H, 0) = %d, want 1", got)
	}
}

func TestFieldProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	sample := func() uint64 { return rng.Uint64() % Prime }

	for i := 0; i < 2000; i++ {
		a, b := sample(), sample()

		if Add(a, 0) != a {
			t.Fatalf("Add(%d, 0) != %d", a, a)
		}
		if Add(a, b) != Add(b, a) {
			t.Fatalf("Add not commutative for %d, %d", a, b)
		}
		if Add(a, Neg(a)) != 0 {
			t.Fatalf("Add(%d, Neg) != 0", a)
		}
		if Sub(a, b) != Add(a, Neg(b)) {
			t.Fatalf("Sub(%d, %d) != Add(a, Neg(b))", a, b)
		}
		if Mul(a, 1) != a || Mul(a, 0) != 0 {
			t.Fatalf("Mul identity/zero broken for %d", a)
		}
		if Mul(a, b) != Mul(b, a) {
			t.Fatalf("Mul not commutative for %d, %d", a, b)
		}
		if a != 0 {
			if Mul(a, Inv(a)) != 1 {
				t.Fatalf("Mul(%d, Inv) != 1", a)
			}
			if Pow(a, Prime-1) != 1 {
				t.Fatalf("Pow(%d, p-1) != 1", a)
			}
			if Div(Mul(a, b), a) != b {
				t.Fatalf("Div(Mul(%d, %d), a) != b", a, b)
			}
		}

		for _, v := range []uint64{Add(a, b), Sub(a, b), Mul(a, b), Neg(a)} {
			if !InField(v) {
				t.Fatalf("result %d out of field", v)
			}
		}
	}
}

func TestBatchMatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const n = 257 // deliberately not a lane multiple

	a := make([]uint64, n)
	b := make([]uint64, n)
	sum := make([]uint64, n)
	prod := make([]uint64, n)
	for i := range a {
		a[i] = rng.Uint64() % Prime
		b[i] = rng.Uint64() % Prime
	}

	AddBatch(a, b, sum)
	MulBatch(a, b, prod)

	for i := range a {
		if sum[i] != Add(a[i], b[i]) {
			t.Fatalf("AddBatch[%d] = %d, want %d", i, sum[i], Add(a[i], b[i]))
		}
		if prod[i] != Mul(a[i], b[i]) {
			t.Fatalf("MulBatch[%d] = %d, want %d", i, prod[i], Mul(a[i], b[i]))
		}
	}
}

func TestBatchLengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("AddBatch expected panic on length mismatch")
		}
	}()
	AddBatch(make([]uint64, 2), make([]uint64, 3), make([]uint64, 2))
}

func BenchmarkMul(b *testing.B) {
	x, y := uint64(0x1234_5678_9abc_def0)%Prime, uint64(0x0fed_cba9_8765_4321)%Prime
	for i := 0; i < b.N; i++ {
		x = Mul(x, y)
	}
	sink = x
}

var sink uint64
