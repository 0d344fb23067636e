// The MIT License (MIT)
//
// # Copyright (c) 2025 powmine
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package field implements arithmetic over the Goldilocks prime field
// p = 2^64 - 2^32 + 1. The prime is chosen so that 2^64 = 2^32 - 1 (mod p),
// which keeps the 128-bit reduction branch-light.
package field

import "math/bits"

const (
	// Prime is the Goldilocks prime 2^64 - 2^32 + 1.
	Prime uint64 = 18446744069414584321
	// H generates a multiplicative subgroup of order 2^32.
	H uint64 = 20033703337
	// Order is the order of the subgroup generated by H.
	Order uint64 = 1 << 32

	primePrime uint64 = Prime - 2 // inversion exponent, Fermat
	epsilon    uint64 = 1<<32 - 1 // 2^64 mod Prime
)

// InField reports whether a is a canonical field element.
func InField(a uint64) bool {
	return a < Prime
}

// Add returns (a + b) mod p.
func Add(a, b uint64) uint64 {
	sum := a + b
	if sum >= Prime || sum < a { // sum < a means the 64-bit add wrapped
		sum -= Prime
	}
	return sum
}

// Neg returns the additive inverse of a.
func Neg(a uint64) uint64 {
	if a == 0 {
		return 0
	}
	return Prime - a
}

// Sub returns (a - b) mod p.
func Sub(a, b uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + (Prime - b)
}

// Reduce maps a 128-bit value hi*2^64 + lo into [0, Prime).
//
// Split hi into its 32-bit halves: 2^64 = 2^32 - 1 and 2^96 = -1 (mod p),
// so hi*2^64 + lo = lo - hi>>32 + (hi & epsilon)*epsilon.
func Reduce(hi, lo uint64) uint64 {
	if hi == 0 {
		if lo >= Prime {
			return lo - Prime
		}
		return lo
	}

	t, borrow := bits.Sub64(lo, hi>>32, 0)
	if borrow != 0 {
		t -= epsilon
	}
	t2, carry := bits.Add64(t, (hi&epsilon)*epsilon, 0)
	if carry != 0 {
		t2 += epsilon
	}
	if t2 >= Prime {
		t2 -= Prime
	}
	return t2
}

// Mul returns (a * b) mod p over the full 128-bit product.
func Mul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return Reduce(hi, lo)
}

// Pow returns a^e mod p by binary exponentiation. a^0 is 1.
func Pow(a, e uint64) uint64 {
	if e == 0 {
		return 1
	}
	result := uint64(1)
	for e > 0 {
		if e&1 == 1 {
			result = Mul(result, a)
		}
		a = Mul(a, a)
		e >>= 1
	}
	return result
}

// Inv returns the multiplicative inverse of a via Fermat's little theorem.
// Inverting zero is a programmer error and panics.
func Inv(a uint64) uint64 {
	if a == 0 {
		panic("field: division by zero")
	}
	return Pow(a, primePrime)
}

// Div returns a * Inv(b) mod p.
func Div(a, b uint64) uint64 {
	return Mul(a, Inv(b))
}

// AddBatch writes Add(a[i], b[i]) into result element-wise.
// The three slices must have equal length.
func AddBatch(a, b, result []uint64) {
	if len(a) != len(b) || len(a) != len(result) {
		panic("field: batch length mismatch")
	}
	for i := range a {
		result[i] = Add(a[i], b[i])
	}
}

// MulBatch writes Mul(a[i], b[i]) into result element-wise.
// The three slices must have equal length.
func MulBatch(a, b, result []uint64) {
	if len(a) != len(b) || len(a) != len(result) {
		panic("field: batch length mismatch")
	}
	for i := range a {
		result[i] = Mul(a[i], b[i])
	}
}
