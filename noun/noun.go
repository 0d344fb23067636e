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

// Package noun provides the tagged tree values exchanged with the node and
// the compute kernel: a value is either an atom (a byte string, also read as
// a little-endian unsigned integer) or a cell of two values.
package noun

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// Noun is either an Atom or a *Cell.
type Noun interface {
	isNoun()
}

// Atom is an arbitrary-width unsigned integer stored little-endian with no
// trailing zero bytes. The empty atom is zero, which also terminates lists.
type Atom []byte

// Cell is an ordered pair of nouns.
type Cell struct {
	Head Noun
	Tail Noun
}

func (Atom) isNoun()  {}
func (*Cell) isNoun() {}

// D builds an atom from an unsigned integer.
func D(v uint64) Atom {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	n := 8
	for n > 0 && buf[n-1] == 0 {
		n--
	}
	return Atom(append([]byte(nil), buf[:n]...))
}

// Cord builds an atom from the bytes of s.
func Cord(s string) Atom {
	return Atom([]byte(s))
}

// C builds a cell.
func C(head, tail Noun) *Cell {
	return &Cell{Head: head, Tail: tail}
}

// T builds a right-nested tuple: T(a, b, c) is [a b c] = [a [b c]].
// At least two nouns are required.
func T(nouns ...Noun) *Cell {
	if len(nouns) < 2 {
		panic("noun: tuple requires at least two nouns")
	}
	tail := nouns[len(nouns)-1]
	for i := len(nouns) - 2; i >= 0; i-- {
		tail = C(nouns[i], tail)
	}
	return tail.(*Cell)
}

// Num reads an atom as an unsigned integer. Atoms wider than eight bytes
// are truncated to their low 64 bits.
func Num(a Atom) uint64 {
	var buf [8]byte
	copy(buf[:], a)
	return binary.LittleEndian.Uint64(buf[:])
}

// EqBytes reports whether n is an atom with exactly the bytes of s.
func EqBytes(n Noun, s string) bool {
	a, ok := n.(Atom)
	return ok && bytes.Equal(a, []byte(s))
}

// Head returns the head of a cell, or an error for an atom.
func Head(n Noun) (Noun, error) {
	c, ok := n.(*Cell)
	if !ok {
		return nil, fmt.Errorf("noun: head of atom")
	}
	return c.Head, nil
}

// Tail returns the tail of a cell, or an error for an atom.
func Tail(n Noun) (Noun, error) {
	c, ok := n.(*Cell)
	if !ok {
		return nil, fmt.Errorf("noun: tail of atom")
	}
	return c.Tail, nil
}

// Copy returns a deep copy of n with freshly owned atom buffers.
func Copy(n Noun) Noun {
	switch v := n.(type) {
	case Atom:
		return Atom(append([]byte(nil), v...))
	case *Cell:
		return C(Copy(v.Head), Copy(v.Tail))
	default:
		panic("noun: unknown noun kind")
	}
}

// Equal reports structural equality.
func Equal(a, b Noun) bool {
	switch x := a.(type) {
	case Atom:
		y, ok := b.(Atom)
		return ok && bytes.Equal(x, y)
	case *Cell:
		y, ok := b.(*Cell)
		return ok && Equal(x.Head, y.Head) && Equal(x.Tail, y.Tail)
	default:
		return false
	}
}

// Flatten concatenates every atom of n in depth-first order. Used to feed
// an opaque noun into a hash.
func Flatten(n Noun) []byte {
	var out []byte
	var walk func(Noun)
	walk = func(n Noun) {
		switch v := n.(type) {
		case Atom:
			out = append(out, v...)
		case *Cell:
			walk(v.Head)
			walk(v.Tail)
		}
	}
	walk(n)
	return out
}

// String renders a noun for logs: printable atoms as text, others as
// decimal, cells in brackets.
func String(n Noun) string {
	switch v := n.(type) {
	case Atom:
		if isPrintable(v) && len(v) > 0 {
			return string(v)
		}
		return fmt.Sprintf("%d", Num(v))
	case *Cell:
		var sb strings.Builder
		sb.WriteByte('[')
		sb.WriteString(String(v.Head))
		t := v.Tail
		for {
			c, ok := t.(*Cell)
			if !ok {
				break
			}
			sb.WriteByte(' ')
			sb.WriteString(String(c.Head))
			t = c.Tail
		}
		sb.WriteByte(' ')
		sb.WriteString(String(t))
		sb.WriteByte(']')
		return sb.String()
	default:
		return "?"
	}
}

func isPrintable(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}
