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

// Package mining implements the proof-of-work mining coordinator: the
// driver that receives candidates from the node, the worker pipeline that
// runs attempts on pooled compute kernels, and the wire marshalling between
// the two.
package mining

import "github.com/powmine/minerd/noun"

// MiningWire enumerates the verbs this driver exchanges with the node.
type MiningWire int

const (
	Mined MiningWire = iota
	Candidate
	SetPubKey
	Enable
)

const (
	wireSource  = "miner"
	wireVersion = 1
)

// Verb returns the wire tag for w.
func (w MiningWire) Verb() string {
	switch w {
	case Mined:
		return "mined"
	case Candidate:
		return "candidate"
	case SetPubKey:
		return "setpubkey"
	case Enable:
		return "enable"
	default:
		return "unknown"
	}
}

// WireRepr is the header attached to every outbound poke.
type WireRepr struct {
	Source  string
	Version uint64
	Tags    []string
}

// ToWire builds the header for w.
func (w MiningWire) ToWire() WireRepr {
	return WireRepr{
		Source:  wireSource,
		Version: wireVersion,
		Tags:    []string{w.Verb()},
	}
}

// NodeHandle is the driver's only interface to the host node. NextEffect
// blocks for the next effect and returns an error when the stream closes;
// Poke delivers a tagged payload upstream.
type NodeHandle interface {
	NextEffect() (noun.Noun, error)
	Poke(w WireRepr, payload noun.Noun) error
}
