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

package main

import (
	"log"
	"time"

	"github.com/fatih/color"

	"github.com/powmine/minerd/mining"
	"github.com/powmine/minerd/noun"
)

// localNode stands in for the host node in solo/devnet operation: it
// synthesizes one mining candidate per interval and logs the pokes the
// driver sends upstream; with quiet set, only mined pokes are logged.
type localNode struct {
	interval   time.Duration
	difficulty uint64
	quiet      bool
	seq        uint64
}

func newLocalNode(config *Config) *localNode {
	return &localNode{
		interval:   time.Duration(config.Interval) * time.Second,
		difficulty: config.Difficulty,
		quiet:      config.Quiet,
	}
}

// NextEffect emits [mine candidate]. The candidate head carries the
// difficulty target so the reference prover can read it back.
func (n *localNode) NextEffect() (noun.Noun, error) {
	time.Sleep(n.interval)
	n.seq++
	candidate := noun.T(
		noun.D(n.difficulty),
		noun.Cord("devnet"),
		noun.D(n.seq),
		noun.D(uint64(time.Now().UnixNano())),
	)
	return noun.C(noun.Cord("mine"), candidate), nil
}

func (n *localNode) Poke(w mining.WireRepr, payload noun.Noun) error {
	tag := ""
	if len(w.Tags) > 0 {
		tag = w.Tags[0]
	}
	if tag == "mined" {
		color.Green("node: accepted mined block %s", noun.String(payload))
		return nil
	}
	if !n.quiet {
		log.Printf("node: poke %s/%d %s: %s", w.Source, w.Version, tag, noun.String(payload))
	}
	return nil
}
