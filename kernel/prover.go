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

package kernel

import (
	"encoding/binary"
	"log"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/powmine/minerd/field"
	"github.com/powmine/minerd/noun"
)

const (
	// searchRounds bounds the nonce space scanned per submission.
	searchRounds = 4096
	// defaultDifficulty applies when the candidate carries no target.
	defaultDifficulty = 64

	checkpointName = "state.jam.snappy"
)

// prover is the reference kernel: it hashes the candidate, folds the digest
// through the hot-state power table over the Goldilocks field, and emits a
// [command ...] effect when a nonce clears the difficulty target.
type prover struct {
	hot      *HotState
	scratch  string
	snapshot bool

	attempts  uint64
	lastProof uint64
}

// Submit implements Handle. The only wire tag the prover understands is
// "candidate".
func (p *prover) Submit(tag string, candidate noun.Noun) ([]noun.Noun, error) {
	if tag != "candidate" {
		return nil, errors.Errorf("kernel: unknown wire tag %q", tag)
	}
	if candidate == nil {
		return nil, errors.New("kernel: nil candidate")
	}

	difficulty := candidateDifficulty(candidate)
	digest := blake2b.Sum256(noun.Flatten(candidate))

	var seed [4]uint64
	for i := range seed {
		seed[i] = binary.LittleEndian.Uint64(digest[i*8:]) % field.Prime
	}

	var effects []noun.Noun
	for nonce := uint64(0); nonce < searchRounds; nonce++ {
		proof := p.prove(seed, nonce)
		p.attempts++
		if proof%difficulty == 0 {
			p.lastProof = proof
			effects = append(effects, noun.T(
				noun.Cord("command"),
				noun.Cord("pow"),
				noun.D(proof),
				noun.D(nonce),
			))
			break
		}
	}

	if p.snapshot {
		if err := p.writeCheckpoint(); err != nil {
			log.Printf("kernel: checkpoint: %+v", err)
		}
	}
	return effects, nil
}

// prove folds the seed through the power table. Every step is one multiply
// and two adds in the base field, the same inner loop the full zk prover
// spends its time in.
func (p *prover) prove(seed [4]uint64, nonce uint64) uint64 {
	n := nonce % field.Prime
	acc := uint64(1)
	for i, pw := range p.hot.Powers {
		term := field.Add(seed[i&3], n)
		acc = field.Add(field.Mul(acc, pw), term)
	}
	return acc
}

// candidateDifficulty reads the difficulty target from the candidate head
// when present. Zero is treated as the default target.
func candidateDifficulty(candidate noun.Noun) uint64 {
	if c, ok := candidate.(*noun.Cell); ok {
		if a, ok := c.Head.(noun.Atom); ok {
			if d := noun.Num(a); d > 0 {
				return d
			}
		}
	}
	return defaultDifficulty
}

// writeCheckpoint jams the prover state into the scratch directory,
// compressed with snappy.
func (p *prover) writeCheckpoint() error {
	var state [16]byte
	binary.LittleEndian.PutUint64(state[0:], p.attempts)
	binary.LittleEndian.PutUint64(state[8:], p.lastProof)

	path := filepath.Join(p.scratch, checkpointName)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return errors.WithStack(err)
	}

	w := snappy.NewBufferedWriter(f)
	if _, err := w.Write(state[:]); err != nil {
		f.Close()
		return errors.WithStack(err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return errors.WithStack(err)
	}
	return errors.WithStack(f.Close())
}
