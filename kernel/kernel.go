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

// Package kernel defines the compute-kernel interface the mining coordinator
// drives, and ships the built-in reference prover.
package kernel

import (
	"os"

	"github.com/pkg/errors"

	"github.com/powmine/minerd/field"
	"github.com/powmine/minerd/noun"
)

// Handle is a loaded compute kernel. Submit runs one attempt against a
// candidate and returns the effects the kernel produced; effect heads are
// inspected by the caller as byte strings. Submissions are heavyweight and
// may spawn native threads internally.
type Handle interface {
	Submit(tag string, candidate noun.Noun) ([]noun.Noun, error)
}

// Loader constructs a kernel bound to a scratch directory, initialised from
// the shared immutable hot state. snapshot selects whether the kernel
// checkpoints its state into the scratch directory after each submission.
type Loader func(scratchDir string, hot *HotState, snapshot bool) (Handle, error)

// HotState holds the precomputed tables for the prover fast path. It is
// built once at startup and shared read-only by every kernel instance.
type HotState struct {
	// Powers[i] is H^(2^i) over the Goldilocks field.
	Powers []uint64
}

// ProverHotState precomputes the successive squarings of the subgroup
// generator H. The last entry is H^(2^31); squaring it once more yields 1.
func ProverHotState() *HotState {
	powers := make([]uint64, 32)
	p := field.H
	for i := range powers {
		powers[i] = p
		p = field.Mul(p, p)
	}
	return &HotState{Powers: powers}
}

// Load builds a reference prover in scratchDir. The directory must already
// exist; the pool creates one per lease.
func Load(scratchDir string, hot *HotState, snapshot bool) (Handle, error) {
	if hot == nil || len(hot.Powers) == 0 {
		return nil, errors.New("kernel: hot state is empty")
	}
	if fi, err := os.Stat(scratchDir); err != nil {
		return nil, errors.Wrap(err, "kernel: scratch directory")
	} else if !fi.IsDir() {
		return nil, errors.Errorf("kernel: scratch path %s is not a directory", scratchDir)
	}

	p := &prover{
		hot:      hot,
		scratch:  scratchDir,
		snapshot: snapshot,
	}
	if snapshot {
		if err := p.writeCheckpoint(); err != nil {
			return nil, err
		}
	}
	return p, nil
}
