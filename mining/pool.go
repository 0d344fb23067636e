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

package mining

import (
	"log"
	"os"
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"github.com/powmine/minerd/kernel"
)

// PoolMax bounds the idle queue of the kernel pool.
const PoolMax = 8

// KernelLease is exclusive ownership of a loaded kernel and its scratch
// directory. A lease is either returned to the pool with Release, which
// keeps the scratch directory alive for the next holder, or destroyed,
// which deletes it.
type KernelLease struct {
	kernel     kernel.Handle
	scratchDir string
}

// Kernel returns the leased kernel handle.
func (l *KernelLease) Kernel() kernel.Handle {
	return l.kernel
}

func (l *KernelLease) destroy() {
	if err := os.RemoveAll(l.scratchDir); err != nil {
		log.Println("pool: removing scratch directory:", err)
	}
}

// KernelPool amortises kernel construction by keeping a bounded FIFO of
// idle leases. The queue mutex is held only for O(1) pops and pushes;
// kernel construction and use happen outside it.
type KernelPool struct {
	mu   sync.Mutex
	idle []*KernelLease

	hot      *kernel.HotState
	basePath string
	loader   kernel.Loader
	snapshot bool
}

// NewKernelPool builds a pool over basePath and pre-warms it with
// min(2*cores, PoolMax) instances. Individual warm-up failures are logged
// and skipped; the pool may start partially empty.
func NewKernelPool(basePath string, hot *kernel.HotState, loader kernel.Loader) *KernelPool {
	p := &KernelPool{
		hot:      hot,
		basePath: basePath,
		loader:   loader,
	}

	warm := 2 * runtime.NumCPU()
	if warm > PoolMax {
		warm = PoolMax
	}
	log.Println("pool: pre-warming kernel pool with", warm, "instances")
	for i := 0; i < warm; i++ {
		lease, err := p.createLease()
		if err != nil {
			log.Printf("pool: failed to create kernel instance %d: %+v", i, err)
			continue
		}
		p.idle = append(p.idle, lease)
	}
	log.Println("pool: kernel pool initialized with", len(p.idle), "instances")

	return p
}

// Lease pops the oldest idle lease, or constructs a fresh one on miss.
func (p *KernelPool) Lease() (*KernelLease, error) {
	p.mu.Lock()
	if len(p.idle) > 0 {
		lease := p.idle[0]
		p.idle = p.idle[1:]
		p.mu.Unlock()
		return lease, nil
	}
	p.mu.Unlock()

	return p.createLease()
}

// Release returns a lease to the idle queue, or destroys it when the queue
// is already at PoolMax.
func (p *KernelPool) Release(lease *KernelLease) {
	p.mu.Lock()
	if len(p.idle) < PoolMax {
		p.idle = append(p.idle, lease)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	lease.destroy()
}

// IdleLen reports the current idle queue length.
func (p *KernelPool) IdleLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

func (p *KernelPool) createLease() (*KernelLease, error) {
	scratchDir, err := os.MkdirTemp(p.basePath, "kernel-")
	if err != nil {
		return nil, errors.Wrap(err, "pool: creating scratch directory")
	}

	k, err := p.loader(scratchDir, p.hot, p.snapshot)
	if err != nil {
		if rmErr := os.RemoveAll(scratchDir); rmErr != nil {
			log.Println("pool: removing scratch directory:", rmErr)
		}
		return nil, errors.Wrap(err, "pool: loading kernel")
	}

	return &KernelLease{kernel: k, scratchDir: scratchDir}, nil
}
