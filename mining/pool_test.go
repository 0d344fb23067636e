package mining

import (
	"os"
	"sync"
	"testing"

	"github.com/pkg/errors"

	"github.com/powmine/minerd/kernel"
	"github.com/powmine/minerd/noun"
)

// countingLoader counts constructions and can be switched to fail.
type countingLoader struct {
	mu          sync.Mutex
	constructed int
	fail        bool
}

func (c *countingLoader) load(scratchDir string, hot *kernel.HotState, snapshot bool) (kernel.Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return nil, errors.New("loader down")
	}
	c.constructed++
	return nopKernel{}, nil
}

type nopKernel struct{}

func (nopKernel) Submit(tag string, candidate noun.Noun) ([]noun.Noun, error) {
	return nil, nil
}

func newTestPool(t *testing.T, loader *countingLoader) *KernelPool {
	t.Helper()
	return NewKernelPool(t.TempDir(), kernel.ProverHotState(), loader.load)
}

func TestPoolWarmsWithinBound(t *testing.T) {
	loader := &countingLoader{}
	pool := newTestPool(t, loader)

	if n := pool.IdleLen(); n == 0 || n > PoolMax {
		t.Fatalf("warm pool has %d idle leases, want 1..%d", n, PoolMax)
	}
	if loader.constructed != pool.IdleLen() {
		t.Fatalf("constructed %d, idle %d", loader.constructed, pool.IdleLen())
	}
}

func TestPoolWarmupFailuresAreNotFatal(t *testing.T) {
	loader := &countingLoader{fail: true}
	pool := newTestPool(t, loader)

	if n := pool.IdleLen(); n != 0 {
		t.Fatalf("pool warmed %d leases with a failing loader", n)
	}
}

func TestPoolLeaseIsFIFO(t *testing.T) {
	loader := &countingLoader{}
	pool := newTestPool(t, loader)

	// Empty the warm queue so the next leases are freshly constructed.
	for pool.IdleLen() > 0 {
		if _, err := pool.Lease(); err != nil {
			t.Fatalf("Lease returned error: %v", err)
		}
	}

	first, err := pool.Lease()
	if err != nil {
		t.Fatalf("Lease returned error: %v", err)
	}
	second, err := pool.Lease()
	if err != nil {
		t.Fatalf("Lease returned error: %v", err)
	}
	if first == second {
		t.Fatalf("two concurrent leases share a handle")
	}

	pool.Release(first)
	pool.Release(second)

	// FIFO: the oldest returned lease comes back out first.
	if got, err := pool.Lease(); err != nil || got != first {
		t.Fatalf("Lease after release = %v, %v; want the first lease", got, err)
	}
	if got, err := pool.Lease(); err != nil || got != second {
		t.Fatalf("second Lease after release = %v, %v; want the second lease", got, err)
	}
}

func TestPoolCreatesOnMiss(t *testing.T) {
	loader := &countingLoader{}
	pool := newTestPool(t, loader)

	warm := pool.IdleLen()
	var leases []*KernelLease
	for i := 0; i < warm+2; i++ {
		l, err := pool.Lease()
		if err != nil {
			t.Fatalf("Lease %d returned error: %v", i, err)
		}
		leases = append(leases, l)
	}

	loader.mu.Lock()
	constructed := loader.constructed
	loader.mu.Unlock()
	if constructed != warm+2 {
		t.Fatalf("constructed %d kernels, want %d", constructed, warm+2)
	}

	for _, l := range leases {
		pool.Release(l)
	}
}

func TestPoolIdleNeverExceedsMax(t *testing.T) {
	loader := &countingLoader{}
	pool := newTestPool(t, loader)

	var leases []*KernelLease
	for i := 0; i < PoolMax+3; i++ {
		l, err := pool.Lease()
		if err != nil {
			t.Fatalf("Lease returned error: %v", err)
		}
		leases = append(leases, l)
	}
	for _, l := range leases {
		pool.Release(l)
	}

	if n := pool.IdleLen(); n != PoolMax {
		t.Fatalf("idle queue has %d leases, want %d", n, PoolMax)
	}

	// Excess releases destroy their scratch directories; idle ones keep
	// theirs on disk.
	alive := 0
	for _, l := range leases {
		if _, err := os.Stat(l.scratchDir); err == nil {
			alive++
		}
	}
	if alive != PoolMax {
		t.Fatalf("%d scratch directories on disk, want %d", alive, PoolMax)
	}
}

func TestPoolLeaseFailurePropagates(t *testing.T) {
	loader := &countingLoader{}
	pool := newTestPool(t, loader)

	// Drain the warm pool, then break the loader.
	for pool.IdleLen() > 0 {
		if _, err := pool.Lease(); err != nil {
			t.Fatalf("Lease returned error: %v", err)
		}
	}
	loader.mu.Lock()
	loader.fail = true
	loader.mu.Unlock()

	if _, err := pool.Lease(); err == nil {
		t.Fatalf("Lease expected error from failing loader")
	}
}
