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
	"io"
	"log"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/powmine/minerd/kernel"
	"github.com/powmine/minerd/noun"
)

// workerQueueDepth is the per-worker candidate buffer. Backpressure policy:
// N-way round-robin dispatch; a full queue counts as a failed send and the
// candidate is dropped.
const workerQueueDepth = 512

// Key-setup pokes are transient failures: retried with back-off, never
// fatal. Variables so the tests can shrink the back-off.
var (
	keySetupAttempts = 3
	keySetupBackoff  = 5 * time.Second
)

// DriverConfig configures one mining driver.
type DriverConfig struct {
	// Configs is the mining key configuration set. Nil means "do not
	// mine": the driver pokes enable-mining off and exits.
	Configs []MiningKeyConfig
	// Mine enables the mining loop after key setup.
	Mine bool
	// InitComplete, when non-nil, is closed once startup pokes are done.
	InitComplete chan<- struct{}

	// NumWorkers overrides the worker count; 0 means min(cores, 8).
	NumWorkers int
	// StatsInterval overrides the display period; 0 means 30s.
	StatsInterval time.Duration
	// StatsLog/StatsPeriod configure the CSV stats logger; empty path
	// disables it.
	StatsLog    string
	StatsPeriod int

	// test seams
	loader kernel.Loader
	hot    *kernel.HotState
	stats  *MiningStats
}

// DriverFn runs the mining driver against a node handle until the node's
// effect stream closes or a mined poke fails.
type DriverFn func(handle NodeHandle) error

// CreateMiningDriver builds the driver function for cfg.
func CreateMiningDriver(cfg DriverConfig) DriverFn {
	return func(handle NodeHandle) error {
		return runMiningDriver(cfg, handle)
	}
}

func runMiningDriver(cfg DriverConfig, handle NodeHandle) error {
	if cfg.Configs == nil {
		if err := handle.Poke(Enable.ToWire(), enableMiningPoke(false)); err != nil {
			return errors.Wrap(err, "driver: disabling mining")
		}
		signalInit(cfg.InitComplete)
		return nil
	}

	mine := cfg.Mine
	if err := setupMiningKey(cfg.Configs, handle); err != nil {
		log.Printf("driver: mining key setup failed, mining stays disabled: %+v", err)
		mine = false
	}
	if err := pokeWithRetry(handle, Enable.ToWire(), enableMiningPoke(mine), "enable-mining"); err != nil {
		log.Printf("driver: enable-mining poke failed, mining stays disabled: %+v", err)
		mine = false
	}

	signalInit(cfg.InitComplete)

	if !mine {
		return nil
	}

	numWorkers := cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = min(runtime.NumCPU(), PoolMax)
	}
	stats := cfg.stats
	if stats == nil {
		stats = NewMiningStats(numWorkers)
	}
	hot := cfg.hot
	if hot == nil {
		hot = kernel.ProverHotState()
	}
	loader := cfg.loader
	if loader == nil {
		loader = kernel.Load
	}

	// The base snapshot directory is leaked deliberately; scratch
	// directories inside it come and go with their leases.
	basePath, err := os.MkdirTemp("", "miner-snapshots-")
	if err != nil {
		return errors.Wrap(err, "driver: creating snapshot base directory")
	}
	pool := NewKernelPool(basePath, hot, loader)

	done := make(chan struct{})
	defer close(done)

	results := make(chan noun.Noun, 64)
	workerChs := make([]chan noun.Noun, numWorkers)
	var wg sync.WaitGroup
	log.Println("driver: starting", numWorkers, "mining workers")
	for id := 0; id < numWorkers; id++ {
		workerChs[id] = make(chan noun.Noun, workerQueueDepth)
		wg.Add(1)
		go func(id int, candidates <-chan noun.Noun) {
			defer wg.Done()
			miningWorker(id, candidates, results, done, pool, stats)
		}(id, workerChs[id])
	}

	statsInterval := cfg.StatsInterval
	if statsInterval <= 0 {
		statsInterval = 30 * time.Second
	}
	go StatsDisplay(stats, statsInterval, done)
	go StatsLogger(stats, cfg.StatsLog, cfg.StatsPeriod, done)

	// Pump the pull-based effect stream into a channel so the main loop
	// can select over it alongside worker results.
	effectsCh := make(chan noun.Noun)
	effectsErr := make(chan error, 1)
	go func() {
		for {
			effect, err := handle.NextEffect()
			if err != nil {
				effectsErr <- err
				return
			}
			select {
			case effectsCh <- effect:
			case <-done:
				return
			}
		}
	}()

	cursor := 0
	for {
		select {
		case effect := <-effectsCh:
			cell, ok := effect.(*noun.Cell)
			if !ok || !noun.EqBytes(cell.Head, "mine") {
				continue
			}
			// Clone the tail into a fresh owned candidate.
			candidate := noun.Copy(cell.Tail)
			select {
			case workerChs[cursor] <- candidate:
			default:
				log.Println("driver: worker", cursor, "queue full, dropping candidate")
			}
			cursor = (cursor + 1) % numWorkers

		case err := <-effectsErr:
			if err != io.EOF {
				log.Printf("driver: effect stream closed: %+v", err)
			}
			return drainWorkers(handle, workerChs, results, &wg)

		case result := <-results:
			if err := handle.Poke(Mined.ToWire(), result); err != nil {
				return errors.Wrap(err, "driver: could not poke node with mined proof")
			}
		}
	}
}

// drainWorkers closes the candidate channels, lets in-flight attempts run
// to completion, and delivers every remaining result before returning.
func drainWorkers(handle NodeHandle, workerChs []chan noun.Noun, results chan noun.Noun, wg *sync.WaitGroup) error {
	for _, ch := range workerChs {
		close(ch)
	}
	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	for {
		select {
		case result := <-results:
			if err := handle.Poke(Mined.ToWire(), result); err != nil {
				return errors.Wrap(err, "driver: could not poke node with mined proof")
			}
		case <-finished:
			for {
				select {
				case result := <-results:
					if err := handle.Poke(Mined.ToWire(), result); err != nil {
						return errors.Wrap(err, "driver: could not poke node with mined proof")
					}
				default:
					return nil
				}
			}
		}
	}
}

// setupMiningKey emits the key-setup poke for the configuration set: the
// plain form for a single 1-of-1 single-key entry, the advanced form for
// everything else.
func setupMiningKey(configs []MiningKeyConfig, handle NodeHandle) error {
	if len(configs) == 1 && configs[0].Share == 1 && configs[0].M == 1 && len(configs[0].Keys) == 1 {
		return pokeWithRetry(handle, SetPubKey.ToWire(), setMiningKeyPoke(configs[0].Keys[0]), "set-mining-key")
	}
	return pokeWithRetry(handle, SetPubKey.ToWire(), setMiningKeyAdvancedPoke(configs), "set-mining-key-advanced")
}

func pokeWithRetry(handle NodeHandle, w WireRepr, payload noun.Noun, what string) error {
	var err error
	for attempt := 1; attempt <= keySetupAttempts; attempt++ {
		log.Printf("driver: %s attempt %d/%d", what, attempt, keySetupAttempts)
		if err = handle.Poke(w, payload); err == nil {
			return nil
		}
		log.Printf("driver: %s failed: %+v", what, err)
		if attempt < keySetupAttempts {
			time.Sleep(keySetupBackoff)
		}
	}
	return err
}

func signalInit(initComplete chan<- struct{}) {
	if initComplete != nil {
		close(initComplete)
	}
}
