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
	"time"

	"github.com/fatih/color"

	"github.com/powmine/minerd/noun"
)

// miningWorker consumes candidates until its channel closes. Each attempt
// leases one kernel, submits the candidate, and forwards the first
// "command" effect to the shared result channel. The worker exits cleanly
// when done closes under it mid-send.
func miningWorker(id int, candidates <-chan noun.Noun, results chan<- noun.Noun, done <-chan struct{}, pool *KernelPool, stats *MiningStats) {
	log.Println("mining worker", id, "started")

	for candidate := range candidates {
		start := time.Now()
		result := miningAttempt(id, candidate, pool)
		duration := time.Since(start)

		stats.RecordAttempt(id, duration, result != nil)

		if result == nil {
			continue
		}
		color.Green("worker %d found a block in %.3fs", id, duration.Seconds())
		select {
		case results <- result:
		case <-done:
			log.Println("mining worker", id, "stopped: driver gone")
			return
		}
	}

	log.Println("mining worker", id, "stopped")
}

// miningAttempt runs one attempt. Kernel construction or submission
// failures are logged and yield no result; the kernel is returned to the
// pool whenever one was obtained.
func miningAttempt(id int, candidate noun.Noun, pool *KernelPool) noun.Noun {
	lease, err := pool.Lease()
	if err != nil {
		log.Printf("worker %d: no kernel for attempt: %+v", id, err)
		return nil
	}

	effects, err := lease.Kernel().Submit(Candidate.Verb(), candidate)
	pool.Release(lease)
	if err != nil {
		log.Printf("worker %d: mining attempt failed: %+v", id, err)
		return nil
	}

	// Only the first command effect per attempt is a result.
	for _, effect := range effects {
		if head, err := noun.Head(effect); err == nil && noun.EqBytes(head, "command") {
			return effect
		}
	}
	return nil
}
