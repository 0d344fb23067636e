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
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// WorkerStats is one worker's attempt history.
type WorkerStats struct {
	WorkerID    int
	Attempts    uint64
	Successes   uint64
	LastAttempt time.Time
	AvgAttempt  time.Duration
}

// MiningStats collects attempt counters across all workers. The scalar
// counters are lock-free atomics on the hot path; per-worker records and
// the timestamps sit behind a mutex.
type MiningStats struct {
	startTime time.Time

	totalAttempts    atomic.Uint64
	successfulBlocks atomic.Uint64
	failedAttempts   atomic.Uint64
	activeWorkers    atomic.Uint32

	mu         sync.Mutex
	lastBlock  time.Time
	avgAttempt time.Duration
	workers    []WorkerStats
}

// NewMiningStats builds stats for numWorkers workers.
func NewMiningStats(numWorkers int) *MiningStats {
	s := &MiningStats{
		startTime: time.Now(),
		workers:   make([]WorkerStats, numWorkers),
	}
	for i := range s.workers {
		s.workers[i].WorkerID = i
	}
	s.activeWorkers.Store(uint32(numWorkers))
	return s
}

// RecordAttempt records one completed attempt. Call exactly once per
// attempt, successful or not.
func (s *MiningStats) RecordAttempt(workerID int, d time.Duration, success bool) {
	total := s.totalAttempts.Add(1)
	if success {
		s.successfulBlocks.Add(1)
	} else {
		s.failedAttempts.Add(1)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if success {
		s.lastBlock = time.Now()
	}

	// Global running mean over every attempt seen so far.
	s.avgAttempt = time.Duration((int64(s.avgAttempt)*int64(total-1) + int64(d)) / int64(total))

	if workerID < 0 || workerID >= len(s.workers) {
		return
	}
	w := &s.workers[workerID]
	w.Attempts++
	if success {
		w.Successes++
	}
	w.LastAttempt = time.Now()
	w.AvgAttempt = time.Duration((int64(w.AvgAttempt)*int64(w.Attempts-1) + int64(d)) / int64(w.Attempts))
}

// TotalAttempts returns the global attempt counter.
func (s *MiningStats) TotalAttempts() uint64 { return s.totalAttempts.Load() }

// SuccessfulBlocks returns the global success counter.
func (s *MiningStats) SuccessfulBlocks() uint64 { return s.successfulBlocks.Load() }

// FailedAttempts returns the global failure counter.
func (s *MiningStats) FailedAttempts() uint64 { return s.failedAttempts.Load() }

// ActiveWorkers returns the worker count fixed at startup.
func (s *MiningStats) ActiveWorkers() uint32 { return s.activeWorkers.Load() }

// Workers returns a snapshot copy of the per-worker records.
func (s *MiningStats) Workers() []WorkerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]WorkerStats, len(s.workers))
	copy(out, s.workers)
	return out
}

// Summary renders the global counters for the periodic display. Counter
// pairs may be slightly inconsistent relative to each other; the summary
// is informational only.
func (s *MiningStats) Summary() string {
	uptime := time.Since(s.startTime)
	total := s.totalAttempts.Load()
	blocks := s.successfulBlocks.Load()
	failed := s.failedAttempts.Load()

	successRate := 0.0
	if total > 0 {
		successRate = float64(blocks) / float64(total) * 100
	}
	attemptsPerSec := 0.0
	if uptime > 0 {
		attemptsPerSec = float64(total) / uptime.Seconds()
	}

	s.mu.Lock()
	lastBlock := s.lastBlock
	avg := s.avgAttempt
	s.mu.Unlock()

	lastBlockStr := "never"
	if !lastBlock.IsZero() {
		lastBlockStr = fmt.Sprintf("%.1fs ago", time.Since(lastBlock).Seconds())
	}

	return fmt.Sprintf(
		"uptime %.1fs attempts %d blocks %d failed %d rate %.2f%% attempts/sec %.2f workers %d avg %.3fs last block %s",
		uptime.Seconds(), total, blocks, failed, successRate, attemptsPerSec,
		s.activeWorkers.Load(), avg.Seconds(), lastBlockStr,
	)
}

// WorkerTable renders one line per worker.
func (s *MiningStats) WorkerTable() string {
	var sb strings.Builder
	for _, w := range s.Workers() {
		rate := 0.0
		if w.Attempts > 0 {
			rate = float64(w.Successes) / float64(w.Attempts) * 100
		}
		last := "never"
		if !w.LastAttempt.IsZero() {
			last = fmt.Sprintf("%.1fs ago", time.Since(w.LastAttempt).Seconds())
		}
		fmt.Fprintf(&sb, "worker %d: %d attempts, %d blocks (%.1f%%), avg %.3fs, last %s\n",
			w.WorkerID, w.Attempts, w.Successes, rate, w.AvgAttempt.Seconds(), last)
	}
	return sb.String()
}

// Header returns the CSV column names for the stats log.
func (s *MiningStats) Header() []string {
	return []string{"UptimeSec", "TotalAttempts", "SuccessfulBlocks", "FailedAttempts", "ActiveWorkers", "AvgAttemptSec"}
}

// ToSlice returns one CSV row of the current counters, aligned with Header.
func (s *MiningStats) ToSlice() []string {
	s.mu.Lock()
	avg := s.avgAttempt
	s.mu.Unlock()

	return []string{
		fmt.Sprintf("%.1f", time.Since(s.startTime).Seconds()),
		fmt.Sprint(s.totalAttempts.Load()),
		fmt.Sprint(s.successfulBlocks.Load()),
		fmt.Sprint(s.failedAttempts.Load()),
		fmt.Sprint(s.activeWorkers.Load()),
		fmt.Sprintf("%.3f", avg.Seconds()),
	}
}
