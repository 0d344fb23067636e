package mining

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestRecordAttemptCounters(t *testing.T) {
	s := NewMiningStats(2)

	s.RecordAttempt(0, 100*time.Millisecond, true)
	s.RecordAttempt(0, 200*time.Millisecond, false)
	s.RecordAttempt(1, 300*time.Millisecond, false)

	if got := s.TotalAttempts(); got != 3 {
		t.Fatalf("TotalAttempts = %d, want 3", got)
	}
	if got := s.SuccessfulBlocks(); got != 1 {
		t.Fatalf("SuccessfulBlocks = %d, want 1", got)
	}
	if got := s.FailedAttempts(); got != 2 {
		t.Fatalf("FailedAttempts = %d, want 2", got)
	}
	if got := s.ActiveWorkers(); got != 2 {
		t.Fatalf("ActiveWorkers = %d, want 2", got)
	}
}

func TestRecordAttemptWorkerAverages(t *testing.T) {
	s := NewMiningStats(1)

	s.RecordAttempt(0, 100*time.Millisecond, false)
	s.RecordAttempt(0, 300*time.Millisecond, true)

	w := s.Workers()[0]
	if w.Attempts != 2 || w.Successes != 1 {
		t.Fatalf("worker record = %+v", w)
	}
	// Running mean of 100ms and 300ms.
	if w.AvgAttempt != 200*time.Millisecond {
		t.Fatalf("AvgAttempt = %v, want 200ms", w.AvgAttempt)
	}
	if w.LastAttempt.IsZero() {
		t.Fatalf("LastAttempt not recorded")
	}
}

func TestRecordAttemptOutOfRangeWorker(t *testing.T) {
	s := NewMiningStats(1)
	// Global counters still move; the per-worker table is untouched.
	s.RecordAttempt(7, time.Second, true)
	if s.TotalAttempts() != 1 {
		t.Fatalf("TotalAttempts = %d", s.TotalAttempts())
	}
	if w := s.Workers()[0]; w.Attempts != 0 {
		t.Fatalf("worker 0 attempts = %d, want 0", w.Attempts)
	}
}

func TestSnapshotsAreConcurrencySafe(t *testing.T) {
	s := NewMiningStats(4)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				s.RecordAttempt(w, time.Millisecond, i%10 == 0)
			}
		}(w)
	}
	for i := 0; i < 50; i++ {
		_ = s.Summary()
		_ = s.WorkerTable()
		_ = s.ToSlice()
	}
	wg.Wait()

	if got := s.TotalAttempts(); got != 2000 {
		t.Fatalf("TotalAttempts = %d, want 2000", got)
	}
}

func TestCSVRowMatchesHeader(t *testing.T) {
	s := NewMiningStats(2)
	s.RecordAttempt(0, time.Second, true)

	header := s.Header()
	row := s.ToSlice()
	if len(header) != len(row) {
		t.Fatalf("header has %d columns, row has %d", len(header), len(row))
	}
}

func TestSummaryBeforeFirstBlock(t *testing.T) {
	s := NewMiningStats(1)
	if got := s.Summary(); !strings.Contains(got, "last block never") {
		t.Fatalf("Summary = %q, want last block never", got)
	}

	s.RecordAttempt(0, time.Millisecond, true)
	if got := s.Summary(); strings.Contains(got, "never") {
		t.Fatalf("Summary still reports never after a block: %q", got)
	}
}
