package leaktest

import (
	"sync"
	"testing"
	"time"
)

type recordingTB struct {
	testing.TB
	failed bool
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Errorf(string, ...any) { r.failed = true }

func TestCheckNoGoroutineLeak_JoinedGoroutines(t *testing.T) {
	CheckNoGoroutineLeak(t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				time.Sleep(time.Millisecond)
			}()
		}
		wg.Wait()
	})
}

func TestGoroutineChecker_Tolerance(t *testing.T) {
	checker := NewGoroutineChecker(t)
	done := make(chan struct{})
	go func() { <-done }()

	checker.Check(1)
	close(done)
}

func TestGoroutineChecker_ReportsLeak(t *testing.T) {
	rec := &recordingTB{TB: t}
	checker := NewGoroutineChecker(rec)
	done := make(chan struct{})
	defer close(done)
	go func() { <-done }()

	checker.Check(0)
	if !rec.failed {
		t.Fatal("expected a leak to be reported")
	}
}
