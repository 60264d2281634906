package batch

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestRunExecutesEveryJobAndReportsResults(t *testing.T) {
	var counter int32
	jobs := []Job{
		{Name: "a", Run: func() error { atomic.AddInt32(&counter, 1); return nil }},
		{Name: "b", Run: func() error { atomic.AddInt32(&counter, 1); return errors.New("boom") }},
		{Name: "c", Run: func() error { atomic.AddInt32(&counter, 1); return nil }},
	}

	results := Run(jobs, 2)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if int(atomic.LoadInt32(&counter)) != 3 {
		t.Fatalf("expected every job to run exactly once, ran %d times", counter)
	}

	byName := map[string]error{}
	for _, r := range results {
		byName[r.Name] = r.Err
	}
	if byName["a"] != nil || byName["c"] != nil {
		t.Fatalf("expected a and c to succeed: %+v", byName)
	}
	if byName["b"] == nil {
		t.Fatalf("expected b to report its error")
	}
}

func TestRunClampsWorkersToAtLeastOne(t *testing.T) {
	jobs := []Job{{Name: "only", Run: func() error { return nil }}}
	results := Run(jobs, 0)
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("unexpected results with 0 workers: %+v", results)
	}
}

func TestRunPreservesOutputSlotPerJob(t *testing.T) {
	jobs := make([]Job, 20)
	for i := range jobs {
		i := i
		jobs[i] = Job{Name: "job", Run: func() error {
			if i%2 == 0 {
				return nil
			}
			return errors.New("odd")
		}}
	}
	results := Run(jobs, 4)
	for i, r := range results {
		wantErr := i%2 != 0
		gotErr := r.Err != nil
		if gotErr != wantErr {
			t.Fatalf("result %d: err=%v, want err=%v", i, r.Err, wantErr)
		}
	}
}
