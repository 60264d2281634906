//go:build soak

package convert

import (
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/masceron/Hanvi/internal/charmap"
	"github.com/masceron/Hanvi/internal/dictionary"
)

func soakFixture() *Converter {
	cm := charmap.New()
	cm.SetSVReadings(map[rune]string{
		'你': "nhi", '好': "hao", '吗': "ma", '的': "de", '是': "thi", '不': "bat", '了': "lieu",
	})
	cm.SetPunctuations(map[rune]rune{'。': '.', '，': ','})
	dict := dictionary.New()
	dict.Insert("你好", dictionary.PriorityPhrase, "Hello")
	dict.Insert("你好吗", dictionary.PriorityPhrase, "How are you")
	dict.Insert("刘备", dictionary.PriorityName, "Luu Bi")
	dict.InsertRule("「", "」", "\"", "\"")
	return New(dict, dictionary.NewNameSet(), cm)
}

var soakSamples = []string{
	"你好吗。",
	"「你好」是不是的了。",
	"刘备说你好，你好吗？",
	"你好你好你好你好的了。",
}

// TestSoakConvertMemoryStability repeatedly converts a small fixed corpus
// and checks that neither heap growth nor goroutine count drifts upward,
// the way a long-lived IPC server repeatedly handling convert requests
// would be expected to behave. Run explicitly with -tags soak; excluded
// from the default test run because it is slow and timing-sensitive.
func TestSoakConvertMemoryStability(t *testing.T) {
	c := soakFixture()

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	const iterations = 5000
	for i := 0; i < iterations; i++ {
		for _, sample := range soakSamples {
			_ = c.Convert(sample, nil)
		}
	}

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)
	finalGoroutines := runtime.NumGoroutine()

	totalOps := iterations * len(soakSamples)
	memDelta := int64(final.Alloc) - int64(baseline.Alloc)
	memPerOp := float64(memDelta) / float64(totalOps)
	goroutineDelta := finalGoroutines - baselineGoroutines

	t.Logf("ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d", totalOps, memDelta, memPerOp, goroutineDelta)

	if goroutineDelta > 2 {
		t.Errorf("goroutine leak detected: delta=%d", goroutineDelta)
	}
	if memPerOp > 2000 {
		t.Errorf("excessive retained memory per conversion: %.2f bytes", memPerOp)
	}
}

// TestSoakConvertConcurrent exercises Convert from many goroutines at once
// against one shared, read-only Converter, matching the concurrency
// contract in SPEC_FULL.md: a Converter and its collaborators may be read
// concurrently by any number of conversions as long as nothing mutates
// them mid-flight.
func TestSoakConvertConcurrent(t *testing.T) {
	c := soakFixture()

	const workers = 8
	const perWorker = 2000
	var wg sync.WaitGroup
	errs := make(chan string, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				sample := soakSamples[i%len(soakSamples)]
				result := c.Convert(sample, nil)
				if result.CN == "" {
					errs <- fmt.Sprintf("worker %d: empty cn output for %q", worker, sample)
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}
