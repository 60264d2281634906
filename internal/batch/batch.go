/*
Package batch runs per-file conversions concurrently across a bounded
worker pool, the way the CLI runner processes a whole folder of input
files. Workers drain a shared channel of jobs, and progress/log lines are
serialized behind a mutex so concurrent workers don't interleave partial
lines on stdout.
*/
package batch

import (
	"sync"

	"github.com/masceron/Hanvi/internal/logger"
)

var log = logger.New("batch")

// Job is one unit of work: a source path and the function that converts it.
type Job struct {
	Name string
	Run  func() error
}

// Result pairs a Job's name with whatever error its Run returned.
type Result struct {
	Name string
	Err  error
}

// Run executes jobs across a pool of at most workers goroutines (at least
// 1), returning one Result per job once every job has completed. Log lines
// emitted by the pool itself are serialized; callers logging from within a
// Job.Run should do the same if they log directly instead of returning an
// error.
func Run(jobs []Job, workers int) []Result {
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(jobs))

	var logMu sync.Mutex
	var wg sync.WaitGroup

	indexed := make(chan indexedJob)
	go func() {
		for i, j := range jobs {
			indexed <- indexedJob{index: i, job: j}
		}
		close(indexed)
	}()

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for ij := range indexed {
				err := ij.job.Run()
				results[ij.index] = Result{Name: ij.job.Name, Err: err}

				logMu.Lock()
				if err != nil {
					log.Errorf("worker %d: %s failed: %v", worker, ij.job.Name, err)
				} else {
					log.Infof("worker %d: converted %s", worker, ij.job.Name)
				}
				logMu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return results
}

type indexedJob struct {
	index int
	job   Job
}
