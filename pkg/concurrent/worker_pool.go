package concurrent

import (
	"context"
	"iter"
	"sync"
)

type JobFunc[T, G any] func(job T) G

// WorkerPool runs jobFunc on a fixed number of goroutines. Results come out of Results() in
// completion order, not submission order.
type WorkerPool[T, G any] struct {
	workers   int
	jobC      chan T
	resultC   chan G
	waitGroup sync.WaitGroup
	jobFunc   JobFunc[T, G]
	closeOnce sync.Once
}

func NewWorkerPool[T, G any](workers, buffer int, jobFunc JobFunc[T, G]) *WorkerPool[T, G] {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool[T, G]{
		workers: workers,
		jobC:    make(chan T, buffer),
		resultC: make(chan G, buffer),
		jobFunc: jobFunc,
	}
}

// Start spawns the workers. Once ctx is done, workers discard the jobs left in the queue.
func (wp *WorkerPool[T, G]) Start(ctx context.Context) {
	wp.waitGroup.Add(wp.workers)
	for i := 0; i < wp.workers; i++ {
		go func() {
			defer wp.waitGroup.Done()
			for job := range wp.jobC {
				if ctx.Err() != nil {
					continue
				}
				res := wp.jobFunc(job)
				select {
				case wp.resultC <- res:
				case <-ctx.Done():
				}
			}
		}()
	}
}

// Submit queues a job. It returns false when ctx is done before the job was accepted.
func (wp *WorkerPool[T, G]) Submit(ctx context.Context, job T) bool {
	select {
	case <-ctx.Done():
		return false
	case wp.jobC <- job:
		return true
	}
}

func (wp *WorkerPool[T, G]) Results() <-chan G {
	return wp.resultC
}

// Close stops accepting jobs, waits for the workers and closes Results().
func (wp *WorkerPool[T, G]) Close() {
	wp.closeOnce.Do(func() {
		close(wp.jobC)
		wp.waitGroup.Wait()
		close(wp.resultC)
	})
}

// ParMap applies f to every value of in on a pool of workers goroutines. in is consumed on a
// separate goroutine. Output order is unspecified.
func ParMap[T, G any](ctx context.Context, in iter.Seq[T], workers int, f func(T) G) iter.Seq[G] {
	return func(yield func(G) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		pool := NewWorkerPool(workers, workers*2, JobFunc[T, G](f))
		pool.Start(ctx)

		go func() {
			defer pool.Close()
			for v := range in {
				if !pool.Submit(ctx, v) {
					return
				}
			}
		}()

		for res := range pool.Results() {
			if !yield(res) {
				cancel()
				for range pool.Results() {
				}
				return
			}
		}
	}
}
