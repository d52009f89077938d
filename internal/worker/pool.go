package worker

import (
	"context"
	"sync"
)

// Pool runs policy-set extraction jobs on a fixed number of workers.
// Submit queues jobs, Wait drains the results after the last Submit,
// Shutdown cancels in-flight extractions immediately. The pool context
// derives from the caller's, so a batch timeout cancels running jobs.
type Pool struct {
	workers   int
	jobs      chan *ExtractJob
	results   chan *ExtractResult
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a pool of the given size.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	poolCtx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers: workers,
		jobs:    make(chan *ExtractJob, workers*2), // Buffered to prevent blocking
		results: make(chan *ExtractResult, workers*2),
		ctx:     poolCtx,
		cancel:  cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues an extraction job. Submitting after Shutdown is a no-op.
func (p *Pool) Submit(job *ExtractJob) {
	select {
	case <-p.ctx.Done():
		return
	case p.jobs <- job:
	}
}

// Wait closes the queue, waits for the workers to drain it, and returns
// every result.
func (p *Pool) Wait() []*ExtractResult {
	close(p.jobs)

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []*ExtractResult
	for result := range p.results {
		results = append(results, result)
	}

	return results
}

// Shutdown cancels in-flight extractions and releases the workers.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
