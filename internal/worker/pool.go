package worker

import (
	"context"
	"sync"

	"github.com/credlens/credlens/internal/model"
)

// AnalysisFunc runs the credibility analysis for one announcement
type AnalysisFunc func(ctx context.Context, id int64) (model.AnalysisSummary, error)

// AnalysisResult is the outcome of one analysis job
type AnalysisResult struct {
	AnnouncementID int64
	Summary        model.AnalysisSummary
	Err            error
}

// Pool runs announcement analyses on a fixed set of workers. Submitters get
// a single-result channel back, so a caller can wait with a deadline while
// the job keeps running if the caller gives up.
type Pool struct {
	workers  int
	run      AnalysisFunc
	jobQueue chan job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	once     sync.Once
}

type job struct {
	id   int64
	done chan AnalysisResult
}

// NewPool creates a pool with the specified number of workers
func NewPool(workers int, run AnalysisFunc) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers:  workers,
		run:      run,
		jobQueue: make(chan job, workers*2), // Buffered to prevent blocking
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the workers
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
		case j, ok := <-p.jobQueue:
			if !ok {
				return
			}
			summary, err := p.run(p.ctx, j.id)
			// done is buffered, delivery never blocks the worker
			j.done <- AnalysisResult{AnnouncementID: j.id, Summary: summary, Err: err}
		}
	}
}

// Submit queues an announcement for analysis and returns the channel its
// result will arrive on. After Shutdown the channel reports a cancellation
// error instead of hanging.
func (p *Pool) Submit(id int64) <-chan AnalysisResult {
	done := make(chan AnalysisResult, 1)
	// Checked first: the queue send below could also succeed against a
	// stopped pool, leaving the job to rot in the buffer.
	select {
	case <-p.ctx.Done():
		done <- AnalysisResult{AnnouncementID: id, Err: p.ctx.Err()}
		return done
	default:
	}
	select {
	case <-p.ctx.Done():
		done <- AnalysisResult{AnnouncementID: id, Err: p.ctx.Err()}
	case p.jobQueue <- job{id: id, done: done}:
	}
	return done
}

// RunBatch analyzes all the given announcements and blocks until every one
// has finished or ctx is cancelled. Results come back in completion order.
func (p *Pool) RunBatch(ctx context.Context, ids []int64) []AnalysisResult {
	channels := make([]<-chan AnalysisResult, 0, len(ids))
	for _, id := range ids {
		channels = append(channels, p.Submit(id))
	}

	results := make([]AnalysisResult, 0, len(ids))
	for i, ch := range channels {
		select {
		case r := <-ch:
			results = append(results, r)
		case <-ctx.Done():
			results = append(results, AnalysisResult{AnnouncementID: ids[i], Err: ctx.Err()})
		}
	}
	return results
}

// Shutdown stops the workers. In-flight jobs observe the cancelled context.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		p.cancel()
		p.wg.Wait()
	})
}
