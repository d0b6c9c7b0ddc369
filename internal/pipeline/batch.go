package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/go-scripts/elementscan/internal/queue"
)

// BatchObserver is told when each job starts and finishes. Calls may come
// from several goroutines at once.
type BatchObserver interface {
	Start(url string)
	Finish(url string, err error)
}

// RunBatch runs jobs with at most limit sessions open at a time. Each job
// gets its own session and report file; two jobs naming the same output
// path are rejected before anything runs. A failed job does not stop the
// others. Results come back in job order.
func (p *Pipeline) RunBatch(ctx context.Context, jobs []Job, limit int, obs BatchObserver) ([]Result, error) {
	q := queue.New(func(j Job) string { return j.Output })
	for _, j := range jobs {
		if err := q.Add(j); err != nil {
			return nil, err
		}
	}

	index := make(map[Job]int, len(jobs))
	for i, j := range jobs {
		index[j] = i
	}

	if limit < 1 {
		limit = 1
	}
	p.logger.Info("batch queued", "jobs", q.Len(), "reports", q.ClaimedCount(), "limit", limit)

	var g errgroup.Group
	g.SetLimit(limit)

	results := make([]Result, len(jobs))
	for job, ok := q.Next(); ok; job, ok = q.Next() {
		g.Go(func() error {
			if obs != nil {
				obs.Start(job.URL)
			}
			res := p.Run(ctx, job)
			if obs != nil {
				obs.Finish(job.URL, res.Err)
			}
			results[index[job]] = res
			return nil
		})
	}
	err := g.Wait()
	return results, err
}
