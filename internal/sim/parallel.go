package sim

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Job is one independent run in a comparison. Each job owns its model and
// metrics; nothing is shared between jobs.
type Job struct {
	Name    string
	Model   Model
	Metrics []Metric
}

// Compare runs every job concurrently with the same config. Results are
// returned in job order. The first failing job cancels the others.
func Compare(ctx context.Context, jobs []Job, cfg Config, logger *zap.Logger) ([]*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]*Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			s := New(job.Model,
				WithLogger(logger.With(zap.String("job", job.Name))),
				WithMetrics(job.Metrics...))

			res, err := s.Run(ctx, cfg)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
