package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Pool запускает стадии параллельных задач. limit ограничивает число
// одновременно выполняемых задач одной стадии, 0 - без ограничений.
type Pool struct {
	logger *zap.Logger
	limit  int
}

func NewPool(logger *zap.Logger, limit int) *Pool {
	return &Pool{
		logger: logger,
		limit:  limit,
	}
}

// Group is one fan-out stage. The first failing task cancels the context
// handed to the others; Wait joins every task before returning that error.
type Group struct {
	eg     *errgroup.Group
	ctx    context.Context
	stage  string
	logger *zap.Logger
}

func (p *Pool) Group(ctx context.Context, stage string) *Group {
	eg, gctx := errgroup.WithContext(ctx)
	if p.limit > 0 {
		eg.SetLimit(p.limit)
	}
	return &Group{
		eg:     eg,
		ctx:    gctx,
		stage:  stage,
		logger: p.logger,
	}
}

// Spawn starts fn. With a limit set it blocks until a slot is free.
func (g *Group) Spawn(task string, fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if err := fn(g.ctx); err != nil {
			g.logger.Debug("task failed",
				zap.String("stage", g.stage),
				zap.String("task", task),
				zap.Error(err),
			)
			return fmt.Errorf("%s: %w", task, err)
		}
		return nil
	})
}

// Wait blocks until all spawned tasks return and reports the first error.
func (g *Group) Wait() error {
	return g.eg.Wait()
}

// Gather runs fn for i in [0, n) as one stage. The i-th result belongs to the
// i-th task regardless of completion order. Nothing is returned on failure.
func Gather[T any](ctx context.Context, p *Pool, stage string, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	results := make([]T, n)
	g := p.Group(ctx, stage)
	for i := 0; i < n; i++ {
		g.Spawn(fmt.Sprintf("%s[%d]", stage, i), func(ctx context.Context) error {
			v, err := fn(ctx, i)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
