package tournament

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"WordDice/internal/battle"
)

// LocalExecutor 在当前进程内用 errgroup 并发执行对局。
type LocalExecutor struct {
	engine  *battle.Engine
	workers int
}

func NewLocalExecutor(engine *battle.Engine, workers int) *LocalExecutor {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &LocalExecutor{engine: engine, workers: workers}
}

func (l *LocalExecutor) Execute(ctx context.Context, matchups []Matchup) ([]Result, error) {
	results := make([]Result, len(matchups))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for i := range matchups {
		m := matchups[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := Play(l.engine, m)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
