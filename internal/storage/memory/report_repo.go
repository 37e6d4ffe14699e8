package memory

import (
	"context"
	"sort"
	"sync"

	"WordDice/internal/storage"
	"WordDice/internal/tournament"
)

type ReportRepository struct {
	mu      sync.RWMutex
	reports map[int64]*tournament.Report
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{reports: make(map[int64]*tournament.Report)}
}

func (r *ReportRepository) Save(ctx context.Context, rep *tournament.Report) error {
	_ = ctx
	if rep == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[rep.ID] = rep
	return nil
}

func (r *ReportRepository) Get(ctx context.Context, id int64) (*tournament.Report, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	rep, ok := r.reports[id]
	if !ok {
		return nil, storage.ErrReportNotFound.WithData("id", id)
	}
	return rep, nil
}

func (r *ReportRepository) List(ctx context.Context, limit int) ([]tournament.Summary, error) {
	_ = ctx
	limit = storage.NormalizeLimit(limit)

	r.mu.RLock()
	out := make([]tournament.Summary, 0, len(r.reports))
	for _, rep := range r.reports {
		out = append(out, rep.Summary())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
