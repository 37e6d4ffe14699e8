package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"WordDice/internal/storage"
	"WordDice/internal/tournament"
)

func TestReportRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		rep := &tournament.Report{ID: int64(i), CreatedAt: base.Add(time.Duration(i) * time.Minute), Words: []string{"KING", "HEX"}}
		if err := repo.Save(ctx, rep); err != nil {
			t.Fatalf("Save err=%v", err)
		}
	}

	got, err := repo.Get(ctx, 2)
	if err != nil || got.ID != 2 {
		t.Fatalf("Get got=%v err=%v", got, err)
	}

	_, err = repo.Get(ctx, 99)
	if !errors.Is(err, storage.ErrReportNotFound) {
		t.Fatalf("期望 ErrReportNotFound, got=%v", err)
	}

	list, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if len(list) != 2 || list[0].ID != 3 || list[1].ID != 2 {
		t.Fatalf("应按创建时间倒序: %+v", list)
	}
}

func TestNormalizeLimit(t *testing.T) {
	if storage.NormalizeLimit(0) != storage.DefaultListLimit {
		t.Fatalf("0 应取默认值")
	}
	if storage.NormalizeLimit(10_000) != storage.MaxListLimit {
		t.Fatalf("超出上限应截断")
	}
	if storage.NormalizeLimit(5) != 5 {
		t.Fatalf("合法值应原样返回")
	}
}
