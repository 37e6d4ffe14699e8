package app

import (
	"context"

	"WordDice/internal/tournament"
	"WordDice/modules/kit/logx"
)

type Logger = logx.Logger

type ReportRepository interface {
	Save(ctx context.Context, r *tournament.Report) error
	Get(ctx context.Context, id int64) (*tournament.Report, error)
	List(ctx context.Context, limit int) ([]tournament.Summary, error)
}

// IDGenerator 生成报告 ID，utils.Snowflake 满足该接口。
type IDGenerator interface {
	NextID() int64
}

// SeedSource 在请求未指定种子时提供随机种子。
type SeedSource func() uint64
