package storage

import (
	"context"

	"WordDice/internal/tournament"
)

const (
	DriverMemory  = "memory"
	DriverMySQL   = "mysql"
	DriverMongoDB = "mongodb"

	// TableName 同时用作 MySQL 表名和 MongoDB 集合名。
	TableName = "tournament_report"

	DefaultListLimit = 20
	MaxListLimit     = 200
)

// ReportRepository 保存锦标赛报告。报告写入后不再修改。
type ReportRepository interface {
	Save(ctx context.Context, r *tournament.Report) error
	Get(ctx context.Context, id int64) (*tournament.Report, error)
	// List 按创建时间倒序返回最近的 limit 条摘要。
	List(ctx context.Context, limit int) ([]tournament.Summary, error)
}

// NormalizeLimit 把 limit 限制在 [1, MaxListLimit]，0 或负数取默认值。
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}
