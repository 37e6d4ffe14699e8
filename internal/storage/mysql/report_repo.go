package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"WordDice/internal/storage"
	"WordDice/internal/tournament"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Migrate 建表或补齐列。
func (r *ReportRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&ReportModel{}); err != nil {
		return storage.ErrUnavailable.WithData("table", storage.TableName).WithCause(err)
	}
	return nil
}

func (r *ReportRepository) Save(ctx context.Context, rep *tournament.Report) error {
	if rep == nil {
		return nil
	}
	m, err := toModel(rep)
	if err != nil {
		return storage.ErrUnavailable.WithData("id", rep.ID).WithCause(err)
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return storage.ErrUnavailable.WithData("id", rep.ID).WithCause(err)
	}
	return nil
}

func (r *ReportRepository) Get(ctx context.Context, id int64) (*tournament.Report, error) {
	var m ReportModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 技术错误 → 业务错误
		return nil, storage.ErrReportNotFound.WithData("id", id)
	}
	if err != nil {
		return nil, storage.ErrUnavailable.WithData("id", id).WithCause(err)
	}
	rep, err := m.toReport()
	if err != nil {
		return nil, storage.ErrUnavailable.WithData("id", id).WithCause(err)
	}
	return rep, nil
}

func (r *ReportRepository) List(ctx context.Context, limit int) ([]tournament.Summary, error) {
	var rows []ReportModel
	err := r.db.WithContext(ctx).
		Select("id", "created_at", "words", "trials", "seed", "battles").
		Order("created_at DESC").Order("id DESC").
		Limit(storage.NormalizeLimit(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, storage.ErrUnavailable.WithData("limit", limit).WithCause(err)
	}
	out := make([]tournament.Summary, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toSummary())
	}
	return out, nil
}
