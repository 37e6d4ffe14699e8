package mysql

import (
	"encoding/json"
	"strings"
	"time"

	"WordDice/internal/storage"
	"WordDice/internal/tournament"
)

// ReportModel 对应 tournament_report 表；完整报告以 JSON 存在 payload 列。
type ReportModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement:false"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	Words     string    `gorm:"column:words;type:varchar(1024)"`
	Trials    int       `gorm:"column:trials"`
	Seed      uint64    `gorm:"column:seed"`
	Battles   int       `gorm:"column:battles"`
	Payload   string    `gorm:"column:payload;type:longtext"`
}

func (ReportModel) TableName() string {
	return storage.TableName
}

func toModel(r *tournament.Report) (ReportModel, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return ReportModel{}, err
	}
	return ReportModel{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Words:     strings.Join(r.Words, ","),
		Trials:    r.Trials,
		Seed:      r.Seed,
		Battles:   r.Battles,
		Payload:   string(raw),
	}, nil
}

func (m ReportModel) toReport() (*tournament.Report, error) {
	var r tournament.Report
	if err := json.Unmarshal([]byte(m.Payload), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (m ReportModel) toSummary() tournament.Summary {
	var words []string
	if m.Words != "" {
		words = strings.Split(m.Words, ",")
	}
	return tournament.Summary{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		Words:     words,
		Trials:    m.Trials,
		Seed:      m.Seed,
		Battles:   m.Battles,
	}
}
