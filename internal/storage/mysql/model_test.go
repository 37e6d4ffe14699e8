package mysql

import (
	"reflect"
	"testing"
	"time"

	"WordDice/internal/rules"
	"WordDice/internal/tournament"
)

func sampleReport() *tournament.Report {
	half := 0.5
	return &tournament.Report{
		ID:        42,
		CreatedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		Words:     []string{"KING", "HEX"},
		Trials:    2,
		Seed:      1<<63 + 5,
		Battles:   4,
		Groups:    []tournament.GroupSummary{{Group: rules.Group(6), Name: "arcane", Wins: 1, Appearances: 2, WinRate: 0.5}},
		Matrix: tournament.Matrix{
			Words:     []string{"KING", "HEX"},
			Wins:      [][]int{{0, 1}, {1, 0}},
			AvgDamage: [][]*float64{{nil, &half}, {&half, nil}},
			AvgRounds: [][]*float64{{nil, &half}, {&half, nil}},
		},
	}
}

func TestReportModel_保留完整报告(t *testing.T) {
	rep := sampleReport()
	m, err := toModel(rep)
	if err != nil {
		t.Fatalf("toModel err=%v", err)
	}
	if m.TableName() != "tournament_report" || m.Words != "KING,HEX" || m.Seed != rep.Seed {
		t.Fatalf("model=%+v", m)
	}

	back, err := m.toReport()
	if err != nil {
		t.Fatalf("toReport err=%v", err)
	}
	if !reflect.DeepEqual(back, rep) {
		t.Fatalf("报告内容不一致:\n got=%+v\nwant=%+v", back, rep)
	}

	s := m.toSummary()
	if s.ID != 42 || len(s.Words) != 2 || s.Seed != rep.Seed {
		t.Fatalf("summary=%+v", s)
	}
}
