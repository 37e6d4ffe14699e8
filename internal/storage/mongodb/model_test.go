package mongodb

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"WordDice/internal/tournament"
)

func TestReportDoc_bson往返(t *testing.T) {
	two := 2.0
	rep := &tournament.Report{
		ID:        7,
		CreatedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Words:     []string{"JINX", "QUEST"},
		Trials:    1,
		Seed:      1<<64 - 1,
		Battles:   2,
		Draws:     1,
		Groups:    []tournament.GroupSummary{{Group: 7, Name: "elite", Wins: 1, Appearances: 2, WinRate: 0.5}},
		Matrix: tournament.Matrix{
			Words:     []string{"JINX", "QUEST"},
			Wins:      [][]int{{0, 1}, {0, 0}},
			AvgDamage: [][]*float64{{nil, &two}, {&two, nil}},
			AvgRounds: [][]*float64{{nil, &two}, {&two, nil}},
		},
	}

	raw, err := bson.Marshal(ReportToDoc(rep))
	if err != nil {
		t.Fatalf("marshal err=%v", err)
	}
	var doc ReportDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal err=%v", err)
	}
	if doc.Seed != "18446744073709551615" {
		t.Fatalf("seed=%s", doc.Seed)
	}

	back := DocToReport(doc)
	back.CreatedAt = back.CreatedAt.UTC()
	if !reflect.DeepEqual(back, rep) {
		t.Fatalf("报告内容不一致:\n got=%+v\nwant=%+v", back, rep)
	}
}
