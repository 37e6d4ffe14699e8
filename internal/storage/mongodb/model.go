package mongodb

import (
	"strconv"
	"time"

	"WordDice/internal/rules"
	"WordDice/internal/tournament"
)

type groupDoc struct {
	Group          int     `bson:"group"`
	Name           string  `bson:"name"`
	Wins           int     `bson:"wins"`
	Appearances    int     `bson:"appearances"`
	Rounds         int     `bson:"rounds"`
	Damage         int     `bson:"damage"`
	WinRate        float64 `bson:"win_rate"`
	AvgRounds      float64 `bson:"avg_rounds"`
	AvgDamageTaken float64 `bson:"avg_damage_taken"`
}

type matrixDoc struct {
	Words     []string     `bson:"words"`
	Wins      [][]int      `bson:"wins"`
	AvgDamage [][]*float64 `bson:"avg_damage"`
	AvgRounds [][]*float64 `bson:"avg_rounds"`
}

// ReportDoc 是 tournament_report 集合中的文档。seed 以字符串保存，bson 没有 uint64。
type ReportDoc struct {
	ID        int64      `bson:"_id"`
	CreatedAt time.Time  `bson:"created_at"`
	Words     []string   `bson:"words"`
	Trials    int        `bson:"trials"`
	Seed      string     `bson:"seed"`
	Battles   int        `bson:"battles"`
	Draws     int        `bson:"draws"`
	Groups    []groupDoc `bson:"groups,omitempty"`
	Matrix    *matrixDoc `bson:"matrix,omitempty"`
}

func ReportToDoc(r *tournament.Report) ReportDoc {
	doc := ReportDoc{
		ID:        r.ID,
		CreatedAt: r.CreatedAt.UTC(),
		Words:     r.Words,
		Trials:    r.Trials,
		Seed:      strconv.FormatUint(r.Seed, 10),
		Battles:   r.Battles,
		Draws:     r.Draws,
		Matrix: &matrixDoc{
			Words:     r.Matrix.Words,
			Wins:      r.Matrix.Wins,
			AvgDamage: r.Matrix.AvgDamage,
			AvgRounds: r.Matrix.AvgRounds,
		},
	}
	for _, g := range r.Groups {
		doc.Groups = append(doc.Groups, groupDoc{
			Group:          int(g.Group),
			Name:           g.Name,
			Wins:           g.Wins,
			Appearances:    g.Appearances,
			Rounds:         g.Rounds,
			Damage:         g.Damage,
			WinRate:        g.WinRate,
			AvgRounds:      g.AvgRounds,
			AvgDamageTaken: g.AvgDamageTaken,
		})
	}
	return doc
}

func DocToReport(doc ReportDoc) *tournament.Report {
	seed, _ := strconv.ParseUint(doc.Seed, 10, 64)
	r := &tournament.Report{
		ID:        doc.ID,
		CreatedAt: doc.CreatedAt,
		Words:     doc.Words,
		Trials:    doc.Trials,
		Seed:      seed,
		Battles:   doc.Battles,
		Draws:     doc.Draws,
	}
	if doc.Matrix != nil {
		r.Matrix = tournament.Matrix{
			Words:     doc.Matrix.Words,
			Wins:      doc.Matrix.Wins,
			AvgDamage: doc.Matrix.AvgDamage,
			AvgRounds: doc.Matrix.AvgRounds,
		}
	}
	for _, g := range doc.Groups {
		r.Groups = append(r.Groups, tournament.GroupSummary{
			Group:          rules.Group(g.Group),
			Name:           g.Name,
			Wins:           g.Wins,
			Appearances:    g.Appearances,
			Rounds:         g.Rounds,
			Damage:         g.Damage,
			WinRate:        g.WinRate,
			AvgRounds:      g.AvgRounds,
			AvgDamageTaken: g.AvgDamageTaken,
		})
	}
	return r
}
