package tournament

import (
	"time"

	"WordDice/internal/battle"
	"WordDice/internal/rules"
)

// GroupSummary 统计某个字母分组在所有对局中的表现。
// 一个单词里有几颗该分组的骰子，就算几次出场，胜场同理。
type GroupSummary struct {
	Group          rules.Group `json:"group"`
	Name           string      `json:"name"`
	Wins           int         `json:"wins"`
	Appearances    int         `json:"appearances"`
	Rounds         int         `json:"rounds"`
	Damage         int         `json:"damage"`
	WinRate        float64     `json:"win_rate"`
	AvgRounds      float64     `json:"avg_rounds"`
	AvgDamageTaken float64     `json:"avg_damage_taken"`
}

// Matrix 的行是单词本身，列是对手；对角线为 nil。
type Matrix struct {
	Words     []string     `json:"words"`
	Wins      [][]int      `json:"wins"`
	AvgDamage [][]*float64 `json:"avg_damage"`
	AvgRounds [][]*float64 `json:"avg_rounds"`
}

type Report struct {
	ID        int64          `json:"id,string"`
	CreatedAt time.Time      `json:"created_at"`
	Words     []string       `json:"words"`
	Trials    int            `json:"trials"`
	Seed      uint64         `json:"seed,string"`
	Battles   int            `json:"battles"`
	Draws     int            `json:"draws"`
	Groups    []GroupSummary `json:"groups"`
	Matrix    Matrix         `json:"matrix"`
}

// Summary 是列表接口使用的精简视图。
type Summary struct {
	ID        int64     `json:"id,string"`
	CreatedAt time.Time `json:"created_at"`
	Words     []string  `json:"words"`
	Trials    int       `json:"trials"`
	Seed      uint64    `json:"seed,string"`
	Battles   int       `json:"battles"`
}

func (r *Report) Summary() Summary {
	return Summary{ID: r.ID, CreatedAt: r.CreatedAt, Words: r.Words, Trials: r.Trials, Seed: r.Seed, Battles: r.Battles}
}

type groupAcc struct {
	wins, appearances, rounds, damage int
}

// Aggregate 把一批对局结果汇总成报告（ID 和创建时间由调用方填写）。
func Aggregate(r *rules.Rules, job Job, results []Result) *Report {
	index := make(map[string]int, len(job.Words))
	for i, w := range job.Words {
		index[w] = i
	}
	n := len(job.Words)
	wins := square[int](n)
	damage := square[int](n)
	rounds := square[int](n)
	counts := square[int](n)

	var groups [rules.GroupCount + 1]groupAcc
	draws := 0
	for _, res := range results {
		m, out := res.Matchup, res.Outcome
		i, ok1 := index[m.Word1]
		j, ok2 := index[m.Word2]
		if !ok1 || !ok2 {
			continue
		}
		switch out.WinnerSide {
		case battle.SideOne:
			wins[i][j]++
		case battle.SideTwo:
			wins[j][i]++
		default:
			draws++
		}
		damage[i][j] += out.Lost1
		damage[j][i] += out.Lost2
		rounds[i][j] += out.Rounds
		rounds[j][i] += out.Rounds
		counts[i][j]++
		counts[j][i]++

		accumulate(r, &groups, m.Word1, out.WinnerSide == battle.SideOne, out.Rounds, out.Lost1)
		accumulate(r, &groups, m.Word2, out.WinnerSide == battle.SideTwo, out.Rounds, out.Lost2)
	}

	rep := &Report{
		Words:   job.Words,
		Trials:  job.Trials,
		Seed:    job.Seed,
		Battles: len(results),
		Draws:   draws,
		Matrix: Matrix{
			Words:     job.Words,
			Wins:      wins,
			AvgDamage: average(damage, counts),
			AvgRounds: average(rounds, counts),
		},
	}
	for g := rules.Group(1); g <= rules.GroupCount; g++ {
		acc := groups[g]
		if acc.appearances == 0 {
			continue
		}
		a := float64(acc.appearances)
		rep.Groups = append(rep.Groups, GroupSummary{
			Group:          g,
			Name:           r.GroupDef(g).Name,
			Wins:           acc.wins,
			Appearances:    acc.appearances,
			Rounds:         acc.rounds,
			Damage:         acc.damage,
			WinRate:        float64(acc.wins) / a,
			AvgRounds:      float64(acc.rounds) / a,
			AvgDamageTaken: float64(acc.damage) / a,
		})
	}
	return rep
}

func accumulate(r *rules.Rules, groups *[rules.GroupCount + 1]groupAcc, word string, won bool, rounds, lost int) {
	var counts [rules.GroupCount + 1]int
	for _, letter := range word {
		if g, ok := r.GroupOf(letter); ok {
			counts[g]++
		}
	}
	for g, c := range counts {
		if c == 0 {
			continue
		}
		acc := &groups[g]
		acc.appearances += c
		acc.rounds += rounds
		acc.damage += lost
		if won {
			acc.wins += c
		}
	}
}

func square[T any](n int) [][]T {
	out := make([][]T, n)
	for i := range out {
		out[i] = make([]T, n)
	}
	return out
}

// average 按对局次数求平均；对角线为 nil，没有对局的格子为 0。
func average(sum, counts [][]int) [][]*float64 {
	out := square[*float64](len(sum))
	for i := range sum {
		for j := range sum[i] {
			if i == j {
				continue
			}
			v := 0.0
			if counts[i][j] > 0 {
				v = float64(sum[i][j]) / float64(counts[i][j])
			}
			out[i][j] = &v
		}
	}
	return out
}
