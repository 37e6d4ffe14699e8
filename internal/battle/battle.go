package battle

import (
	"WordDice/internal/rules"
)

const (
	DefaultMaxRounds = 1000

	Draw = "Draw"
)

// Side 标识战斗的一方；0 表示平局。
type Side int

const (
	SideNone Side = iota
	SideOne
	SideTwo
)

type Reason string

const (
	ReasonEliminated        Reason = "eliminated"
	ReasonMutualElimination Reason = "mutual_elimination"
	ReasonStalemate         Reason = "stalemate"
)

// Outcome 是一场战斗的结果。Lost 为结束时受损集合的大小。
type Outcome struct {
	Word1      string `json:"word1"`
	Word2      string `json:"word2"`
	Winner     string `json:"winner"`
	WinnerSide Side   `json:"winner_side"`
	Reason     Reason `json:"reason"`
	Rounds     int    `json:"rounds"`
	Lost1      int    `json:"lost1"`
	Lost2      int    `json:"lost2"`
}

type SideReport struct {
	Faces    []string `json:"faces"`
	Counter  Counter  `json:"counter"`
	Damage   int      `json:"damage"`
	Removed  []string `json:"removed,omitempty"`
	Repaired []string `json:"repaired,omitempty"`
	Pool     int      `json:"pool"`
	Damaged  int      `json:"damaged"`
}

// RoundReport 是一回合的完整记录，Round=0 为不计数的开场交火。
type RoundReport struct {
	Round int        `json:"round"`
	One   SideReport `json:"one"`
	Two   SideReport `json:"two"`
}

// Observer 每回合结束后被同步调用，不能持有 RoundReport 中的切片做后续修改。
type Observer func(RoundReport)

// Engine 持有只读规则表，可以被多个 goroutine 同时使用。
type Engine struct {
	rules     *rules.Rules
	maxRounds int
}

func NewEngine(r *rules.Rules, maxRounds int) *Engine {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &Engine{rules: r, maxRounds: maxRounds}
}

func (e *Engine) Rules() *rules.Rules { return e.rules }

func (e *Engine) MaxRounds() int { return e.maxRounds }

type combatant struct {
	pool    []Die
	damaged []Die
}

type exchange struct {
	faces    [2][]rules.Face
	res      [2]Resolution
	removed  [2][]Die
	repaired [2][]Die
}

// Simulate 运行一整场战斗。单词需已规范化（见 NormalizeWord），非法字母返回 ErrInvalidWord。
// 同一个 rng 状态下结果完全确定。
func (e *Engine) Simulate(word1, word2 string, rng Roller, observe Observer) (Outcome, error) {
	dice1, err := BuildDice(e.rules, word1)
	if err != nil {
		return Outcome{}, err
	}
	dice2, err := BuildDice(e.rules, word2)
	if err != nil {
		return Outcome{}, err
	}

	sides := [2]*combatant{{pool: dice1}, {pool: dice2}}
	out := Outcome{Word1: word1, Word2: word2}

	// 开场交火：只移除不修复
	x := e.exchange(sides, rng)
	for i, s := range sides {
		s.damaged = append(s.damaged, x.removed[i]...)
	}
	e.report(observe, 0, sides, x)

	for len(sides[0].pool) > 0 && len(sides[1].pool) > 0 {
		if out.Rounds >= e.maxRounds {
			out.Reason = ReasonStalemate
			break
		}
		out.Rounds++

		x = e.exchange(sides, rng)
		for i, s := range sides {
			// 修复的是本回合移除之前的受损集合
			repaired, remaining := Repair(e.rules, s.damaged, x.res[i].Own.Repair)
			s.pool = append(s.pool, repaired...)
			s.damaged = append(remaining, x.removed[i]...)
			x.repaired[i] = repaired
		}
		e.report(observe, out.Rounds, sides, x)
	}

	out.Lost1 = len(sides[0].damaged)
	out.Lost2 = len(sides[1].damaged)
	alive1, alive2 := len(sides[0].pool) > 0, len(sides[1].pool) > 0
	switch {
	case out.Reason == ReasonStalemate:
		out.Winner = Draw
	case alive1 && !alive2:
		out.Winner, out.WinnerSide, out.Reason = word1, SideOne, ReasonEliminated
	case alive2 && !alive1:
		out.Winner, out.WinnerSide, out.Reason = word2, SideTwo, ReasonEliminated
	default:
		out.Winner, out.Reason = Draw, ReasonMutualElimination
	}
	return out, nil
}

// exchange 双方同时掷骰、结算并移除骰子。side 1 先掷，保证随机序列消费顺序固定。
func (e *Engine) exchange(sides [2]*combatant, rng Roller) exchange {
	var x exchange
	var counters [2]Counter
	for i, s := range sides {
		x.faces[i] = RollAll(e.rules, s.pool, rng)
		counters[i] = Categorize(x.faces[i])
	}
	x.res[0] = Resolve(counters[0], counters[1])
	x.res[1] = Resolve(counters[1], counters[0])
	for i, s := range sides {
		s.pool, x.removed[i] = Remove(e.rules, s.pool, x.res[i].Damage)
	}
	return x
}

func (e *Engine) report(observe Observer, round int, sides [2]*combatant, x exchange) {
	if observe == nil {
		return
	}
	rep := RoundReport{Round: round}
	for i, dst := range []*SideReport{&rep.One, &rep.Two} {
		faces := make([]string, 0, len(x.faces[i]))
		for _, f := range x.faces[i] {
			faces = append(faces, f.String())
		}
		*dst = SideReport{
			Faces:    faces,
			Counter:  x.res[i].Own,
			Damage:   x.res[i].Damage,
			Removed:  letters(x.removed[i]),
			Repaired: letters(x.repaired[i]),
			Pool:     len(sides[i].pool),
			Damaged:  len(sides[i].damaged),
		}
	}
	observe(rep)
}
