package tournament

import (
	"context"

	"WordDice/internal/battle"
	"WordDice/internal/rules"
)

const (
	DefaultTrials = 10
	MaxTrials     = 1000
)

// DefaultWords 是未指定单词表时使用的参赛单词。
var DefaultWords = []string{"KING", "FIRE", "KNIGHT", "ARCHER", "WIZARD", "BLADE", "MAGIC", "HEX", "JINX", "QUEST"}

// Job 描述一次锦标赛：单词两两有序对战，每个有序对打 Trials 场。
type Job struct {
	Words  []string
	Trials int
	Seed   uint64
}

// Matchup 是一场带独立种子的对局。Index 为它在批次中的下标，执行器按 Index 回填结果。
type Matchup struct {
	Index int    `json:"index"`
	Word1 string `json:"word1"`
	Word2 string `json:"word2"`
	Trial int    `json:"trial"`
	Seed  uint64 `json:"seed,string"`
}

type Result struct {
	Matchup Matchup        `json:"matchup"`
	Outcome battle.Outcome `json:"outcome"`
}

// Executor 执行一批对局，返回的结果与入参一一对应（result[i].Matchup.Index == i）。
type Executor interface {
	Execute(ctx context.Context, matchups []Matchup) ([]Result, error)
}

// Matchups 生成所有 w1 != w2 的有序对，每对 trials 场；种子由 Job.Seed 和下标派生。
func (j Job) Matchups() []Matchup {
	n := len(j.Words)
	if n < 2 || j.Trials <= 0 {
		return nil
	}
	out := make([]Matchup, 0, n*(n-1)*j.Trials)
	for _, w1 := range j.Words {
		for _, w2 := range j.Words {
			if w1 == w2 {
				continue
			}
			for trial := 0; trial < j.Trials; trial++ {
				idx := len(out)
				out = append(out, Matchup{
					Index: idx,
					Word1: w1,
					Word2: w2,
					Trial: trial,
					Seed:  battle.SeedFor(j.Seed, idx),
				})
			}
		}
	}
	return out
}

// Play 在给定引擎上执行单场对局，本地执行器和 actor worker 共用。
func Play(e *battle.Engine, m Matchup) (Result, error) {
	out, err := e.Simulate(m.Word1, m.Word2, battle.NewRNG(m.Seed), nil)
	if err != nil {
		return Result{}, err
	}
	return Result{Matchup: m, Outcome: out}, nil
}

// Run 生成对局、交给执行器执行并汇总报告。
func Run(ctx context.Context, exec Executor, r *rules.Rules, job Job) (*Report, error) {
	results, err := exec.Execute(ctx, job.Matchups())
	if err != nil {
		return nil, err
	}
	return Aggregate(r, job, results), nil
}
