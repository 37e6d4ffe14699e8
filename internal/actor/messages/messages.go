package messages

import "WordDice/internal/tournament"

// RunBatch 请求执行一批对局；Done 关闭后 worker 不再开始新的对局。
type RunBatch struct {
	Matchups []tournament.Matchup
	Done     <-chan struct{}
}

type BatchDone struct {
	Results []tournament.Result
	Err     error
}

// PlayMatchup 的 Slot 是对局在批次中的位置，结果按 Slot 回填。
type PlayMatchup struct {
	Matchup tournament.Matchup
	Slot    int
	Done    <-chan struct{}
}

type MatchupDone struct {
	Result tournament.Result
	Slot   int
	Err    error
}
