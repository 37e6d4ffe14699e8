package actors

import (
	"WordDice/internal/actor/messages"
	"WordDice/internal/battle"
	"WordDice/internal/tournament"

	"github.com/asynkron/protoactor-go/actor"
)

// BatchActor 负责一个批次：派生 worker，轮询分发对局，收齐结果后回复请求方并自行停止。
type BatchActor struct {
	engine    *battle.Engine
	workers   int
	requester *actor.PID
	results   []tournament.Result
	pending   int
	finished  bool
}

func NewBatchActor(engine *battle.Engine, workers int) *BatchActor {
	if workers <= 0 {
		workers = 1
	}
	return &BatchActor{engine: engine, workers: workers}
}

func (b *BatchActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *messages.RunBatch:
		b.start(ctx, msg)
	case *messages.MatchupDone:
		b.collect(ctx, msg)
	default:
		return
	}
}

func (b *BatchActor) start(ctx actor.Context, req *messages.RunBatch) {
	b.requester = ctx.Sender()
	b.results = make([]tournament.Result, len(req.Matchups))
	b.pending = len(req.Matchups)

	n := min(b.workers, len(req.Matchups))
	workers := make([]*actor.PID, 0, n)
	for i := 0; i < n; i++ {
		props := actor.PropsFromProducer(func() actor.Actor {
			return NewWorkerActor(b.engine)
		})
		workers = append(workers, ctx.Spawn(props))
	}
	for i, m := range req.Matchups {
		ctx.Request(workers[i%n], &messages.PlayMatchup{Matchup: m, Slot: i, Done: req.Done})
	}
}

func (b *BatchActor) collect(ctx actor.Context, msg *messages.MatchupDone) {
	if b.finished {
		return
	}
	if msg.Err != nil {
		b.finish(ctx, &messages.BatchDone{Err: msg.Err})
		return
	}
	if msg.Slot >= 0 && msg.Slot < len(b.results) {
		b.results[msg.Slot] = msg.Result
	}
	b.pending--
	if b.pending == 0 {
		b.finish(ctx, &messages.BatchDone{Results: b.results})
	}
}

// finish 回复请求方，停止自身时子 worker 会一并停止。
func (b *BatchActor) finish(ctx actor.Context, reply *messages.BatchDone) {
	b.finished = true
	if b.requester != nil {
		ctx.Send(b.requester, reply)
	}
	if reply.Err != nil {
		ctx.Logger().Warn("batch aborted", "err", reply.Err, "pending", b.pending)
	}
	ctx.Stop(ctx.Self())
}
