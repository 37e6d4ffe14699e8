package actors

import (
	"errors"

	"WordDice/internal/actor/messages"
	"WordDice/internal/battle"

	"github.com/asynkron/protoactor-go/actor"
)

var errNilBatch = errors.New("nil batch request")

// ManagerActor 为每个批次派生一个 BatchActor，并把请求连同 sender 一起转发过去。
type ManagerActor struct {
	engine  *battle.Engine
	workers int
}

func NewManagerActor(engine *battle.Engine, workers int) *ManagerActor {
	return &ManagerActor{engine: engine, workers: workers}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch req := ctx.Message().(type) {
	case *messages.RunBatch:
		if req == nil {
			ctx.Respond(&messages.BatchDone{Err: errNilBatch})
			return
		}
		if len(req.Matchups) == 0 {
			ctx.Respond(&messages.BatchDone{})
			return
		}
		props := actor.PropsFromProducer(func() actor.Actor {
			return NewBatchActor(m.engine, m.workers)
		})
		ctx.Forward(ctx.Spawn(props))
	default:
		return
	}
}
