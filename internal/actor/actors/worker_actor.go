package actors

import (
	"context"

	"WordDice/internal/actor/messages"
	"WordDice/internal/battle"
	"WordDice/internal/tournament"

	"github.com/asynkron/protoactor-go/actor"
)

type WorkerActor struct {
	engine *battle.Engine
}

func NewWorkerActor(engine *battle.Engine) *WorkerActor {
	return &WorkerActor{engine: engine}
}

func (w *WorkerActor) Receive(ctx actor.Context) {
	msg, ok := ctx.Message().(*messages.PlayMatchup)
	if !ok || msg == nil {
		return
	}
	if canceled(msg.Done) {
		ctx.Respond(&messages.MatchupDone{Slot: msg.Slot, Err: context.Canceled})
		return
	}
	res, err := tournament.Play(w.engine, msg.Matchup)
	ctx.Respond(&messages.MatchupDone{Result: res, Slot: msg.Slot, Err: err})
}

func canceled(done <-chan struct{}) bool {
	if done == nil {
		return false
	}
	select {
	case <-done:
		return true
	default:
		return false
	}
}
