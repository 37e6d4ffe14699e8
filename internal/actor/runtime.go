package actor

import (
	"context"
	"errors"
	"time"

	"WordDice/internal/actor/actors"
	"WordDice/internal/actor/messages"
	"WordDice/internal/battle"
	"WordDice/internal/shared/transport"
	"WordDice/internal/tournament"

	protoactor "github.com/asynkron/protoactor-go/actor"
)

const defaultAskTimeout = 60 * time.Second

type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Runtime 用 actor 执行锦标赛批次，实现 tournament.Executor。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

var _ tournament.Executor = (*Runtime)(nil)

func NewRuntime(engine *battle.Engine, workers int, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}
	if workers <= 0 {
		workers = 4
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(engine, workers)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		r.root.Stop(r.manager)
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

// Execute 把整批对局交给 manager，等待 BatchActor 回复。ctx 取消时通知 worker 停止开始新对局。
func (r *Runtime) Execute(ctx context.Context, matchups []tournament.Matchup) ([]tournament.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(matchups) == 0 {
		return []tournament.Result{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	msg := &messages.RunBatch{Matchups: matchups, Done: done}

	type reply struct {
		res any
		err error
	}
	ch := make(chan reply, 1)
	timeout := r.timeoutFromContext(ctx)
	go func() {
		res, err := r.request(r.manager, msg, timeout)
		ch <- reply{res: res, err: err}
	}()

	var got reply
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case got = <-ch:
	}
	if got.err != nil {
		return nil, got.err
	}

	resp, ok := got.res.(*messages.BatchDone)
	if !ok || resp == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor 回复类型错误"}
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Results, nil
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		code := transport.SystemError
		if errors.Is(err, protoactor.ErrTimeout) {
			code = transport.UpstreamTimeout
		}
		return nil, &RuntimeError{
			Code:    code,
			Message: "actor 请求失败",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.SystemError
}
