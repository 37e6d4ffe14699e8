package handler

import (
	"context"

	"WordDice/internal/app"
	"WordDice/internal/shared/transport"
	"WordDice/modules/kit/logx"
)

// Simulator 是三种入口共享的接口层对象。
type Simulator struct {
	Service *app.SimulationService
	log     logx.Logger
}

func NewSimulator(svc *app.SimulationService, log logx.Logger) *Simulator {
	if log == nil {
		log = logx.Nop()
	}
	return &Simulator{Service: svc, log: log}
}

// Failure 是换算后返回给客户端的错误。Data 只在业务拒绝时携带。
type Failure struct {
	Code int
	Msg  string
	Data map[string]any
}

// HandleError 在接口层打印一次错误日志并换算客户端码，每个请求只调用一次。
func (s *Simulator) HandleError(ctx context.Context, action string, err error) Failure {
	reason := app.GetErrorReasonCode(err)
	if reason != "" {
		transport.SetErrorReason(ctx, reason)
	}

	if app.IsBizRejectedError(err) {
		msg, data := app.GetErrorMessage(err), app.GetErrorData(err)
		biz := logx.NewBizLog(action, reason, msg)
		biz.Data = data
		logx.ReportBizWithLoggerContext(ctx, s.log, biz)
		return Failure{Code: mapBizErrToClientCode(err), Msg: msg, Data: data}
	}

	logx.ReportSysErrorWithLoggerContext(ctx, s.log, logx.NewSysLog(action, err))
	return Failure{Code: mapTechErrToClientCode(err), Msg: busyMsg}
}
