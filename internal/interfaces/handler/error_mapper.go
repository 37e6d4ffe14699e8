package handler

import (
	"errors"

	"WordDice/internal/app"
	"WordDice/internal/shared/transport"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const busyMsg = "系统繁忙，请稍后重试"

func mapBizErrToClientCode(err error) int {
	switch {
	case errors.Is(err, app.ErrInvalidWord):
		return transport.InvalidWord
	case errors.Is(err, app.ErrReportNotFound):
		return transport.ReportNotFound
	default:
		return transport.InvalidParam
	}
}

func mapTechErrToClientCode(err error) int {
	switch {
	case err == nil:
		return transport.OK
	case errors.Is(err, app.ErrTimeout):
		return transport.UpstreamTimeout
	case errors.Is(err, app.ErrCanceled):
		return transport.Canceled
	case errors.Is(err, app.ErrUnavailable):
		return transport.UpstreamUnavailable
	default:
		return transport.UpstreamInternal
	}
}

// ToRPCError 把应用层错误换成 gRPC status。
func ToRPCError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, app.ErrInvalidWord), errors.Is(err, app.ErrInvalidParam):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, app.ErrReportNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, app.ErrTimeout):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, app.ErrCanceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, app.ErrUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, busyMsg)
	}
}
