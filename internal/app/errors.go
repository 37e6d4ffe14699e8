package app

import (
	"WordDice/internal/battle"
	"WordDice/internal/storage"
	"WordDice/modules/kit/errx"
)

// Code 表示应用层错误码。
type Code = errx.Code

type Error = errx.Error

// 哨兵错误：禁止直接修改其 data/cause（通过 WithData/WithCause 派生新对象）。
var (
	ErrInvalidParam   = errx.ErrInvalidParam
	ErrInvalidWord    = battle.ErrInvalidWord
	ErrReportNotFound = storage.ErrReportNotFound

	ErrInternalServer = errx.ErrInternal
	ErrUnavailable    = errx.ErrUnavailable
	ErrTimeout        = errx.ErrTimeout
	ErrCanceled       = errx.ErrCanceled
)

// GetErrorReasonCode 取错误链上第一个 errx.Error 的 reason。
func GetErrorReasonCode(err error) string {
	var e *errx.Error
	if !asError(err, &e) {
		return ""
	}
	return e.Reason()
}

// IsBizRejectedError 业务拒绝（参数/单词/报告不存在），区别于技术错误。
func IsBizRejectedError(err error) bool {
	return errx.IsBiz(err)
}

// GetErrorMessage 取面向客户端的提示语。
func GetErrorMessage(err error) string {
	var e *errx.Error
	if !asError(err, &e) {
		return ""
	}
	return e.Msg()
}

// GetErrorData 取错误上下文（word/letter/position 等），用于回给客户端定位问题。
func GetErrorData(err error) map[string]any {
	var e *errx.Error
	if !asError(err, &e) {
		return nil
	}
	return e.Data()
}
