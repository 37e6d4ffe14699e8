package app

import (
	"errors"

	"WordDice/modules/kit/errx"
)

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{
		Code:    c,
		Message: m,
	}
}

var (
	// 参数校验失败的 reason，写入 data.reason
	ReasonTooFewWords    = NewReason("TOO_FEW_WORDS", "至少需要两个不同的单词")
	ReasonTooManyWords   = NewReason("TOO_MANY_WORDS", "单词数量超出上限")
	ReasonDuplicateWord  = NewReason("DUPLICATE_WORD", "单词重复")
	ReasonWordTooLong    = NewReason("WORD_TOO_LONG", "单词长度超出上限")
	ReasonTrialsOutRange = NewReason("TRIALS_OUT_OF_RANGE", "对局次数超出范围")
)

var (
	// 技术错误 reason，用于日志与排障。
	ReasonExecutorFailed   = NewReason("EXECUTOR_FAILED", "对局执行失败")
	ReasonReportSaveFail   = NewReason("REPORT_SAVE_FAIL", "报告保存失败")
	ReasonReportRepoFailed = NewReason("REPORT_REPO_UNAVAILABLE", "报告存储不可用")
)

func asError(err error, target **errx.Error) bool {
	return errors.As(err, target) && *target != nil
}
