package storage

import "WordDice/modules/kit/errx"

type Code = errx.Code

const (
	CodeReportNotFound Code = "REPORT_NOT_FOUND"
)

var (
	ErrReportNotFound = errx.NewBiz(CodeReportNotFound, "报告不存在")
	// ErrUnavailable 存储层技术错误统一转换成它，cause 保留驱动原始错误。
	ErrUnavailable = errx.ErrUnavailable
)
