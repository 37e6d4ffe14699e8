package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 对外业务码，HTTP/WS/gRPC 响应体中的 code 字段。
const (
	OK           = 0
	InvalidParam = 1
	SystemError  = 2

	InvalidWord    = 100
	ReportNotFound = 101
	TokenInvalid   = 102

	UpstreamInternal    = 500
	UpstreamUnavailable = 503
	UpstreamTimeout     = 504
	Canceled            = 499
)
