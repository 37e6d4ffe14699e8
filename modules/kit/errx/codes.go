package errx

// 这里定义“跨服务统一”的系统类错误码。
//
// 约束：
// - 这些错误码用于“系统/技术类错误”归一化（便于告警、观测、跨服务排障）
// - 业务域错误码（例如 BATTLE_INVALID_WORD、REPORT_NOT_FOUND）由各包自行定义，不放在 kit 里

const (
	// CodeInternal 表示服务内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 表示依赖不可用/服务不可用（MySQL/MongoDB/actor 执行器/网络异常等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 表示请求/依赖调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeCanceled 表示调用方取消（ctx.Done）。
	CodeCanceled Code = "CANCELED"
	// CodeInvalidParam 表示请求参数不合法，属于业务拒绝而非系统错误。
	CodeInvalidParam Code = "INVALID_PARAM"
)

// 统一系统类哨兵错误（允许 WithData/WithCause 派生新对象）。
var (
	ErrInternal    = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout     = NewSys(CodeTimeout, "请求超时")
	ErrCanceled    = NewSys(CodeCanceled, "请求已取消")

	ErrInvalidParam = NewBiz(CodeInvalidParam, "请求参数错误")
)
