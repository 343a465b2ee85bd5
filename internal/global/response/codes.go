package response

// 通用错误
var (
	ErrInvalidRequest  = newError(40001, "请求参数错误")
	ErrTokenInvalid    = newError(40002, "登录凭证无效")
	ErrUnauthorized    = newError(40003, "权限不足")
	ErrForbidden       = newError(40004, "禁止该操作")
	ErrInvalidPassword = newError(40005, "密码错误")
	ErrNotFound        = newError(40401, "资源不存在")
	ErrAlreadyExists   = newError(40901, "资源已存在")

	ErrInternal = newError(50000, "服务器内部错误")
	ErrDatabase = newError(50001, "数据库错误")
	ErrBusy     = newError(50002, "系统繁忙，请稍后再试")
)

// 活动创建校验错误，按校验顺序返回第一条被违反的规则
var (
	ErrInvalidTimeRange = newError(10001, "开始时间必须早于结束时间")
	ErrPastStartTime    = newError(10002, "开始时间必须晚于当前时间")
	ErrActivityTooLong  = newError(10003, "活动持续时间不能达到一天")
	ErrLocationConflict = newError(10004, "该地点在所选时间段已被占用")
)

// 报名校验错误
var (
	ErrActivityNotJoinable     = newError(10005, "活动已开始或已结束，无法报名")
	ErrPublisherCannotEnroll   = newError(10006, "发布者不能报名自己的活动")
	ErrCapacityExceeded        = newError(10007, "活动名额已满")
	ErrAlreadyEnrolled         = newError(10008, "请勿重复报名")
	ErrParticipantTimeConflict = newError(10009, "与已报名的活动时间冲突")
)
