package engine

import (
	"strings"
	"time"

	"activity-enroll-system/internal/global/response"
)

// StatusFilter 目录的状态筛选轴
type StatusFilter int

const (
	FilterAll StatusFilter = iota
	FilterReserved
	FilterOngoing
	FilterFinished
)

// Order 排序方向
type Order int

const (
	OrderDefault Order = iota
	OrderAsc
	OrderDesc
)

// CatalogQuery 一次列表请求的筛选与排序选择
// 按请求构造的不可变值，不得在请求间共享
type CatalogQuery struct {
	Status        StatusFilter
	Location      string // 空串表示不过滤，非空按地点精确匹配
	BeginOrder    Order
	CapacityOrder Order
}

// Cond 单个过滤条件，Expr 为带占位符的 SQL 片段
type Cond struct {
	Expr string
	Args []any
}

// ListSpec 编译后的查询规格，由存储层的列表操作消费
type ListSpec struct {
	Conds  []Cond
	Orders []string
}

// ParseStatusFilter 解析状态筛选参数，空串等同 all
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return FilterAll, nil
	case "reserved":
		return FilterReserved, nil
	case "ongoing":
		return FilterOngoing, nil
	case "finished":
		return FilterFinished, nil
	default:
		return FilterAll, response.ErrInvalidRequest.WithTips("未知的状态筛选 " + s)
	}
}

// ParseOrder 解析排序参数，空串等同 default
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return OrderDefault, nil
	case "asc":
		return OrderAsc, nil
	case "desc", "des":
		return OrderDesc, nil
	default:
		return OrderDefault, response.ErrInvalidRequest.WithTips("未知的排序方向 " + s)
	}
}

// Compile 把筛选与排序选择编译为查询规格，now 为状态筛选的评估时刻。
// 各状态的边界条件在此逐一枚举，须和状态推导的边界保持一致：
// reserved ⇒ begin > now；ongoing ⇒ begin <= now <= end；finished ⇒ end < now
func (q CatalogQuery) Compile(now time.Time) (ListSpec, error) {
	var spec ListSpec

	switch q.Status {
	case FilterAll:
		// 不加状态条件
	case FilterReserved:
		spec.Conds = append(spec.Conds, Cond{Expr: "begin_time > ?", Args: []any{now}})
	case FilterOngoing:
		spec.Conds = append(spec.Conds, Cond{Expr: "begin_time <= ? AND end_time >= ?", Args: []any{now, now}})
	case FilterFinished:
		spec.Conds = append(spec.Conds, Cond{Expr: "end_time < ?", Args: []any{now}})
	default:
		return ListSpec{}, response.ErrInvalidRequest.WithTips("未知的状态筛选")
	}

	if q.Location != "" {
		spec.Conds = append(spec.Conds, Cond{Expr: "location = ?", Args: []any{q.Location}})
	}

	beginClause, err := orderClause("begin_time", q.BeginOrder)
	if err != nil {
		return ListSpec{}, err
	}
	capacityClause, err := orderClause("capacity", q.CapacityOrder)
	if err != nil {
		return ListSpec{}, err
	}

	// 开始时间为主键、名额为次键；仅当开始时间不排序时名额才单独作主键，
	// 两者都缺省时不施加排序，交由存储层的自然顺序
	switch {
	case beginClause != "":
		spec.Orders = append(spec.Orders, beginClause)
		if capacityClause != "" {
			spec.Orders = append(spec.Orders, capacityClause)
		}
	case capacityClause != "":
		spec.Orders = append(spec.Orders, capacityClause)
	}

	return spec, nil
}

func orderClause(column string, o Order) (string, error) {
	switch o {
	case OrderDefault:
		return "", nil
	case OrderAsc:
		return column + " ASC", nil
	case OrderDesc:
		return column + " DESC", nil
	default:
		return "", response.ErrInvalidRequest.WithTips("未知的排序方向")
	}
}
