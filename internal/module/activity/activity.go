package activity

import (
	"strconv"
	"time"

	"activity-enroll-system/internal/engine"
	"activity-enroll-system/internal/global/database"
	"activity-enroll-system/internal/global/jwt"
	"activity-enroll-system/internal/global/response"
	"activity-enroll-system/internal/model"
	"activity-enroll-system/internal/store"
	"activity-enroll-system/tools"

	"github.com/gin-gonic/gin"
)

// CreateActivityReq 定义创建活动请求的结构体，时间为 Unix 秒
type CreateActivityReq struct {
	Name        string `json:"name" binding:"required"`        // 活动名称
	Description string `json:"description"`                    // 活动描述
	Location    string `json:"location" binding:"required"`    // 活动地点
	BeginTime   int64  `json:"begin_time" binding:"required"`  // 活动开始时间
	EndTime     int64  `json:"end_time" binding:"required"`    // 活动结束时间
	Capacity    int    `json:"capacity" binding:"required,gt=0"` // 名额上限
}

// CreateActivity 处理创建活动请求
// 时间地点的冲突校验在引擎的地点锁内完成
func CreateActivity(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var req CreateActivityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定创建活动请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	proposal := engine.CreationProposal{
		PublisherID: payload.Username,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Begin:       time.Unix(req.BeginTime, 0),
		End:         time.Unix(req.EndTime, 0),
		Capacity:    req.Capacity,
	}

	activity, err := store.Service.CreateActivity(c.Request.Context(), proposal)
	if err != nil {
		log.Warn("创建活动被拒绝", "error", err, "location", req.Location, "publisher", payload.Username)
		response.Fail(c, err)
		return
	}

	log.Info("活动创建成功",
		"activity_id", activity.ID,
		"name", activity.Name,
		"location", activity.Location,
		"publisher", payload.Username,
	)

	response.Success(c, gin.H{
		"activity_id": activity.ID,
	})
}

// activityItem 列表与详情的展示结构，状态按评估时刻现场推导
type activityItem struct {
	model.Activity
	Status   string `json:"status"`
	Enrolled int64  `json:"enrolled"`
}

// ListActivities 获取活动列表
// 查询参数：status、location、begin_order、capacity_order、page、page_size、time
// time 为状态筛选的评估时刻（Unix 秒），缺省取当前时间
func ListActivities(c *gin.Context) {
	statusFilter, err := engine.ParseStatusFilter(c.Query("status"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	beginOrder, err := engine.ParseOrder(c.Query("begin_order"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	capacityOrder, err := engine.ParseOrder(c.Query("capacity_order"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	// 每次请求构造独立的查询值，筛选状态绝不跨请求共享
	query := engine.CatalogQuery{
		Status:        statusFilter,
		Location:      c.Query("location"),
		BeginOrder:    beginOrder,
		CapacityOrder: capacityOrder,
	}

	offset, limit := tools.GetPage(c)
	at := time.Unix(tools.GetTime(c), 0)

	activities, total, err := store.Service.ListActivities(c.Request.Context(), query, at, offset, limit)
	if err != nil {
		log.Error("获取活动列表失败", "error", err)
		response.Fail(c, err)
		return
	}

	counts, err := enrolledCounts(activities)
	if err != nil {
		log.Error("统计报名人数失败", "error", err)
		response.Fail(c, err)
		return
	}

	items := make([]activityItem, 0, len(activities))
	for i := range activities {
		a := activities[i]
		items = append(items, activityItem{
			Activity: a,
			Status:   engine.StatusAt(at, a.BeginTime, a.EndTime).String(),
			Enrolled: counts[a.ID],
		})
	}

	response.Success(c, gin.H{
		"activities": items,
		"total":      total,
	})
}

// enrolledCounts 一次查询取回各活动的报名人数
func enrolledCounts(activities []model.Activity) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(activities))
	if len(activities) == 0 {
		return counts, nil
	}
	ids := make([]uint, 0, len(activities))
	for i := range activities {
		ids = append(ids, activities[i].ID)
	}

	var rows []struct {
		ActivityID uint
		Total      int64
	}
	err := database.DB.Model(&model.Enrollment{}).
		Select("activity_id, COUNT(*) AS total").
		Where("activity_id IN ?", ids).
		Group("activity_id").
		Scan(&rows).Error
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	for _, row := range rows {
		counts[row.ActivityID] = row.Total
	}
	return counts, nil
}

// GetActivity 获取单个活动详情
func GetActivity(c *gin.Context) {
	id, err := parseActivityID(c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	activity, err := store.Service.GetActivity(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	// 已下架活动仅发布者和管理员可见
	if activity.Disabled {
		payload, exists := jwt.GetUserPayload(c)
		if !exists || (payload.Username != activity.PublisherID && payload.RoleID < 1) {
			response.Fail(c, response.ErrNotFound.WithTips("活动不存在"))
			return
		}
	}

	var enrolled int64
	if err := database.DB.Model(&model.Enrollment{}).
		Where("activity_id = ?", activity.ID).
		Count(&enrolled).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	now := store.Service.Now()
	response.Success(c, activityItem{
		Activity: *activity,
		Status:   engine.StatusAt(now, activity.BeginTime, activity.EndTime).String(),
		Enrolled: enrolled,
	})
}

// DisableActivity 下架活动（软删除）
// 下架后活动不再出现在目录中，地点占用随之释放；报名记录保留
func DisableActivity(c *gin.Context) {
	setDisabled(c, true)
}

// RestoreActivity 恢复已下架的活动
func RestoreActivity(c *gin.Context) {
	setDisabled(c, false)
}

func setDisabled(c *gin.Context, disabled bool) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	id, err := parseActivityID(c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	activity, err := store.Service.GetActivity(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	// 仅发布者和管理员可以下架或恢复
	if activity.PublisherID != payload.Username && payload.RoleID < 1 {
		log.Warn("无权限操作活动", "activity_id", id, "username", payload.Username)
		response.Fail(c, response.ErrForbidden.WithTips("无权限操作该活动"))
		return
	}

	if disabled {
		err = store.Service.DisableActivity(c.Request.Context(), id)
	} else {
		// 恢复会重新占用地点，引擎在地点锁内重跑冲突检查
		err = store.Service.RestoreActivity(c.Request.Context(), id)
	}
	if err != nil {
		log.Warn("活动状态变更被拒绝", "error", err, "activity_id", id, "disabled", disabled)
		response.Fail(c, err)
		return
	}

	log.Info("活动状态变更", "activity_id", id, "disabled", disabled, "operator", payload.Username)
	response.Success(c)
}

func parseActivityID(s string) (uint, error) {
	if s == "" {
		return 0, response.ErrInvalidRequest.WithTips("活动ID不能为空")
	}
	id, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return 0, response.ErrInvalidRequest.WithTips("活动ID格式错误")
	}
	return uint(id), nil
}
