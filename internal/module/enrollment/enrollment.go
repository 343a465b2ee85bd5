package enrollment

import (
	"strconv"

	"activity-enroll-system/internal/engine"
	"activity-enroll-system/internal/global/database"
	"activity-enroll-system/internal/global/jwt"
	"activity-enroll-system/internal/global/response"
	"activity-enroll-system/internal/model"
	"activity-enroll-system/tools"

	"activity-enroll-system/internal/store"

	"github.com/gin-gonic/gin"
)

// JoinReq 定义报名请求的结构体
type JoinReq struct {
	ActivityID uint `json:"activity_id" binding:"required"` // 要报名的活动ID
}

// Join 处理报名请求
// 名额、重复报名与时间冲突的校验在引擎的活动锁内完成
func Join(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var req JoinReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定报名请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	enrollment, err := store.Service.Enroll(c.Request.Context(), req.ActivityID, payload.Username)
	if err != nil {
		log.Warn("报名被拒绝", "error", err, "activity_id", req.ActivityID, "participant", payload.Username)
		response.Fail(c, err)
		return
	}

	log.Info("报名成功",
		"enrollment_id", enrollment.ID,
		"activity_id", req.ActivityID,
		"participant", payload.Username,
	)
	response.Success(c, gin.H{
		"enrollment_id": enrollment.ID,
	})
}

// enrollmentItem 我的报名列表项，附带活动的现场推导状态
type enrollmentItem struct {
	model.Enrollment
	Status string `json:"status"`
}

// list 获取当前用户的报名列表
func list(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	offset, limit := tools.GetPage(c)

	var enrollments []model.Enrollment
	if err := database.DB.Model(&model.Enrollment{}).
		Preload("Activity").
		Where("participant_id = ?", payload.Username).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&enrollments).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	now := store.Service.Now()
	items := make([]enrollmentItem, 0, len(enrollments))
	for i := range enrollments {
		e := enrollments[i]
		items = append(items, enrollmentItem{
			Enrollment: e,
			Status:     engine.StatusAt(now, e.Activity.BeginTime, e.Activity.EndTime).String(),
		})
	}

	response.Success(c, gin.H{
		"participant": payload.Username,
		"enrollments": items,
	})
}

// count 查询活动当前的报名人数 此处不验证活动是否存在
func count(c *gin.Context) {
	activityID, err := validActivityID(c.Query("activity_id"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	var sum int64
	if err := database.DB.Model(&model.Enrollment{}).
		Where("activity_id = ?", activityID).
		Count(&sum).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, sum)
}

// ask 查询当前用户是否已报名指定活动
func ask(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	activityID, err := validActivityID(c.Query("activity_id"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	var exist bool
	if err := database.DB.
		Raw("SELECT EXISTS(SELECT 1 FROM enrollment WHERE activity_id = ? AND participant_id = ?)",
			activityID, payload.Username).
		Scan(&exist).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, exist)
}

func validActivityID(s string) (uint, error) {
	if s == "" {
		return 0, response.ErrInvalidRequest
	}
	id, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return 0, response.ErrInvalidRequest
	}
	return uint(id), nil
}
