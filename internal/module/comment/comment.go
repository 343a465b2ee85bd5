package comment

import (
	"strconv"

	"activity-enroll-system/internal/global/database"
	"activity-enroll-system/internal/global/jwt"
	"activity-enroll-system/internal/global/response"
	"activity-enroll-system/internal/model"
	"activity-enroll-system/tools"

	"github.com/gin-gonic/gin"
)

// AddReq 定义发表评论请求的结构体
type AddReq struct {
	ActivityID uint   `json:"activity_id" binding:"required"`
	Body       string `json:"body" binding:"required,max=255"`
}

// Add 发表评论，仅活动发布者和已报名的参与者可评论
func Add(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var req AddReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定评论请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var activity model.Activity
	if err := database.DB.First(&activity, "id = ? AND disabled = ?", req.ActivityID, false).Error; err != nil {
		response.Fail(c, response.ErrNotFound.WithTips("活动不存在"))
		return
	}

	if activity.PublisherID != payload.Username {
		var enrolled bool
		if err := database.DB.
			Raw("SELECT EXISTS(SELECT 1 FROM enrollment WHERE activity_id = ? AND participant_id = ?)",
				req.ActivityID, payload.Username).
			Scan(&enrolled).Error; err != nil {
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		if !enrolled {
			response.Fail(c, response.ErrForbidden.WithTips("仅报名者可以评论该活动"))
			return
		}
	}

	comment := &model.Comment{
		ActivityID: req.ActivityID,
		AuthorID:   payload.Username,
		Body:       req.Body,
	}
	if err := database.DB.Create(comment).Error; err != nil {
		log.Error("创建评论失败", "error", err, "activity_id", req.ActivityID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"comment_id": comment.ID,
	})
}

// list 按活动分页获取评论，被屏蔽的评论不返回
func list(c *gin.Context) {
	activityIDStr := c.Query("activity_id")
	if activityIDStr == "" {
		response.Fail(c, response.ErrInvalidRequest)
		return
	}
	if _, err := strconv.ParseUint(activityIDStr, 10, 0); err != nil {
		response.Fail(c, response.ErrInvalidRequest)
		return
	}
	offset, limit := tools.GetPage(c)

	var comments []model.Comment
	if err := database.DB.Model(&model.Comment{}).
		Where("activity_id = ? AND disabled = ?", activityIDStr, false).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&comments).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, comments)
}

// disable 屏蔽评论，管理员专用
func disable(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("评论ID不能为空"))
		return
	}

	result := database.DB.Model(&model.Comment{}).
		Where("id = ?", id).
		Update("disabled", true)
	if result.Error != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(result.Error))
		return
	}
	if result.RowsAffected == 0 {
		response.Fail(c, response.ErrNotFound)
		return
	}

	log.Info("评论已屏蔽", "comment_id", id)
	response.Success(c)
}
