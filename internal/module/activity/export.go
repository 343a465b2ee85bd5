package activity

import (
	"fmt"
	"time"

	"activity-enroll-system/internal/global/database"
	"activity-enroll-system/internal/global/jwt"
	"activity-enroll-system/internal/global/response"
	"activity-enroll-system/internal/store"
	"activity-enroll-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const rosterSheet = "报名名单"

type rosterRow struct {
	Index      int    `excel:"序号"`
	Username   string `excel:"用户名"`
	NickName   string `excel:"昵称"`
	EnrolledAt string `excel:"报名时间"`
}

// ExportRoster 导出活动报名名单为 Excel，仅发布者和管理员可用
func ExportRoster(c *gin.Context) {
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
	if activity.PublisherID != payload.Username && payload.RoleID < 1 {
		response.Fail(c, response.ErrForbidden.WithTips("无权限导出该活动的名单"))
		return
	}

	var records []struct {
		ParticipantID string
		NickName      string
		CreatedAt     time.Time
	}
	err = database.DB.Table("enrollment").
		Select("enrollment.participant_id, user.nick_name, enrollment.created_at").
		Joins("LEFT JOIN user ON user.username = enrollment.participant_id").
		Where("enrollment.activity_id = ?", id).
		Order("enrollment.created_at ASC").
		Scan(&records).Error
	if err != nil {
		log.Error("查询报名名单失败", "error", err, "activity_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	rows := make([]rosterRow, 0, len(records))
	for i, record := range records {
		rows = append(rows, rosterRow{
			Index:      i + 1,
			Username:   record.ParticipantID,
			NickName:   record.NickName,
			EnrolledAt: record.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := tools.ExportToExcel(f, rosterSheet, rows); err != nil {
		log.Error("生成名单文件失败", "error", err, "activity_id", id)
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}
	if index, err := f.GetSheetIndex(rosterSheet); err == nil && index >= 0 {
		f.SetActiveSheet(index)
	}

	displayName := fmt.Sprintf("%s-%s.xlsx", activity.Name, rosterSheet)
	if err := tools.SendExcel(c, f, displayName); err != nil {
		log.Error("发送名单文件失败", "error", err, "activity_id", id)
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}

	log.Info("导出报名名单成功", "activity_id", id, "rows", len(rows), "operator", payload.Username)
}
