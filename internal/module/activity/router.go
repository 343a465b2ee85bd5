package activity

import (
	"activity-enroll-system/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (a *ModuleActivity) InitRouter(r *gin.RouterGroup) {
	// 定义活动模块的路由组，所有活动相关端点以 /activity 为前缀
	activityGroup := r.Group("/activity")

	activityGroup.Use(middleware.Auth(0))
	{
		// 活动目录与详情
		activityGroup.GET("/list", ListActivities)
		activityGroup.GET("/get/:id", GetActivity)

		// 创建活动
		activityGroup.POST("/create", CreateActivity)

		// 下架与恢复（发布者或管理员）
		activityGroup.DELETE("/disable/:id", DisableActivity)
		activityGroup.PUT("/restore/:id", RestoreActivity)

		// 导出报名名单（发布者或管理员）
		activityGroup.GET("/export/:id", ExportRoster)
	}
}
