package comment

import (
	"activity-enroll-system/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (m *ModuleComment) InitRouter(r *gin.RouterGroup) {
	commentGroup := r.Group("/comment")

	commonGroup := commentGroup.Use(middleware.Auth(0))
	{
		commonGroup.POST("/add", Add)
		commonGroup.GET("/list", list)
	}

	adminGroup := commentGroup.Use(middleware.Auth(1))
	{
		adminGroup.DELETE("/disable/:id", disable)
	}
}
