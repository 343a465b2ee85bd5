package enrollment

import (
	"activity-enroll-system/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (e *ModuleEnrollment) InitRouter(r *gin.RouterGroup) {
	enrollmentGroup := r.Group("/enrollment")

	enrollmentGroup.Use(middleware.Auth(0))
	{
		enrollmentGroup.POST("/join", Join)
		enrollmentGroup.GET("/list", list)
		enrollmentGroup.GET("/count", count)
		enrollmentGroup.GET("/ask", ask)
	}
}
