package user

import (
	"activity-enroll-system/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (u *ModuleUser) InitRouter(r *gin.RouterGroup) {
	// 定义用户模块的路由组，所有用户相关端点以 /user 为前缀
	userGroup := r.Group("/user")

	userGroup.POST("/register", Register)
	userGroup.POST("/login", Login)

	authGroup := userGroup.Use(middleware.Auth(0))
	{
		authGroup.GET("/me", getMe)
		authGroup.PUT("/password", ChangePassword)
		authGroup.PUT("/profile", UpdateProfile)
	}
}
