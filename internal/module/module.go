package module

import (
	"activity-enroll-system/internal/module/activity"
	"activity-enroll-system/internal/module/comment"
	"activity-enroll-system/internal/module/enrollment"
	"activity-enroll-system/internal/module/ping"
	"activity-enroll-system/internal/module/user"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

func init() {
	// Register your module here
	registerModule([]Module{
		&user.ModuleUser{},
		&ping.ModulePing{},
		&activity.ModuleActivity{},
		&enrollment.ModuleEnrollment{},
		&comment.ModuleComment{},
	})
}
