package server

import (
	"activity-enroll-system/config"
	"activity-enroll-system/internal/global/database"
	"activity-enroll-system/internal/global/logger"
	"activity-enroll-system/internal/global/middleware"
	internalOtel "activity-enroll-system/internal/global/otel"
	internalSentry "activity-enroll-system/internal/global/sentry"
	"activity-enroll-system/internal/module"
	"activity-enroll-system/internal/store"
	"activity-enroll-system/tools"
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
)

var log *slog.Logger

func Init() {
	config.Init()
	log = logger.New("Server")

	if err := internalSentry.Init(); err != nil {
		log.Warn("Sentry init failed", "error", err)
	}

	database.Init()
	database.InitRedis()
	store.Init()

	if config.Get().OTel.Enable {
		log.Info("OTel Enabled")
		internalOtel.Init()
	}

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

func Run() {
	gin.SetMode(string(config.Get().Mode))
	r := gin.New()

	switch config.Get().Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	if config.Get().Sentry.Dsn != "" {
		r.Use(internalSentry.Middleware())
		r.Use(middleware.SentryEnrichIP())
	}
	r.Use(middleware.Cors())
	r.Use(middleware.Recovery())

	if config.Get().OTel.Enable {
		r.Use(middleware.Trace())
	}

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(r.Group("/" + config.Get().Prefix))
	}

	defer internalSentry.Flush()
	if config.Get().OTel.Enable {
		// 退出时关闭 TracerProvider，冲刷未上报的 Span
		defer func() {
			if err := internalOtel.Shutdown(context.Background()); err != nil {
				log.Error("Failed to shutdown TracerProvider", "error", err)
			}
		}()
	}

	err := r.Run(config.Get().Host + ":" + config.Get().Port)
	tools.PanicOnErr(err)
}
