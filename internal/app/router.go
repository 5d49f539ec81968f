package app

import (
	"github.com/gin-gonic/gin"

	apphttp "github.com/talkbase/talkbase-backend/internal/http"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, mw Middleware) *gin.Engine {
	log.Info("Wiring router...")
	return apphttp.NewRouter(apphttp.RouterConfig{
		Log:            log,
		ServiceName:    cfg.ServiceName,
		AuthMiddleware: mw.Auth,

		ContactHandler: handlers.Contact,
		TagHandler:     handlers.Tag,
		GroupHandler:   handlers.Group,
		DedupeHandler:  handlers.Dedupe,
		MergeHandler:   handlers.Merge,
		ImportHandler:  handlers.Import,
		InboxHandler:   handlers.Inbox,

		HealthHandler: handlers.Health,
	})
}
