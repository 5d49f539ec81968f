package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/talkbase/talkbase-backend/internal/http/handlers"
	httpMW "github.com/talkbase/talkbase-backend/internal/http/middleware"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AuthMiddleware *httpMW.AuthMiddleware

	ContactHandler *httpH.ContactHandler
	TagHandler     *httpH.TagHandler
	GroupHandler   *httpH.GroupHandler
	DedupeHandler  *httpH.DedupeHandler
	MergeHandler   *httpH.MergeHandler
	ImportHandler  *httpH.ImportHandler
	InboxHandler   *httpH.InboxHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Contacts
		if cfg.ContactHandler != nil {
			protected.POST("/contacts", cfg.ContactHandler.Create)
			protected.GET("/contacts", cfg.ContactHandler.List)
			protected.GET("/contacts/:id", cfg.ContactHandler.Get)
			protected.PATCH("/contacts/:id", cfg.ContactHandler.Update)
			protected.DELETE("/contacts/:id", cfg.ContactHandler.Delete)
			protected.POST("/contacts/:id/avatar", cfg.ContactHandler.UploadAvatar)
		}

		// Duplicate detection
		if cfg.DedupeHandler != nil {
			protected.GET("/duplicates", cfg.DedupeHandler.Detect)
			protected.POST("/duplicates/dismiss", cfg.DedupeHandler.Dismiss)
		}

		// Merge
		if cfg.MergeHandler != nil {
			protected.POST("/contacts/merge", cfg.MergeHandler.Merge)
			protected.GET("/contacts/merge-history", cfg.MergeHandler.History)
		}

		// Import
		if cfg.ImportHandler != nil {
			protected.POST("/contacts/import", cfg.ImportHandler.ImportContacts)
			protected.POST("/inboxes/:id/import", cfg.ImportHandler.ImportFromInbox)
		}

		// Inboxes
		if cfg.InboxHandler != nil {
			protected.POST("/inboxes", cfg.InboxHandler.Create)
			protected.GET("/inboxes", cfg.InboxHandler.List)
			protected.PATCH("/inboxes/:id/status", cfg.InboxHandler.SetStatus)
		}

		// Tags
		if cfg.TagHandler != nil {
			protected.POST("/tags", cfg.TagHandler.Create)
			protected.GET("/tags", cfg.TagHandler.List)
			protected.PATCH("/tags/:id", cfg.TagHandler.Update)
			protected.DELETE("/tags/:id", cfg.TagHandler.Delete)
			protected.POST("/tags/:id/contacts", cfg.TagHandler.AttachContacts)
			protected.DELETE("/tags/:id/contacts/:contactId", cfg.TagHandler.DetachContact)
		}

		// Groups
		if cfg.GroupHandler != nil {
			protected.POST("/groups", cfg.GroupHandler.Create)
			protected.GET("/groups", cfg.GroupHandler.List)
			protected.PATCH("/groups/:id", cfg.GroupHandler.Update)
			protected.DELETE("/groups/:id", cfg.GroupHandler.Delete)
			protected.POST("/groups/:id/contacts", cfg.GroupHandler.AttachContacts)
			protected.DELETE("/groups/:id/contacts/:contactId", cfg.GroupHandler.DetachContact)
		}
	}

	return r
}
