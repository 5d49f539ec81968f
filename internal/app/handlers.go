package app

import (
	httpH "github.com/talkbase/talkbase-backend/internal/http/handlers"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

type Handlers struct {
	Contact *httpH.ContactHandler
	Tag     *httpH.TagHandler
	Group   *httpH.GroupHandler
	Dedupe  *httpH.DedupeHandler
	Merge   *httpH.MergeHandler
	Import  *httpH.ImportHandler
	Inbox   *httpH.InboxHandler
	Health  *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, svcs Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Contact: httpH.NewContactHandler(svcs.Contact, svcs.Avatar),
		Tag:     httpH.NewTagHandler(svcs.Tag),
		Group:   httpH.NewGroupHandler(svcs.Group),
		Dedupe:  httpH.NewDedupeHandler(svcs.Dedupe),
		Merge:   httpH.NewMergeHandler(svcs.Merge),
		Import:  httpH.NewImportHandler(svcs.Import),
		Inbox:   httpH.NewInboxHandler(svcs.Inbox),
		Health:  httpH.NewHealthHandler(),
	}
}
