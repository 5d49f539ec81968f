package app

import (
	"gorm.io/gorm"

	"github.com/talkbase/talkbase-backend/internal/platform/logger"
	"github.com/talkbase/talkbase-backend/internal/services"
)

type Services struct {
	Avatar  services.AvatarService
	Contact services.ContactService
	Dedupe  services.DedupeService
	Merge   services.MergeService
	Import  services.ImportService
	Tag     services.TagService
	Group   services.GroupService
	Inbox   services.InboxService
}

func wireServices(db *gorm.DB, log *logger.Logger, repoSet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	var avatarService services.AvatarService
	if clients.GcpBucket != nil {
		svc, err := services.NewAvatarService(db, log, repoSet.Contact, clients.GcpBucket)
		if err != nil {
			log.Warn("Could not init AvatarService, initials avatars disabled", "error", err)
		} else {
			avatarService = svc
		}
	}

	contactService := services.NewContactService(
		db, log,
		repoSet.Contact,
		repoSet.Tag,
		repoSet.ContactGroup,
		repoSet.ContactTag,
		repoSet.ContactGroupMember,
		repoSet.DuplicateDismissal,
		clients.DedupeCache,
		avatarService,
	)
	dedupeService := services.NewDedupeService(db, log, repoSet.Contact, repoSet.DuplicateDismissal, clients.DedupeCache)
	mergeService := services.NewMergeService(
		db, log,
		repoSet.Contact,
		repoSet.ContactTag,
		repoSet.ContactGroupMember,
		repoSet.DuplicateDismissal,
		repoSet.ContactMergeLog,
		contactService,
		clients.DedupeCache,
	)
	importService := services.NewImportService(db, log, repoSet.Contact, repoSet.Inbox, clients.Wapi, clients.DedupeCache)
	tagService := services.NewTagService(db, log, repoSet.Tag, repoSet.Contact, repoSet.ContactTag)
	groupService := services.NewGroupService(db, log, repoSet.ContactGroup, repoSet.Contact, repoSet.ContactGroupMember)
	inboxService := services.NewInboxService(db, log, repoSet.Inbox)

	return Services{
		Avatar:  avatarService,
		Contact: contactService,
		Dedupe:  dedupeService,
		Merge:   mergeService,
		Import:  importService,
		Tag:     tagService,
		Group:   groupService,
		Inbox:   inboxService,
	}
}
