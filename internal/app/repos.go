package app

import (
	"gorm.io/gorm"

	"github.com/talkbase/talkbase-backend/internal/data/repos"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

type Repos struct {
	Contact            repos.ContactRepo
	DuplicateDismissal repos.DuplicateDismissalRepo
	ContactMergeLog    repos.ContactMergeLogRepo
	Tag                repos.TagRepo
	ContactGroup       repos.ContactGroupRepo
	ContactTag         repos.ContactTagRepo
	ContactGroupMember repos.ContactGroupMemberRepo
	Inbox              repos.InboxRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Contact:            repos.NewContactRepo(db, log),
		DuplicateDismissal: repos.NewDuplicateDismissalRepo(db, log),
		ContactMergeLog:    repos.NewContactMergeLogRepo(db, log),
		Tag:                repos.NewTagRepo(db, log),
		ContactGroup:       repos.NewContactGroupRepo(db, log),
		ContactTag:         repos.NewContactTagRepo(db, log),
		ContactGroupMember: repos.NewContactGroupMemberRepo(db, log),
		Inbox:              repos.NewInboxRepo(db, log),
	}
}
