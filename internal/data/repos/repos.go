package repos

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/talkbase/talkbase-backend/internal/data/repos/contact"
	"github.com/talkbase/talkbase-backend/internal/data/repos/inbox"
	"github.com/talkbase/talkbase-backend/internal/data/repos/taxonomy"
)

type ContactRepo = contact.ContactRepo
type DuplicateDismissalRepo = contact.DuplicateDismissalRepo
type ContactMergeLogRepo = contact.ContactMergeLogRepo

type TagRepo = taxonomy.TagRepo
type ContactGroupRepo = taxonomy.ContactGroupRepo
type ContactTagRepo = taxonomy.ContactTagRepo
type ContactGroupMemberRepo = taxonomy.ContactGroupMemberRepo

type InboxRepo = inbox.InboxRepo

var NewContactRepo = contact.NewContactRepo
var NewDuplicateDismissalRepo = contact.NewDuplicateDismissalRepo
var NewContactMergeLogRepo = contact.NewContactMergeLogRepo

var NewTagRepo = taxonomy.NewTagRepo
var NewContactGroupRepo = taxonomy.NewContactGroupRepo
var NewContactTagRepo = taxonomy.NewContactTagRepo
var NewContactGroupMemberRepo = taxonomy.NewContactGroupMemberRepo

var NewInboxRepo = inbox.NewInboxRepo

// IsUniqueViolation reports whether err is a unique-constraint violation,
// either translated by GORM or raised raw by the postgres driver (23505).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
