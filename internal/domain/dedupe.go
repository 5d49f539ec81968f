package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DuplicateDismissal marks a pair of contacts as a confirmed non-duplicate.
// ContactID1/ContactID2 are always stored in canonical (lexicographic) order so
// a pair and its reverse resolve to one row.
type DuplicateDismissal struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccountID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_dismissal_pair;column:account_id" json:"account_id"`
	ContactID1 uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_dismissal_pair;column:contact_id_1" json:"contact_id_1"`
	ContactID2 uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_dismissal_pair;column:contact_id_2" json:"contact_id_2"`
	CreatedBy  uuid.UUID `gorm:"type:uuid;column:created_by" json:"created_by"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (DuplicateDismissal) TableName() string { return "duplicate_dismissal" }

// ContactMergeLog is an append-only audit row written before absorbed contacts
// are deleted. Snapshots holds the pre-merge state of every source contact.
type ContactMergeLog struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccountID        uuid.UUID      `gorm:"type:uuid;not null;index;column:account_id" json:"account_id"`
	MergedContactID  uuid.UUID      `gorm:"type:uuid;not null;column:merged_contact_id" json:"merged_contact_id"`
	SourceContactIDs datatypes.JSON `gorm:"column:source_contact_ids" json:"source_contact_ids"`
	Snapshots        datatypes.JSON `gorm:"column:snapshots" json:"snapshots"`
	MergeConfig      datatypes.JSON `gorm:"column:merge_config" json:"merge_config"`
	MergedBy         uuid.UUID      `gorm:"type:uuid;column:merged_by" json:"merged_by"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (ContactMergeLog) TableName() string { return "contact_merge_log" }
