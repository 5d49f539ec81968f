package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ContactSourceManual   = "manual"
	ContactSourceImport   = "import"
	ContactSourceWhatsApp = "whatsapp"
	ContactSourceInbox    = "inbox_sync"
)

type Contact struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;index;column:account_id" json:"account_id"`
	TenantID  uuid.UUID `gorm:"type:uuid;column:tenant_id" json:"tenant_id"`

	// Phone is stored canonicalized (digits only), unique per account among
	// live rows. The index is partial (deleted_at IS NULL) so a soft-deleted
	// contact releases its phone slot; see idx_contact_account_phone in the
	// migration DDL.
	Phone       string `gorm:"not null;column:phone" json:"phone"`
	Name        string `gorm:"column:name" json:"name"`
	AvatarURL   string `gorm:"column:avatar_url" json:"avatar_url"`
	WhatsappJID string `gorm:"column:whatsapp_jid" json:"whatsapp_jid"`

	Source        string     `gorm:"column:source;default:manual" json:"source"`
	SourceInboxID *uuid.UUID `gorm:"type:uuid;column:source_inbox_id" json:"source_inbox_id,omitempty"`
	ImportHash    string     `gorm:"column:import_hash" json:"import_hash,omitempty"`
	LastImportAt  *time.Time `gorm:"column:last_import_at" json:"last_import_at,omitempty"`

	LinkedUserID *uuid.UUID        `gorm:"type:uuid;column:linked_user_id" json:"linked_user_id,omitempty"`
	Metadata     datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Contact) TableName() string { return "contact" }
