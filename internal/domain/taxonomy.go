package domain

import (
	"time"

	"github.com/google/uuid"
)

type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tag_account_name;column:account_id" json:"account_id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_tag_account_name;column:name" json:"name"`
	Color     string    `gorm:"column:color" json:"color"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Tag) TableName() string { return "tag" }

type ContactGroup struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccountID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_account_name;column:account_id" json:"account_id"`
	Name        string    `gorm:"not null;uniqueIndex:idx_group_account_name;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ContactGroup) TableName() string { return "contact_group" }

type ContactTag struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ContactID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_contact_tag_pair;column:contact_id" json:"contact_id"`
	TagID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_contact_tag_pair;column:tag_id" json:"tag_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ContactTag) TableName() string { return "contact_tag" }

type ContactGroupMember struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ContactID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_contact_group_pair;column:contact_id" json:"contact_id"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_contact_group_pair;column:group_id" json:"group_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ContactGroupMember) TableName() string { return "contact_group_member" }
