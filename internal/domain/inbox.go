package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	InboxStatusConnected    = "connected"
	InboxStatusDisconnected = "disconnected"
)

// Inbox is a connected WhatsApp inbox whose provider can be asked for its
// address book during inbox-sourced imports.
type Inbox struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AccountID       uuid.UUID `gorm:"type:uuid;not null;index;column:account_id" json:"account_id"`
	Name            string    `gorm:"column:name" json:"name"`
	Provider        string    `gorm:"column:provider" json:"provider"`
	Status          string    `gorm:"column:status;default:disconnected" json:"status"`
	ConnectionToken string    `gorm:"column:connection_token" json:"-"`
	CreatedAt       time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Inbox) TableName() string { return "inbox" }
