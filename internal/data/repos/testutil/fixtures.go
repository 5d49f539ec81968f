package testutil

import (
	"github.com/google/uuid"

	types "github.com/talkbase/talkbase-backend/internal/domain"
)

func NewContact(accountID uuid.UUID, name, phone string) *types.Contact {
	return &types.Contact{
		ID:        uuid.New(),
		AccountID: accountID,
		Name:      name,
		Phone:     phone,
		Source:    types.ContactSourceManual,
	}
}

func NewTag(accountID uuid.UUID, name string) *types.Tag {
	return &types.Tag{
		ID:        uuid.New(),
		AccountID: accountID,
		Name:      name,
	}
}

func NewGroup(accountID uuid.UUID, name string) *types.ContactGroup {
	return &types.ContactGroup{
		ID:        uuid.New(),
		AccountID: accountID,
		Name:      name,
	}
}
