package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talkbase/talkbase-backend/internal/data/repos"
	types "github.com/talkbase/talkbase-backend/internal/domain"
	"github.com/talkbase/talkbase-backend/internal/platform/apierr"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

type InboxService interface {
	Create(ctx context.Context, accountID uuid.UUID, name, provider, connectionToken string) (*types.Inbox, error)
	List(ctx context.Context, accountID uuid.UUID) ([]*types.Inbox, error)
	SetStatus(ctx context.Context, accountID, inboxID uuid.UUID, status string) error
}

type inboxService struct {
	db        *gorm.DB
	log       *logger.Logger
	inboxRepo repos.InboxRepo
}

func NewInboxService(db *gorm.DB, baseLog *logger.Logger, inboxRepo repos.InboxRepo) InboxService {
	return &inboxService{
		db:        db,
		log:       baseLog.With("service", "InboxService"),
		inboxRepo: inboxRepo,
	}
}

func (is *inboxService) Create(ctx context.Context, accountID uuid.UUID, name, provider, connectionToken string) (*types.Inbox, error) {
	if name == "" {
		return nil, apierr.InvalidInput("inbox name is required")
	}
	ib := &types.Inbox{
		ID:              uuid.New(),
		AccountID:       accountID,
		Name:            name,
		Provider:        provider,
		Status:          types.InboxStatusDisconnected,
		ConnectionToken: connectionToken,
	}
	if connectionToken != "" {
		ib.Status = types.InboxStatusConnected
	}
	if _, err := is.inboxRepo.Create(ctx, nil, []*types.Inbox{ib}); err != nil {
		return nil, fmt.Errorf("error creating inbox: %w", err)
	}
	return ib, nil
}

func (is *inboxService) List(ctx context.Context, accountID uuid.UUID) ([]*types.Inbox, error) {
	inboxes, err := is.inboxRepo.ListByAccount(ctx, nil, accountID)
	if err != nil {
		return nil, fmt.Errorf("error listing inboxes: %w", err)
	}
	return inboxes, nil
}

func (is *inboxService) SetStatus(ctx context.Context, accountID, inboxID uuid.UUID, status string) error {
	if status != types.InboxStatusConnected && status != types.InboxStatusDisconnected {
		return apierr.InvalidInput("unknown inbox status %q", status)
	}
	ib, err := is.inboxRepo.GetByID(ctx, nil, accountID, inboxID)
	if err != nil {
		return fmt.Errorf("error fetching inbox: %w", err)
	}
	if ib == nil {
		return apierr.NotFound("inbox %s not found", inboxID)
	}
	if err := is.inboxRepo.UpdateStatus(ctx, nil, accountID, inboxID, status); err != nil {
		return fmt.Errorf("error updating inbox status: %w", err)
	}
	return nil
}
