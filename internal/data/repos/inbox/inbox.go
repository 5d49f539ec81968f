package inbox

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/talkbase/talkbase-backend/internal/domain"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

type InboxRepo interface {
	Create(ctx context.Context, tx *gorm.DB, inboxes []*types.Inbox) ([]*types.Inbox, error)
	GetByID(ctx context.Context, tx *gorm.DB, accountID, inboxID uuid.UUID) (*types.Inbox, error)
	ListByAccount(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) ([]*types.Inbox, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, accountID, inboxID uuid.UUID, status string) error
}

type inboxRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInboxRepo(db *gorm.DB, baseLog *logger.Logger) InboxRepo {
	repoLog := baseLog.With("repo", "InboxRepo")
	return &inboxRepo{db: db, log: repoLog}
}

func (ir *inboxRepo) Create(ctx context.Context, tx *gorm.DB, inboxes []*types.Inbox) ([]*types.Inbox, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	if len(inboxes) == 0 {
		return []*types.Inbox{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&inboxes).Error; err != nil {
		return nil, err
	}
	return inboxes, nil
}

func (ir *inboxRepo) GetByID(ctx context.Context, tx *gorm.DB, accountID, inboxID uuid.UUID) (*types.Inbox, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.Inbox
	if err := transaction.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, inboxID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (ir *inboxRepo) ListByAccount(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) ([]*types.Inbox, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.Inbox
	if err := transaction.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *inboxRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, accountID, inboxID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Inbox{}).
		Where("account_id = ? AND id = ?", accountID, inboxID).
		Update("status", status).Error
}
