package contact

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/talkbase/talkbase-backend/internal/domain"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

type ContactMergeLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, record *types.ContactMergeLog) error
	ListByAccount(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, limit int) ([]*types.ContactMergeLog, error)
}

type contactMergeLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContactMergeLogRepo(db *gorm.DB, baseLog *logger.Logger) ContactMergeLogRepo {
	repoLog := baseLog.With("repo", "ContactMergeLogRepo")
	return &contactMergeLogRepo{db: db, log: repoLog}
}

func (mr *contactMergeLogRepo) Create(ctx context.Context, tx *gorm.DB, record *types.ContactMergeLog) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).Create(record).Error
}

func (mr *contactMergeLogRepo) ListByAccount(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, limit int) ([]*types.ContactMergeLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if limit <= 0 {
		limit = 50
	}

	var results []*types.ContactMergeLog
	if err := transaction.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
