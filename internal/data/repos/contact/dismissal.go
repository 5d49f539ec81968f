package contact

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/talkbase/talkbase-backend/internal/domain"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

type DuplicateDismissalRepo interface {
	Create(ctx context.Context, tx *gorm.DB, dismissal *types.DuplicateDismissal) error
	ListByAccount(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) ([]*types.DuplicateDismissal, error)
	DeleteByContactIDs(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, contactIDs []uuid.UUID) error
}

type duplicateDismissalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDuplicateDismissalRepo(db *gorm.DB, baseLog *logger.Logger) DuplicateDismissalRepo {
	repoLog := baseLog.With("repo", "DuplicateDismissalRepo")
	return &duplicateDismissalRepo{db: db, log: repoLog}
}

func (dr *duplicateDismissalRepo) Create(ctx context.Context, tx *gorm.DB, dismissal *types.DuplicateDismissal) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	return transaction.WithContext(ctx).Create(dismissal).Error
}

func (dr *duplicateDismissalRepo) ListByAccount(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) ([]*types.DuplicateDismissal, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.DuplicateDismissal
	if err := transaction.WithContext(ctx).
		Where("account_id = ?", accountID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteByContactIDs clears dismissals referencing contacts that no longer
// exist, e.g. after a merge absorbed them.
func (dr *duplicateDismissalRepo) DeleteByContactIDs(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, contactIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if len(contactIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("account_id = ? AND (contact_id_1 IN ? OR contact_id_2 IN ?)", accountID, contactIDs, contactIDs).
		Delete(&types.DuplicateDismissal{}).Error
}
