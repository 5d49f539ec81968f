package taxonomy

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/talkbase/talkbase-backend/internal/domain"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

type ContactGroupRepo interface {
	Create(ctx context.Context, tx *gorm.DB, groups []*types.ContactGroup) ([]*types.ContactGroup, error)
	GetByID(ctx context.Context, tx *gorm.DB, accountID, groupID uuid.UUID) (*types.ContactGroup, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, groupIDs []uuid.UUID) ([]*types.ContactGroup, error)
	GetByName(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, name string) (*types.ContactGroup, error)
	ListByAccount(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) ([]*types.ContactGroup, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, accountID, groupID uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, accountID, groupID uuid.UUID) error
}

type contactGroupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContactGroupRepo(db *gorm.DB, baseLog *logger.Logger) ContactGroupRepo {
	repoLog := baseLog.With("repo", "ContactGroupRepo")
	return &contactGroupRepo{db: db, log: repoLog}
}

func (gr *contactGroupRepo) Create(ctx context.Context, tx *gorm.DB, groups []*types.ContactGroup) ([]*types.ContactGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	if len(groups) == 0 {
		return []*types.ContactGroup{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (gr *contactGroupRepo) GetByID(ctx context.Context, tx *gorm.DB, accountID, groupID uuid.UUID) (*types.ContactGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	var results []*types.ContactGroup
	if err := transaction.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, groupID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (gr *contactGroupRepo) GetByIDs(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, groupIDs []uuid.UUID) ([]*types.ContactGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	var results []*types.ContactGroup
	if len(groupIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("account_id = ? AND id IN ?", accountID, groupIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gr *contactGroupRepo) GetByName(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, name string) (*types.ContactGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	var results []*types.ContactGroup
	if err := transaction.WithContext(ctx).
		Where("account_id = ? AND name = ?", accountID, name).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (gr *contactGroupRepo) ListByAccount(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) ([]*types.ContactGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	var results []*types.ContactGroup
	if err := transaction.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gr *contactGroupRepo) UpdateFields(ctx context.Context, tx *gorm.DB, accountID, groupID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	if len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.ContactGroup{}).
		Where("account_id = ? AND id = ?", accountID, groupID).
		Updates(fields).Error
}

func (gr *contactGroupRepo) Delete(ctx context.Context, tx *gorm.DB, accountID, groupID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	return transaction.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, groupID).
		Delete(&types.ContactGroup{}).Error
}
