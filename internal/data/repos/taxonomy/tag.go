package taxonomy

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/talkbase/talkbase-backend/internal/domain"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

type TagRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tags []*types.Tag) ([]*types.Tag, error)
	GetByID(ctx context.Context, tx *gorm.DB, accountID, tagID uuid.UUID) (*types.Tag, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, tagIDs []uuid.UUID) ([]*types.Tag, error)
	GetByName(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, name string) (*types.Tag, error)
	ListByAccount(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) ([]*types.Tag, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, accountID, tagID uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, accountID, tagID uuid.UUID) error
}

type tagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
	repoLog := baseLog.With("repo", "TagRepo")
	return &tagRepo{db: db, log: repoLog}
}

func (tr *tagRepo) Create(ctx context.Context, tx *gorm.DB, tags []*types.Tag) ([]*types.Tag, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if len(tags) == 0 {
		return []*types.Tag{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (tr *tagRepo) GetByID(ctx context.Context, tx *gorm.DB, accountID, tagID uuid.UUID) (*types.Tag, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Tag
	if err := transaction.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, tagID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (tr *tagRepo) GetByIDs(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, tagIDs []uuid.UUID) ([]*types.Tag, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Tag
	if len(tagIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("account_id = ? AND id IN ?", accountID, tagIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *tagRepo) GetByName(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, name string) (*types.Tag, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Tag
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

func (tr *tagRepo) ListByAccount(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) ([]*types.Tag, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Tag
	if err := transaction.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *tagRepo) UpdateFields(ctx context.Context, tx *gorm.DB, accountID, tagID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.Tag{}).
		Where("account_id = ? AND id = ?", accountID, tagID).
		Updates(fields).Error
}

func (tr *tagRepo) Delete(ctx context.Context, tx *gorm.DB, accountID, tagID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	return transaction.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, tagID).
		Delete(&types.Tag{}).Error
}
