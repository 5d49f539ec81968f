package contact

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/talkbase/talkbase-backend/internal/domain"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

type ContactRepo interface {
	Create(ctx context.Context, tx *gorm.DB, contacts []*types.Contact) ([]*types.Contact, error)
	CreateInBatches(ctx context.Context, tx *gorm.DB, contacts []*types.Contact, batchSize int) error
	GetByID(ctx context.Context, tx *gorm.DB, accountID, contactID uuid.UUID) (*types.Contact, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, contactIDs []uuid.UUID) ([]*types.Contact, error)
	GetByPhone(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, phone string) (*types.Contact, error)
	ListByAccount(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) ([]*types.Contact, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, accountID, contactID uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, contactIDs []uuid.UUID) error
	CountByAccount(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) (int64, error)
}

type contactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContactRepo(db *gorm.DB, baseLog *logger.Logger) ContactRepo {
	repoLog := baseLog.With("repo", "ContactRepo")
	return &contactRepo{db: db, log: repoLog}
}

func (cr *contactRepo) Create(ctx context.Context, tx *gorm.DB, contacts []*types.Contact) ([]*types.Contact, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(contacts) == 0 {
		return []*types.Contact{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (cr *contactRepo) CreateInBatches(ctx context.Context, tx *gorm.DB, contacts []*types.Contact, batchSize int) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(contacts) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	return transaction.WithContext(ctx).CreateInBatches(&contacts, batchSize).Error
}

func (cr *contactRepo) GetByID(ctx context.Context, tx *gorm.DB, accountID, contactID uuid.UUID) (*types.Contact, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Contact
	if err := transaction.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, contactID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (cr *contactRepo) GetByIDs(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, contactIDs []uuid.UUID) ([]*types.Contact, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Contact
	if len(contactIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("account_id = ? AND id IN ?", accountID, contactIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *contactRepo) GetByPhone(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, phone string) (*types.Contact, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Contact
	if err := transaction.WithContext(ctx).
		Where("account_id = ? AND phone = ?", accountID, phone).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (cr *contactRepo) ListByAccount(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) ([]*types.Contact, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Contact
	if err := transaction.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *contactRepo) UpdateFields(ctx context.Context, tx *gorm.DB, accountID, contactID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.Contact{}).
		Where("account_id = ? AND id = ?", accountID, contactID).
		Updates(fields).Error
}

func (cr *contactRepo) Delete(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, contactIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(contactIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("account_id = ? AND id IN ?", accountID, contactIDs).
		Delete(&types.Contact{}).Error
}

func (cr *contactRepo) CountByAccount(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Contact{}).
		Where("account_id = ?", accountID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
