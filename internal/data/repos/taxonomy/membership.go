package taxonomy

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/talkbase/talkbase-backend/internal/domain"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

type ContactTagRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ContactTag) ([]*types.ContactTag, error)
	ListByContactIDs(ctx context.Context, tx *gorm.DB, contactIDs []uuid.UUID) ([]*types.ContactTag, error)
	ReplaceForContact(ctx context.Context, tx *gorm.DB, contactID uuid.UUID, tagIDs []uuid.UUID) error
	DeleteByContactIDs(ctx context.Context, tx *gorm.DB, contactIDs []uuid.UUID) error
	DeleteByTagID(ctx context.Context, tx *gorm.DB, tagID uuid.UUID) error
	DeletePair(ctx context.Context, tx *gorm.DB, contactID, tagID uuid.UUID) error
}

type contactTagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContactTagRepo(db *gorm.DB, baseLog *logger.Logger) ContactTagRepo {
	repoLog := baseLog.With("repo", "ContactTagRepo")
	return &contactTagRepo{db: db, log: repoLog}
}

func (mr *contactTagRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ContactTag) ([]*types.ContactTag, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if len(rows) == 0 {
		return []*types.ContactTag{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (mr *contactTagRepo) ListByContactIDs(ctx context.Context, tx *gorm.DB, contactIDs []uuid.UUID) ([]*types.ContactTag, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.ContactTag
	if len(contactIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("contact_id IN ?", contactIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ReplaceForContact swaps the contact's memberships for exactly tagIDs,
// delete-then-insert.
func (mr *contactTagRepo) ReplaceForContact(ctx context.Context, tx *gorm.DB, contactID uuid.UUID, tagIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if err := transaction.WithContext(ctx).
		Where("contact_id = ?", contactID).
		Delete(&types.ContactTag{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}

	rows := make([]*types.ContactTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, &types.ContactTag{
			ID:        uuid.New(),
			ContactID: contactID,
			TagID:     tagID,
		})
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}

func (mr *contactTagRepo) DeleteByContactIDs(ctx context.Context, tx *gorm.DB, contactIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if len(contactIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("contact_id IN ?", contactIDs).
		Delete(&types.ContactTag{}).Error
}

func (mr *contactTagRepo) DeleteByTagID(ctx context.Context, tx *gorm.DB, tagID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	return transaction.WithContext(ctx).
		Where("tag_id = ?", tagID).
		Delete(&types.ContactTag{}).Error
}

func (mr *contactTagRepo) DeletePair(ctx context.Context, tx *gorm.DB, contactID, tagID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	return transaction.WithContext(ctx).
		Where("contact_id = ? AND tag_id = ?", contactID, tagID).
		Delete(&types.ContactTag{}).Error
}

type ContactGroupMemberRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ContactGroupMember) ([]*types.ContactGroupMember, error)
	ListByContactIDs(ctx context.Context, tx *gorm.DB, contactIDs []uuid.UUID) ([]*types.ContactGroupMember, error)
	ReplaceForContact(ctx context.Context, tx *gorm.DB, contactID uuid.UUID, groupIDs []uuid.UUID) error
	DeleteByContactIDs(ctx context.Context, tx *gorm.DB, contactIDs []uuid.UUID) error
	DeleteByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) error
	DeletePair(ctx context.Context, tx *gorm.DB, contactID, groupID uuid.UUID) error
}

type contactGroupMemberRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContactGroupMemberRepo(db *gorm.DB, baseLog *logger.Logger) ContactGroupMemberRepo {
	repoLog := baseLog.With("repo", "ContactGroupMemberRepo")
	return &contactGroupMemberRepo{db: db, log: repoLog}
}

func (mr *contactGroupMemberRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ContactGroupMember) ([]*types.ContactGroupMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if len(rows) == 0 {
		return []*types.ContactGroupMember{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (mr *contactGroupMemberRepo) ListByContactIDs(ctx context.Context, tx *gorm.DB, contactIDs []uuid.UUID) ([]*types.ContactGroupMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.ContactGroupMember
	if len(contactIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("contact_id IN ?", contactIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *contactGroupMemberRepo) ReplaceForContact(ctx context.Context, tx *gorm.DB, contactID uuid.UUID, groupIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if err := transaction.WithContext(ctx).
		Where("contact_id = ?", contactID).
		Delete(&types.ContactGroupMember{}).Error; err != nil {
		return err
	}
	if len(groupIDs) == 0 {
		return nil
	}

	rows := make([]*types.ContactGroupMember, 0, len(groupIDs))
	for _, groupID := range groupIDs {
		rows = append(rows, &types.ContactGroupMember{
			ID:        uuid.New(),
			ContactID: contactID,
			GroupID:   groupID,
		})
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}

func (mr *contactGroupMemberRepo) DeleteByContactIDs(ctx context.Context, tx *gorm.DB, contactIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if len(contactIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("contact_id IN ?", contactIDs).
		Delete(&types.ContactGroupMember{}).Error
}

func (mr *contactGroupMemberRepo) DeleteByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	return transaction.WithContext(ctx).
		Where("group_id = ?", groupID).
		Delete(&types.ContactGroupMember{}).Error
}

func (mr *contactGroupMemberRepo) DeletePair(ctx context.Context, tx *gorm.DB, contactID, groupID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	return transaction.WithContext(ctx).
		Where("contact_id = ? AND group_id = ?", contactID, groupID).
		Delete(&types.ContactGroupMember{}).Error
}
