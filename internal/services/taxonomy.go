package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/talkbase/talkbase-backend/internal/data/repos"
	types "github.com/talkbase/talkbase-backend/internal/domain"
	"github.com/talkbase/talkbase-backend/internal/platform/apierr"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
	"gorm.io/gorm"
)

// AttachResult counts how an attach or detach over several contacts went.
// Per-contact failures are tallied, not fatal.
type AttachResult struct {
	Attached int `json:"attached"`
	Detached int `json:"detached"`
	Failed   int `json:"failed"`
}

type TagService interface {
	Create(ctx context.Context, accountID uuid.UUID, name, color string) (*types.Tag, error)
	List(ctx context.Context, accountID uuid.UUID) ([]*types.Tag, error)
	Update(ctx context.Context, accountID, tagID uuid.UUID, name, color *string) (*types.Tag, error)
	Delete(ctx context.Context, accountID, tagID uuid.UUID) error
	AttachContacts(ctx context.Context, accountID, tagID uuid.UUID, contactIDs []uuid.UUID) (*AttachResult, error)
	DetachContact(ctx context.Context, accountID, tagID, contactID uuid.UUID) error
}

type tagService struct {
	db          *gorm.DB
	log         *logger.Logger
	tagRepo     repos.TagRepo
	contactRepo repos.ContactRepo
	contactTags repos.ContactTagRepo
}

func NewTagService(
	db *gorm.DB,
	baseLog *logger.Logger,
	tagRepo repos.TagRepo,
	contactRepo repos.ContactRepo,
	contactTags repos.ContactTagRepo,
) TagService {
	return &tagService{
		db:          db,
		log:         baseLog.With("service", "TagService"),
		tagRepo:     tagRepo,
		contactRepo: contactRepo,
		contactTags: contactTags,
	}
}

func (ts *tagService) Create(ctx context.Context, accountID uuid.UUID, name, color string) (*types.Tag, error) {
	if name == "" {
		return nil, apierr.InvalidInput("tag name is required")
	}
	tag := &types.Tag{
		ID:        uuid.New(),
		AccountID: accountID,
		Name:      name,
		Color:     color,
	}
	if _, err := ts.tagRepo.Create(ctx, nil, []*types.Tag{tag}); err != nil {
		if repos.IsUniqueViolation(err) {
			return nil, apierr.AlreadyExists("tag %q already exists", name)
		}
		return nil, fmt.Errorf("error creating tag: %w", err)
	}
	return tag, nil
}

func (ts *tagService) List(ctx context.Context, accountID uuid.UUID) ([]*types.Tag, error) {
	tags, err := ts.tagRepo.ListByAccount(ctx, nil, accountID)
	if err != nil {
		return nil, fmt.Errorf("error listing tags: %w", err)
	}
	return tags, nil
}

func (ts *tagService) Update(ctx context.Context, accountID, tagID uuid.UUID, name, color *string) (*types.Tag, error) {
	tag, err := ts.tagRepo.GetByID(ctx, nil, accountID, tagID)
	if err != nil {
		return nil, fmt.Errorf("error fetching tag: %w", err)
	}
	if tag == nil {
		return nil, apierr.NotFound("tag %s not found", tagID)
	}

	fields := map[string]any{}
	if name != nil {
		if *name == "" {
			return nil, apierr.InvalidInput("tag name cannot be empty")
		}
		fields["name"] = *name
	}
	if color != nil {
		fields["color"] = *color
	}
	if len(fields) == 0 {
		return tag, nil
	}
	if err := ts.tagRepo.UpdateFields(ctx, nil, accountID, tagID, fields); err != nil {
		if repos.IsUniqueViolation(err) {
			return nil, apierr.AlreadyExists("tag name already in use")
		}
		return nil, fmt.Errorf("error updating tag: %w", err)
	}
	updated, err := ts.tagRepo.GetByID(ctx, nil, accountID, tagID)
	if err != nil {
		return nil, fmt.Errorf("error refetching tag: %w", err)
	}
	return updated, nil
}

func (ts *tagService) Delete(ctx context.Context, accountID, tagID uuid.UUID) error {
	tag, err := ts.tagRepo.GetByID(ctx, nil, accountID, tagID)
	if err != nil {
		return fmt.Errorf("error fetching tag: %w", err)
	}
	if tag == nil {
		return apierr.NotFound("tag %s not found", tagID)
	}
	return ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ts.contactTags.DeleteByTagID(ctx, tx, tagID); err != nil {
			return fmt.Errorf("error deleting tag memberships: %w", err)
		}
		if err := ts.tagRepo.Delete(ctx, tx, accountID, tagID); err != nil {
			return fmt.Errorf("error deleting tag: %w", err)
		}
		return nil
	})
}

func (ts *tagService) AttachContacts(ctx context.Context, accountID, tagID uuid.UUID, contactIDs []uuid.UUID) (*AttachResult, error) {
	if len(contactIDs) == 0 {
		return nil, apierr.InvalidInput("no contacts to attach")
	}
	tag, err := ts.tagRepo.GetByID(ctx, nil, accountID, tagID)
	if err != nil {
		return nil, fmt.Errorf("error fetching tag: %w", err)
	}
	if tag == nil {
		return nil, apierr.NotFound("tag %s not found", tagID)
	}
	contacts, err := ts.contactRepo.GetByIDs(ctx, nil, accountID, contactIDs)
	if err != nil {
		return nil, fmt.Errorf("error fetching contacts: %w", err)
	}
	found := make(map[uuid.UUID]struct{}, len(contacts))
	for _, c := range contacts {
		found[c.ID] = struct{}{}
	}

	result := &AttachResult{}
	for _, id := range contactIDs {
		if _, ok := found[id]; !ok {
			result.Failed++
			continue
		}
		row := &types.ContactTag{ID: uuid.New(), ContactID: id, TagID: tagID}
		if _, err := ts.contactTags.Create(ctx, nil, []*types.ContactTag{row}); err != nil {
			if repos.IsUniqueViolation(err) {
				// Already attached counts as attached.
				result.Attached++
				continue
			}
			ts.log.Warn("Tag attach failed", "tag_id", tagID, "contact_id", id, "error", err)
			result.Failed++
			continue
		}
		result.Attached++
	}
	return result, nil
}

func (ts *tagService) DetachContact(ctx context.Context, accountID, tagID, contactID uuid.UUID) error {
	tag, err := ts.tagRepo.GetByID(ctx, nil, accountID, tagID)
	if err != nil {
		return fmt.Errorf("error fetching tag: %w", err)
	}
	if tag == nil {
		return apierr.NotFound("tag %s not found", tagID)
	}
	if err := ts.contactTags.DeletePair(ctx, nil, contactID, tagID); err != nil {
		return fmt.Errorf("error detaching tag: %w", err)
	}
	return nil
}

type GroupService interface {
	Create(ctx context.Context, accountID uuid.UUID, name, description string) (*types.ContactGroup, error)
	List(ctx context.Context, accountID uuid.UUID) ([]*types.ContactGroup, error)
	Update(ctx context.Context, accountID, groupID uuid.UUID, name, description *string) (*types.ContactGroup, error)
	Delete(ctx context.Context, accountID, groupID uuid.UUID) error
	AttachContacts(ctx context.Context, accountID, groupID uuid.UUID, contactIDs []uuid.UUID) (*AttachResult, error)
	DetachContact(ctx context.Context, accountID, groupID, contactID uuid.UUID) error
}

type groupService struct {
	db           *gorm.DB
	log          *logger.Logger
	groupRepo    repos.ContactGroupRepo
	contactRepo  repos.ContactRepo
	groupMembers repos.ContactGroupMemberRepo
}

func NewGroupService(
	db *gorm.DB,
	baseLog *logger.Logger,
	groupRepo repos.ContactGroupRepo,
	contactRepo repos.ContactRepo,
	groupMembers repos.ContactGroupMemberRepo,
) GroupService {
	return &groupService{
		db:           db,
		log:          baseLog.With("service", "GroupService"),
		groupRepo:    groupRepo,
		contactRepo:  contactRepo,
		groupMembers: groupMembers,
	}
}

func (gs *groupService) Create(ctx context.Context, accountID uuid.UUID, name, description string) (*types.ContactGroup, error) {
	if name == "" {
		return nil, apierr.InvalidInput("group name is required")
	}
	group := &types.ContactGroup{
		ID:          uuid.New(),
		AccountID:   accountID,
		Name:        name,
		Description: description,
	}
	if _, err := gs.groupRepo.Create(ctx, nil, []*types.ContactGroup{group}); err != nil {
		if repos.IsUniqueViolation(err) {
			return nil, apierr.AlreadyExists("group %q already exists", name)
		}
		return nil, fmt.Errorf("error creating group: %w", err)
	}
	return group, nil
}

func (gs *groupService) List(ctx context.Context, accountID uuid.UUID) ([]*types.ContactGroup, error) {
	groups, err := gs.groupRepo.ListByAccount(ctx, nil, accountID)
	if err != nil {
		return nil, fmt.Errorf("error listing groups: %w", err)
	}
	return groups, nil
}

func (gs *groupService) Update(ctx context.Context, accountID, groupID uuid.UUID, name, description *string) (*types.ContactGroup, error) {
	group, err := gs.groupRepo.GetByID(ctx, nil, accountID, groupID)
	if err != nil {
		return nil, fmt.Errorf("error fetching group: %w", err)
	}
	if group == nil {
		return nil, apierr.NotFound("group %s not found", groupID)
	}

	fields := map[string]any{}
	if name != nil {
		if *name == "" {
			return nil, apierr.InvalidInput("group name cannot be empty")
		}
		fields["name"] = *name
	}
	if description != nil {
		fields["description"] = *description
	}
	if len(fields) == 0 {
		return group, nil
	}
	if err := gs.groupRepo.UpdateFields(ctx, nil, accountID, groupID, fields); err != nil {
		if repos.IsUniqueViolation(err) {
			return nil, apierr.AlreadyExists("group name already in use")
		}
		return nil, fmt.Errorf("error updating group: %w", err)
	}
	updated, err := gs.groupRepo.GetByID(ctx, nil, accountID, groupID)
	if err != nil {
		return nil, fmt.Errorf("error refetching group: %w", err)
	}
	return updated, nil
}

func (gs *groupService) Delete(ctx context.Context, accountID, groupID uuid.UUID) error {
	group, err := gs.groupRepo.GetByID(ctx, nil, accountID, groupID)
	if err != nil {
		return fmt.Errorf("error fetching group: %w", err)
	}
	if group == nil {
		return apierr.NotFound("group %s not found", groupID)
	}
	return gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := gs.groupMembers.DeleteByGroupID(ctx, tx, groupID); err != nil {
			return fmt.Errorf("error deleting group memberships: %w", err)
		}
		if err := gs.groupRepo.Delete(ctx, tx, accountID, groupID); err != nil {
			return fmt.Errorf("error deleting group: %w", err)
		}
		return nil
	})
}

func (gs *groupService) AttachContacts(ctx context.Context, accountID, groupID uuid.UUID, contactIDs []uuid.UUID) (*AttachResult, error) {
	if len(contactIDs) == 0 {
		return nil, apierr.InvalidInput("no contacts to attach")
	}
	group, err := gs.groupRepo.GetByID(ctx, nil, accountID, groupID)
	if err != nil {
		return nil, fmt.Errorf("error fetching group: %w", err)
	}
	if group == nil {
		return nil, apierr.NotFound("group %s not found", groupID)
	}
	contacts, err := gs.contactRepo.GetByIDs(ctx, nil, accountID, contactIDs)
	if err != nil {
		return nil, fmt.Errorf("error fetching contacts: %w", err)
	}
	found := make(map[uuid.UUID]struct{}, len(contacts))
	for _, c := range contacts {
		found[c.ID] = struct{}{}
	}

	result := &AttachResult{}
	for _, id := range contactIDs {
		if _, ok := found[id]; !ok {
			result.Failed++
			continue
		}
		row := &types.ContactGroupMember{ID: uuid.New(), ContactID: id, GroupID: groupID}
		if _, err := gs.groupMembers.Create(ctx, nil, []*types.ContactGroupMember{row}); err != nil {
			if repos.IsUniqueViolation(err) {
				result.Attached++
				continue
			}
			gs.log.Warn("Group attach failed", "group_id", groupID, "contact_id", id, "error", err)
			result.Failed++
			continue
		}
		result.Attached++
	}
	return result, nil
}

func (gs *groupService) DetachContact(ctx context.Context, accountID, groupID, contactID uuid.UUID) error {
	group, err := gs.groupRepo.GetByID(ctx, nil, accountID, groupID)
	if err != nil {
		return fmt.Errorf("error fetching group: %w", err)
	}
	if group == nil {
		return apierr.NotFound("group %s not found", groupID)
	}
	if err := gs.groupMembers.DeletePair(ctx, nil, contactID, groupID); err != nil {
		return fmt.Errorf("error detaching group: %w", err)
	}
	return nil
}
