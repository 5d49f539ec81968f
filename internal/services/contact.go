package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/talkbase/talkbase-backend/internal/clients/redis"
	"github.com/talkbase/talkbase-backend/internal/data/repos"
	types "github.com/talkbase/talkbase-backend/internal/domain"
	"github.com/talkbase/talkbase-backend/internal/identity"
	"github.com/talkbase/talkbase-backend/internal/platform/apierr"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

// ContactDTO is the formatted contact shape returned to the API layer, with
// tag and group relations hydrated.
type ContactDTO struct {
	Contact *types.Contact        `json:"contact"`
	Tags    []*types.Tag          `json:"tags"`
	Groups  []*types.ContactGroup `json:"groups"`
}

type ContactInput struct {
	Phone       string         `json:"phone"`
	Name        string         `json:"name"`
	AvatarURL   string         `json:"avatar_url"`
	WhatsappJID string         `json:"whatsapp_jid"`
	Metadata    map[string]any `json:"metadata"`
}

type ContactUpdate struct {
	Name        *string        `json:"name"`
	Phone       *string        `json:"phone"`
	AvatarURL   *string        `json:"avatar_url"`
	WhatsappJID *string        `json:"whatsapp_jid"`
	Metadata    map[string]any `json:"metadata"`
}

type ContactService interface {
	Create(ctx context.Context, accountID, tenantID uuid.UUID, input ContactInput) (*ContactDTO, error)
	Get(ctx context.Context, accountID, contactID uuid.UUID) (*ContactDTO, error)
	List(ctx context.Context, accountID uuid.UUID) ([]*ContactDTO, error)
	Update(ctx context.Context, accountID, contactID uuid.UUID, update ContactUpdate) (*ContactDTO, error)
	Delete(ctx context.Context, accountID, contactID uuid.UUID) error
}

type contactService struct {
	db            *gorm.DB
	log           *logger.Logger
	contactRepo   repos.ContactRepo
	tagRepo       repos.TagRepo
	groupRepo     repos.ContactGroupRepo
	contactTags   repos.ContactTagRepo
	groupMembers  repos.ContactGroupMemberRepo
	dismissals    repos.DuplicateDismissalRepo
	dedupeCache   redis.DedupeCache
	avatarService AvatarService
}

func NewContactService(
	db *gorm.DB,
	baseLog *logger.Logger,
	contactRepo repos.ContactRepo,
	tagRepo repos.TagRepo,
	groupRepo repos.ContactGroupRepo,
	contactTags repos.ContactTagRepo,
	groupMembers repos.ContactGroupMemberRepo,
	dismissals repos.DuplicateDismissalRepo,
	dedupeCache redis.DedupeCache,
	avatarService AvatarService,
) ContactService {
	return &contactService{
		db:            db,
		log:           baseLog.With("service", "ContactService"),
		contactRepo:   contactRepo,
		tagRepo:       tagRepo,
		groupRepo:     groupRepo,
		contactTags:   contactTags,
		groupMembers:  groupMembers,
		dismissals:    dismissals,
		dedupeCache:   dedupeCache,
		avatarService: avatarService,
	}
}

func (cs *contactService) Create(ctx context.Context, accountID, tenantID uuid.UUID, input ContactInput) (*ContactDTO, error) {
	phone := identity.NormalizePhone(input.Phone)
	if phone == "" {
		return nil, apierr.InvalidInput("contact phone %q has no digits", input.Phone)
	}

	existing, err := cs.contactRepo.GetByPhone(ctx, nil, accountID, phone)
	if err != nil {
		return nil, fmt.Errorf("error checking phone uniqueness: %w", err)
	}
	if existing != nil {
		return nil, apierr.AlreadyExists("contact with phone %s already exists", phone)
	}

	contact := &types.Contact{
		ID:          uuid.New(),
		AccountID:   accountID,
		TenantID:    tenantID,
		Phone:       phone,
		Name:        input.Name,
		AvatarURL:   input.AvatarURL,
		WhatsappJID: input.WhatsappJID,
		Source:      types.ContactSourceManual,
	}
	if input.Metadata != nil {
		contact.Metadata = datatypes.JSONMap(input.Metadata)
	}

	if _, err := cs.contactRepo.Create(ctx, nil, []*types.Contact{contact}); err != nil {
		if repos.IsUniqueViolation(err) {
			return nil, apierr.AlreadyExists("contact with phone %s already exists", phone)
		}
		return nil, fmt.Errorf("error creating contact: %w", err)
	}

	if cs.avatarService != nil && contact.AvatarURL == "" {
		if err := cs.avatarService.GenerateContactAvatar(ctx, nil, contact); err != nil {
			cs.log.Warn("Avatar generation failed for new contact", "contact_id", contact.ID, "error", err)
		}
	}

	cs.invalidateDedupe(ctx, accountID)
	return cs.hydrate(ctx, nil, accountID, contact)
}

func (cs *contactService) Get(ctx context.Context, accountID, contactID uuid.UUID) (*ContactDTO, error) {
	contact, err := cs.contactRepo.GetByID(ctx, nil, accountID, contactID)
	if err != nil {
		return nil, fmt.Errorf("error fetching contact: %w", err)
	}
	if contact == nil {
		return nil, apierr.NotFound("contact %s not found", contactID)
	}
	return cs.hydrate(ctx, nil, accountID, contact)
}

func (cs *contactService) List(ctx context.Context, accountID uuid.UUID) ([]*ContactDTO, error) {
	contacts, err := cs.contactRepo.ListByAccount(ctx, nil, accountID)
	if err != nil {
		return nil, fmt.Errorf("error listing contacts: %w", err)
	}
	return cs.hydrateAll(ctx, nil, accountID, contacts)
}

func (cs *contactService) Update(ctx context.Context, accountID, contactID uuid.UUID, update ContactUpdate) (*ContactDTO, error) {
	contact, err := cs.contactRepo.GetByID(ctx, nil, accountID, contactID)
	if err != nil {
		return nil, fmt.Errorf("error fetching contact: %w", err)
	}
	if contact == nil {
		return nil, apierr.NotFound("contact %s not found", contactID)
	}

	fields := map[string]any{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Phone != nil {
		phone := identity.NormalizePhone(*update.Phone)
		if phone == "" {
			return nil, apierr.InvalidInput("contact phone %q has no digits", *update.Phone)
		}
		if phone != contact.Phone {
			other, err := cs.contactRepo.GetByPhone(ctx, nil, accountID, phone)
			if err != nil {
				return nil, fmt.Errorf("error checking phone uniqueness: %w", err)
			}
			if other != nil && other.ID != contactID {
				return nil, apierr.AlreadyExists("contact with phone %s already exists", phone)
			}
			fields["phone"] = phone
		}
	}
	if update.AvatarURL != nil {
		fields["avatar_url"] = *update.AvatarURL
	}
	if update.WhatsappJID != nil {
		fields["whatsapp_jid"] = *update.WhatsappJID
	}
	if update.Metadata != nil {
		fields["metadata"] = datatypes.JSONMap(update.Metadata)
	}
	if len(fields) == 0 {
		return cs.hydrate(ctx, nil, accountID, contact)
	}
	fields["updated_at"] = time.Now().UTC()

	if err := cs.contactRepo.UpdateFields(ctx, nil, accountID, contactID, fields); err != nil {
		if repos.IsUniqueViolation(err) {
			return nil, apierr.AlreadyExists("contact phone already in use")
		}
		return nil, fmt.Errorf("error updating contact: %w", err)
	}

	cs.invalidateDedupe(ctx, accountID)

	updated, err := cs.contactRepo.GetByID(ctx, nil, accountID, contactID)
	if err != nil {
		return nil, fmt.Errorf("error refetching contact: %w", err)
	}
	return cs.hydrate(ctx, nil, accountID, updated)
}

func (cs *contactService) Delete(ctx context.Context, accountID, contactID uuid.UUID) error {
	contact, err := cs.contactRepo.GetByID(ctx, nil, accountID, contactID)
	if err != nil {
		return fmt.Errorf("error fetching contact: %w", err)
	}
	if contact == nil {
		return apierr.NotFound("contact %s not found", contactID)
	}

	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.contactTags.DeleteByContactIDs(ctx, tx, []uuid.UUID{contactID}); err != nil {
			return fmt.Errorf("error deleting tag memberships: %w", err)
		}
		if err := cs.groupMembers.DeleteByContactIDs(ctx, tx, []uuid.UUID{contactID}); err != nil {
			return fmt.Errorf("error deleting group memberships: %w", err)
		}
		if err := cs.dismissals.DeleteByContactIDs(ctx, tx, accountID, []uuid.UUID{contactID}); err != nil {
			return fmt.Errorf("error deleting dismissals: %w", err)
		}
		if err := cs.contactRepo.Delete(ctx, tx, accountID, []uuid.UUID{contactID}); err != nil {
			return fmt.Errorf("error deleting contact: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cs.invalidateDedupe(ctx, accountID)
	return nil
}

func (cs *contactService) invalidateDedupe(ctx context.Context, accountID uuid.UUID) {
	if cs.dedupeCache == nil {
		return
	}
	if err := cs.dedupeCache.Invalidate(ctx, accountID); err != nil {
		cs.log.Warn("Dedupe cache invalidation failed", "account_id", accountID, "error", err)
	}
}

func (cs *contactService) hydrate(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, contact *types.Contact) (*ContactDTO, error) {
	dtos, err := cs.hydrateAll(ctx, tx, accountID, []*types.Contact{contact})
	if err != nil {
		return nil, err
	}
	return dtos[0], nil
}

func (cs *contactService) hydrateAll(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, contacts []*types.Contact) ([]*ContactDTO, error) {
	ids := make([]uuid.UUID, 0, len(contacts))
	for _, c := range contacts {
		ids = append(ids, c.ID)
	}

	tagRows, err := cs.contactTags.ListByContactIDs(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("error fetching tag memberships: %w", err)
	}
	groupRows, err := cs.groupMembers.ListByContactIDs(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("error fetching group memberships: %w", err)
	}

	tagIDSet := make(map[uuid.UUID]struct{})
	for _, row := range tagRows {
		tagIDSet[row.TagID] = struct{}{}
	}
	groupIDSet := make(map[uuid.UUID]struct{})
	for _, row := range groupRows {
		groupIDSet[row.GroupID] = struct{}{}
	}

	tags, err := cs.tagRepo.GetByIDs(ctx, tx, accountID, keys(tagIDSet))
	if err != nil {
		return nil, fmt.Errorf("error fetching tags: %w", err)
	}
	groups, err := cs.groupRepo.GetByIDs(ctx, tx, accountID, keys(groupIDSet))
	if err != nil {
		return nil, fmt.Errorf("error fetching groups: %w", err)
	}

	tagByID := make(map[uuid.UUID]*types.Tag, len(tags))
	for _, t := range tags {
		tagByID[t.ID] = t
	}
	groupByID := make(map[uuid.UUID]*types.ContactGroup, len(groups))
	for _, g := range groups {
		groupByID[g.ID] = g
	}

	tagsByContact := make(map[uuid.UUID][]*types.Tag)
	for _, row := range tagRows {
		if t, ok := tagByID[row.TagID]; ok {
			tagsByContact[row.ContactID] = append(tagsByContact[row.ContactID], t)
		}
	}
	groupsByContact := make(map[uuid.UUID][]*types.ContactGroup)
	for _, row := range groupRows {
		if g, ok := groupByID[row.GroupID]; ok {
			groupsByContact[row.ContactID] = append(groupsByContact[row.ContactID], g)
		}
	}

	dtos := make([]*ContactDTO, 0, len(contacts))
	for _, c := range contacts {
		dto := &ContactDTO{
			Contact: c,
			Tags:    tagsByContact[c.ID],
			Groups:  groupsByContact[c.ID],
		}
		if dto.Tags == nil {
			dto.Tags = []*types.Tag{}
		}
		if dto.Groups == nil {
			dto.Groups = []*types.ContactGroup{}
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

func keys(set map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
