package services

import (
	"context"
	"encoding/json"
	"fmt"

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

// MergeData carries optional field overrides for the surviving contact.
// Unset fields keep the primary contact's current values; values are never
// silently adopted from a non-primary contact.
type MergeData struct {
	PrimaryContactID *uuid.UUID     `json:"primary_contact_id"`
	Name             *string        `json:"name"`
	Phone            *string        `json:"phone"`
	AvatarURL        *string        `json:"avatar_url"`
	WhatsappJID      *string        `json:"whatsapp_jid"`
	Metadata         map[string]any `json:"metadata"`
	PreserveTags     *bool          `json:"preserve_tags"`
	PreserveGroups   *bool          `json:"preserve_groups"`
}

// contactSnapshot is the pre-merge state of one source contact as captured in
// the audit record.
type contactSnapshot struct {
	ContactID uuid.UUID   `json:"contact_id"`
	Name      string      `json:"name"`
	Phone     string      `json:"phone"`
	AvatarURL string      `json:"avatar_url"`
	TagIDs    []uuid.UUID `json:"tag_ids"`
	GroupIDs  []uuid.UUID `json:"group_ids"`
}

type mergeConfig struct {
	PrimaryContactID uuid.UUID      `json:"primary_contact_id"`
	Name             *string        `json:"name,omitempty"`
	Phone            *string        `json:"phone,omitempty"`
	AvatarURL        *string        `json:"avatar_url,omitempty"`
	WhatsappJID      *string        `json:"whatsapp_jid,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	PreserveTags     bool           `json:"preserve_tags"`
	PreserveGroups   bool           `json:"preserve_groups"`
}

type MergeService interface {
	// MergeContacts absorbs every contact in contactIDs into the selected
	// primary: association union, audit record, then deletion of the absorbed
	// contacts, all inside one transaction.
	MergeContacts(ctx context.Context, accountID uuid.UUID, contactIDs []uuid.UUID, data MergeData, mergedBy uuid.UUID) (*ContactDTO, error)
	ListMergeHistory(ctx context.Context, accountID uuid.UUID, limit int) ([]*types.ContactMergeLog, error)
}

type mergeService struct {
	db           *gorm.DB
	log          *logger.Logger
	contactRepo  repos.ContactRepo
	contactTags  repos.ContactTagRepo
	groupMembers repos.ContactGroupMemberRepo
	dismissals   repos.DuplicateDismissalRepo
	mergeLogs    repos.ContactMergeLogRepo
	contactSvc   ContactService
	cache        redis.DedupeCache
}

func NewMergeService(
	db *gorm.DB,
	baseLog *logger.Logger,
	contactRepo repos.ContactRepo,
	contactTags repos.ContactTagRepo,
	groupMembers repos.ContactGroupMemberRepo,
	dismissals repos.DuplicateDismissalRepo,
	mergeLogs repos.ContactMergeLogRepo,
	contactSvc ContactService,
	cache redis.DedupeCache,
) MergeService {
	return &mergeService{
		db:           db,
		log:          baseLog.With("service", "MergeService"),
		contactRepo:  contactRepo,
		contactTags:  contactTags,
		groupMembers: groupMembers,
		dismissals:   dismissals,
		mergeLogs:    mergeLogs,
		contactSvc:   contactSvc,
		cache:        cache,
	}
}

func (ms *mergeService) MergeContacts(ctx context.Context, accountID uuid.UUID, contactIDs []uuid.UUID, data MergeData, mergedBy uuid.UUID) (*ContactDTO, error) {
	if len(contactIDs) < 2 {
		return nil, apierr.InvalidInput("a merge needs at least 2 contacts, got %d", len(contactIDs))
	}
	seen := make(map[uuid.UUID]struct{}, len(contactIDs))
	for _, id := range contactIDs {
		if _, dup := seen[id]; dup {
			return nil, apierr.InvalidInput("contact %s listed twice in merge set", id)
		}
		seen[id] = struct{}{}
	}

	var primaryID uuid.UUID
	err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contacts, err := ms.contactRepo.GetByIDs(ctx, tx, accountID, contactIDs)
		if err != nil {
			return fmt.Errorf("error fetching merge set: %w", err)
		}
		// Re-merging already-merged ids lands here: absorbed contacts no
		// longer exist so the count comes up short.
		if len(contacts) != len(contactIDs) {
			return apierr.NotFound("merge set incomplete: requested %d contacts, found %d", len(contactIDs), len(contacts))
		}
		byID := make(map[uuid.UUID]*types.Contact, len(contacts))
		for _, c := range contacts {
			byID[c.ID] = c
		}

		primary := byID[contactIDs[0]]
		if data.PrimaryContactID != nil {
			chosen, ok := byID[*data.PrimaryContactID]
			if !ok {
				return apierr.InvalidInput("primary contact %s is not part of the merge set", *data.PrimaryContactID)
			}
			primary = chosen
		}
		primaryID = primary.ID

		tagRows, err := ms.contactTags.ListByContactIDs(ctx, tx, contactIDs)
		if err != nil {
			return fmt.Errorf("error fetching tag memberships: %w", err)
		}
		groupRows, err := ms.groupMembers.ListByContactIDs(ctx, tx, contactIDs)
		if err != nil {
			return fmt.Errorf("error fetching group memberships: %w", err)
		}

		tagsByContact := make(map[uuid.UUID][]uuid.UUID)
		tagUnion := make([]uuid.UUID, 0)
		tagSeen := make(map[uuid.UUID]struct{})
		for _, row := range tagRows {
			tagsByContact[row.ContactID] = append(tagsByContact[row.ContactID], row.TagID)
			if _, ok := tagSeen[row.TagID]; !ok {
				tagSeen[row.TagID] = struct{}{}
				tagUnion = append(tagUnion, row.TagID)
			}
		}
		groupsByContact := make(map[uuid.UUID][]uuid.UUID)
		groupUnion := make([]uuid.UUID, 0)
		groupSeen := make(map[uuid.UUID]struct{})
		for _, row := range groupRows {
			groupsByContact[row.ContactID] = append(groupsByContact[row.ContactID], row.GroupID)
			if _, ok := groupSeen[row.GroupID]; !ok {
				groupSeen[row.GroupID] = struct{}{}
				groupUnion = append(groupUnion, row.GroupID)
			}
		}

		fields := map[string]any{}
		if data.Name != nil {
			fields["name"] = *data.Name
		}
		if data.Phone != nil {
			phone := identity.NormalizePhone(*data.Phone)
			if phone == "" {
				return apierr.InvalidInput("merge phone %q has no digits", *data.Phone)
			}
			fields["phone"] = phone
		}
		if data.AvatarURL != nil {
			fields["avatar_url"] = *data.AvatarURL
		}
		if data.WhatsappJID != nil {
			fields["whatsapp_jid"] = *data.WhatsappJID
		}
		if data.Metadata != nil {
			fields["metadata"] = datatypes.JSONMap(data.Metadata)
		}

		preserveTags := data.PreserveTags == nil || *data.PreserveTags
		preserveGroups := data.PreserveGroups == nil || *data.PreserveGroups

		if preserveTags {
			if err := ms.contactTags.ReplaceForContact(ctx, tx, primary.ID, tagUnion); err != nil {
				return fmt.Errorf("error replacing tag memberships: %w", err)
			}
		}
		if preserveGroups {
			if err := ms.groupMembers.ReplaceForContact(ctx, tx, primary.ID, groupUnion); err != nil {
				return fmt.Errorf("error replacing group memberships: %w", err)
			}
		}

		// Audit before deletion. The write is best-effort: a failure is
		// logged, never fatal to the merge.
		ms.writeAuditRecord(ctx, tx, accountID, primary.ID, contactIDs, contacts, tagsByContact, groupsByContact, data, preserveTags, preserveGroups, mergedBy)

		absorbed := make([]uuid.UUID, 0, len(contactIDs)-1)
		for _, id := range contactIDs {
			if id != primary.ID {
				absorbed = append(absorbed, id)
			}
		}
		if err := ms.contactTags.DeleteByContactIDs(ctx, tx, absorbed); err != nil {
			return fmt.Errorf("error deleting absorbed tag memberships: %w", err)
		}
		if err := ms.groupMembers.DeleteByContactIDs(ctx, tx, absorbed); err != nil {
			return fmt.Errorf("error deleting absorbed group memberships: %w", err)
		}
		if err := ms.dismissals.DeleteByContactIDs(ctx, tx, accountID, absorbed); err != nil {
			return fmt.Errorf("error deleting stale dismissals: %w", err)
		}
		if err := ms.contactRepo.Delete(ctx, tx, accountID, absorbed); err != nil {
			return fmt.Errorf("error deleting absorbed contacts: %w", err)
		}

		if len(fields) > 0 {
			if err := ms.contactRepo.UpdateFields(ctx, tx, accountID, primary.ID, fields); err != nil {
				if repos.IsUniqueViolation(err) {
					return apierr.AlreadyExists("merge phone already in use by another contact")
				}
				return fmt.Errorf("error updating primary contact: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if ms.cache != nil {
		if err := ms.cache.Invalidate(ctx, accountID); err != nil {
			ms.log.Warn("Dedupe cache invalidation failed", "account_id", accountID, "error", err)
		}
	}

	ms.log.Info("Contacts merged", "account_id", accountID, "merged_contact_id", primaryID,
		"source_count", len(contactIDs), "merged_by", mergedBy)
	return ms.contactSvc.Get(ctx, accountID, primaryID)
}

func (ms *mergeService) writeAuditRecord(
	ctx context.Context,
	tx *gorm.DB,
	accountID, primaryID uuid.UUID,
	contactIDs []uuid.UUID,
	contacts []*types.Contact,
	tagsByContact, groupsByContact map[uuid.UUID][]uuid.UUID,
	data MergeData,
	preserveTags, preserveGroups bool,
	mergedBy uuid.UUID,
) {
	snapshots := make([]contactSnapshot, 0, len(contacts))
	for _, c := range contacts {
		tagIDs := tagsByContact[c.ID]
		if tagIDs == nil {
			tagIDs = []uuid.UUID{}
		}
		groupIDs := groupsByContact[c.ID]
		if groupIDs == nil {
			groupIDs = []uuid.UUID{}
		}
		snapshots = append(snapshots, contactSnapshot{
			ContactID: c.ID,
			Name:      c.Name,
			Phone:     c.Phone,
			AvatarURL: c.AvatarURL,
			TagIDs:    tagIDs,
			GroupIDs:  groupIDs,
		})
	}

	cfg := mergeConfig{
		PrimaryContactID: primaryID,
		Name:             data.Name,
		Phone:            data.Phone,
		AvatarURL:        data.AvatarURL,
		WhatsappJID:      data.WhatsappJID,
		Metadata:         data.Metadata,
		PreserveTags:     preserveTags,
		PreserveGroups:   preserveGroups,
	}

	sourceJSON, err := json.Marshal(contactIDs)
	if err != nil {
		ms.log.Warn("Merge audit source ids marshal failed", "error", err)
		return
	}
	snapshotJSON, err := json.Marshal(snapshots)
	if err != nil {
		ms.log.Warn("Merge audit snapshot marshal failed", "error", err)
		return
	}
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		ms.log.Warn("Merge audit config marshal failed", "error", err)
		return
	}

	record := &types.ContactMergeLog{
		ID:               uuid.New(),
		AccountID:        accountID,
		MergedContactID:  primaryID,
		SourceContactIDs: datatypes.JSON(sourceJSON),
		Snapshots:        datatypes.JSON(snapshotJSON),
		MergeConfig:      datatypes.JSON(cfgJSON),
		MergedBy:         mergedBy,
	}
	// Savepoint keeps a failed insert from aborting the merge transaction.
	err = tx.Transaction(func(inner *gorm.DB) error {
		return ms.mergeLogs.Create(ctx, inner, record)
	})
	if err != nil {
		ms.log.Warn("Merge audit write failed, continuing merge", "account_id", accountID,
			"merged_contact_id", primaryID, "error", err)
	}
}

func (ms *mergeService) ListMergeHistory(ctx context.Context, accountID uuid.UUID, limit int) ([]*types.ContactMergeLog, error) {
	records, err := ms.mergeLogs.ListByAccount(ctx, nil, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing merge history: %w", err)
	}
	return records, nil
}
