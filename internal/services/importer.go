package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/talkbase/talkbase-backend/internal/clients/redis"
	"github.com/talkbase/talkbase-backend/internal/clients/wapi"
	"github.com/talkbase/talkbase-backend/internal/data/repos"
	types "github.com/talkbase/talkbase-backend/internal/domain"
	"github.com/talkbase/talkbase-backend/internal/identity"
	"github.com/talkbase/talkbase-backend/internal/platform/apierr"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
	"gorm.io/gorm"
)

const (
	importBatchSize = 100
	minPhoneDigits  = 8
	maxPhoneDigits  = 15
)

// ImportResult counts how one import run was reconciled against the existing
// contact book.
type ImportResult struct {
	Added     int `json:"added"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
}

type ImportService interface {
	// ImportContacts reconciles records against the account's contacts by
	// normalized phone. A record whose fingerprint matches the stored one is
	// left untouched; batch or row failures are skipped, never fatal.
	ImportContacts(ctx context.Context, accountID, tenantID uuid.UUID, records []wapi.ContactRecord, source string, inboxID *uuid.UUID) (*ImportResult, error)
	// ImportFromInbox pulls the inbox's contact list from the provider and
	// feeds it through ImportContacts.
	ImportFromInbox(ctx context.Context, accountID, tenantID, inboxID uuid.UUID) (*ImportResult, error)
}

type importService struct {
	db          *gorm.DB
	log         *logger.Logger
	contactRepo repos.ContactRepo
	inboxRepo   repos.InboxRepo
	wapiClient  wapi.Client
	cache       redis.DedupeCache
}

func NewImportService(
	db *gorm.DB,
	baseLog *logger.Logger,
	contactRepo repos.ContactRepo,
	inboxRepo repos.InboxRepo,
	wapiClient wapi.Client,
	cache redis.DedupeCache,
) ImportService {
	return &importService{
		db:          db,
		log:         baseLog.With("service", "ImportService"),
		contactRepo: contactRepo,
		inboxRepo:   inboxRepo,
		wapiClient:  wapiClient,
		cache:       cache,
	}
}

func (is *importService) ImportContacts(ctx context.Context, accountID, tenantID uuid.UUID, records []wapi.ContactRecord, source string, inboxID *uuid.UUID) (*ImportResult, error) {
	existing, err := is.contactRepo.ListByAccount(ctx, nil, accountID)
	if err != nil {
		return nil, fmt.Errorf("error listing contacts for import: %w", err)
	}
	byPhone := make(map[string]*types.Contact, len(existing))
	for _, c := range existing {
		byPhone[c.Phone] = c
	}

	now := time.Now().UTC()
	result := &ImportResult{}
	inserts := make([]*types.Contact, 0, len(records))
	seenPhones := make(map[string]struct{}, len(records))

	for _, rec := range records {
		phone := identity.NormalizePhone(rec.Phone)
		if phone == "" {
			phone = identity.NormalizePhone(rec.JID)
		}
		if len(phone) < minPhoneDigits || len(phone) > maxPhoneDigits {
			result.Skipped++
			continue
		}
		// A phone repeated within the same payload keeps its first record.
		if _, dup := seenPhones[phone]; dup {
			result.Skipped++
			continue
		}
		seenPhones[phone] = struct{}{}

		fingerprint := identity.ImportFingerprint(identity.FingerprintAttrs{
			Phone:       phone,
			Name:        rec.Name,
			WhatsappJID: rec.JID,
			AvatarURL:   rec.AvatarURL,
		})

		current, exists := byPhone[phone]
		if !exists {
			lastImport := now
			inserts = append(inserts, &types.Contact{
				ID:            uuid.New(),
				AccountID:     accountID,
				TenantID:      tenantID,
				Phone:         phone,
				Name:          rec.Name,
				AvatarURL:     rec.AvatarURL,
				WhatsappJID:   rec.JID,
				Source:        source,
				SourceInboxID: inboxID,
				ImportHash:    fingerprint,
				LastImportAt:  &lastImport,
			})
			continue
		}

		if current.ImportHash == fingerprint {
			result.Unchanged++
			continue
		}

		// Prefer new non-empty values; a field the provider omitted keeps
		// the stored one instead of being blanked.
		fields := map[string]any{
			"import_hash":    fingerprint,
			"last_import_at": now,
		}
		if rec.Name != "" {
			fields["name"] = rec.Name
		}
		if rec.AvatarURL != "" {
			fields["avatar_url"] = rec.AvatarURL
		}
		if rec.JID != "" {
			fields["whatsapp_jid"] = rec.JID
		}
		if err := is.contactRepo.UpdateFields(ctx, nil, accountID, current.ID, fields); err != nil {
			is.log.Warn("Import update failed", "account_id", accountID, "contact_id", current.ID, "error", err)
			result.Skipped++
			continue
		}
		result.Updated++
	}

	for start := 0; start < len(inserts); start += importBatchSize {
		end := min(start+importBatchSize, len(inserts))
		batch := inserts[start:end]
		if err := is.contactRepo.CreateInBatches(ctx, nil, batch, importBatchSize); err != nil {
			is.log.Warn("Import batch insert failed", "account_id", accountID,
				"batch_start", start, "batch_len", len(batch), "error", err)
			result.Skipped += len(batch)
			continue
		}
		result.Added += len(batch)
	}

	if is.cache != nil && (result.Added > 0 || result.Updated > 0) {
		if err := is.cache.Invalidate(ctx, accountID); err != nil {
			is.log.Warn("Dedupe cache invalidation failed", "account_id", accountID, "error", err)
		}
	}

	is.log.Info("Import reconciled", "account_id", accountID, "source", source,
		"added", result.Added, "updated", result.Updated,
		"unchanged", result.Unchanged, "skipped", result.Skipped)
	return result, nil
}

func (is *importService) ImportFromInbox(ctx context.Context, accountID, tenantID, inboxID uuid.UUID) (*ImportResult, error) {
	ib, err := is.inboxRepo.GetByID(ctx, nil, accountID, inboxID)
	if err != nil {
		return nil, fmt.Errorf("error fetching inbox: %w", err)
	}
	if ib == nil {
		return nil, apierr.NotFound("inbox %s not found", inboxID)
	}
	if ib.Status != types.InboxStatusConnected {
		return nil, apierr.InvalidInput("inbox %s is not connected", inboxID)
	}
	if is.wapiClient == nil {
		return nil, apierr.InvalidInput("no provider client configured for inbox imports")
	}

	records, err := is.wapiClient.FetchContacts(ctx, ib.ConnectionToken)
	if err != nil {
		return nil, fmt.Errorf("error fetching contacts from provider: %w", err)
	}
	return is.ImportContacts(ctx, accountID, tenantID, records, types.ContactSourceInbox, &ib.ID)
}
