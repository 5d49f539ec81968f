package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/talkbase/talkbase-backend/internal/clients/redis"
	"github.com/talkbase/talkbase-backend/internal/data/repos"
	types "github.com/talkbase/talkbase-backend/internal/domain"
	"github.com/talkbase/talkbase-backend/internal/identity"
	"github.com/talkbase/talkbase-backend/internal/platform/apierr"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

type DedupeService interface {
	// DetectDuplicates runs every detection strategy and filters out sets an
	// operator has already dismissed. No similar_phone sets are emitted for
	// now: that strategy aliases exact_phone until format-tolerant matching
	// diverges, so its results would duplicate the exact_phone sets.
	DetectDuplicates(ctx context.Context, accountID uuid.UUID) ([]identity.DuplicateSet, error)
	DismissDuplicate(ctx context.Context, accountID, contactID1, contactID2, actor uuid.UUID) error
}

type dedupeService struct {
	db          *gorm.DB
	log         *logger.Logger
	contactRepo repos.ContactRepo
	dismissals  repos.DuplicateDismissalRepo
	cache       redis.DedupeCache
	threshold   float64
}

func NewDedupeService(
	db *gorm.DB,
	baseLog *logger.Logger,
	contactRepo repos.ContactRepo,
	dismissals repos.DuplicateDismissalRepo,
	cache redis.DedupeCache,
) DedupeService {
	return &dedupeService{
		db:          db,
		log:         baseLog.With("service", "DedupeService"),
		contactRepo: contactRepo,
		dismissals:  dismissals,
		cache:       cache,
		threshold:   identity.DefaultNameThreshold,
	}
}

func (ds *dedupeService) DetectDuplicates(ctx context.Context, accountID uuid.UUID) ([]identity.DuplicateSet, error) {
	if ds.cache != nil {
		if sets, ok := ds.cache.Get(ctx, accountID); ok {
			ds.log.Debug("Dedupe cache hit", "account_id", accountID, "sets", len(sets))
			return ds.filterDismissed(ctx, accountID, sets)
		}
	}

	contacts, err := ds.contactRepo.ListByAccount(ctx, nil, accountID)
	if err != nil {
		return nil, fmt.Errorf("error listing contacts for detection: %w", err)
	}

	// The strategies are pure over the listed contacts and run concurrently.
	// The similar-phone strategy currently aliases exact-phone and is kept out
	// of the concatenation until format-tolerant matching diverges, so
	// identical sets are not reported twice.
	var exactSets, nameSets []identity.DuplicateSet
	var g errgroup.Group
	g.Go(func() error {
		exactSets = identity.DetectExactPhoneDuplicates(contacts)
		return nil
	})
	g.Go(func() error {
		nameSets = identity.DetectSimilarNameDuplicates(contacts, ds.threshold)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sets := make([]identity.DuplicateSet, 0, len(exactSets)+len(nameSets))
	sets = append(sets, exactSets...)
	sets = append(sets, nameSets...)

	if ds.cache != nil {
		if err := ds.cache.Set(ctx, accountID, sets); err != nil {
			ds.log.Warn("Dedupe cache write failed", "account_id", accountID, "error", err)
		}
	}

	ds.log.Info("Duplicate detection completed", "account_id", accountID,
		"exact_phone_sets", len(exactSets), "similar_name_sets", len(nameSets))
	return ds.filterDismissed(ctx, accountID, sets)
}

// filterDismissed suppresses a whole set when any unordered member pair has a
// dismissal on record. Partial filtering of a 3+ member set is deliberately
// not done.
func (ds *dedupeService) filterDismissed(ctx context.Context, accountID uuid.UUID, sets []identity.DuplicateSet) ([]identity.DuplicateSet, error) {
	if len(sets) == 0 {
		return []identity.DuplicateSet{}, nil
	}

	rows, err := ds.dismissals.ListByAccount(ctx, nil, accountID)
	if err != nil {
		return nil, fmt.Errorf("error listing dismissals: %w", err)
	}
	dismissed := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		dismissed[pairKey(row.ContactID1, row.ContactID2)] = struct{}{}
	}

	kept := make([]identity.DuplicateSet, 0, len(sets))
	for _, set := range sets {
		if setDismissed(set, dismissed) {
			continue
		}
		kept = append(kept, set)
	}
	return kept, nil
}

func setDismissed(set identity.DuplicateSet, dismissed map[string]struct{}) bool {
	for i := 0; i < len(set.Contacts); i++ {
		for j := i + 1; j < len(set.Contacts); j++ {
			if _, ok := dismissed[pairKey(set.Contacts[i].ID, set.Contacts[j].ID)]; ok {
				return true
			}
		}
	}
	return false
}

func (ds *dedupeService) DismissDuplicate(ctx context.Context, accountID, contactID1, contactID2, actor uuid.UUID) error {
	if contactID1 == contactID2 {
		return apierr.InvalidInput("cannot dismiss a contact against itself")
	}

	id1, id2 := canonicalPair(contactID1, contactID2)

	found, err := ds.contactRepo.GetByIDs(ctx, nil, accountID, []uuid.UUID{id1, id2})
	if err != nil {
		return fmt.Errorf("error verifying contacts: %w", err)
	}
	if len(found) != 2 {
		return apierr.NotFound("one or both contacts do not belong to this account")
	}

	row := &types.DuplicateDismissal{
		ID:         uuid.New(),
		AccountID:  accountID,
		ContactID1: id1,
		ContactID2: id2,
		CreatedBy:  actor,
	}
	if err := ds.dismissals.Create(ctx, nil, row); err != nil {
		// A racing or repeated dismiss hits the unique constraint; that is a
		// successful no-op.
		if repos.IsUniqueViolation(err) {
			ds.log.Debug("Dismissal already on record", "account_id", accountID, "contact_id_1", id1, "contact_id_2", id2)
			return nil
		}
		return fmt.Errorf("error recording dismissal: %w", err)
	}

	if ds.cache != nil {
		if err := ds.cache.Invalidate(ctx, accountID); err != nil {
			ds.log.Warn("Dedupe cache invalidation failed", "account_id", accountID, "error", err)
		}
	}

	ds.log.Info("Duplicate pair dismissed", "account_id", accountID,
		"contact_id_1", id1, "contact_id_2", id2, "actor", actor)
	return nil
}

// canonicalPair orders two contact ids lexicographically so a pair and its
// reverse resolve to the same persisted row.
func canonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if strings.Compare(a.String(), b.String()) <= 0 {
		return a, b
	}
	return b, a
}

func pairKey(a, b uuid.UUID) string {
	id1, id2 := canonicalPair(a, b)
	return id1.String() + "|" + id2.String()
}
