package taxonomy

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/talkbase/talkbase-backend/internal/data/repos/testutil"
	types "github.com/talkbase/talkbase-backend/internal/domain"
)

func TestContactTagRepoReplaceForContact(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewContactTagRepo(db, testutil.Logger(t))
	ctx := context.Background()
	contactID := uuid.New()

	oldTag := uuid.New()
	if _, err := repo.Create(ctx, tx, []*types.ContactTag{
		{ID: uuid.New(), ContactID: contactID, TagID: oldTag},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	newTags := []uuid.UUID{uuid.New(), uuid.New()}
	if err := repo.ReplaceForContact(ctx, tx, contactID, newTags); err != nil {
		t.Fatalf("ReplaceForContact: %v", err)
	}

	rows, err := repo.ListByContactIDs(ctx, tx, []uuid.UUID{contactID})
	if err != nil {
		t.Fatalf("ListByContactIDs: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected memberships replaced with 2 rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.TagID == oldTag {
			t.Fatalf("old membership survived a replace")
		}
	}

	// Replacing with nil clears all memberships.
	if err := repo.ReplaceForContact(ctx, tx, contactID, nil); err != nil {
		t.Fatalf("ReplaceForContact (clear): %v", err)
	}
	rows, err = repo.ListByContactIDs(ctx, tx, []uuid.UUID{contactID})
	if err != nil {
		t.Fatalf("ListByContactIDs after clear: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no memberships after clear, got %d", len(rows))
	}
}
