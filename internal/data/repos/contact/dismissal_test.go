package contact

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/talkbase/talkbase-backend/internal/data/repos/testutil"
	types "github.com/talkbase/talkbase-backend/internal/domain"
)

func TestDuplicateDismissalRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewDuplicateDismissalRepo(db, testutil.Logger(t))
	ctx := context.Background()
	accountID := uuid.New()
	id1 := uuid.New()
	id2 := uuid.New()

	row := &types.DuplicateDismissal{
		ID:         uuid.New(),
		AccountID:  accountID,
		ContactID1: id1,
		ContactID2: id2,
		CreatedBy:  uuid.New(),
	}
	if err := repo.Create(ctx, tx, row); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The pair carries a unique constraint; a second insert must fail.
	dup := &types.DuplicateDismissal{
		ID:         uuid.New(),
		AccountID:  accountID,
		ContactID1: id1,
		ContactID2: id2,
		CreatedBy:  uuid.New(),
	}
	if err := repo.Create(ctx, tx, dup); err == nil {
		t.Fatalf("Create: duplicate pair insert succeeded")
	}
}

func TestDuplicateDismissalRepoListAndDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewDuplicateDismissalRepo(db, testutil.Logger(t))
	ctx := context.Background()
	accountID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	for _, pair := range [][2]uuid.UUID{{a, b}, {a, c}} {
		err := repo.Create(ctx, tx, &types.DuplicateDismissal{
			ID:         uuid.New(),
			AccountID:  accountID,
			ContactID1: pair[0],
			ContactID2: pair[1],
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	listed, err := repo.ListByAccount(ctx, tx, accountID)
	if err != nil {
		t.Fatalf("ListByAccount: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("ListByAccount: %d rows, want 2", len(listed))
	}

	if err := repo.DeleteByContactIDs(ctx, tx, accountID, []uuid.UUID{c}); err != nil {
		t.Fatalf("DeleteByContactIDs: %v", err)
	}
	listed, err = repo.ListByAccount(ctx, tx, accountID)
	if err != nil {
		t.Fatalf("ListByAccount after delete: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("ListByAccount after delete: %d rows, want 1", len(listed))
	}
}
