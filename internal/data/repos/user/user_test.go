package user

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/edugen-backend/internal/data/repos/testutil"
	types "github.com/yungbote/edugen-backend/internal/domain"
	"github.com/yungbote/edugen-backend/internal/pkg/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	created, err := repo.Create(dbc, []*types.User{
		{Username: "ada", Email: "ada@example.com", Password: "pw"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: unexpected result: %+v", created)
	}

	gotByIDs, err := repo.GetByIDs(dbc, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(gotByIDs) != 1 || gotByIDs[0].Username != "ada" {
		t.Fatalf("GetByIDs: unexpected result: %+v", gotByIDs)
	}

	gotByNames, err := repo.GetByUsernames(dbc, []string{"ada"})
	if err != nil {
		t.Fatalf("GetByUsernames: %v", err)
	}
	if len(gotByNames) != 1 || gotByNames[0].Email != "ada@example.com" {
		t.Fatalf("GetByUsernames: unexpected result: %+v", gotByNames)
	}

	exists, err := repo.UsernameOrEmailExists(dbc, "someone", "ada@example.com")
	if err != nil {
		t.Fatalf("UsernameOrEmailExists: %v", err)
	}
	if !exists {
		t.Fatalf("UsernameOrEmailExists: expected true for taken email")
	}
	exists, err = repo.UsernameOrEmailExists(dbc, "grace", "grace@example.com")
	if err != nil {
		t.Fatalf("UsernameOrEmailExists (missing): %v", err)
	}
	if exists {
		t.Fatalf("UsernameOrEmailExists (missing): expected false")
	}
}
