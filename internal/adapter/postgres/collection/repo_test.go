package collection_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/cardsbot/internal/adapter/postgres/collection"
	"github.com/heartmarshall/cardsbot/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/cardsbot/internal/domain"
)

func uniqueName(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}

func newRepo(t *testing.T) *collection.Repo {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return collection.New(pool)
}

func TestRepo_CreateAndGet(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	name := uniqueName("basics")
	created, err := repo.Create(ctx, name)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Create: expected non-zero id")
	}

	byID, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Name != name {
		t.Fatalf("GetByID: got name %q, want %q", byID.Name, name)
	}

	byName, err := repo.GetByName(ctx, strings.ToUpper(name))
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if byName.ID != created.ID {
		t.Fatalf("GetByName: got id %d, want %d", byName.ID, created.ID)
	}
}

func TestRepo_Create_DuplicateName(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	name := uniqueName("dup")
	if _, err := repo.Create(ctx, name); err != nil {
		t.Fatalf("Create first: %v", err)
	}

	_, err := repo.Create(ctx, name)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("Create duplicate: got %v, want ErrAlreadyExists", err)
	}
}

func TestRepo_Get_NotFound(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, -1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID: got %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByName(ctx, uniqueName("ghost")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByName: got %v, want ErrNotFound", err)
	}
}

func TestRepo_List_ContainsCreated(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	name := uniqueName("listed")
	created, err := repo.Create(ctx, name)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	found := false
	for _, c := range all {
		if c.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("List: created collection %d not returned", created.ID)
	}
}
