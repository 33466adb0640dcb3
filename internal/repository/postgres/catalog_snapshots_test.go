package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/facilpersianas/blindquote/internal/domain"
	"github.com/facilpersianas/blindquote/pkg/errors"
)

// openTestDB connects to TEST_DATABASE_URL and applies the schema, or skips.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../../migrations/000001_init_schema.up.sql")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	if _, err := db.Exec(`TRUNCATE catalog_snapshots`); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestCatalogSnapshotRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewCatalogSnapshotRepository(db, nil)
	ctx := context.Background()

	if _, err := repo.GetLatest(ctx); !stderrors.As(err, new(*errors.ErrNotFound)) {
		t.Fatalf("GetLatest on empty table = %v, want ErrNotFound", err)
	}

	mc := "Motorizado,Manual"
	families := []domain.ProductFamily{
		{Title: "Rolo Blackout", ProductIDs: []string{"111"}, MinWidth: 40, MaxWidth: 200, MinHeight: 50, MaxHeight: 250},
		{Title: "Romana", ProductIDs: []string{"333", "444"}, MinWidth: 50, MaxWidth: 180, MinHeight: 60, MaxHeight: 200, MovementControl: &mc},
	}
	saved, err := repo.Save(ctx, families)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	latest, err := repo.GetLatest(ctx)
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if latest.ID != saved.ID || len(latest.Families) != 2 || *latest.Families[1].MovementControl != mc {
		t.Errorf("latest = %+v", latest)
	}

	for i := 0; i < snapshotsRetained+3; i++ {
		if _, err := repo.Save(ctx, families[:1]); err != nil {
			t.Fatal(err)
		}
	}
	recent, err := repo.ListRecent(ctx, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != snapshotsRetained {
		t.Errorf("retained %d snapshots, want %d", len(recent), snapshotsRetained)
	}
}
