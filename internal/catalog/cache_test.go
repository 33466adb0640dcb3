package catalog

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/facilpersianas/blindquote/internal/domain"
	"github.com/facilpersianas/blindquote/pkg/errors"
)

type fakeLoader struct {
	mu       sync.Mutex
	calls    int
	families []domain.ProductFamily
	err      error
}

func (l *fakeLoader) FetchFamilies(context.Context) ([]domain.ProductFamily, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.families, nil
}

type fakeStore struct {
	saved  [][]domain.ProductFamily
	latest *domain.CatalogSnapshot
}

func (s *fakeStore) Save(_ context.Context, families []domain.ProductFamily) (*domain.CatalogSnapshot, error) {
	s.saved = append(s.saved, families)
	snap := &domain.CatalogSnapshot{ID: uuid.New(), Families: families, CreatedAt: time.Now()}
	s.latest = snap
	return snap, nil
}

func (s *fakeStore) GetLatest(context.Context) (*domain.CatalogSnapshot, error) {
	if s.latest == nil {
		return nil, &errors.ErrNotFound{Resource: "catalog snapshot", ID: "latest"}
	}
	return s.latest, nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func families(titles ...string) []domain.ProductFamily {
	out := make([]domain.ProductFamily, 0, len(titles))
	for _, t := range titles {
		out = append(out, domain.ProductFamily{Title: t, ProductIDs: []string{t + "-1"}, MinWidth: 40, MaxWidth: 200, MinHeight: 50, MaxHeight: 250})
	}
	return out
}

func TestCacheServesWithinTTL(t *testing.T) {
	loader := &fakeLoader{families: families("Rolo")}
	clk := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	cache := NewCache(loader, time.Minute, zap.NewNop(), WithClock(clk.now))

	for i := 0; i < 3; i++ {
		if _, err := cache.Families(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if loader.calls != 1 {
		t.Errorf("loader calls = %d, want 1", loader.calls)
	}

	clk.advance(time.Minute)
	if _, err := cache.Families(context.Background()); err != nil {
		t.Fatal(err)
	}
	if loader.calls != 2 {
		t.Errorf("loader calls after expiry = %d, want 2", loader.calls)
	}
}

func TestCacheInvalidate(t *testing.T) {
	loader := &fakeLoader{families: families("Rolo")}
	cache := NewCache(loader, time.Hour, nil)

	_, _ = cache.Families(context.Background())
	cache.Invalidate()
	loader.families = families("Rolo", "Romana")

	got, err := cache.Families(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || loader.calls != 2 {
		t.Errorf("got %d families after %d loads", len(got), loader.calls)
	}
}

func TestCacheServesStaleOnFailure(t *testing.T) {
	loader := &fakeLoader{families: families("Rolo")}
	cache := NewCache(loader, time.Hour, nil)
	_, _ = cache.Families(context.Background())

	loader.err = &errors.ErrTransport{Op: "fetch catalog families", StatusCode: 503}
	cache.Invalidate()

	got, err := cache.Families(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Rolo" {
		t.Errorf("stale families = %+v", got)
	}
	if _, err := cache.Refresh(context.Background()); err == nil {
		t.Error("Refresh should report the loader failure")
	}
}

func TestCacheFallsBackToSnapshot(t *testing.T) {
	store := &fakeStore{}
	loader := &fakeLoader{families: families("Rolo", "Romana")}
	warm := NewCache(loader, time.Hour, nil, WithSnapshotStore(store))
	if _, err := warm.Families(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved snapshots = %d, want 1", len(store.saved))
	}

	down := &fakeLoader{err: stderrors.New("connection refused")}
	cold := NewCache(down, time.Hour, nil, WithSnapshotStore(store))
	got, err := cold.Families(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("snapshot families = %d, want 2", len(got))
	}

	// the snapshot does not count as fresh; the loader is retried
	_, _ = cold.Families(context.Background())
	if down.calls != 2 {
		t.Errorf("loader calls = %d, want 2", down.calls)
	}
}

func TestCacheColdFailure(t *testing.T) {
	want := &errors.ErrTransport{Op: "fetch catalog families"}
	cache := NewCache(&fakeLoader{err: want}, time.Hour, nil, WithSnapshotStore(&fakeStore{}))

	if _, err := cache.Families(context.Background()); err != want {
		t.Errorf("error = %v, want loader error", err)
	}
}

func TestCacheFamily(t *testing.T) {
	cache := NewCache(&fakeLoader{families: families("Rolo", "Romana")}, time.Hour, nil)

	f, err := cache.Family(context.Background(), "Romana")
	if err != nil || f.Title != "Romana" {
		t.Fatalf("Family(Romana) = %+v, %v", f, err)
	}

	_, err = cache.Family(context.Background(), "romana")
	var nf *errors.ErrNotFound
	if !stderrors.As(err, &nf) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCacheReturnsCopies(t *testing.T) {
	cache := NewCache(&fakeLoader{families: families("Rolo")}, time.Hour, nil)
	first, _ := cache.Families(context.Background())
	first[0].Title = "changed"
	first[0].ProductIDs[0] = "changed"

	second, _ := cache.Families(context.Background())
	if second[0].Title != "Rolo" || second[0].ProductIDs[0] != "Rolo-1" {
		t.Errorf("cache was mutated through a returned slice: %+v", second[0])
	}
}

func TestRunRefreshLoopStopsOnCancel(t *testing.T) {
	loader := &fakeLoader{families: families("Rolo")}
	cache := NewCache(loader, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		RunRefreshLoop(ctx, cache, time.Hour, zap.NewNop())
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		loader.mu.Lock()
		calls := loader.calls
		loader.mu.Unlock()
		if calls >= 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("initial refresh did not run")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh loop did not stop")
	}
}
