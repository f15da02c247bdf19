package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spongik/storefront/internal/cache"
	"github.com/spongik/storefront/internal/checkout"
	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/storage"

	"github.com/google/uuid"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(Options{
		BackendURL:  "http://backend.local/api",
		Storage:     storage.NewMemory(time.Hour),
		IdleTimeout: time.Minute,
	})
	if err != nil {
		t.Fatalf("new manager failed: %v", err)
	}
	return m
}

func TestNewManagerRequiresBackend(t *testing.T) {
	if _, err := NewManager(Options{}); err != ErrBackendUnset {
		t.Fatalf("want ErrBackendUnset got %v", err)
	}
	if _, err := NewManager(Options{BackendURL: "not a url"}); err == nil {
		t.Fatalf("invalid backend url should fail")
	}
}

func TestResolveCreatesAndReuses(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	sess, created, err := m.Resolve(ctx, "garbage")
	if err != nil || !created {
		t.Fatalf("invalid id should create a session, created=%v err=%v", created, err)
	}
	if _, err := uuid.Parse(sess.ID); err != nil {
		t.Fatalf("session id should be a uuid, got %q", sess.ID)
	}

	again, created, err := m.Resolve(ctx, sess.ID)
	if err != nil || created || again != sess {
		t.Fatalf("known id should return the same session")
	}

	known := uuid.NewString()
	other, created, err := m.Resolve(ctx, known)
	if err != nil || created || other.ID != known {
		t.Fatalf("valid unknown id should be adopted, got %+v created=%v", other, created)
	}
	if m.Len() != 2 {
		t.Fatalf("want 2 sessions got %d", m.Len())
	}
	if other.API == sess.API {
		t.Fatalf("sessions must not share backend clients")
	}
}

func TestEvictIdleKeepsPersistedCart(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	now := time.Now()
	m.now = func() time.Time { return now }

	sess, _, _ := m.Resolve(ctx, "")
	sess.Store.Cart.Add(ctx, models.Product{ID: 9, Slug: "s", Name: "Губка", Price: models.NewPrice(10), FinalPrice: models.NewPrice(10)}, 2)

	if removed := m.EvictIdle(now.Add(30 * time.Second)); removed != 0 {
		t.Fatalf("active session should stay, removed %d", removed)
	}
	if removed := m.EvictIdle(now.Add(2 * time.Minute)); removed != 1 {
		t.Fatalf("idle session should be evicted, removed %d", removed)
	}
	if _, ok := m.Get(sess.ID); ok {
		t.Fatalf("evicted session still in memory")
	}

	reopened, created, err := m.Resolve(ctx, sess.ID)
	if err != nil || created {
		t.Fatalf("reopen failed: created=%v err=%v", created, err)
	}
	if reopened == sess {
		t.Fatalf("reopened session should be a fresh instance")
	}
	if reopened.Store.Cart.Count() != 2 {
		t.Fatalf("cart should be reloaded from storage, got %d", reopened.Store.Cart.Count())
	}
}

func TestConfirmationAndLogout(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	sess, _, _ := m.Resolve(ctx, "")

	if sess.Confirmation() != nil {
		t.Fatalf("new session has no confirmation")
	}
	sess.SetConfirmation(&checkout.Confirmation{OrderNumber: "SP-7"})
	if got := sess.Confirmation(); got == nil || got.OrderNumber != "SP-7" {
		t.Fatalf("confirmation not kept")
	}

	sess.Store.User.Set(&models.SessionUser{ID: 3, Role: models.RoleCustomer})
	m.Persist(ctx, sess)
	m.Logout(ctx, sess)
	if sess.User() != nil {
		t.Fatalf("logout should clear user")
	}
	if ids := m.IDs(); len(ids) != 1 || ids[0] != sess.ID {
		t.Fatalf("logout keeps the visitor session, got %v", ids)
	}
}

func TestEvictIdleDropsOneShotSessionsEarly(t *testing.T) {
	m := newTestManager(t)
	m.opts.IdleTimeout = time.Hour
	ctx := context.Background()
	now := time.Now()
	m.now = func() time.Time { return now }

	oneShot, _, _ := m.Resolve(ctx, "")
	returning, _, _ := m.Resolve(ctx, "")
	if _, _, err := m.Resolve(ctx, returning.ID); err != nil {
		t.Fatalf("resolve returning session failed: %v", err)
	}

	if removed := m.EvictIdle(now.Add(10 * time.Minute)); removed != 1 {
		t.Fatalf("want 1 one-shot session evicted got %d", removed)
	}
	if _, ok := m.Get(oneShot.ID); ok {
		t.Fatalf("one-shot session should be evicted")
	}
	if _, ok := m.Get(returning.ID); !ok {
		t.Fatalf("returning session should stay until the idle timeout")
	}
}

func TestGuestSessionsAreCapped(t *testing.T) {
	m, err := NewManager(Options{
		BackendURL: "http://backend.local/api",
		Storage:    storage.NewMemory(time.Hour),
		MaxGuests:  2,
	})
	if err != nil {
		t.Fatalf("new manager failed: %v", err)
	}
	ctx := context.Background()
	now := time.Now()
	m.now = func() time.Time { return now }

	customer, _, _ := m.Resolve(ctx, "")
	customer.Store.User.Set(&models.SessionUser{ID: 8, Role: models.RoleCustomer})

	var guests []*Session
	for i := 0; i < 3; i++ {
		now = now.Add(time.Second)
		sess, _, err := m.Resolve(ctx, "")
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		guests = append(guests, sess)
	}

	if m.Len() != 3 {
		t.Fatalf("want 2 guests plus the customer, got %d sessions", m.Len())
	}
	if _, ok := m.Get(guests[0].ID); ok {
		t.Fatalf("oldest guest should be trimmed")
	}
	for _, sess := range append(guests[1:], customer) {
		if _, ok := m.Get(sess.ID); !ok {
			t.Fatalf("session %s should stay", sess.ID)
		}
	}
}

func TestSnapshotRestoreReconcilesFavorites(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/me/favorites" {
			http.NotFound(w, r)
			return
		}
		if c, err := r.Cookie("session"); err != nil || c.Value != "backend-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"slug":"sponge","name":"Губка","price":120,"final_price":120,"in_stock":true}]`))
	}))
	t.Cleanup(backend.Close)

	m, err := NewManager(Options{BackendURL: backend.URL + "/api", Storage: storage.NewMemory(time.Hour)})
	if err != nil {
		t.Fatalf("new manager failed: %v", err)
	}
	ctx := context.Background()
	sess, _, _ := m.Resolve(ctx, "")
	sess.Store.Favorites.Add(ctx, models.Product{ID: 4, Slug: "cloth", Name: "Серветка"})

	m.applySnapshot(ctx, sess, &cache.SessionState{
		SessionID: sess.ID,
		User:      &models.SessionUser{ID: 5, Role: models.RoleCustomer},
		Cookies:   []cache.SessionCookie{{Name: "session", Value: "backend-token", Path: "/"}},
	})

	if sess.User() == nil || sess.User().ID != 5 {
		t.Fatalf("snapshot user not restored: %+v", sess.User())
	}
	if sess.Store.Favorites.Has(4) || !sess.Store.Favorites.Has(1) {
		t.Fatalf("restored session should take server favorites, got %v", sess.Store.Favorites.IDs())
	}
}
