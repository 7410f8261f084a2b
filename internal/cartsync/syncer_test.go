package cartsync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mmynk/bakery/internal/cart"
	"github.com/mmynk/bakery/internal/models"
)

var errOffline = errors.New("offline")

type memLocal struct {
	mu      sync.Mutex
	state   *models.CartState
	saves   int
	loadErr error
}

func (m *memLocal) Load(ctx context.Context) (models.CartState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return models.CartState{}, m.loadErr
	}
	if m.state == nil {
		return cart.Empty(), nil
	}
	return *m.state, nil
}

func (m *memLocal) Save(ctx context.Context, state models.CartState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = &state
	m.saves++
	return nil
}

func (m *memLocal) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = nil
	return nil
}

func (m *memLocal) snapshot() (*models.CartState, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.saves
}

// fakeRemote delivers every save to watchers before SaveCart returns, the
// way a fast server echoes a write.
type fakeRemote struct {
	mu       sync.Mutex
	docs     map[string]models.CartDocument
	clock    int64
	saves    int
	getErr   error
	saveErr  error
	watchers map[string]map[int]func(models.CartDocument)
	nextID   int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		docs:     make(map[string]models.CartDocument),
		clock:    1000,
		watchers: make(map[string]map[int]func(models.CartDocument)),
	}
}

func (f *fakeRemote) GetCart(ctx context.Context, userID string) (*models.CartDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	doc, ok := f.docs[userID]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (f *fakeRemote) SaveCart(ctx context.Context, userID string, state models.CartState) (int64, error) {
	f.mu.Lock()
	if f.saveErr != nil {
		f.mu.Unlock()
		return 0, f.saveErr
	}
	f.clock++
	f.saves++
	doc := models.CartDocument{UserID: userID, Cart: state, SyncedAt: f.clock}
	f.docs[userID] = doc
	f.mu.Unlock()

	f.push(doc)
	return doc.SyncedAt, nil
}

func (f *fakeRemote) WatchCart(ctx context.Context, userID string, fn func(models.CartDocument)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watchers[userID] == nil {
		f.watchers[userID] = make(map[int]func(models.CartDocument))
	}
	id := f.nextID
	f.nextID++
	f.watchers[userID][id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.watchers[userID], id)
	}, nil
}

// push delivers doc to userID's watchers.
func (f *fakeRemote) push(doc models.CartDocument) {
	f.mu.Lock()
	fns := make([]func(models.CartDocument), 0, len(f.watchers[doc.UserID]))
	for _, fn := range f.watchers[doc.UserID] {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(doc)
	}
}

// otherDevice simulates a write from another session.
func (f *fakeRemote) otherDevice(userID string, state models.CartState) models.CartDocument {
	f.mu.Lock()
	f.clock++
	doc := models.CartDocument{UserID: userID, Cart: cart.Sanitize(state), SyncedAt: f.clock}
	f.docs[userID] = doc
	f.mu.Unlock()
	f.push(doc)
	return doc
}

func (f *fakeRemote) stats() (saves, watchers int, doc models.CartDocument, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.watchers {
		watchers += len(w)
	}
	doc, ok = f.docs["u1"]
	return f.saves, watchers, doc, ok
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *recordingNotifier) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notes)
}

func item(cakeID string, qty int) models.CartItem {
	return models.CartItem{
		ID:       "line-" + cakeID,
		CakeID:   cakeID,
		Name:     "Cake " + cakeID,
		Price:    10,
		Quantity: qty,
		Size:     models.Size{Label: "Standard", Price: 10},
	}
}

func stateOf(items ...models.CartItem) models.CartState {
	return cart.Reduce(cart.Empty(), cart.ReplaceCart(models.CartState{Items: items}))
}

func newTestSyncer(t *testing.T, local *memLocal, remote *fakeRemote, debounce time.Duration) (*Syncer, *recordingNotifier) {
	t.Helper()
	notes := &recordingNotifier{}
	s := New(local, remote,
		WithDebounce(debounce),
		WithNotifier(notes),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	t.Cleanup(s.Close)
	return s, notes
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSyncer_AnonymousDebounce(t *testing.T) {
	local := &memLocal{}
	remote := newFakeRemote()
	s, _ := newTestSyncer(t, local, remote, 20*time.Millisecond)

	s.Load(context.Background())
	s.Dispatch(cart.AddItem(item("c1", 1)))
	s.Dispatch(cart.AddItem(item("c1", 1)))

	eventually(t, "local save", func() bool {
		_, saves := local.snapshot()
		return saves > 0
	})
	time.Sleep(50 * time.Millisecond)

	state, saves := local.snapshot()
	if saves != 1 {
		t.Errorf("expected changes to coalesce into 1 save, got %d", saves)
	}
	if len(state.Items) != 1 || state.Items[0].Quantity != 2 || state.Total != 21.65 {
		t.Errorf("unexpected saved cart: %+v", state)
	}
	if remoteSaves, _, _, _ := remote.stats(); remoteSaves != 0 {
		t.Errorf("anonymous session wrote remotely %d times", remoteSaves)
	}

	s.Dispatch(cart.ToggleCart())
	time.Sleep(50 * time.Millisecond)
	if _, saves := local.snapshot(); saves != 1 {
		t.Errorf("toggling visibility should not save, got %d saves", saves)
	}
	if !s.State().IsOpen {
		t.Error("expected cart open")
	}
}

func TestSyncer_Flush(t *testing.T) {
	local := &memLocal{}
	s, _ := newTestSyncer(t, local, newFakeRemote(), time.Hour)

	s.Dispatch(cart.AddItem(item("c1", 1)))
	s.Flush(context.Background())

	if state, saves := local.snapshot(); saves != 1 || len(state.Items) != 1 {
		t.Fatalf("expected flush to save, got %d saves: %+v", saves, state)
	}

	s.Flush(context.Background())
	if _, saves := local.snapshot(); saves != 1 {
		t.Errorf("flush without changes should not save, got %d", saves)
	}
}

func TestSyncer_LoadFailure(t *testing.T) {
	local := &memLocal{loadErr: errOffline}
	s, notes := newTestSyncer(t, local, newFakeRemote(), time.Hour)

	state := s.Load(context.Background())
	if len(state.Items) != 0 {
		t.Errorf("expected empty cart, got %+v", state)
	}
	if notes.count() != 1 {
		t.Errorf("expected 1 notification, got %d", notes.count())
	}
}

func TestSyncer_SignIn(t *testing.T) {
	tests := []struct {
		name      string
		remote    *models.CartState
		local     models.CartState
		merge     bool
		wantKeys  []string
		wantQty   map[string]int
		wantWrite bool
		localKept bool
	}{
		{
			name:      "promotes local cart",
			local:     stateOf(item("c1", 2)),
			wantKeys:  []string{"c1"},
			wantQty:   map[string]int{"c1": 2},
			wantWrite: true,
		},
		{
			name:      "remote cart wins",
			remote:    ptr(stateOf(item("c9", 1))),
			local:     stateOf(item("c1", 2)),
			wantKeys:  []string{"c9"},
			wantQty:   map[string]int{"c9": 1},
			localKept: true,
		},
		{
			name:      "merges local lines",
			remote:    ptr(stateOf(item("c1", 1))),
			local:     stateOf(item("c1", 3), item("c2", 1)),
			merge:     true,
			wantKeys:  []string{"c1", "c2"},
			wantQty:   map[string]int{"c1": 1, "c2": 1},
			wantWrite: true,
		},
		{
			name:     "merge with empty local keeps remote",
			remote:   ptr(stateOf(item("c1", 4))),
			merge:    true,
			wantKeys: []string{"c1"},
			wantQty:  map[string]int{"c1": 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := &memLocal{}
			if len(tt.local.Items) > 0 {
				local.Save(context.Background(), tt.local)
			}
			remote := newFakeRemote()
			if tt.remote != nil {
				remote.docs["u1"] = models.CartDocument{UserID: "u1", Cart: *tt.remote, SyncedAt: 500}
			}
			s, _ := newTestSyncer(t, local, remote, time.Hour)

			state, err := s.SignIn(context.Background(), "u1", tt.merge)
			if err != nil {
				t.Fatalf("SignIn failed: %v", err)
			}
			if len(state.Items) != len(tt.wantKeys) {
				t.Fatalf("expected %d lines, got %+v", len(tt.wantKeys), state.Items)
			}
			for i, key := range tt.wantKeys {
				if state.Items[i].CakeID != key || state.Items[i].Quantity != tt.wantQty[key] {
					t.Errorf("line %d: got %s x%d", i, state.Items[i].CakeID, state.Items[i].Quantity)
				}
			}

			saves, watchers, doc, _ := remote.stats()
			if (saves > 0) != tt.wantWrite {
				t.Errorf("remote saves = %d, want write %v", saves, tt.wantWrite)
			}
			if tt.wantWrite && len(doc.Cart.Items) != len(tt.wantKeys) {
				t.Errorf("remote doc has %d lines", len(doc.Cart.Items))
			}
			if watchers != 1 {
				t.Errorf("expected a live subscription, got %d watchers", watchers)
			}
			cached, _ := local.snapshot()
			if tt.localKept != (cached != nil) {
				t.Errorf("local cache kept = %v, want %v", cached != nil, tt.localKept)
			}
			if s.UserID() != "u1" {
				t.Errorf("UserID = %q", s.UserID())
			}
		})
	}

	t.Run("requires user", func(t *testing.T) {
		s, _ := newTestSyncer(t, &memLocal{}, newFakeRemote(), time.Hour)
		if _, err := s.SignIn(context.Background(), "", false); err == nil {
			t.Error("expected error for empty user id")
		}
	})

	t.Run("keeps unsaved anonymous edits", func(t *testing.T) {
		local := &memLocal{}
		remote := newFakeRemote()
		s, _ := newTestSyncer(t, local, remote, time.Hour)
		s.Load(context.Background())
		s.Dispatch(cart.AddItem(item("c1", 2)))

		state, err := s.SignIn(context.Background(), "u1", true)
		if err != nil {
			t.Fatalf("SignIn failed: %v", err)
		}
		if len(state.Items) != 1 || state.Items[0].Quantity != 2 {
			t.Fatalf("expected the pending line, got %+v", state.Items)
		}
		_, _, doc, ok := remote.stats()
		if !ok || len(doc.Cart.Items) != 1 || doc.Cart.Items[0].Quantity != 2 {
			t.Errorf("remote doc = %+v, want the pending line", doc.Cart.Items)
		}
	})

	t.Run("merges unsaved anonymous edits", func(t *testing.T) {
		local := &memLocal{}
		remote := newFakeRemote()
		remote.docs["u1"] = models.CartDocument{UserID: "u1", Cart: stateOf(item("c9", 1)), SyncedAt: 500}
		s, _ := newTestSyncer(t, local, remote, time.Hour)
		s.Load(context.Background())
		s.Dispatch(cart.AddItem(item("c1", 1)))

		state, err := s.SignIn(context.Background(), "u1", true)
		if err != nil {
			t.Fatalf("SignIn failed: %v", err)
		}
		if len(state.Items) != 2 {
			t.Errorf("expected remote and pending lines, got %+v", state.Items)
		}
	})
}

func ptr[T any](v T) *T { return &v }

func TestSyncer_RemoteFailures(t *testing.T) {
	t.Run("read failure keeps local cart", func(t *testing.T) {
		local := &memLocal{}
		local.Save(context.Background(), stateOf(item("c1", 1)))
		remote := newFakeRemote()
		remote.getErr = errOffline
		s, notes := newTestSyncer(t, local, remote, time.Hour)

		state, err := s.SignIn(context.Background(), "u1", true)
		if err != nil {
			t.Fatalf("SignIn failed: %v", err)
		}
		if len(state.Items) != 1 || notes.count() != 1 {
			t.Errorf("expected local cart and a notification, got %+v and %d", state.Items, notes.count())
		}
	})

	t.Run("write failure falls back to local", func(t *testing.T) {
		local := &memLocal{}
		remote := newFakeRemote()
		s, notes := newTestSyncer(t, local, remote, time.Hour)
		if _, err := s.SignIn(context.Background(), "u1", false); err != nil {
			t.Fatalf("SignIn failed: %v", err)
		}
		_, savesBefore := local.snapshot()

		remote.mu.Lock()
		remote.saveErr = errOffline
		remote.mu.Unlock()

		s.Dispatch(cart.AddItem(item("c2", 1)))
		s.Flush(context.Background())

		state, saves := local.snapshot()
		if saves != savesBefore+1 || state == nil || len(state.Items) != 1 {
			t.Errorf("expected fallback save, got %d saves: %+v", saves, state)
		}
		if notes.count() != 1 {
			t.Errorf("expected 1 notification, got %d", notes.count())
		}
		if got := s.State(); len(got.Items) != 1 {
			t.Errorf("in-memory cart lost: %+v", got)
		}
	})

	t.Run("merged cart kept locally when write fails", func(t *testing.T) {
		local := &memLocal{}
		local.Save(context.Background(), stateOf(item("c1", 1)))
		remote := newFakeRemote()
		remote.docs["u1"] = models.CartDocument{UserID: "u1", Cart: stateOf(item("c9", 1)), SyncedAt: 500}
		remote.saveErr = errOffline
		s, notes := newTestSyncer(t, local, remote, time.Hour)

		state, err := s.SignIn(context.Background(), "u1", true)
		if err != nil {
			t.Fatalf("SignIn failed: %v", err)
		}
		if len(state.Items) != 2 {
			t.Fatalf("expected merged cart, got %+v", state.Items)
		}
		cached, _ := local.snapshot()
		if cached == nil || len(cached.Items) != 2 {
			t.Errorf("local cache = %+v, want the merged cart", cached)
		}
		if notes.count() != 1 {
			t.Errorf("expected 1 notification, got %d", notes.count())
		}
	})
}

func TestSyncer_LiveUpdates(t *testing.T) {
	local := &memLocal{}
	remote := newFakeRemote()
	s, _ := newTestSyncer(t, local, remote, time.Hour)

	var mu sync.Mutex
	changes := 0
	s.OnChange(func(models.CartState) {
		mu.Lock()
		changes++
		mu.Unlock()
	})
	changeCount := func() int {
		mu.Lock()
		defer mu.Unlock()
		return changes
	}

	if _, err := s.SignIn(context.Background(), "u1", false); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	// Signing in with no remote cart promotes the empty local one.
	baseline, _, _, _ := remote.stats()

	// Own write: echoed while the save is in flight and again afterwards.
	s.Dispatch(cart.AddItem(item("c1", 1)))
	s.Flush(context.Background())
	_, _, own, _ := remote.stats()
	before := changeCount()
	remote.push(own)
	if changeCount() != before {
		t.Error("own echo should be ignored")
	}

	// Another device replaces the cart, including pending local edits.
	s.Dispatch(cart.AddItem(item("c5", 1)))
	doc := remote.otherDevice("u1", stateOf(item("c3", 2)))
	if got := s.State(); len(got.Items) != 1 || got.Items[0].CakeID != "c3" || got.Total != 21.65 {
		t.Fatalf("expected remote cart, got %+v", got)
	}
	s.Flush(context.Background())
	if saves, _, _, _ := remote.stats(); saves != baseline+1 {
		t.Errorf("replaced local edits should not be saved, got %d saves", saves-baseline)
	}

	// Stale and foreign documents are ignored.
	remote.push(models.CartDocument{UserID: "u1", Cart: stateOf(item("old", 1)), SyncedAt: doc.SyncedAt - 1})
	s.handleRemote(models.CartDocument{UserID: "u2", Cart: stateOf(item("theirs", 1)), SyncedAt: doc.SyncedAt + 10})
	if got := s.State(); got.Items[0].CakeID != "c3" {
		t.Errorf("unexpected cart after ignored updates: %+v", got.Items)
	}
}

func TestSyncer_SignOut(t *testing.T) {
	local := &memLocal{}
	remote := newFakeRemote()
	s, _ := newTestSyncer(t, local, remote, time.Hour)

	if _, err := s.SignIn(context.Background(), "u1", false); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	baseline, _, _, _ := remote.stats()
	s.Dispatch(cart.AddItem(item("c1", 1)))

	state := s.SignOut(context.Background())
	if len(state.Items) != 0 || s.UserID() != "" {
		t.Errorf("expected empty anonymous cart, got %+v for %q", state, s.UserID())
	}
	saves, watchers, doc, _ := remote.stats()
	if saves != baseline+1 || len(doc.Cart.Items) != 1 {
		t.Errorf("expected pending change flushed to remote, got %d saves: %+v", saves-baseline, doc.Cart)
	}
	if watchers != 0 {
		t.Errorf("expected subscription stopped, got %d watchers", watchers)
	}

	remote.otherDevice("u1", stateOf(item("c2", 1)))
	if len(s.State().Items) != 0 {
		t.Error("signed-out session received a live update")
	}
}

func TestSyncer_Close(t *testing.T) {
	local := &memLocal{}
	remote := newFakeRemote()
	s, _ := newTestSyncer(t, local, remote, 20*time.Millisecond)

	if _, err := s.SignIn(context.Background(), "u1", false); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	baseline, _, _, _ := remote.stats()
	s.Dispatch(cart.AddItem(item("c1", 1)))
	s.Close()
	time.Sleep(60 * time.Millisecond)

	saves, watchers, _, _ := remote.stats()
	if saves != baseline || watchers != 0 {
		t.Errorf("expected no saves and no watchers after Close, got %d and %d", saves-baseline, watchers)
	}

	s.Dispatch(cart.AddItem(item("c2", 1)))
	time.Sleep(60 * time.Millisecond)
	if saves, _, _, _ := remote.stats(); saves != baseline {
		t.Errorf("closed syncer saved %d times", saves-baseline)
	}
}
