// Package cartsync mirrors a cart to durable storage according to the
// session's authentication state.
//
// Anonymous sessions persist to a LocalStore. Signed-in sessions persist to
// the user's remote cart document and receive live updates from it. Outbound
// saves are debounced; failures fall back to the local cache and surface a
// Notification, with no retry beyond the next save.
package cartsync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/bakery/internal/cart"
	"github.com/mmynk/bakery/internal/models"
)

// DefaultDebounce is the delay between the last change and the save.
const DefaultDebounce = 500 * time.Millisecond

const saveTimeout = 10 * time.Second

// RemoteStore is the per-user cart document store.
type RemoteStore interface {
	// GetCart returns the user's cart document, or nil if none exists.
	GetCart(ctx context.Context, userID string) (*models.CartDocument, error)

	// SaveCart writes the user's cart and returns the server-set sync timestamp.
	SaveCart(ctx context.Context, userID string, state models.CartState) (int64, error)

	// WatchCart calls fn for every remote change until the returned stop
	// function is called or ctx is cancelled.
	WatchCart(ctx context.Context, userID string, fn func(models.CartDocument)) (stop func(), err error)
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(s *Syncer) { s.debounce = d }
}

// WithNotifier sets where sync notifications go. Defaults to a LogNotifier.
func WithNotifier(n Notifier) Option {
	return func(s *Syncer) { s.notifier = n }
}

// WithLogger sets the logger for sync diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Syncer) { s.logger = l }
}

// Syncer owns a cart state and keeps it mirrored to storage.
// It is safe for concurrent use.
type Syncer struct {
	local    LocalStore
	remote   RemoteStore
	notifier Notifier
	logger   *slog.Logger
	debounce time.Duration

	// saveMu serializes writes so at most one save is in flight.
	saveMu sync.Mutex

	mu           sync.Mutex
	state        models.CartState
	userID       string
	dirty        bool
	timer        *time.Timer
	syncing      bool
	lastSyncedAt int64
	stopWatch    func()
	listeners    []func(models.CartState)
	closed       bool
}

// New creates a Syncer with an empty anonymous cart.
func New(local LocalStore, remote RemoteStore, opts ...Option) *Syncer {
	s := &Syncer{
		local:    local,
		remote:   remote,
		debounce: DefaultDebounce,
		state:    cart.Empty(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.notifier == nil {
		s.notifier = LogNotifier{Logger: s.logger}
	}
	return s
}

// State returns the current cart.
func (s *Syncer) State() models.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// UserID returns the signed-in user, or "" for anonymous sessions.
func (s *Syncer) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// OnChange registers fn to be called after every state change.
func (s *Syncer) OnChange(fn func(models.CartState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Load boots an anonymous session from the local cache.
// A cache read failure starts from an empty cart.
func (s *Syncer) Load(ctx context.Context) models.CartState {
	state := s.loadLocal(ctx)
	return s.replace(state)
}

// SignIn switches the session to userID's remote cart.
//
// If the user already has a remote cart it becomes the session cart; with
// merge set, local lines the remote cart does not have are added to it. If
// the user has no remote cart, the local cart is promoted. The local cache
// is cleared once the remote write succeeds; if it fails the result is kept
// in the local cache instead. A remote read failure keeps the local cart and
// notifies. Unsaved anonymous edits count as part of the local cart.
func (s *Syncer) SignIn(ctx context.Context, userID string, merge bool) (models.CartState, error) {
	if userID == "" {
		return s.State(), errors.New("user id required")
	}

	s.mu.Lock()
	pending := s.userID == "" && s.dirty
	current := s.state
	s.mu.Unlock()

	s.Flush(ctx)
	s.stopWatching()

	local := current
	if !pending {
		local = s.loadLocal(ctx)
	}

	s.mu.Lock()
	s.userID = userID
	s.dirty = false
	s.stopTimerLocked()
	s.mu.Unlock()

	doc, err := s.remote.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load remote cart", "user_id", userID, "error", err)
		s.notify(slog.LevelWarn, "Couldn't load your saved cart. Using the cart on this device.", err)
		state := s.replace(local)
		s.startWatching(userID)
		return state, nil
	}

	var state models.CartState
	write := true
	switch {
	case doc == nil:
		state = local
	case merge && len(local.Items) > 0:
		state = Merge(doc.Cart, local)
	default:
		state = doc.Cart
		write = false
		s.mu.Lock()
		s.lastSyncedAt = doc.SyncedAt
		s.mu.Unlock()
	}
	state = s.replace(state)

	if write {
		if err := s.writeRemote(ctx, userID, state); err != nil {
			s.logger.Error("Failed to save merged cart", "user_id", userID, "error", err)
			if lerr := s.local.Save(ctx, state); lerr != nil {
				s.logger.Error("Failed to save local cart fallback", "error", lerr)
			}
			s.notify(slog.LevelWarn, "Couldn't sync your cart. Changes are kept on this device.", err)
		} else if err := s.local.Clear(ctx); err != nil {
			s.logger.Warn("Failed to clear local cart cache", "error", err)
		}
	}

	s.startWatching(userID)
	s.logger.Info("Cart signed in", "user_id", userID, "items", len(state.Items), "merged", merge && doc != nil)
	return state, nil
}

// SignOut saves any pending change, stops live updates and resets the
// session to an empty anonymous cart. The user's cart stays in their
// remote document.
func (s *Syncer) SignOut(ctx context.Context) models.CartState {
	s.Flush(ctx)
	s.stopWatching()

	s.mu.Lock()
	s.userID = ""
	s.lastSyncedAt = 0
	s.dirty = false
	s.stopTimerLocked()
	s.mu.Unlock()

	return s.replace(cart.Empty())
}

// Dispatch applies action to the cart and schedules a debounced save.
// Visibility changes are not persisted.
func (s *Syncer) Dispatch(action cart.Action) models.CartState {
	s.mu.Lock()
	s.state = cart.Reduce(s.state, action)
	state := s.state
	if _, visibilityOnly := action.(cart.ToggleCartAction); !visibilityOnly && !s.closed {
		s.dirty = true
		s.scheduleLocked()
	}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	emit(listeners, state)
	return state
}

// Flush performs any pending save immediately.
func (s *Syncer) Flush(ctx context.Context) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return
	}
	s.dirty = false
	s.stopTimerLocked()
	state := s.state
	userID := s.userID
	s.mu.Unlock()

	if userID == "" {
		if err := s.local.Save(ctx, state); err != nil {
			s.logger.Error("Failed to save local cart", "error", err)
			s.notify(slog.LevelWarn, "Couldn't save your cart on this device.", err)
		}
		return
	}

	if err := s.writeRemote(ctx, userID, state); err != nil {
		s.logger.Error("Failed to save remote cart", "user_id", userID, "error", err)
		if lerr := s.local.Save(ctx, state); lerr != nil {
			s.logger.Error("Failed to save local cart fallback", "error", lerr)
		}
		s.notify(slog.LevelWarn, "Couldn't sync your cart. Changes are kept on this device.", err)
	}
}

// Close stops the debounce timer and live updates. Pending changes that
// were not flushed are dropped.
func (s *Syncer) Close() {
	s.stopWatching()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.dirty = false
	s.stopTimerLocked()
}

// writeRemote saves state with the syncing flag raised so the live update
// caused by this write is ignored.
func (s *Syncer) writeRemote(ctx context.Context, userID string, state models.CartState) error {
	s.mu.Lock()
	s.syncing = true
	s.mu.Unlock()

	syncedAt, err := s.remote.SaveCart(ctx, userID, cart.Sanitize(state))

	s.mu.Lock()
	s.syncing = false
	if err == nil && syncedAt > s.lastSyncedAt {
		s.lastSyncedAt = syncedAt
	}
	s.mu.Unlock()
	return err
}

// handleRemote applies a live update from the remote document.
func (s *Syncer) handleRemote(doc models.CartDocument) {
	s.mu.Lock()
	if s.closed || doc.UserID != s.userID || s.syncing || doc.SyncedAt <= s.lastSyncedAt {
		s.mu.Unlock()
		return
	}
	s.lastSyncedAt = doc.SyncedAt
	s.dirty = false
	s.stopTimerLocked()
	s.state = cart.Reduce(s.state, cart.ReplaceCart(doc.Cart))
	state := s.state
	listeners := s.listenersLocked()
	s.mu.Unlock()

	s.logger.Debug("Applied remote cart update", "user_id", doc.UserID, "synced_at", doc.SyncedAt)
	emit(listeners, state)
}

func (s *Syncer) loadLocal(ctx context.Context) models.CartState {
	state, err := s.local.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to load local cart", "error", err)
		s.notify(slog.LevelWarn, "Couldn't restore your cart.", err)
		return cart.Empty()
	}
	return state
}

func (s *Syncer) replace(state models.CartState) models.CartState {
	s.mu.Lock()
	s.state = cart.Reduce(s.state, cart.ReplaceCart(state))
	next := s.state
	listeners := s.listenersLocked()
	s.mu.Unlock()

	emit(listeners, next)
	return next
}

func (s *Syncer) startWatching(userID string) {
	ctx, cancel := context.WithCancel(context.Background())
	stop, err := s.remote.WatchCart(ctx, userID, s.handleRemote)
	if err != nil {
		cancel()
		s.logger.Error("Failed to subscribe to cart updates", "user_id", userID, "error", err)
		s.notify(slog.LevelInfo, "Live cart updates are unavailable.", err)
		return
	}

	s.mu.Lock()
	s.stopWatch = func() {
		stop()
		cancel()
	}
	s.mu.Unlock()
}

func (s *Syncer) stopWatching() {
	s.mu.Lock()
	stop := s.stopWatch
	s.stopWatch = nil
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
}

func (s *Syncer) scheduleLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		s.Flush(ctx)
	})
}

func (s *Syncer) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Syncer) listenersLocked() []func(models.CartState) {
	return append([]func(models.CartState){}, s.listeners...)
}

func (s *Syncer) notify(level slog.Level, msg string, err error) {
	s.notifier.Notify(Notification{Level: level, Message: msg, Err: err})
}

func emit(listeners []func(models.CartState), state models.CartState) {
	for _, fn := range listeners {
		fn(state)
	}
}
