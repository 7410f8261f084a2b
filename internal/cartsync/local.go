package cartsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mmynk/bakery/internal/cart"
	"github.com/mmynk/bakery/internal/models"
)

// LocalStorageKey names the anonymous cart cache.
const LocalStorageKey = "bakeryCart"

// LocalStore is the device-local cart cache used for anonymous sessions and
// as the fallback when the remote store fails.
type LocalStore interface {
	// Load returns the cached cart, or an empty cart if nothing is cached.
	Load(ctx context.Context) (models.CartState, error)
	Save(ctx context.Context, state models.CartState) error
	Clear(ctx context.Context) error
}

// FileStore is a LocalStore holding the serialized cart in a single JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ LocalStore = (*FileStore)(nil)

// NewFileStore creates a FileStore under dir, creating the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cart cache directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, LocalStorageKey+".json")}, nil
}

// Path returns the cache file location.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the cached cart. Totals are recomputed from the stored items.
func (f *FileStore) Load(ctx context.Context) (models.CartState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return cart.Empty(), nil
	}
	if err != nil {
		return cart.Empty(), fmt.Errorf("failed to read cart cache: %w", err)
	}

	var state models.CartState
	if err := json.Unmarshal(data, &state); err != nil {
		return cart.Empty(), fmt.Errorf("failed to decode cart cache: %w", err)
	}
	return cart.Sanitize(state), nil
}

// Save writes the sanitized cart, replacing the previous cache atomically.
func (f *FileStore) Save(ctx context.Context, state models.CartState) error {
	data, err := json.Marshal(cart.Sanitize(state))
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write cart cache: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace cart cache: %w", err)
	}
	return nil
}

// Clear removes the cached cart.
func (f *FileStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear cart cache: %w", err)
	}
	return nil
}
