package pinboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Store is an opaque key-value blob store. Get returns an error wrapping
// ErrNotFound for a missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("pinboard: key %q: %w", key, ErrNotFound)
	}
	return append([]byte(nil), v...), nil
}

// Put implements Store.
func (m *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// FileStore keeps one "<key>.json" file per key in Dir. Writes go through a
// temp file and rename so a crash never leaves a half-written board.
type FileStore struct {
	Dir string
}

func (f FileStore) path(key string) string {
	return filepath.Join(f.Dir, filepath.Base(key)+".json")
}

// Get implements Store.
func (f FileStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("pinboard: key %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("pinboard: read %s: %w", key, err)
	}
	return data, nil
}

// Put implements Store.
func (f FileStore) Put(_ context.Context, key string, value []byte) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("pinboard: create store dir: %w", err)
	}
	tmp, err := os.CreateTemp(f.Dir, filepath.Base(key)+".*.tmp")
	if err != nil {
		return fmt.Errorf("pinboard: write %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("pinboard: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("pinboard: write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fmt.Errorf("pinboard: write %s: %w", key, err)
	}
	return nil
}

// BoardVersion is the serialized board format version.
const BoardVersion = 1

// BoardState is the persisted form of a board: camera plus entities. The
// selection and history are session state and are not saved.
type BoardState struct {
	Version    int         `json:"version"`
	Camera     Camera      `json:"camera"`
	Notes      []Note      `json:"notes"`
	Connectors []Connector `json:"connectors"`
	Strokes    []Stroke    `json:"strokes"`
}

// Gateway serializes boards to a Store under one key.
type Gateway struct {
	store Store
	key   string
	log   *slog.Logger
}

// NewGateway creates a gateway. An empty key defaults to "board"; a nil
// logger to slog.Default().
func NewGateway(store Store, key string, logger *slog.Logger) *Gateway {
	if key == "" {
		key = "board"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{store: store, key: key, log: logger}
}

// Key returns the store key boards are saved under.
func (g *Gateway) Key() string { return g.key }

// Save encodes b and writes it to the store.
func (g *Gateway) Save(ctx context.Context, b BoardState) error {
	b.Version = BoardVersion
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("pinboard: encode board: %w", err)
	}
	if err := g.store.Put(ctx, g.key, data); err != nil {
		return fmt.Errorf("pinboard: save board: %w", err)
	}
	return nil
}

// Load reads the saved board. A missing, unreadable or corrupt value yields
// nil, and the caller starts from an empty board; Load never fails.
func (g *Gateway) Load(ctx context.Context) *BoardState {
	data, err := g.store.Get(ctx, g.key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		g.log.Warn("board load failed", "key", g.key, "error", err)
		return nil
	}
	var b BoardState
	if err := json.Unmarshal(data, &b); err != nil {
		g.log.Warn("corrupt board ignored", "key", g.key, "error", err)
		return nil
	}
	if err := b.check(); err != nil {
		g.log.Warn("corrupt board ignored", "key", g.key, "error", err)
		return nil
	}
	return &b
}

// check rejects boards that would break engine invariants.
func (b *BoardState) check() error {
	if b.Version > BoardVersion {
		return fmt.Errorf("unsupported version %d", b.Version)
	}
	if !finite(b.Camera.X) || !finite(b.Camera.Y) || !finite(b.Camera.Scale) || b.Camera.Scale <= 0 {
		return fmt.Errorf("invalid camera %+v", b.Camera)
	}
	seen := make(map[EntityID]struct{}, len(b.Notes)+len(b.Connectors)+len(b.Strokes))
	unique := func(id EntityID) error {
		if id == "" {
			return errors.New("entity without id")
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
		return nil
	}
	for _, n := range b.Notes {
		if err := unique(n.ID); err != nil {
			return err
		}
		if !finite(n.X) || !finite(n.Y) || !finite(n.W) || !finite(n.H) || n.W <= 0 || n.H <= 0 {
			return fmt.Errorf("note %q has invalid bounds", n.ID)
		}
	}
	pairs := make(map[[2]EntityID]struct{}, len(b.Connectors))
	for _, c := range b.Connectors {
		if err := unique(c.ID); err != nil {
			return err
		}
		if c.FromID == c.ToID {
			return fmt.Errorf("connector %q links a note to itself", c.ID)
		}
		pair := [2]EntityID{c.FromID, c.ToID}
		if _, dup := pairs[pair]; dup {
			return fmt.Errorf("connector %q duplicates %s -> %s", c.ID, c.FromID, c.ToID)
		}
		pairs[pair] = struct{}{}
		for _, p := range c.Breakpoints {
			if !p.isFinite() {
				return fmt.Errorf("connector %q has an invalid breakpoint", c.ID)
			}
		}
	}
	for _, s := range b.Strokes {
		if err := unique(s.ID); err != nil {
			return err
		}
		for _, p := range s.Points {
			if !p.isFinite() {
				return fmt.Errorf("stroke %q has an invalid point", s.ID)
			}
		}
	}
	return nil
}
