package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"homagio/internal/kv"
	"homagio/pkg/domain"
)

// Storage keys on the host key/value primitive: one for the dataset blob,
// one for user-facing settings.
const (
	DefaultDatasetKey  = "homagio:dataset"
	DefaultSettingsKey = "homagio:settings"
)

// DatasetStore performs the atomic read-modify-write cycle every public
// operation runs against the dataset blob: load raw, migrate, mutate in
// memory, persist. There is no partial commit; the whole blob is the
// transaction boundary. Write failures (quota, blocked backend) are logged
// and swallowed so the in-memory result still reaches the caller; a
// successful return does not imply durability.
type DatasetStore struct {
	mu     sync.Mutex
	kv     kv.Store
	key    string
	logger Logger
	nowFn  func() time.Time
	newID  func() string
}

// NewDatasetStore wraps the supplied key/value primitive.
func NewDatasetStore(store kv.Store) *DatasetStore {
	return &DatasetStore{
		kv:     store,
		key:    DefaultDatasetKey,
		logger: noopLogger{},
		nowFn:  func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// Update runs fn against the freshly loaded, migrated dataset and persists
// the result. An error from fn aborts the cycle without writing.
func (s *DatasetStore) Update(ctx context.Context, fn func(ds *Dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds := s.load(ctx)
	if err := fn(&ds); err != nil {
		return err
	}
	s.persist(ctx, ds)
	return nil
}

// View runs fn against the freshly loaded, migrated dataset without writing.
func (s *DatasetStore) View(ctx context.Context, fn func(ds *Dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds := s.load(ctx)
	return fn(&ds)
}

func (s *DatasetStore) load(ctx context.Context) Dataset {
	now := domain.Timestamp(s.nowFn())
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("dataset read failed, using defaults", "key", s.key, "error", err)
		return defaultDataset(now)
	}
	if !ok {
		return defaultDataset(now)
	}
	return decodeDataset(raw, now, s.newID)
}

func (s *DatasetStore) persist(ctx context.Context, ds Dataset) {
	raw, err := EncodeDataset(ds)
	if err != nil {
		s.logger.Error("encode dataset failed, write skipped", "error", err)
		return
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		s.logger.Warn("dataset write failed, result not durable",
			"key", s.key, "driver", s.kv.Driver(), "error", err)
	}
}

// Now returns the store clock's current canonical timestamp.
func (s *DatasetStore) Now() string { return domain.Timestamp(s.nowFn()) }

// NewID returns a fresh entity id.
func (s *DatasetStore) NewID() string { return s.newID() }
