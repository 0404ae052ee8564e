package core

import (
	"context"
	"time"

	"homagio/internal/geo"
	"homagio/internal/kv"
)

// AddressResolver turns free-text addresses into coordinates. *geo.Client
// satisfies it; a nil result with a nil error means the address did not
// resolve.
type AddressResolver interface {
	Geocode(ctx context.Context, addressText string) (*geo.Result, error)
}

// Service exposes the public store surface. Every operation takes explicit
// user/house parameters and runs one full load-migrate-mutate-persist cycle
// against the dataset blob; the session is data inside the dataset, not
// ambient state.
type Service struct {
	store       *DatasetStore
	kv          kv.Store
	settingsKey string
	logger      Logger
	metrics     MetricsRecorder
	resolver    AddressResolver
}

// Option configures a Service.
type Option func(*Service)

// WithLogger wires a structured log sink.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics wires a metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithNow overrides the service clock, mostly for tests.
func WithNow(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.store.nowFn = fn
		}
	}
}

// WithIDFunc overrides id generation, mostly for tests.
func WithIDFunc(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.store.newID = fn
		}
	}
}

// WithResolver wires an address resolver used to backfill coordinates on
// address-first house creation.
func WithResolver(r AddressResolver) Option {
	return func(s *Service) {
		s.resolver = r
	}
}

// WithDatasetKey overrides the blob's key on the persistence primitive.
func WithDatasetKey(key string) Option {
	return func(s *Service) {
		if key != "" {
			s.store.key = key
		}
	}
}

// WithSettingsKey overrides the settings key on the persistence primitive.
func WithSettingsKey(key string) Option {
	return func(s *Service) {
		if key != "" {
			s.settingsKey = key
		}
	}
}

// NewService constructs the store service on top of the supplied key/value
// primitive.
func NewService(store kv.Store, opts ...Option) *Service {
	s := &Service{
		store:       NewDatasetStore(store),
		kv:          store,
		settingsKey: DefaultSettingsKey,
		logger:      noopLogger{},
		metrics:     noopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.store.logger = s.logger
	return s
}

// Store returns the underlying dataset store.
func (s *Service) Store() *DatasetStore { return s.store }

// run instruments one operation with duration/result metrics and debug logs.
func (s *Service) run(ctx context.Context, op string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.metrics.Observe(ctx, op, err == nil, time.Since(start))
	if err != nil {
		s.logger.Debug("operation failed", "operation", op, "error", err)
	}
	return err
}

// Session returns the active session value.
func (s *Service) Session(ctx context.Context) (Session, error) {
	var out Session
	err := s.run(ctx, "session", func() error {
		return s.store.View(ctx, func(ds *Dataset) error {
			out = ds.Session
			return nil
		})
	})
	return out, err
}

// CurrentUser returns the session's user record. Migration guarantees it
// exists.
func (s *Service) CurrentUser(ctx context.Context) (User, error) {
	var out User
	err := s.run(ctx, "current_user", func() error {
		return s.store.View(ctx, func(ds *Dataset) error {
			out = ds.Users[ds.Session.UserID]
			return nil
		})
	})
	return out, err
}

// CurrentHouse returns the session's current house; ok is false when no
// house is selected.
func (s *Service) CurrentHouse(ctx context.Context) (House, bool, error) {
	var (
		out House
		ok  bool
	)
	err := s.run(ctx, "current_house", func() error {
		return s.store.View(ctx, func(ds *Dataset) error {
			out, ok = ds.Houses[ds.Session.CurrentHouseID]
			return nil
		})
	})
	return out, ok, err
}

// SetCurrentHouse selects id as the current house; an empty id clears the
// selection. Unknown ids fail with NotFoundError.
func (s *Service) SetCurrentHouse(ctx context.Context, id string) error {
	return s.run(ctx, "set_current_house", func() error {
		return s.store.Update(ctx, func(ds *Dataset) error {
			if id != "" {
				if _, ok := ds.Houses[id]; !ok {
					return NotFoundError{Entity: EntityHouse, ID: id}
				}
			}
			ds.Session.CurrentHouseID = id
			return nil
		})
	})
}

// CreateHouseInput is the address-first construction payload for a house.
type CreateHouseInput struct {
	Name    string
	Style   string
	Tier    string
	OwnerID string
	Address string // free-text address, kept as Address.Raw
	Lat     *float64
	Lng     *float64
}

// CreateHouse builds a normalized house from address-first input and
// persists it. When no coordinates are supplied and a resolver is wired, the
// address text is geocoded; a failed or empty lookup leaves the house without
// coordinates rather than failing the create.
func (s *Service) CreateHouse(ctx context.Context, in CreateHouseInput) (House, error) {
	h := House{
		Name:    in.Name,
		Style:   in.Style,
		Tier:    in.Tier,
		OwnerID: in.OwnerID,
		Address: Address{Raw: in.Address},
		Lat:     in.Lat,
		Lng:     in.Lng,
	}
	if h.Lat == nil && h.Lng == nil && in.Address != "" && s.resolver != nil {
		hit, err := s.resolver.Geocode(ctx, in.Address)
		switch {
		case err != nil:
			s.logger.Warn("geocode failed", "error", err)
		case hit != nil:
			lat, lng := hit.Lat, hit.Lng
			h.Lat, h.Lng = &lat, &lng
			h.Address.Formatted = hit.Formatted
		}
	}
	return s.UpsertHouse(ctx, &h)
}

// UpsertHouse normalizes the candidate, stamps updated, and writes it into
// the dataset. When no current house is selected the written house becomes
// current. A nil candidate fails with InvalidEntityError.
func (s *Service) UpsertHouse(ctx context.Context, h *House) (House, error) {
	var saved House
	err := s.run(ctx, "upsert_house", func() error {
		if h == nil {
			return InvalidEntityError{Entity: EntityHouse, Reason: "nil candidate"}
		}
		return s.store.Update(ctx, func(ds *Dataset) error {
			now := s.store.Now()
			cand := cloneHouse(*h)
			NormalizeHouse(&cand, now, s.store.NewID)
			cand.Updated = now
			ensureUser(ds, cand.OwnerID, now)
			ds.Houses[cand.ID] = cand
			if ds.Session.CurrentHouseID == "" {
				ds.Session.CurrentHouseID = cand.ID
			}
			saved = cand
			return nil
		})
	})
	return saved, err
}

// GetHouse retrieves a house by id.
func (s *Service) GetHouse(ctx context.Context, id string) (House, error) {
	var out House
	err := s.run(ctx, "get_house", func() error {
		return s.store.View(ctx, func(ds *Dataset) error {
			h, ok := ds.Houses[id]
			if !ok {
				return NotFoundError{Entity: EntityHouse, ID: id}
			}
			out = h
			return nil
		})
	})
	return out, err
}

// ListHouses returns all houses sorted by updated descending.
func (s *Service) ListHouses(ctx context.Context) ([]House, error) {
	return s.SearchHouses(ctx, SearchQuery{})
}

// DeleteHouse removes a house and cascades: its id disappears from every
// user's favorites and shopping buckets, and a deleted current house is
// replaced by the most-recently-updated survivor. Unknown ids are a no-op,
// not an error.
func (s *Service) DeleteHouse(ctx context.Context, id string) error {
	return s.run(ctx, "delete_house", func() error {
		return s.store.Update(ctx, func(ds *Dataset) error {
			if _, ok := ds.Houses[id]; !ok {
				return nil
			}
			delete(ds.Houses, id)
			pruneHouseRefs(ds, id)
			if ds.Session.CurrentHouseID == id {
				ds.Session.CurrentHouseID = mostRecentHouseID(ds.Houses)
			}
			return nil
		})
	})
}

// pruneHouseRefs drops every favorites entry and shopping bucket that
// references the removed house.
func pruneHouseRefs(ds *Dataset, houseID string) {
	for userID, byHouse := range ds.Favorites {
		delete(byHouse, houseID)
		if len(byHouse) == 0 {
			delete(ds.Favorites, userID)
		}
	}
	for userID, byHouse := range ds.Shopping {
		delete(byHouse, houseID)
		if len(byHouse) == 0 {
			delete(ds.Shopping, userID)
		}
	}
}

func cloneHouse(h House) House {
	cp := h
	if h.Lat != nil {
		lat := *h.Lat
		cp.Lat = &lat
	}
	if h.Lng != nil {
		lng := *h.Lng
		cp.Lng = &lng
	}
	if h.Items != nil {
		cp.Items = make(map[string]Item, len(h.Items))
		for k, v := range h.Items {
			cp.Items[k] = v
		}
	}
	if h.Photos != nil {
		cp.Photos = make([]Photo, len(h.Photos))
		for i, p := range h.Photos {
			cp.Photos[i] = p
			cp.Photos[i].LinkedItemIDs = append([]string(nil), p.LinkedItemIDs...)
		}
	}
	return cp
}
