package core

import (
	"context"
	"encoding/json"
	"sort"
)

// ToggleFavorite flips the (user, house) membership and returns the new
// state.
func (s *Service) ToggleFavorite(ctx context.Context, houseID, userID string) (bool, error) {
	var state bool
	err := s.run(ctx, "toggle_favorite", func() error {
		return s.store.Update(ctx, func(ds *Dataset) error {
			if _, ok := ds.Houses[houseID]; !ok {
				return NotFoundError{Entity: EntityHouse, ID: houseID}
			}
			ensureUser(ds, userID, s.store.Now())
			if ds.Favorites[userID][houseID] {
				delete(ds.Favorites[userID], houseID)
				if len(ds.Favorites[userID]) == 0 {
					delete(ds.Favorites, userID)
				}
				state = false
				return nil
			}
			if ds.Favorites[userID] == nil {
				ds.Favorites[userID] = make(map[string]bool)
			}
			ds.Favorites[userID][houseID] = true
			state = true
			return nil
		})
	})
	return state, err
}

// IsFavorite reports the (user, house) membership state.
func (s *Service) IsFavorite(ctx context.Context, houseID, userID string) (bool, error) {
	var state bool
	err := s.run(ctx, "is_favorite", func() error {
		return s.store.View(ctx, func(ds *Dataset) error {
			state = ds.Favorites[userID][houseID]
			return nil
		})
	})
	return state, err
}

// Favorites resolves the user's favorited ids to house records, silently
// dropping ids whose house no longer exists, sorted by updated descending.
func (s *Service) Favorites(ctx context.Context, userID string) ([]House, error) {
	out := []House{}
	err := s.run(ctx, "favorites", func() error {
		return s.store.View(ctx, func(ds *Dataset) error {
			for houseID := range ds.Favorites[userID] {
				if h, ok := ds.Houses[houseID]; ok {
					out = append(out, h)
				}
			}
			sort.Slice(out, func(i, j int) bool {
				if out[i].Updated != out[j].Updated {
					return out[i].Updated > out[j].Updated
				}
				return out[i].ID < out[j].ID
			})
			return nil
		})
	})
	return out, err
}

// ExportJSON serializes the full migrated dataset.
func (s *Service) ExportJSON(ctx context.Context) (string, error) {
	var out string
	err := s.run(ctx, "export_json", func() error {
		return s.store.View(ctx, func(ds *Dataset) error {
			raw, err := EncodeDataset(*ds)
			if err != nil {
				return err
			}
			out = raw
			return nil
		})
	})
	return out, err
}

// ImportJSON replaces or merges the dataset from an exported payload.
// Unparseable text fails with ParseError. With merge false the dataset is
// replaced wholesale by Migrate(parsed). With merge true the parsed input's
// top-level fields are shallow-merged over the current dataset before
// migrating: colliding nested maps (houses, favorites, shopping) are fully
// overwritten, not unioned.
func (s *Service) ImportJSON(ctx context.Context, text string, merge bool) error {
	return s.run(ctx, "import_json", func() error {
		parsed, err := strictDecodeValue(text)
		if err != nil {
			return err
		}
		return s.store.Update(ctx, func(ds *Dataset) error {
			now := s.store.Now()
			if !merge {
				*ds = migrateValue(parsed, now, s.store.NewID)
				return nil
			}
			currentRaw, err := json.Marshal(*ds)
			if err != nil {
				return err
			}
			var current map[string]any
			if err := json.Unmarshal(currentRaw, &current); err != nil {
				return err
			}
			if incoming, ok := asObject(parsed); ok {
				for k, v := range incoming {
					current[k] = v
				}
			}
			*ds = migrateValue(current, now, s.store.NewID)
			return nil
		})
	})
}
