package core

import "context"

// PhotoInput carries the caller-settable photo fields.
type PhotoInput struct {
	Tab   PhotoTab
	Label string
	Src   string
}

// AddPhoto appends a new photo with empty links to the house and stamps the
// house's updated.
func (s *Service) AddPhoto(ctx context.Context, houseID string, in PhotoInput) (Photo, error) {
	var created Photo
	err := s.run(ctx, "add_photo", func() error {
		return s.store.Update(ctx, func(ds *Dataset) error {
			h, ok := ds.Houses[houseID]
			if !ok {
				return NotFoundError{Entity: EntityHouse, ID: houseID}
			}
			photo := Photo{
				ID:            s.store.NewID(),
				Tab:           in.Tab,
				Label:         in.Label,
				Src:           in.Src,
				LinkedItemIDs: []string{},
			}
			normalizePhoto(&photo, s.store.NewID)
			h.Photos = append(h.Photos, photo)
			h.Updated = s.store.Now()
			ds.Houses[houseID] = h
			created = photo
			return nil
		})
	})
	return created, err
}

// UpdatePhoto mutates a photo using the provided mutator, then re-normalizes
// it (id preserved, tab defaulted, links deduplicated).
func (s *Service) UpdatePhoto(ctx context.Context, houseID, photoID string, mutate func(*Photo) error) (Photo, error) {
	var updated Photo
	err := s.run(ctx, "update_photo", func() error {
		return s.store.Update(ctx, func(ds *Dataset) error {
			h, ok := ds.Houses[houseID]
			if !ok {
				return NotFoundError{Entity: EntityHouse, ID: houseID}
			}
			idx := photoIndex(h.Photos, photoID)
			if idx < 0 {
				return NotFoundError{Entity: EntityPhoto, ID: photoID}
			}
			photo := h.Photos[idx]
			if err := mutate(&photo); err != nil {
				return err
			}
			photo.ID = photoID
			normalizePhoto(&photo, s.store.NewID)
			// Links may only reference items of the owning house.
			photo.LinkedItemIDs = retainExisting(photo.LinkedItemIDs, h.Items)
			h.Photos[idx] = photo
			h.Updated = s.store.Now()
			ds.Houses[houseID] = h
			updated = photo
			return nil
		})
	})
	return updated, err
}

// DeletePhoto removes a photo, preserving the order of the remaining ones.
func (s *Service) DeletePhoto(ctx context.Context, houseID, photoID string) error {
	return s.run(ctx, "delete_photo", func() error {
		return s.store.Update(ctx, func(ds *Dataset) error {
			h, ok := ds.Houses[houseID]
			if !ok {
				return NotFoundError{Entity: EntityHouse, ID: houseID}
			}
			idx := photoIndex(h.Photos, photoID)
			if idx < 0 {
				return NotFoundError{Entity: EntityPhoto, ID: photoID}
			}
			h.Photos = append(h.Photos[:idx], h.Photos[idx+1:]...)
			h.Updated = s.store.Now()
			ds.Houses[houseID] = h
			return nil
		})
	})
}

// AddItem stores a new material item on the house.
func (s *Service) AddItem(ctx context.Context, houseID string, item Item) (Item, error) {
	var created Item
	err := s.run(ctx, "add_item", func() error {
		return s.store.Update(ctx, func(ds *Dataset) error {
			h, ok := ds.Houses[houseID]
			if !ok {
				return NotFoundError{Entity: EntityHouse, ID: houseID}
			}
			if item.ID == "" {
				item.ID = s.store.NewID()
			}
			h.Items[item.ID] = item
			h.Updated = s.store.Now()
			ds.Houses[houseID] = h
			created = item
			return nil
		})
	})
	return created, err
}

// UpdateItem mutates an item using the provided mutator.
func (s *Service) UpdateItem(ctx context.Context, houseID, itemID string, mutate func(*Item) error) (Item, error) {
	var updated Item
	err := s.run(ctx, "update_item", func() error {
		return s.store.Update(ctx, func(ds *Dataset) error {
			h, ok := ds.Houses[houseID]
			if !ok {
				return NotFoundError{Entity: EntityHouse, ID: houseID}
			}
			item, ok := h.Items[itemID]
			if !ok {
				return NotFoundError{Entity: EntityItem, ID: itemID}
			}
			if err := mutate(&item); err != nil {
				return err
			}
			item.ID = itemID
			h.Items[itemID] = item
			h.Updated = s.store.Now()
			ds.Houses[houseID] = h
			updated = item
			return nil
		})
	})
	return updated, err
}

// DeleteItem removes an item and cascades: the id is unlinked from every
// photo of the house, preserving the order of remaining links. Shopping rows
// referencing the item keep their provenance hint untouched.
func (s *Service) DeleteItem(ctx context.Context, houseID, itemID string) error {
	return s.run(ctx, "delete_item", func() error {
		return s.store.Update(ctx, func(ds *Dataset) error {
			h, ok := ds.Houses[houseID]
			if !ok {
				return NotFoundError{Entity: EntityHouse, ID: houseID}
			}
			if _, ok := h.Items[itemID]; !ok {
				return NotFoundError{Entity: EntityItem, ID: itemID}
			}
			delete(h.Items, itemID)
			for i := range h.Photos {
				h.Photos[i].LinkedItemIDs = removeString(h.Photos[i].LinkedItemIDs, itemID)
			}
			h.Updated = s.store.Now()
			ds.Houses[houseID] = h
			return nil
		})
	})
}

// LinkItem links an item to a photo. Idempotent: linking an already-linked
// id is a no-op, never a duplicate entry.
func (s *Service) LinkItem(ctx context.Context, houseID, photoID, itemID string) error {
	return s.run(ctx, "link_item", func() error {
		return s.store.Update(ctx, func(ds *Dataset) error {
			h, ok := ds.Houses[houseID]
			if !ok {
				return NotFoundError{Entity: EntityHouse, ID: houseID}
			}
			idx := photoIndex(h.Photos, photoID)
			if idx < 0 {
				return NotFoundError{Entity: EntityPhoto, ID: photoID}
			}
			if _, ok := h.Items[itemID]; !ok {
				return NotFoundError{Entity: EntityItem, ID: itemID}
			}
			for _, linked := range h.Photos[idx].LinkedItemIDs {
				if linked == itemID {
					return nil
				}
			}
			h.Photos[idx].LinkedItemIDs = append(h.Photos[idx].LinkedItemIDs, itemID)
			h.Updated = s.store.Now()
			ds.Houses[houseID] = h
			return nil
		})
	})
}

// UnlinkItem removes the id from the photo's links; absent ids are a no-op.
func (s *Service) UnlinkItem(ctx context.Context, houseID, photoID, itemID string) error {
	return s.run(ctx, "unlink_item", func() error {
		return s.store.Update(ctx, func(ds *Dataset) error {
			h, ok := ds.Houses[houseID]
			if !ok {
				return NotFoundError{Entity: EntityHouse, ID: houseID}
			}
			idx := photoIndex(h.Photos, photoID)
			if idx < 0 {
				return NotFoundError{Entity: EntityPhoto, ID: photoID}
			}
			h.Photos[idx].LinkedItemIDs = removeString(h.Photos[idx].LinkedItemIDs, itemID)
			h.Updated = s.store.Now()
			ds.Houses[houseID] = h
			return nil
		})
	})
}

func photoIndex(photos []Photo, id string) int {
	for i := range photos {
		if photos[i].ID == id {
			return i
		}
	}
	return -1
}

// removeString drops target from ids, preserving the remaining order.
func removeString(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// retainExisting keeps only ids present in items, preserving order.
func retainExisting(ids []string, items map[string]Item) []string {
	out := ids[:0]
	for _, id := range ids {
		if _, ok := items[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
