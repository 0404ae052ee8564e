package core

import (
	"context"
	"sort"
)

// GetShoppingList returns the bucket's rows sorted ascending by created
// (ties resolve by row id, keeping the order deterministic). A missing
// bucket yields an empty result, not an error.
func (s *Service) GetShoppingList(ctx context.Context, houseID, userID string) (ShoppingList, error) {
	out := ShoppingList{Items: []ShoppingRow{}}
	err := s.run(ctx, "get_shopping_list", func() error {
		return s.store.View(ctx, func(ds *Dataset) error {
			bucket, ok := ds.Shopping[userID][houseID]
			if !ok {
				return nil
			}
			out.Updated = bucket.Updated
			for _, row := range bucket.Items {
				out.Items = append(out.Items, row)
			}
			sort.Slice(out.Items, func(i, j int) bool {
				if out.Items[i].Created != out.Items[j].Created {
					return out.Items[i].Created < out.Items[j].Created
				}
				return out.Items[i].ID < out.Items[j].ID
			})
			return nil
		})
	})
	return out, err
}

// AddShoppingRow inserts a row into the (user, house) bucket, creating the
// bucket on first use. The referenced house must exist.
func (s *Service) AddShoppingRow(ctx context.Context, houseID, userID string, draft ShoppingDraft) (ShoppingRow, error) {
	var created ShoppingRow
	err := s.run(ctx, "add_shopping_row", func() error {
		return s.store.Update(ctx, func(ds *Dataset) error {
			if _, ok := ds.Houses[houseID]; !ok {
				return NotFoundError{Entity: EntityHouse, ID: houseID}
			}
			now := s.store.Now()
			ensureUser(ds, userID, now)
			row := rowFromDraft(draft, s.store.NewID(), now)
			putShoppingRow(ds, userID, houseID, row, now)
			created = row
			return nil
		})
	})
	return created, err
}

// UpdateShoppingRow mutates a row; missing buckets or rows fail with
// NotFoundError. The bucket's updated stamp is refreshed.
func (s *Service) UpdateShoppingRow(ctx context.Context, houseID, userID, rowID string, mutate func(*ShoppingRow) error) (ShoppingRow, error) {
	var updated ShoppingRow
	err := s.run(ctx, "update_shopping_row", func() error {
		return s.store.Update(ctx, func(ds *Dataset) error {
			bucket, ok := ds.Shopping[userID][houseID]
			if !ok {
				return NotFoundError{Entity: EntityShoppingBucket, ID: houseID}
			}
			row, ok := bucket.Items[rowID]
			if !ok {
				return NotFoundError{Entity: EntityShoppingRow, ID: rowID}
			}
			if err := mutate(&row); err != nil {
				return err
			}
			row.ID = rowID
			bucket.Items[rowID] = row
			bucket.Updated = s.store.Now()
			ds.Shopping[userID][houseID] = bucket
			updated = row
			return nil
		})
	})
	return updated, err
}

// DeleteShoppingRow removes a row; missing buckets or rows fail with
// NotFoundError.
func (s *Service) DeleteShoppingRow(ctx context.Context, houseID, userID, rowID string) error {
	return s.run(ctx, "delete_shopping_row", func() error {
		return s.store.Update(ctx, func(ds *Dataset) error {
			bucket, ok := ds.Shopping[userID][houseID]
			if !ok {
				return NotFoundError{Entity: EntityShoppingBucket, ID: houseID}
			}
			if _, ok := bucket.Items[rowID]; !ok {
				return NotFoundError{Entity: EntityShoppingRow, ID: rowID}
			}
			delete(bucket.Items, rowID)
			bucket.Updated = s.store.Now()
			ds.Shopping[userID][houseID] = bucket
			return nil
		})
	})
}

// GenerateShoppingFromLinkedItems computes the set union of every item id
// linked from any photo of the house and emits one draft per resolved item.
// Ids with no matching item are silently dropped here, not repaired.
func (s *Service) GenerateShoppingFromLinkedItems(ctx context.Context, houseID string) ([]ShoppingDraft, error) {
	var drafts []ShoppingDraft
	err := s.run(ctx, "generate_shopping", func() error {
		return s.store.View(ctx, func(ds *Dataset) error {
			h, ok := ds.Houses[houseID]
			if !ok {
				return NotFoundError{Entity: EntityHouse, ID: houseID}
			}
			drafts = draftsFromLinks(h)
			return nil
		})
	})
	return drafts, err
}

// SaveGeneratedShopping runs the generator and inserts only drafts whose
// linked item is not already represented in the bucket, so repeated
// "generate" calls never duplicate rows. Returns the newly inserted rows.
func (s *Service) SaveGeneratedShopping(ctx context.Context, houseID, userID string) ([]ShoppingRow, error) {
	inserted := []ShoppingRow{}
	err := s.run(ctx, "save_generated_shopping", func() error {
		return s.store.Update(ctx, func(ds *Dataset) error {
			h, ok := ds.Houses[houseID]
			if !ok {
				return NotFoundError{Entity: EntityHouse, ID: houseID}
			}
			now := s.store.Now()
			ensureUser(ds, userID, now)

			existing := make(map[string]bool)
			if bucket, ok := ds.Shopping[userID][houseID]; ok {
				for _, row := range bucket.Items {
					if row.LinkedItemID != "" {
						existing[row.LinkedItemID] = true
					}
				}
			}
			for _, draft := range draftsFromLinks(h) {
				if existing[draft.LinkedItemID] {
					continue
				}
				row := rowFromDraft(draft, s.store.NewID(), now)
				putShoppingRow(ds, userID, houseID, row, now)
				inserted = append(inserted, row)
			}
			return nil
		})
	})
	return inserted, err
}

// draftsFromLinks unions linked item ids across photos (first-seen order)
// and resolves them against the house's items.
func draftsFromLinks(h House) []ShoppingDraft {
	seen := make(map[string]bool)
	drafts := []ShoppingDraft{}
	for _, photo := range h.Photos {
		for _, itemID := range photo.LinkedItemIDs {
			if seen[itemID] {
				continue
			}
			seen[itemID] = true
			item, ok := h.Items[itemID]
			if !ok {
				continue // dangling link, dropped
			}
			drafts = append(drafts, ShoppingDraft{
				Name:         item.Name,
				Qty:          1,
				LinkedItemID: item.ID,
				PurchaseURL:  item.PurchaseURL,
			})
		}
	}
	return drafts
}

func rowFromDraft(draft ShoppingDraft, id, now string) ShoppingRow {
	qty := draft.Qty
	if qty <= 0 {
		qty = 1
	}
	return ShoppingRow{
		ID:           id,
		Name:         draft.Name,
		Qty:          qty,
		Note:         draft.Note,
		LinkedItemID: draft.LinkedItemID,
		PurchaseURL:  draft.PurchaseURL,
		Created:      now,
	}
}

func putShoppingRow(ds *Dataset, userID, houseID string, row ShoppingRow, now string) {
	if ds.Shopping[userID] == nil {
		ds.Shopping[userID] = make(map[string]ShoppingBucket)
	}
	bucket, ok := ds.Shopping[userID][houseID]
	if !ok {
		bucket = ShoppingBucket{Items: make(map[string]ShoppingRow)}
	}
	bucket.Items[row.ID] = row
	bucket.Updated = now
	ds.Shopping[userID][houseID] = bucket
}
