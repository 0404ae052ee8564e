package core

import (
	"math"

	"homagio/pkg/domain"
)

// NormalizeHouse repairs a typed house candidate in place so that it
// satisfies the canonical schema's required-field invariants: generated id,
// defaulted owner, stamped updated, non-nil items/photos, six-string address,
// finite-or-nil coordinates, deduplicated photo links, item ids backfilled
// from their map keys. Every operation that accepts a house runs this before
// trusting it.
func NormalizeHouse(h *House, now string, newID func() string) {
	if h.ID == "" {
		h.ID = newID()
	}
	if h.OwnerID == "" {
		h.OwnerID = domain.DemoUserID
	}
	if h.Updated == "" {
		h.Updated = now
	}
	if h.Lat != nil && (math.IsNaN(*h.Lat) || math.IsInf(*h.Lat, 0)) {
		h.Lat = nil
	}
	if h.Lng != nil && (math.IsNaN(*h.Lng) || math.IsInf(*h.Lng, 0)) {
		h.Lng = nil
	}
	if h.Items == nil {
		h.Items = make(map[string]Item)
	}
	for key, item := range h.Items {
		if item.ID == "" {
			item.ID = key
			h.Items[key] = item
		}
	}
	if h.Photos == nil {
		h.Photos = []Photo{}
	}
	for i := range h.Photos {
		normalizePhoto(&h.Photos[i], newID)
	}
}

func normalizePhoto(p *Photo, newID func() string) {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.Tab != TabInterior && p.Tab != TabExterior {
		p.Tab = TabInterior
	}
	if p.LinkedItemIDs == nil {
		p.LinkedItemIDs = []string{}
	} else {
		p.LinkedItemIDs = dedupeStrings(p.LinkedItemIDs)
	}
}

// houseFromValue converts a loose decoded value into a typed house. Returns
// false only when the candidate is not an object; every other malformation is
// repaired field by field.
func houseFromValue(v any) (House, bool) {
	obj, ok := asObject(v)
	if !ok {
		return House{}, false
	}
	h := House{
		ID:      asString(obj["id"]),
		OwnerID: asString(obj["ownerId"]),
		Name:    asString(obj["name"]),
		Style:   asString(obj["style"]),
		Tier:    asString(obj["tier"]),
		Updated: asString(obj["updated"]),
		Address: addressFromValue(obj["address"]),
		Lat:     asCoord(obj["lat"]),
		Lng:     asCoord(obj["lng"]),
		Budget:  budgetFromValue(obj["budget"]),
		Items:   make(map[string]Item),
		Photos:  []Photo{},
	}
	if items, ok := asObject(obj["items"]); ok {
		for key, iv := range items {
			item, ok := itemFromValue(iv)
			if !ok {
				continue
			}
			if item.ID == "" {
				item.ID = key
			}
			h.Items[key] = item
		}
	}
	if photos, ok := asSlice(obj["photos"]); ok {
		for _, pv := range photos {
			if photo, ok := photoFromValue(pv); ok {
				h.Photos = append(h.Photos, photo)
			}
		}
	}
	return h, true
}

func addressFromValue(v any) Address {
	obj, _ := asObject(v)
	return Address{
		Raw:       asString(obj["raw"]),
		Formatted: asString(obj["formatted"]),
		Line1:     asString(obj["line1"]),
		City:      asString(obj["city"]),
		State:     asString(obj["state"]),
		Zip:       asString(obj["zip"]),
		Country:   asString(obj["country"]),
	}
}

func budgetFromValue(v any) Budget {
	obj, _ := asObject(v)
	return Budget{
		Total: asFloat(obj["total"], 0),
		Spent: asFloat(obj["spent"], 0),
	}
}

func photoFromValue(v any) (Photo, bool) {
	obj, ok := asObject(v)
	if !ok {
		return Photo{}, false
	}
	p := Photo{
		ID:            asString(obj["id"]),
		Tab:           PhotoTab(asString(obj["tab"])),
		Label:         asString(obj["label"]),
		Src:           coerceString(obj["src"]),
		LinkedItemIDs: []string{},
	}
	if linked, ok := asSlice(obj["linkedItemIds"]); ok {
		for _, lv := range linked {
			if id := asString(lv); id != "" {
				p.LinkedItemIDs = append(p.LinkedItemIDs, id)
			}
		}
		p.LinkedItemIDs = dedupeStrings(p.LinkedItemIDs)
	}
	return p, true
}

func itemFromValue(v any) (Item, bool) {
	obj, ok := asObject(v)
	if !ok {
		return Item{}, false
	}
	return Item{
		ID:           asString(obj["id"]),
		Name:         asString(obj["name"]),
		Category:     asString(obj["category"]),
		ColorPattern: asString(obj["colorPattern"]),
		Brand:        asString(obj["brand"]),
		StyleFinish:  asString(obj["styleFinish"]),
		PurchaseURL:  asString(obj["purchaseUrl"]),
	}, true
}

func userFromValue(id string, v any, now string) User {
	obj, _ := asObject(v)
	u := User{
		ID:      asString(obj["id"]),
		Name:    asString(obj["name"]),
		Created: asString(obj["created"]),
	}
	if u.ID == "" {
		u.ID = id
	}
	if u.Created == "" {
		u.Created = now
	}
	return u
}

func rowFromValue(key string, v any, now string) (ShoppingRow, bool) {
	obj, ok := asObject(v)
	if !ok {
		return ShoppingRow{}, false
	}
	row := ShoppingRow{
		ID:           asString(obj["id"]),
		Name:         asString(obj["name"]),
		Qty:          asInt(obj["qty"], 1),
		Note:         asString(obj["note"]),
		LinkedItemID: asString(obj["linkedItemId"]),
		PurchaseURL:  asString(obj["purchaseUrl"]),
		Created:      asString(obj["created"]),
		Done:         asBool(obj["done"]),
	}
	if row.ID == "" {
		row.ID = key
	}
	if row.Created == "" {
		row.Created = now
	}
	return row, true
}

func bucketFromValue(v any, now string) (ShoppingBucket, bool) {
	obj, ok := asObject(v)
	if !ok {
		return ShoppingBucket{}, false
	}
	bucket := ShoppingBucket{
		Items:   make(map[string]ShoppingRow),
		Updated: asString(obj["updated"]),
	}
	if rows, ok := asObject(obj["items"]); ok {
		for key, rv := range rows {
			if row, ok := rowFromValue(key, rv, now); ok {
				bucket.Items[row.ID] = row
			}
		}
	}
	if bucket.Updated == "" {
		bucket.Updated = now
	}
	return bucket, true
}
