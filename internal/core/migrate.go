package core

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"homagio/pkg/domain"
)

// Migrate repairs any persisted value into the current canonical dataset
// shape. It is total and idempotent: non-object input yields the default
// dataset, partially-shaped objects have every missing top-level field
// filled, the demo owner always exists, the session always references an
// extant user and house, every house is normalized, and dangling favorites
// and shopping references are pruned. New optional fields must be introduced
// here so old persisted blobs keep loading.
func Migrate(input any) Dataset {
	return migrateValue(input, domain.Timestamp(time.Now()), uuid.NewString)
}

// DecodeDataset is the load path: tolerant parse plus Migrate. Malformed
// text degrades to the default dataset, never an error.
func DecodeDataset(raw string) Dataset {
	return decodeDataset(raw, domain.Timestamp(time.Now()), uuid.NewString)
}

func decodeDataset(raw string, now string, newID func() string) Dataset {
	v, ok := decodeValue(raw)
	if !ok {
		return defaultDataset(now)
	}
	return migrateValue(v, now, newID)
}

func migrateValue(input any, now string, newID func() string) Dataset {
	root, ok := asObject(input)
	if !ok {
		return defaultDataset(now)
	}

	ds := Dataset{
		Version:   asInt(root["version"], domain.SchemaVersion),
		Users:     make(map[string]User),
		Houses:    make(map[string]House),
		Favorites: make(map[string]map[string]bool),
		Shopping:  make(map[string]map[string]ShoppingBucket),
	}
	// Version never regresses below the current schema.
	if ds.Version < domain.SchemaVersion {
		ds.Version = domain.SchemaVersion
	}

	if users, ok := asObject(root["users"]); ok {
		for id, uv := range users {
			u := userFromValue(id, uv, now)
			ds.Users[u.ID] = u
		}
	}

	if houses, ok := asObject(root["houses"]); ok {
		for key, hv := range houses {
			h, ok := houseFromValue(hv)
			if !ok {
				continue
			}
			if h.ID == "" {
				h.ID = key
			}
			NormalizeHouse(&h, now, newID)
			ds.Houses[h.ID] = h
		}
	}

	ensureUser(&ds, domain.DemoUserID, now)

	if sess, ok := asObject(root["session"]); ok {
		ds.Session.UserID = asString(sess["userId"])
		ds.Session.CurrentHouseID = asString(sess["currentHouseId"])
	}
	repairSession(&ds, now)

	if favs, ok := asObject(root["favorites"]); ok {
		for userID, fv := range favs {
			byHouse, ok := asObject(fv)
			if !ok {
				continue
			}
			for houseID, marked := range byHouse {
				if !asBool(marked) {
					continue
				}
				if _, ok := ds.Houses[houseID]; !ok {
					continue // dangling house reference, pruned
				}
				ensureUser(&ds, userID, now)
				if ds.Favorites[userID] == nil {
					ds.Favorites[userID] = make(map[string]bool)
				}
				ds.Favorites[userID][houseID] = true
			}
		}
	}

	if shopping, ok := asObject(root["shopping"]); ok {
		for userID, sv := range shopping {
			byHouse, ok := asObject(sv)
			if !ok {
				continue
			}
			for houseID, bv := range byHouse {
				if _, ok := ds.Houses[houseID]; !ok {
					continue // dangling house reference, pruned
				}
				bucket, ok := bucketFromValue(bv, now)
				if !ok {
					continue
				}
				ensureUser(&ds, userID, now)
				if ds.Shopping[userID] == nil {
					ds.Shopping[userID] = make(map[string]ShoppingBucket)
				}
				ds.Shopping[userID][houseID] = bucket
			}
		}
	}

	return ds
}

func defaultDataset(now string) Dataset {
	ds := Dataset{
		Version:   domain.SchemaVersion,
		Users:     make(map[string]User),
		Houses:    make(map[string]House),
		Favorites: make(map[string]map[string]bool),
		Shopping:  make(map[string]map[string]ShoppingBucket),
	}
	ensureUser(&ds, domain.DemoUserID, now)
	ds.Session.UserID = domain.DemoUserID
	return ds
}

// ensureUser creates a user record on first reference.
func ensureUser(ds *Dataset, id, now string) {
	if id == "" {
		return
	}
	if _, ok := ds.Users[id]; ok {
		return
	}
	name := ""
	if id == domain.DemoUserID {
		name = domain.DemoUserName
	}
	ds.Users[id] = User{ID: id, Name: name, Created: now}
}

// repairSession guarantees the session references an extant user and that
// currentHouseId is empty or points at an extant house. A missing or dangling
// current house resolves to the most-recently-updated house when any exist.
func repairSession(ds *Dataset, now string) {
	if ds.Session.UserID == "" {
		ds.Session.UserID = domain.DemoUserID
	}
	ensureUser(ds, ds.Session.UserID, now)

	if cur := ds.Session.CurrentHouseID; cur != "" {
		if _, ok := ds.Houses[cur]; ok {
			return
		}
	} else if len(ds.Houses) == 0 {
		return
	}
	ds.Session.CurrentHouseID = mostRecentHouseID(ds.Houses)
}

// mostRecentHouseID returns the id of the house with the greatest updated
// stamp. Updated strings compare lexicographically, which is chronological
// for the fixed-width timestamp layout. Ties resolve to the smallest id so
// the selection is deterministic.
func mostRecentHouseID(houses map[string]House) string {
	ids := make([]string, 0, len(houses))
	for id := range houses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	best := ""
	for _, id := range ids {
		if best == "" || houses[id].Updated > houses[best].Updated {
			best = id
		}
	}
	return best
}
