// Package domain defines the persistent entities, value types, and error
// taxonomy used by the homagio store.
package domain

import "time"

// EntityType identifies the type of record referenced by errors and mutations.
type EntityType string

// Supported entity type identifiers.
const (
	// EntityUser identifies a user record.
	EntityUser EntityType = "user"
	// EntityHouse identifies a house renovation project record.
	EntityHouse EntityType = "house"
	// EntityPhoto identifies a photo record nested in a house.
	EntityPhoto EntityType = "photo"
	// EntityItem identifies a material item record nested in a house.
	EntityItem EntityType = "item"
	// EntityShoppingRow identifies a row in a per-user shopping bucket.
	EntityShoppingRow EntityType = "shopping_row"
	// EntityShoppingBucket identifies a per-user, per-house shopping bucket.
	EntityShoppingBucket EntityType = "shopping_bucket"
	// EntityDataset identifies the root dataset blob.
	EntityDataset EntityType = "dataset"
)

// PhotoTab enumerates the two photo groupings carried by a house.
type PhotoTab string

// Canonical photo tabs. Unknown stored values normalize to interior.
const (
	TabInterior PhotoTab = "interior"
	TabExterior PhotoTab = "exterior"
)

// SchemaVersion is the current dataset schema version written by migration.
const SchemaVersion = 1

// DemoUserID is the seeded owner guaranteed to exist in every dataset.
const DemoUserID = "demo-owner"

// DemoUserName is the display name of the seeded owner.
const DemoUserName = "Demo Owner"

// TimestampLayout is the fixed-width, zero-padded UTC layout stored in
// updated/created fields. Fixed width makes lexicographic compare equivalent
// to chronological compare, which ordering and tie-breaks rely on.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp renders t in the canonical stored layout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Dataset is the root value persisted as one blob. It is the sole unit of
// persistence: every store operation loads, mutates, and rewrites it whole.
type Dataset struct {
	Version   int                                  `json:"version"`
	Users     map[string]User                      `json:"users"`
	Session   Session                              `json:"session"`
	Houses    map[string]House                     `json:"houses"`
	Favorites map[string]map[string]bool           `json:"favorites"`
	Shopping  map[string]map[string]ShoppingBucket `json:"shopping"`
}

// User is created on first reference and never deleted.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Created string `json:"created"`
}

// Session holds the single active user/house selection. CurrentHouseID is
// empty or references an extant house; migration and house deletion enforce
// that.
type Session struct {
	UserID         string `json:"userId"`
	CurrentHouseID string `json:"currentHouseId,omitempty"`
}

// Address carries the six string sub-fields of a house location plus the raw
// caller input. All fields default to empty strings, never null.
type Address struct {
	Raw       string `json:"raw"`
	Formatted string `json:"formatted"`
	Line1     string `json:"line1"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
}

// Budget tracks planned and spent totals for a house.
type Budget struct {
	Total float64 `json:"total"`
	Spent float64 `json:"spent"`
}

// House is a renovation project owned by a user. Photos and items are owned
// exclusively by their house and have no existence outside it.
type House struct {
	ID      string          `json:"id"`
	OwnerID string          `json:"ownerId"`
	Name    string          `json:"name"`
	Style   string          `json:"style"`
	Tier    string          `json:"tier"`
	Updated string          `json:"updated"`
	Address Address         `json:"address"`
	Lat     *float64        `json:"lat"`
	Lng     *float64        `json:"lng"`
	Budget  Budget          `json:"budget"`
	Items   map[string]Item `json:"items"`
	Photos  []Photo         `json:"photos"`
}

// Photo is an image placeholder tagged interior/exterior, optionally linking
// to items of the owning house. LinkedItemIDs is order-preserving and
// duplicate-free, and only references ids present in the house's items.
type Photo struct {
	ID            string   `json:"id"`
	Tab           PhotoTab `json:"tab"`
	Label         string   `json:"label"`
	Src           string   `json:"src"`
	LinkedItemIDs []string `json:"linkedItemIds"`
}

// Item is a material/fixture record scoped to a house. Beyond requiring an id
// the shape is free-form; deleting an item cascades through every photo's
// LinkedItemIDs.
type Item struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	ColorPattern string `json:"colorPattern"`
	Brand        string `json:"brand"`
	StyleFinish  string `json:"styleFinish"`
	PurchaseURL  string `json:"purchaseUrl"`
}

// ShoppingBucket holds the purchase-list rows for one (user, house) pair.
type ShoppingBucket struct {
	Items   map[string]ShoppingRow `json:"items"`
	Updated string                 `json:"updated"`
}

// ShoppingRow is one purchase-list entry. LinkedItemID records provenance
// only: deleting the referenced item neither deletes nor invalidates the row.
type ShoppingRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Qty          int    `json:"qty"`
	Note         string `json:"note"`
	LinkedItemID string `json:"linkedItemId,omitempty"`
	PurchaseURL  string `json:"purchaseUrl"`
	Created      string `json:"created"`
	Done         bool   `json:"done"`
}

// ShoppingDraft is an unsaved row proposal produced by shopping generation.
type ShoppingDraft struct {
	Name         string `json:"name"`
	Qty          int    `json:"qty"`
	Note         string `json:"note"`
	LinkedItemID string `json:"linkedItemId"`
	PurchaseURL  string `json:"purchaseUrl"`
}

// ShoppingList is the read model returned for a bucket: rows sorted ascending
// by Created (stable on ties) plus the bucket's last-updated stamp.
type ShoppingList struct {
	Items   []ShoppingRow `json:"items"`
	Updated string        `json:"updated"`
}

// Settings holds user-facing preferences persisted under their own key,
// separate from the dataset blob.
type Settings struct {
	Appearance string `json:"appearance"`
}

// DefaultAppearance is the appearance applied when settings are absent or
// malformed.
const DefaultAppearance = "system"
