package core

import (
	"context"

	"homagio/pkg/domain"
)

// demoHouseSpec describes one generated demo house. Offsets are applied to
// the caller-provided coordinates.
type demoHouseSpec struct {
	name      string
	style     string
	tier      string
	address   string
	latOffset float64
	lngOffset float64
	budget    Budget
	items     []Item
	photos    []PhotoInput
	// links maps photo index to item indexes, so generated shopping demos
	// have something to union.
	links map[int][]int
}

var demoHouses = []demoHouseSpec{
	{
		name: "Maple Ridge Bungalow", style: "craftsman", tier: "standard",
		address: "12 Maple Ridge Rd", latOffset: 0.012, lngOffset: -0.008,
		budget: Budget{Total: 85000, Spent: 12000},
		items: []Item{
			{Name: "Shaker Cabinet Fronts", Category: "kitchen", Brand: "Oakline", StyleFinish: "matte walnut"},
			{Name: "Brass Cabinet Pulls", Category: "hardware", Brand: "Forge & Co", ColorPattern: "brushed brass"},
		},
		photos: []PhotoInput{
			{Tab: TabInterior, Label: "Kitchen"},
			{Tab: TabExterior, Label: "Front porch"},
		},
		links: map[int][]int{0: {0, 1}},
	},
	{
		name: "Stonecrest Colonial", style: "colonial", tier: "premium",
		address: "48 Stonecrest Ave", latOffset: -0.006, lngOffset: 0.014,
		budget: Budget{Total: 140000, Spent: 38000},
		items: []Item{
			{Name: "Herringbone Oak Floor", Category: "flooring", Brand: "Northply", ColorPattern: "natural oak"},
		},
		photos: []PhotoInput{
			{Tab: TabInterior, Label: "Living room"},
			{Tab: TabExterior, Label: "Rear elevation"},
		},
		links: map[int][]int{0: {0}},
	},
	{
		name: "Juniper Lane Cottage", style: "cottage", tier: "basic",
		address: "7 Juniper Ln", latOffset: 0.004, lngOffset: 0.006,
		budget: Budget{Total: 32000, Spent: 4500},
		items: []Item{
			{Name: "Fireclay Farmhouse Sink", Category: "kitchen", Brand: "Claybrook", StyleFinish: "gloss white"},
			{Name: "Cafe Curtain Set", Category: "textiles", ColorPattern: "gingham"},
		},
		photos: []PhotoInput{
			{Tab: TabInterior, Label: "Kitchen nook"},
		},
		links: map[int][]int{0: {0}},
	},
	{
		name: "Harborview Modern", style: "modern", tier: "premium",
		address: "210 Harborview Blvd", latOffset: -0.015, lngOffset: -0.011,
		budget: Budget{Total: 220000, Spent: 90000},
		items:  []Item{},
		photos: []PhotoInput{
			{Tab: TabExterior, Label: "Street view"},
		},
	},
}

// SeedDemoNear replaces the houses map with a fixed set of generated demo
// houses offset around (lat, lng) and makes the first demo entry current.
// When houses already exist and force is false the call is a no-op returning
// nil. Favorites and shopping buckets of the replaced houses are pruned.
func (s *Service) SeedDemoNear(ctx context.Context, lat, lng float64, force bool) ([]House, error) {
	var seeded []House
	err := s.run(ctx, "seed_demo", func() error {
		return s.store.Update(ctx, func(ds *Dataset) error {
			if len(ds.Houses) > 0 && !force {
				return nil
			}
			now := s.store.Now()
			for oldID := range ds.Houses {
				pruneHouseRefs(ds, oldID)
			}
			ds.Houses = make(map[string]House, len(demoHouses))
			seeded = make([]House, 0, len(demoHouses))
			for _, spec := range demoHouses {
				h := s.buildDemoHouse(spec, lat, lng, now)
				ds.Houses[h.ID] = h
				seeded = append(seeded, h)
			}
			ds.Session.CurrentHouseID = seeded[0].ID
			return nil
		})
	})
	return seeded, err
}

// ResetDemo force-reseeds the demo dataset around (lat, lng).
func (s *Service) ResetDemo(ctx context.Context, lat, lng float64) ([]House, error) {
	return s.SeedDemoNear(ctx, lat, lng, true)
}

func (s *Service) buildDemoHouse(spec demoHouseSpec, lat, lng float64, now string) House {
	hLat := lat + spec.latOffset
	hLng := lng + spec.lngOffset
	h := House{
		ID:      s.store.NewID(),
		OwnerID: domain.DemoUserID,
		Name:    spec.name,
		Style:   spec.style,
		Tier:    spec.tier,
		Updated: now,
		Address: Address{Raw: spec.address, Formatted: spec.address},
		Lat:     &hLat,
		Lng:     &hLng,
		Budget:  spec.budget,
		Items:   make(map[string]Item, len(spec.items)),
		Photos:  make([]Photo, 0, len(spec.photos)),
	}
	itemIDs := make([]string, len(spec.items))
	for i, item := range spec.items {
		item.ID = s.store.NewID()
		itemIDs[i] = item.ID
		h.Items[item.ID] = item
	}
	for i, in := range spec.photos {
		photo := Photo{
			ID:            s.store.NewID(),
			Tab:           in.Tab,
			Label:         in.Label,
			Src:           in.Src,
			LinkedItemIDs: []string{},
		}
		for _, itemIdx := range spec.links[i] {
			photo.LinkedItemIDs = append(photo.LinkedItemIDs, itemIDs[itemIdx])
		}
		h.Photos = append(h.Photos, photo)
	}
	return h
}
