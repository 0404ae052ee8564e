package core

import (
	"context"
	"sort"
	"strings"
)

// SortOrder selects the ordering of search results.
type SortOrder string

const (
	// SortUpdatedDesc orders by updated descending (most recent first).
	// This is the default.
	SortUpdatedDesc SortOrder = "updated_desc"
	// SortNameAsc orders by name ascending, case-sensitive as stored.
	SortNameAsc SortOrder = "name_asc"
)

// SearchQuery filters and orders houses. Q is a case-insensitive substring
// match against name, style, and address (formatted when set, raw
// otherwise); Style and Tier are exact-match filters.
type SearchQuery struct {
	Q     string
	Style string
	Tier  string
	Sort  SortOrder
}

// SearchHouses returns a fresh list of matching houses; the dataset is never
// mutated.
func (s *Service) SearchHouses(ctx context.Context, query SearchQuery) ([]House, error) {
	out := []House{}
	err := s.run(ctx, "search_houses", func() error {
		return s.store.View(ctx, func(ds *Dataset) error {
			needle := strings.ToLower(strings.TrimSpace(query.Q))
			for _, h := range ds.Houses {
				if query.Style != "" && h.Style != query.Style {
					continue
				}
				if query.Tier != "" && h.Tier != query.Tier {
					continue
				}
				if needle != "" && !matchesQuery(h, needle) {
					continue
				}
				out = append(out, h)
			}
			sortHouses(out, query.Sort)
			return nil
		})
	})
	return out, err
}

func matchesQuery(h House, needle string) bool {
	addr := h.Address.Formatted
	if addr == "" {
		addr = h.Address.Raw
	}
	for _, field := range []string{h.Name, h.Style, addr} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func sortHouses(houses []House, order SortOrder) {
	switch order {
	case SortNameAsc:
		sort.Slice(houses, func(i, j int) bool {
			if houses[i].Name != houses[j].Name {
				return houses[i].Name < houses[j].Name
			}
			return houses[i].ID < houses[j].ID
		})
	default:
		sort.Slice(houses, func(i, j int) bool {
			if houses[i].Updated != houses[j].Updated {
				return houses[i].Updated > houses[j].Updated
			}
			return houses[i].ID < houses[j].ID
		})
	}
}
