package admin

import (
	"cmp"
	"slices"
	"strings"

	"github.com/golang/geo/s2"
)

// Region is an administrative area. Regions are shared by pointer between every document
// located inside them and are never mutated after loading.
type Region struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Insee    string   `json:"insee,omitempty"`
	Level    uint32   `json:"level"`
	Weight   int      `json:"weight"`
	ZipCodes []string `json:"zip_codes"`

	boundary *s2.Polygon
}

// Compare orders regions by id, then level.
func Compare(a, b *Region) int {
	if c := strings.Compare(a.ID, b.ID); c != 0 {
		return c
	}
	return cmp.Compare(a.Level, b.Level)
}

// NewAdminSet sorts and de-duplicates regions.
func NewAdminSet(regions []*Region) []*Region {
	set := slices.Clone(regions)
	slices.SortFunc(set, Compare)
	return slices.CompactFunc(set, func(a, b *Region) bool {
		return Compare(a, b) == 0
	})
}

// CompareSets compares two admin sets lexicographically.
func CompareSets(a, b []*Region) int {
	return slices.CompareFunc(a, b, Compare)
}

// FilterLevel keeps the regions at the given level, preserving order.
func FilterLevel(regions []*Region, level uint32) []*Region {
	filtered := make([]*Region, 0, 1)
	for _, r := range regions {
		if r.Level == level {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FormatLabel builds the display label of a named object: "name (City)" when one of the
// regions sits at the city level, otherwise the bare name.
func FormatLabel(regions []*Region, cityLevel uint32, name string) string {
	for _, r := range regions {
		if r.Level == cityLevel && r.Name != "" {
			return name + " (" + r.Name + ")"
		}
	}
	return name
}

// ZipCodes returns the sorted union of the regions' zip codes.
func ZipCodes(regions []*Region) []string {
	zips := []string{}
	for _, r := range regions {
		zips = append(zips, r.ZipCodes...)
	}
	slices.Sort(zips)
	return slices.Compact(zips)
}
