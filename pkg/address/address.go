package address

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lintang-b-s/osm-import/pkg/admin"
	"github.com/lintang-b-s/osm-import/pkg/datastructure"
	"github.com/lintang-b-s/osm-import/pkg/geo"
)

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Converter turns a raw flat-file record into an address document.
type Converter[T any] func(record T) (datastructure.Address, error)

func checkCoordinate(lat, lon float64) (geo.Coordinate, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 || (lat == 0 && lon == 0) {
		return geo.Coordinate{}, fmt.Errorf("%w: lat %f lon %f", ErrInvalidCoordinate, lat, lon)
	}
	return geo.NewCoordinate(lat, lon), nil
}

// addressID is addr:<lon>;<lat>:<house number>, stable across imports of the same record.
func addressID(coord geo.Coordinate, houseNumber string) string {
	return fmt.Sprintf("addr:%f;%f:%s", coord.Lon, coord.Lat, houseNumber)
}

// newAddress builds the address and its street from the regions found at coord. zipCodes
// from the record take precedence over the regions' ones.
func newAddress(finder admin.Finder, cityLevel uint32, streetID, streetName, houseNumber string,
	zipCodes []string, coord geo.Coordinate) datastructure.Address {
	admins := finder.Get(coord)

	zips := slices.DeleteFunc(slices.Clone(zipCodes), func(z string) bool { return strings.TrimSpace(z) == "" })
	if len(zips) == 0 {
		zips = admin.ZipCodes(admins)
	}

	weight := datastructure.DEFAULT_WEIGHT
	if city := admin.FilterLevel(admins, cityLevel); len(city) > 0 {
		weight = city[0].Weight
	}

	st := datastructure.NewStreet(streetID, streetName, admin.FormatLabel(admins, cityLevel, streetName), zips, admins, coord)
	st.Weight = weight

	name := strings.TrimSpace(houseNumber + " " + streetName)
	return datastructure.Address{
		ID:          addressID(coord, houseNumber),
		HouseNumber: houseNumber,
		Street:      st,
		Label:       admin.FormatLabel(admins, cityLevel, name),
		Coord:       coord,
		Weight:      weight,
		ZipCodes:    zips,
	}
}
