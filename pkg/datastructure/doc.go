package datastructure

import (
	"github.com/lintang-b-s/osm-import/pkg/admin"
	"github.com/lintang-b-s/osm-import/pkg/geo"
)

const (
	STREET_DOC_TYPE  = "street"
	ADDRESS_DOC_TYPE = "addr"

	DEFAULT_WEIGHT = 1
)

// Street model info
// @Description one logical street, built from the representative osm way of its group.
type Street struct {
	ID                    string          `json:"id"`          // osm way id of the representative way
	StreetName            string          `json:"street_name"` // osm tag name (or the associatedStreet relation name)
	Label                 string          `json:"label"`       // name + city
	Weight                int             `json:"weight"`      // weight of the city-level region, 1 if none
	ZipCodes              []string        `json:"zip_codes"`
	AdministrativeRegions []*admin.Region `json:"administrative_regions"`
	Coord                 geo.Coordinate  `json:"coord"`
}

func NewStreet(id, name, label string, zipCodes []string, admins []*admin.Region, coord geo.Coordinate) Street {
	return Street{
		ID:                    id,
		StreetName:            name,
		Label:                 label,
		Weight:                DEFAULT_WEIGHT,
		ZipCodes:              zipCodes,
		AdministrativeRegions: admins,
		Coord:                 coord,
	}
}

func (s Street) DocID() string {
	return s.ID
}

func (s Street) DocType() string {
	return STREET_DOC_TYPE
}

// Address model info
// @Description one house number on a street, produced from a flat-file address record.
type Address struct {
	ID          string         `json:"id"`
	HouseNumber string         `json:"house_number"`
	Street      Street         `json:"street"`
	Label       string         `json:"label"`
	Coord       geo.Coordinate `json:"coord"`
	Weight      int            `json:"weight"`
	ZipCodes    []string       `json:"zip_codes"`
}

func (a Address) DocID() string {
	return a.ID
}

func (a Address) DocType() string {
	return ADDRESS_DOC_TYPE
}
