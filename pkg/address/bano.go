package address

import (
	"strings"

	"github.com/lintang-b-s/osm-import/pkg/admin"
	"github.com/lintang-b-s/osm-import/pkg/datastructure"
)

// Bano is one row of a BANO export: id,nb,street,zip,city,src,lat,lon.
type Bano struct {
	ID          string  `csv:"id"`
	HouseNumber string  `csv:"nb"`
	Street      string  `csv:"street"`
	Zip         string  `csv:"zip"`
	City        string  `csv:"city"`
	Src         string  `csv:"src"`
	Lat         float64 `csv:"lat"`
	Lon         float64 `csv:"lon"`
}

// Fantoir is the street part of a BANO id (the first 10 characters).
func (b Bano) Fantoir() string {
	if len(b.ID) < 10 {
		return b.ID
	}
	return b.ID[:10]
}

func NewBanoConverter(finder admin.Finder, cityLevel uint32) Converter[Bano] {
	return func(b Bano) (datastructure.Address, error) {
		coord, err := checkCoordinate(b.Lat, b.Lon)
		if err != nil {
			return datastructure.Address{}, err
		}
		return newAddress(finder, cityLevel,
			"street:"+b.Fantoir(),
			strings.TrimSpace(b.Street),
			strings.TrimSpace(b.HouseNumber),
			[]string{b.Zip},
			coord,
		), nil
	}
}
