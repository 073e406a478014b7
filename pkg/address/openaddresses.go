package address

import (
	"fmt"
	"strings"

	"github.com/lintang-b-s/osm-import/pkg/admin"
	"github.com/lintang-b-s/osm-import/pkg/datastructure"
)

// OpenAddresses is one row of an OpenAddresses csv:
// LON,LAT,NUMBER,STREET,UNIT,CITY,DISTRICT,REGION,POSTCODE,ID,HASH.
type OpenAddresses struct {
	Lon      float64 `csv:"LON"`
	Lat      float64 `csv:"LAT"`
	Number   string  `csv:"NUMBER"`
	Street   string  `csv:"STREET"`
	Unit     string  `csv:"UNIT"`
	City     string  `csv:"CITY"`
	District string  `csv:"DISTRICT"`
	Region   string  `csv:"REGION"`
	Postcode string  `csv:"POSTCODE"`
	ID       string  `csv:"ID"`
	Hash     string  `csv:"HASH"`
}

func NewOpenAddressesConverter(finder admin.Finder, cityLevel uint32) Converter[OpenAddresses] {
	return func(oa OpenAddresses) (datastructure.Address, error) {
		coord, err := checkCoordinate(oa.Lat, oa.Lon)
		if err != nil {
			return datastructure.Address{}, err
		}
		street := strings.TrimSpace(oa.Street)
		postcode := strings.TrimSpace(oa.Postcode)
		return newAddress(finder, cityLevel,
			fmt.Sprintf("street:%s:%s", postcode, street),
			street,
			strings.TrimSpace(oa.Number),
			[]string{postcode},
			coord,
		), nil
	}
}
