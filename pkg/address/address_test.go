package address

import (
	"strings"
	"testing"

	"github.com/lintang-b-s/osm-import/pkg/admin"
	"github.com/lintang-b-s/osm-import/pkg/geo"

	"github.com/jszwec/csvutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cityLevel = 8

type staticFinder []*admin.Region

func (f staticFinder) Get(c geo.Coordinate) []*admin.Region {
	return admin.NewAdminSet(f)
}

var (
	paris = &admin.Region{ID: "admin:fr:75056", Name: "Paris", Level: cityLevel, Weight: 42, ZipCodes: []string{"75001", "75002"}}
	idf   = &admin.Region{ID: "admin:fr:11", Name: "Île-de-France", Level: 4, Weight: 7}
)

func TestBanoConverter(t *testing.T) {
	convert := NewBanoConverter(staticFinder{paris, idf}, cityLevel)

	cases := []struct {
		name      string
		row       Bano
		wantErr   bool
		wantID    string
		wantLabel string
		wantZips  []string
		wantSt    string
	}{
		{
			name:      "regular row",
			row:       Bano{ID: "7510255540-3", HouseNumber: "3", Street: "Rue de la Paix", Zip: "75002", City: "Paris", Src: "OSM", Lat: 48.8686, Lon: 2.3314},
			wantID:    "addr:2.331400;48.868600:3",
			wantLabel: "3 Rue de la Paix (Paris)",
			wantZips:  []string{"75002"},
			wantSt:    "street:7510255540",
		},
		{
			name:      "missing zip falls back to regions",
			row:       Bano{ID: "7510255540-5", HouseNumber: "5", Street: " Rue de la Paix ", Lat: 48.8686, Lon: 2.3314},
			wantID:    "addr:2.331400;48.868600:5",
			wantLabel: "5 Rue de la Paix (Paris)",
			wantZips:  []string{"75001", "75002"},
			wantSt:    "street:7510255540",
		},
		{
			name:    "out of range coordinate",
			row:     Bano{ID: "x", HouseNumber: "1", Street: "Rue", Lat: 123, Lon: 2},
			wantErr: true,
		},
		{
			name:    "null island",
			row:     Bano{ID: "x", HouseNumber: "1", Street: "Rue"},
			wantErr: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			addr, err := convert(c.row)
			if c.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCoordinate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.wantID, addr.ID)
			assert.Equal(t, c.wantLabel, addr.Label)
			assert.Equal(t, c.wantZips, addr.ZipCodes)
			assert.Equal(t, c.wantSt, addr.Street.ID)
			assert.Equal(t, "Rue de la Paix", addr.Street.StreetName)
			assert.Equal(t, "Rue de la Paix (Paris)", addr.Street.Label)
			assert.Equal(t, 42, addr.Weight)
			assert.Equal(t, 42, addr.Street.Weight)
			assert.Equal(t, []*admin.Region{idf, paris}, addr.Street.AdministrativeRegions)
		})
	}
}

func TestOpenAddressesConverter(t *testing.T) {
	convert := NewOpenAddressesConverter(staticFinder{idf}, cityLevel)

	addr, err := convert(OpenAddresses{Lon: 2.3314, Lat: 48.8686, Number: "12", Street: "Rue de la Paix", Postcode: "75002"})
	require.NoError(t, err)
	assert.Equal(t, "addr:2.331400;48.868600:12", addr.ID)
	assert.Equal(t, "street:75002:Rue de la Paix", addr.Street.ID)
	assert.Equal(t, "12 Rue de la Paix", addr.Label)
	assert.Equal(t, []string{"75002"}, addr.ZipCodes)
	assert.Equal(t, 1, addr.Weight)

	addr, err = convert(OpenAddresses{Lon: 2.3314, Lat: 48.8686, Number: "1"})
	require.NoError(t, err)
	assert.Empty(t, addr.Street.StreetName)
	assert.Empty(t, addr.ZipCodes)
}

func TestRecordHeaders(t *testing.T) {
	banoHeader, err := csvutil.Header(Bano{}, "csv")
	require.NoError(t, err)
	assert.Equal(t, "id,nb,street,zip,city,src,lat,lon", strings.Join(banoHeader, ","))

	oaHeader, err := csvutil.Header(OpenAddresses{}, "csv")
	require.NoError(t, err)
	assert.Equal(t, "LON,LAT,NUMBER,STREET,UNIT,CITY,DISTRICT,REGION,POSTCODE,ID,HASH", strings.Join(oaHeader, ","))
}
