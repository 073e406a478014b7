package admin

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/golang/geo/s2"
	"github.com/lintang-b-s/osm-import/pkg/geo"
	"go.uber.org/zap"
)

// Finder resolves a coordinate to the ordered set of regions containing it.
type Finder interface {
	Get(c geo.Coordinate) []*Region
}

// GeoFinder answers point-in-region queries over an s2 shape index of region borders.
// It is read-only after construction and safe for concurrent use.
type GeoFinder struct {
	index  *s2.ShapeIndex
	shapes map[*s2.Polygon]*Region
}

func NewGeoFinder(regions []*Region) *GeoFinder {
	f := &GeoFinder{
		index:  s2.NewShapeIndex(),
		shapes: make(map[*s2.Polygon]*Region),
	}
	for _, r := range regions {
		if r.boundary == nil {
			continue
		}
		f.index.Add(r.boundary)
		f.shapes[r.boundary] = r
	}
	return f
}

func (f *GeoFinder) Get(c geo.Coordinate) []*Region {
	if len(f.shapes) == 0 {
		return []*Region{}
	}
	point := s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
	query := s2.NewContainsPointQuery(f.index, s2.VertexModelSemiOpen)

	found := []*Region{}
	for _, shape := range query.ContainingShapes(point) {
		polygon, ok := shape.(*s2.Polygon)
		if !ok {
			continue
		}
		if r, ok := f.shapes[polygon]; ok {
			found = append(found, r)
		}
	}
	return NewAdminSet(found)
}

type regionRecord struct {
	Region
	Border [][]float64 `json:"border"` // [[lat, lon], ...]
}

// LoadRegionsFile reads the regions json file at path.
func LoadRegionsFile(path string, log *zap.Logger) ([]*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open regions file %s: %w", path, err)
	}
	defer f.Close()
	return LoadRegions(f, log)
}

// LoadRegions decodes a json array of regions. A region whose border cannot form a loop is
// kept without a boundary, so it can still be referenced but is never matched by a lookup.
func LoadRegions(r io.Reader, log *zap.Logger) ([]*Region, error) {
	var records []regionRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode regions: %w", err)
	}

	regions := make([]*Region, 0, len(records))
	for i := range records {
		region := records[i].Region
		boundary, err := newBoundary(records[i].Border)
		if err != nil {
			log.Warn("region without usable border", zap.String("region", region.ID), zap.Error(err))
		}
		region.boundary = boundary
		regions = append(regions, &region)
	}
	log.Info("administrative regions loaded", zap.Int("regions", len(regions)))
	return regions, nil
}

// NewRegion builds a region from a border given as [lat, lon] pairs.
func NewRegion(id, name string, level uint32, weight int, zipCodes []string, border [][]float64) (*Region, error) {
	boundary, err := newBoundary(border)
	if err != nil {
		return nil, err
	}
	return &Region{
		ID:       id,
		Name:     name,
		Label:    name,
		Level:    level,
		Weight:   weight,
		ZipCodes: zipCodes,
		boundary: boundary,
	}, nil
}

func newBoundary(border [][]float64) (*s2.Polygon, error) {
	points := make([]s2.Point, 0, len(border))
	for _, latLon := range border {
		if len(latLon) != 2 {
			return nil, fmt.Errorf("border vertex must be [lat, lon], got %v", latLon)
		}
		p := s2.PointFromLatLng(s2.LatLngFromDegrees(latLon[0], latLon[1]))
		if len(points) > 0 && points[len(points)-1] == p {
			continue
		}
		points = append(points, p)
	}
	// rings are implicitly closed.
	if len(points) > 1 && points[0] == points[len(points)-1] {
		points = points[:len(points)-1]
	}
	if len(points) < 3 {
		return nil, fmt.Errorf("border needs at least 3 distinct vertices, got %d", len(points))
	}

	loop := s2.LoopFromPoints(points)
	loop.Normalize()
	return s2.PolygonFromLoops([]*s2.Loop{loop}), nil
}
