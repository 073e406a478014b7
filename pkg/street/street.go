package street

import (
	"slices"
	"strconv"
	"strings"

	"github.com/lintang-b-s/osm-import/pkg/admin"
	"github.com/lintang-b-s/osm-import/pkg/datastructure"
	"github.com/lintang-b-s/osm-import/pkg/geo"

	"github.com/paulmach/osm"
	"go.uber.org/zap"
)

const (
	ASSOCIATED_STREET = "associatedStreet"
	STREET_ROLE       = "street"
)

// Key groups osm ways describing the same logical street: same name, same city-level
// administrative regions.
type Key struct {
	Name   string
	Admins []*admin.Region
}

func (k Key) Compare(o Key) int {
	if c := strings.Compare(k.Name, o.Name); c != 0 {
		return c
	}
	return admin.CompareSets(k.Admins, o.Admins)
}

func (k Key) String() string {
	var sb strings.Builder
	sb.WriteString(k.Name)
	for _, r := range k.Admins {
		sb.WriteByte(0)
		sb.WriteString(r.ID)
		sb.WriteByte(0)
		sb.WriteString(strconv.FormatUint(uint64(r.Level), 10))
	}
	return sb.String()
}

// IsStreetObject selects named highways and associatedStreet relations.
func IsStreetObject(o osm.Object) bool {
	switch obj := o.(type) {
	case *osm.Way:
		return obj.Tags.Find("highway") != "" && obj.Tags.Find("name") != ""
	case *osm.Relation:
		return obj.Tags.Find("type") == ASSOCIATED_STREET
	}
	return false
}

type wayGroup struct {
	key    Key
	wayIDs []osm.WayID
}

type Extractor struct {
	graph     *geo.ObjectGraph
	finder    admin.Finder
	cityLevel uint32
	log       *zap.Logger
}

func NewExtractor(graph *geo.ObjectGraph, finder admin.Finder, cityLevel uint32, log *zap.Logger) *Extractor {
	return &Extractor{
		graph:     graph,
		finder:    finder,
		cityLevel: cityLevel,
		log:       log,
	}
}

// Streets builds one street document per logical street.
//
// A street is sometimes split into several ways (bridges, tunnels, ...). When an
// associatedStreet relation groups them, the relation yields a single street and none of
// its member ways is indexed on its own. The remaining ways are merged on
// (name, city-level regions) and the first way of each group represents it.
func (e *Extractor) Streets() []datastructure.Street {
	streets := []datastructure.Street{}
	claimed := make(map[osm.WayID]bool)
	emitted := make(map[string]bool)

	for _, relID := range e.graph.RelationIDs() {
		rel, _ := e.graph.Relation(relID)
		if rel.Tags.Find("type") != ASSOCIATED_STREET {
			continue
		}

		st, key, ok := e.relationStreet(rel)
		switch {
		case !ok:
			e.log.Debug("associatedStreet relation without street member", zap.Int64("relation", int64(relID)))
		case emitted[key.String()]:
			e.log.Debug("associatedStreet relation duplicates an existing street",
				zap.Int64("relation", int64(relID)), zap.String("name", key.Name))
		default:
			emitted[key.String()] = true
			streets = append(streets, st)
		}

		for _, m := range rel.Members {
			if m.Type == osm.TypeWay {
				claimed[osm.WayID(m.Ref)] = true
			}
		}
	}
	fromRelations := len(streets)

	groups := make(map[string]*wayGroup)
	for _, wayID := range e.graph.WayIDs() {
		if claimed[wayID] {
			continue
		}
		way, _ := e.graph.Way(wayID)
		name := way.Tags.Find("name")
		if name == "" {
			continue
		}

		key := Key{Name: name, Admins: admin.FilterLevel(e.wayAdmins(wayID), e.cityLevel)}
		id := key.String()
		group, ok := groups[id]
		if !ok {
			group = &wayGroup{key: key}
			groups[id] = group
		}
		group.wayIDs = append(group.wayIDs, wayID)
	}

	sorted := make([]*wayGroup, 0, len(groups))
	for _, g := range groups {
		sorted = append(sorted, g)
	}
	slices.SortFunc(sorted, func(a, b *wayGroup) int {
		return a.key.Compare(b.key)
	})

	merged := 0
	for _, g := range sorted {
		if emitted[g.key.String()] {
			continue
		}
		way, _ := e.graph.Way(g.wayIDs[0])
		streets = append(streets, e.newStreet(way, g.key.Name))
		merged += len(g.wayIDs) - 1
	}

	e.log.Info("streets extracted",
		zap.Int("streets", len(streets)),
		zap.Int("from_relations", fromRelations),
		zap.Int("claimed_ways", len(claimed)),
		zap.Int("merged_ways", merged),
	)
	return streets
}

// relationStreet builds the street of an associatedStreet relation from its first member
// way with the street role and a usable name.
func (e *Extractor) relationStreet(rel *osm.Relation) (datastructure.Street, Key, bool) {
	relName := rel.Tags.Find("name")
	for _, m := range rel.Members {
		if m.Type != osm.TypeWay || m.Role != STREET_ROLE {
			continue
		}
		way, ok := e.graph.Way(osm.WayID(m.Ref))
		if !ok {
			continue
		}
		name := relName
		if name == "" {
			name = way.Tags.Find("name")
		}
		if name == "" {
			continue
		}

		st := e.newStreet(way, name)
		return st, Key{Name: name, Admins: admin.FilterLevel(st.AdministrativeRegions, e.cityLevel)}, true
	}
	return datastructure.Street{}, Key{}, false
}

func (e *Extractor) newStreet(way *osm.Way, name string) datastructure.Street {
	admins := e.wayAdmins(way.ID)
	coord, _ := e.graph.WayCoord(way.ID)
	return datastructure.NewStreet(
		strconv.FormatInt(int64(way.ID), 10),
		name,
		admin.FormatLabel(admins, e.cityLevel, name),
		admin.ZipCodes(admins),
		admins,
		coord,
	)
}

// wayAdmins resolves the regions of a way at its first node. A way without any node in the
// graph has no region.
func (e *Extractor) wayAdmins(id osm.WayID) []*admin.Region {
	coord, ok := e.graph.WayCoord(id)
	if !ok {
		return []*admin.Region{}
	}
	return e.finder.Get(coord)
}

// ComputeStreetWeight sets each street's weight from its city-level region.
func ComputeStreetWeight(streets []datastructure.Street, cityLevel uint32) {
	for i := range streets {
		for _, r := range streets[i].AdministrativeRegions {
			if r.Level == cityLevel {
				streets[i].Weight = r.Weight
				break
			}
		}
	}
}
