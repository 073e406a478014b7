package street

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lintang-b-s/osm-import/pkg/admin"
	"github.com/lintang-b-s/osm-import/pkg/datastructure"
	"github.com/lintang-b-s/osm-import/pkg/geo"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/exp/rand"
)

const cityLevel = 8

var (
	paris  = &admin.Region{ID: "admin:fr:75056", Name: "Paris", Level: cityLevel, Weight: 42, ZipCodes: []string{"75002"}}
	idf    = &admin.Region{ID: "admin:fr:11", Name: "Île-de-France", Level: 4, Weight: 7}
	lyon   = &admin.Region{ID: "admin:fr:69123", Name: "Lyon", Level: cityLevel, Weight: 13, ZipCodes: []string{"69001"}}
	rhones = &admin.Region{ID: "admin:fr:84", Name: "Auvergne-Rhône-Alpes", Level: 4, Weight: 5}
)

// finderFunc places everything north of latitude 47 in Paris and the rest in Lyon.
type finderFunc func(c geo.Coordinate) []*admin.Region

func (f finderFunc) Get(c geo.Coordinate) []*admin.Region {
	return f(c)
}

var franceFinder = finderFunc(func(c geo.Coordinate) []*admin.Region {
	if c.Lat > 47 {
		return admin.NewAdminSet([]*admin.Region{paris, idf})
	}
	return admin.NewAdminSet([]*admin.Region{lyon, rhones})
})

func highway(id osm.WayID, name string, nodes ...osm.NodeID) *osm.Way {
	wayNodes := make(osm.WayNodes, 0, len(nodes))
	for _, n := range nodes {
		wayNodes = append(wayNodes, osm.WayNode{ID: n})
	}
	tags := osm.Tags{{Key: "highway", Value: "residential"}}
	if name != "" {
		tags = append(tags, osm.Tag{Key: "name", Value: name})
	}
	return &osm.Way{ID: id, Nodes: wayNodes, Tags: tags}
}

func associatedStreet(id osm.RelationID, name string, members ...osm.Member) *osm.Relation {
	tags := osm.Tags{{Key: "type", Value: ASSOCIATED_STREET}}
	if name != "" {
		tags = append(tags, osm.Tag{Key: "name", Value: name})
	}
	return &osm.Relation{ID: id, Tags: tags, Members: members}
}

func wayMember(id osm.WayID, role string) osm.Member {
	return osm.Member{Type: osm.TypeWay, Ref: int64(id), Role: role}
}

func parisNode(id osm.NodeID) *osm.Node {
	return &osm.Node{ID: id, Lat: 48.8686, Lon: 2.3314}
}

func lyonNode(id osm.NodeID) *osm.Node {
	return &osm.Node{ID: id, Lat: 45.76, Lon: 4.83}
}

func ids(streets []datastructure.Street) []string {
	out := make([]string, 0, len(streets))
	for _, st := range streets {
		out = append(out, st.ID)
	}
	return out
}

func TestStreetsMergeSameCity(t *testing.T) {
	graph := geo.NewGraphBuilder().
		AddNode(parisNode(1)).
		AddNode(parisNode(2)).
		AddWay(highway(20, "Rue de la Paix", 2)).
		AddWay(highway(10, "Rue de la Paix", 1)).
		Build()

	streets := NewExtractor(graph, franceFinder, cityLevel, zap.NewNop()).Streets()

	require.Len(t, streets, 1)
	st := streets[0]
	assert.Equal(t, "10", st.ID)
	assert.Equal(t, "Rue de la Paix", st.StreetName)
	assert.Equal(t, "Rue de la Paix (Paris)", st.Label)
	assert.Equal(t, datastructure.DEFAULT_WEIGHT, st.Weight)
	assert.Equal(t, []string{"75002"}, st.ZipCodes)
	assert.Equal(t, []*admin.Region{idf, paris}, st.AdministrativeRegions)
	assert.Equal(t, geo.NewCoordinate(48.8686, 2.3314), st.Coord)
}

func TestStreetsSameNameDifferentCities(t *testing.T) {
	graph := geo.NewGraphBuilder().
		AddNode(parisNode(1)).
		AddNode(lyonNode(2)).
		AddWay(highway(10, "Rue de la République", 1)).
		AddWay(highway(11, "Rue de la République", 2)).
		Build()

	streets := NewExtractor(graph, franceFinder, cityLevel, zap.NewNop()).Streets()

	assert.ElementsMatch(t, []string{"10", "11"}, ids(streets))
}

func TestStreetsAssociatedStreetRelation(t *testing.T) {
	// way 41 is missing from the graph, way 42 is the first usable street member,
	// way 43 is a house member.
	graph := geo.NewGraphBuilder().
		AddNode(parisNode(1)).
		AddNode(parisNode(2)).
		AddNode(parisNode(3)).
		AddWay(highway(42, "Av. Foch", 1)).
		AddWay(highway(43, "Avenue Foch", 2)).
		AddWay(highway(44, "Rue Lauriston", 3)).
		AddRelation(associatedStreet(100, "Avenue Foch",
			wayMember(41, STREET_ROLE),
			wayMember(42, STREET_ROLE),
			wayMember(43, "house"),
		)).
		Build()

	streets := NewExtractor(graph, franceFinder, cityLevel, zap.NewNop()).Streets()

	require.Len(t, streets, 2)
	assert.Equal(t, "42", streets[0].ID)
	assert.Equal(t, "Avenue Foch", streets[0].StreetName)
	assert.Equal(t, "Avenue Foch (Paris)", streets[0].Label)
	assert.Equal(t, "44", streets[1].ID)
	assert.NotContains(t, ids(streets), "43")
}

func TestStreetsRelationStopsAtFirstStreetMember(t *testing.T) {
	graph := geo.NewGraphBuilder().
		AddNode(parisNode(1)).
		AddWay(highway(50, "Quai de Seine", 1)).
		AddWay(highway(51, "Quai de Seine", 1)).
		AddRelation(associatedStreet(200, "",
			wayMember(50, STREET_ROLE),
			wayMember(51, STREET_ROLE),
		)).
		Build()

	streets := NewExtractor(graph, franceFinder, cityLevel, zap.NewNop()).Streets()

	require.Len(t, streets, 1)
	assert.Equal(t, "50", streets[0].ID)
	assert.Equal(t, "Quai de Seine", streets[0].StreetName)
}

func TestStreetsRelationWithoutUsableMember(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	graph := geo.NewGraphBuilder().
		AddNode(parisNode(1)).
		AddWay(highway(60, "Impasse Sans Nom", 1)).
		AddWay(highway(61, "", 1)).
		AddRelation(associatedStreet(300, "",
			wayMember(60, "house"),
			wayMember(61, STREET_ROLE),
		)).
		Build()

	streets := NewExtractor(graph, franceFinder, cityLevel, zap.New(core)).Streets()

	assert.Empty(t, streets)
	assert.Equal(t, 1, logs.FilterMessage("associatedStreet relation without street member").Len())
}

func TestStreetsRelationWinsOverResidualWay(t *testing.T) {
	graph := geo.NewGraphBuilder().
		AddNode(parisNode(1)).
		AddNode(parisNode(2)).
		AddWay(highway(70, "Rue de Rivoli", 1)).
		AddWay(highway(71, "Rue de Rivoli", 2)).
		AddRelation(associatedStreet(400, "Rue de Rivoli", wayMember(71, STREET_ROLE))).
		Build()

	streets := NewExtractor(graph, franceFinder, cityLevel, zap.NewNop()).Streets()

	require.Len(t, streets, 1)
	assert.Equal(t, "71", streets[0].ID)
}

func TestStreetsWithoutCoordinate(t *testing.T) {
	// neither way has a node in the graph: both get an empty region set and collapse on
	// their name alone.
	graph := geo.NewGraphBuilder().
		AddWay(highway(80, "Grande Rue", 1000)).
		AddWay(highway(81, "Grande Rue", 2000)).
		AddWay(highway(82, "Petite Rue")).
		Build()

	streets := NewExtractor(graph, franceFinder, cityLevel, zap.NewNop()).Streets()

	require.Len(t, streets, 2)
	assert.Equal(t, []string{"80", "82"}, ids(streets))
	for _, st := range streets {
		assert.Empty(t, st.AdministrativeRegions)
		assert.Empty(t, st.ZipCodes)
		assert.Equal(t, st.StreetName, st.Label)
		assert.Equal(t, geo.Coordinate{}, st.Coord)
	}
}

func TestComputeStreetWeight(t *testing.T) {
	streets := []datastructure.Street{
		datastructure.NewStreet("1", "a", "a", nil, []*admin.Region{idf, paris}, geo.Coordinate{}),
		datastructure.NewStreet("2", "b", "b", nil, []*admin.Region{rhones}, geo.Coordinate{}),
		datastructure.NewStreet("3", "c", "c", nil, []*admin.Region{}, geo.Coordinate{}),
		datastructure.NewStreet("4", "d", "d", nil, []*admin.Region{lyon, paris}, geo.Coordinate{}),
	}

	ComputeStreetWeight(streets, cityLevel)

	assert.Equal(t, 42, streets[0].Weight)
	assert.Equal(t, 1, streets[1].Weight)
	assert.Equal(t, 1, streets[2].Weight)
	assert.Equal(t, 13, streets[3].Weight)
}

func TestIsStreetObject(t *testing.T) {
	cases := []struct {
		name string
		obj  osm.Object
		want bool
	}{
		{name: "named highway", obj: highway(1, "Rue A"), want: true},
		{name: "unnamed highway", obj: highway(1, ""), want: false},
		{name: "named building", obj: &osm.Way{ID: 1, Tags: osm.Tags{{Key: "building", Value: "yes"}, {Key: "name", Value: "Louvre"}}}, want: false},
		{name: "empty highway tag", obj: &osm.Way{ID: 1, Tags: osm.Tags{{Key: "highway", Value: ""}, {Key: "name", Value: "Rue"}}}, want: false},
		{name: "associatedStreet", obj: associatedStreet(1, ""), want: true},
		{name: "multipolygon", obj: &osm.Relation{ID: 1, Tags: osm.Tags{{Key: "type", Value: "multipolygon"}}}, want: false},
		{name: "node", obj: parisNode(1), want: false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, IsStreetObject(c.obj))
		})
	}
}

func TestStreetsRandomGraphProperties(t *testing.T) {
	const seed uint64 = 20240309
	t.Logf("seed %d", seed)
	rng := rand.New(rand.NewSource(seed))
	names := []string{"Rue A", "Rue B", "Rue C", "Boulevard D"}

	builder := geo.NewGraphBuilder()
	for n := 1; n <= 50; n++ {
		if n%2 == 0 {
			builder.AddNode(parisNode(osm.NodeID(n)))
		} else {
			builder.AddNode(lyonNode(osm.NodeID(n)))
		}
	}
	for w := 1; w <= 300; w++ {
		// node ids above 50 never resolve.
		builder.AddWay(highway(osm.WayID(w), names[rng.Intn(len(names))], osm.NodeID(rng.Intn(60)+1)))
	}
	relationMembers := map[osm.RelationID][]osm.WayID{}
	for r := 1; r <= 20; r++ {
		members := []osm.Member{}
		for i := 0; i < 3; i++ {
			wayID := osm.WayID(rng.Intn(300) + 1)
			members = append(members, wayMember(wayID, STREET_ROLE))
			relationMembers[osm.RelationID(r)] = append(relationMembers[osm.RelationID(r)], wayID)
		}
		builder.AddRelation(associatedStreet(osm.RelationID(r), fmt.Sprintf("Allée %d", r), members...))
	}
	graph := builder.Build()

	streets := NewExtractor(graph, franceFinder, cityLevel, zap.NewNop()).Streets()
	ComputeStreetWeight(streets, cityLevel)

	t.Run("name and city regions are unique", func(t *testing.T) {
		seen := map[string]bool{}
		for _, st := range streets {
			key := Key{Name: st.StreetName, Admins: admin.FilterLevel(st.AdministrativeRegions, cityLevel)}.String()
			assert.False(t, seen[key], "duplicate street %q", st.StreetName)
			seen[key] = true
		}
	})

	t.Run("relation members are never standalone", func(t *testing.T) {
		fromRelation := map[string]bool{}
		for _, st := range streets {
			if strings.HasPrefix(st.StreetName, "Allée") {
				fromRelation[st.ID] = true
			}
		}
		for _, members := range relationMembers {
			for _, wayID := range members {
				id := fmt.Sprint(wayID)
				for _, st := range streets {
					if st.ID == id {
						assert.True(t, fromRelation[id], "member way %s emitted standalone", id)
					}
				}
			}
		}
	})

	t.Run("one street per relation", func(t *testing.T) {
		perName := map[string]int{}
		for _, st := range streets {
			perName[st.StreetName]++
		}
		for r := 1; r <= 20; r++ {
			assert.Equal(t, 1, perName[fmt.Sprintf("Allée %d", r)], "relation %d", r)
		}
	})

	t.Run("weight follows the city region", func(t *testing.T) {
		for _, st := range streets {
			want := datastructure.DEFAULT_WEIGHT
			if city := admin.FilterLevel(st.AdministrativeRegions, cityLevel); len(city) > 0 {
				want = city[0].Weight
			}
			assert.Equal(t, want, st.Weight)
		}
	})
}
