package geo

import (
	"slices"

	"github.com/paulmach/osm"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

// ObjectGraph is a read-only view over the osm objects selected for one run, plus a
// companion index way -> representative coordinate so lookups never walk node lists twice.
type ObjectGraph struct {
	nodes     map[osm.NodeID]*osm.Node
	ways      map[osm.WayID]*osm.Way
	relations map[osm.RelationID]*osm.Relation

	wayCoord    map[osm.WayID]Coordinate
	wayIDs      []osm.WayID
	relationIDs []osm.RelationID
}

func (g *ObjectGraph) Node(id osm.NodeID) (*osm.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

func (g *ObjectGraph) Way(id osm.WayID) (*osm.Way, bool) {
	w, ok := g.ways[id]
	return w, ok
}

func (g *ObjectGraph) Relation(id osm.RelationID) (*osm.Relation, bool) {
	r, ok := g.relations[id]
	return r, ok
}

// WayIDs returns way ids in ascending order.
func (g *ObjectGraph) WayIDs() []osm.WayID {
	return g.wayIDs
}

// RelationIDs returns relation ids in ascending order.
func (g *ObjectGraph) RelationIDs() []osm.RelationID {
	return g.relationIDs
}

// WayCoord returns the coordinate of the first node of the way that exists in the graph.
func (g *ObjectGraph) WayCoord(id osm.WayID) (Coordinate, bool) {
	c, ok := g.wayCoord[id]
	return c, ok
}

func (g *ObjectGraph) NodeCount() int {
	return len(g.nodes)
}

func (g *ObjectGraph) WayCount() int {
	return len(g.ways)
}

func (g *ObjectGraph) RelationCount() int {
	return len(g.relations)
}

type GraphBuilder struct {
	nodes     map[osm.NodeID]*osm.Node
	ways      map[osm.WayID]*osm.Way
	relations map[osm.RelationID]*osm.Relation
}

func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		nodes:     make(map[osm.NodeID]*osm.Node),
		ways:      make(map[osm.WayID]*osm.Way),
		relations: make(map[osm.RelationID]*osm.Relation),
	}
}

func (b *GraphBuilder) AddNode(n *osm.Node) *GraphBuilder {
	b.nodes[n.ID] = n
	return b
}

func (b *GraphBuilder) AddWay(w *osm.Way) *GraphBuilder {
	b.ways[w.ID] = w
	return b
}

func (b *GraphBuilder) AddRelation(r *osm.Relation) *GraphBuilder {
	b.relations[r.ID] = r
	return b
}

func (b *GraphBuilder) HasWay(id osm.WayID) bool {
	_, ok := b.ways[id]
	return ok
}

// Build freezes the builder into an ObjectGraph. The builder must not be used afterwards.
func (b *GraphBuilder) Build() *ObjectGraph {
	g := &ObjectGraph{
		nodes:       b.nodes,
		ways:        b.ways,
		relations:   b.relations,
		wayCoord:    make(map[osm.WayID]Coordinate, len(b.ways)),
		wayIDs:      make([]osm.WayID, 0, len(b.ways)),
		relationIDs: make([]osm.RelationID, 0, len(b.relations)),
	}

	for id, way := range b.ways {
		g.wayIDs = append(g.wayIDs, id)
		for _, wn := range way.Nodes {
			if node, ok := b.nodes[wn.ID]; ok {
				g.wayCoord[id] = NewCoordinate(node.Lat, node.Lon)
				break
			}
		}
	}
	for id := range b.relations {
		g.relationIDs = append(g.relationIDs, id)
	}
	slices.Sort(g.wayIDs)
	slices.Sort(g.relationIDs)

	return g
}
