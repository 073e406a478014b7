package geo

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/k0kubun/go-ansi"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// ObjectFilter selects the root objects of a run.
type ObjectFilter func(o osm.Object) bool

// Pass lists the object kinds one scan of the file needs.
type Pass struct {
	Nodes     bool
	Ways      bool
	Relations bool
}

// ScannerFunc opens a scanner over r for one pass. Scanners may return objects outside the
// pass kinds; ReadObjects ignores them.
type ScannerFunc func(ctx context.Context, r io.Reader, pass Pass) osm.Scanner

func PBFScanner(ctx context.Context, r io.Reader, pass Pass) osm.Scanner {
	scanner := osmpbf.New(ctx, r, 1)
	scanner.SkipNodes = !pass.Nodes
	scanner.SkipWays = !pass.Ways
	scanner.SkipRelations = !pass.Relations
	return scanner
}

func XMLScanner(ctx context.Context, r io.Reader, _ Pass) osm.Scanner {
	return osmxml.New(ctx, r)
}

// LoadObjects reads an osm file and returns the objects selected by keep together with
// their dependencies: member ways of selected relations and every node referenced by a
// loaded way. The file is scanned once per dependency level. Files ending in .osm are read
// as xml, anything else as pbf.
func LoadObjects(ctx context.Context, mapfile string, keep ObjectFilter, log *zap.Logger) (*ObjectGraph, error) {
	f, err := os.Open(mapfile)
	if err != nil {
		return nil, fmt.Errorf("open osm file %s: %w", mapfile, err)
	}
	defer f.Close()

	newScanner := PBFScanner
	if strings.HasSuffix(mapfile, ".osm") {
		newScanner = XMLScanner
	}
	return ReadObjects(ctx, f, newScanner, keep, log)
}

func ReadObjects(ctx context.Context, f io.ReadSeeker, newScanner ScannerFunc, keep ObjectFilter,
	log *zap.Logger) (*ObjectGraph, error) {
	bar := progressbar.NewOptions(3,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][1/3]Reading osm objects..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	builder := NewGraphBuilder()
	memberWays := make(map[osm.WayID]bool)

	// pass 1: root ways & relations.
	err := scan(ctx, f, newScanner, Pass{Ways: true, Relations: true}, func(o osm.Object) {
		if !keep(o) {
			return
		}
		switch obj := o.(type) {
		case *osm.Way:
			builder.AddWay(obj)
		case *osm.Relation:
			builder.AddRelation(obj)
			for _, m := range obj.Members {
				if m.Type == osm.TypeWay {
					memberWays[osm.WayID(m.Ref)] = true
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}
	bar.Describe("[cyan][2/3]Reading relation member ways...")
	bar.Add(1)

	// pass 2: member ways that were not roots themselves.
	for id := range memberWays {
		if builder.HasWay(id) {
			delete(memberWays, id)
		}
	}
	if len(memberWays) > 0 {
		err = scan(ctx, f, newScanner, Pass{Ways: true}, func(o osm.Object) {
			way, ok := o.(*osm.Way)
			if ok && memberWays[way.ID] {
				builder.AddWay(way)
			}
		})
		if err != nil {
			return nil, err
		}
	}
	bar.Describe("[cyan][3/3]Reading way nodes...")
	bar.Add(1)

	// pass 3: nodes of every loaded way.
	wayNodes := make(map[osm.NodeID]bool)
	for _, way := range builder.ways {
		for _, wn := range way.Nodes {
			wayNodes[wn.ID] = true
		}
	}
	err = scan(ctx, f, newScanner, Pass{Nodes: true}, func(o osm.Object) {
		node, ok := o.(*osm.Node)
		if ok && wayNodes[node.ID] {
			builder.AddNode(node)
		}
	})
	if err != nil {
		return nil, err
	}
	bar.Add(1)
	fmt.Println("")

	graph := builder.Build()
	log.Info("osm objects loaded",
		zap.Int("nodes", graph.NodeCount()),
		zap.Int("ways", graph.WayCount()),
		zap.Int("relations", graph.RelationCount()),
	)
	return graph, nil
}

func scan(ctx context.Context, f io.ReadSeeker, newScanner ScannerFunc, pass Pass, handle func(osm.Object)) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind osm file: %w", err)
	}

	scanner := newScanner(ctx, f, pass)
	defer scanner.Close()

	for scanner.Scan() {
		handle(scanner.Object())
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan osm file: %w", err)
	}
	return nil
}
