package usecases

import (
	"context"

	"github.com/lintang-b-s/osm-import/pkg/kvdb"
)

type IndexStore interface {
	Aliases() (map[string]string, error)
	IndexMeta(name string) (kvdb.IndexMeta, error)
	Indices() ([]kvdb.IndexMeta, error)
	GetDocument(ctx context.Context, dataset, id string, out any) error
}
