package controllers

import (
	"context"

	"github.com/lintang-b-s/osm-import/pkg/kvdb"
)

type IndexService interface {
	PublishedIndices(ctx context.Context) ([]kvdb.IndexMeta, error)
	DatasetIndices(ctx context.Context, dataset string) ([]kvdb.IndexMeta, error)
	Document(ctx context.Context, dataset, id string) (map[string]any, error)
}
