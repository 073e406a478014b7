package usecases

import (
	"context"
	"errors"
	"sort"

	"github.com/lintang-b-s/osm-import/pkg"
	"github.com/lintang-b-s/osm-import/pkg/kvdb"

	"go.uber.org/zap"
)

type IndexService struct {
	log   *zap.Logger
	store IndexStore
}

func New(log *zap.Logger, store IndexStore) *IndexService {
	return &IndexService{
		log:   log,
		store: store,
	}
}

func (s *IndexService) PublishedIndices(ctx context.Context) ([]kvdb.IndexMeta, error) {
	aliases, err := s.store.Aliases()
	if err != nil {
		return nil, pkg.WrapErrorf(err, pkg.ErrInternalServerError, "failed to read aliases")
	}

	metas := make([]kvdb.IndexMeta, 0, len(aliases))
	for _, name := range aliases {
		meta, err := s.store.IndexMeta(name)
		if err != nil {
			return nil, pkg.WrapErrorf(err, pkg.ErrInternalServerError, "failed to read metadata of %s", name)
		}
		metas = append(metas, meta)
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].Dataset < metas[j].Dataset
	})
	return metas, nil
}

// DatasetIndices lists every physical index of dataset, including the unpublished ones
// left behind by failed imports.
func (s *IndexService) DatasetIndices(ctx context.Context, dataset string) ([]kvdb.IndexMeta, error) {
	all, err := s.store.Indices()
	if err != nil {
		return nil, pkg.WrapErrorf(err, pkg.ErrInternalServerError, "failed to list indices")
	}

	metas := []kvdb.IndexMeta{}
	for _, meta := range all {
		if meta.Dataset == dataset {
			metas = append(metas, meta)
		}
	}
	if len(metas) == 0 {
		return nil, pkg.WrapErrorf(nil, pkg.ErrNotFound, "dataset %s has no index", dataset)
	}
	return metas, nil
}

func (s *IndexService) Document(ctx context.Context, dataset, id string) (map[string]any, error) {
	var doc map[string]any
	err := s.store.GetDocument(ctx, dataset, id, &doc)
	if errors.Is(err, kvdb.ErrorsKeyNotExists) || errors.Is(err, kvdb.ErrorsIndexNotExists) {
		return nil, pkg.WrapErrorf(err, pkg.ErrNotFound, "document %s not found in %s", id, dataset)
	}
	if err != nil {
		return nil, pkg.WrapErrorf(err, pkg.ErrInternalServerError, "failed to read document %s", id)
	}
	return doc, nil
}
