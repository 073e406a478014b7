package index

import (
	"context"
	"iter"

	"github.com/lintang-b-s/osm-import/pkg"

	"go.uber.org/zap"
)

// Import creates a fresh index for dataset, bulk loads docs into it and publishes it. Any
// failure is fatal: the dataset keeps serving its previous index and the new one is left
// unpublished.
func Import(ctx context.Context, client Client, dataset string, settings Settings, docs iter.Seq[Document],
	vis Visibility, log *zap.Logger) (int, error) {
	h, err := client.CreateIndex(ctx, dataset, settings)
	if err != nil {
		return 0, pkg.WrapErrorf(err, pkg.ErrCreateIndex, "failed to create index for dataset %s", dataset)
	}
	log.Info("index created", zap.String("index", h.Name), zap.String("dataset", dataset))

	n, err := client.BulkIndex(ctx, h, docs)
	if err != nil {
		return n, pkg.WrapErrorf(err, pkg.ErrBulkIndex, "failed to bulk index into %s", h.Name)
	}

	if err := client.PublishIndex(ctx, dataset, h, vis); err != nil {
		return n, pkg.WrapErrorf(err, pkg.ErrPublishIndex, "failed to publish %s as %s", h.Name, dataset)
	}
	log.Info("index published",
		zap.String("index", h.Name),
		zap.String("dataset", dataset),
		zap.Stringer("visibility", vis),
		zap.Int("documents", n),
	)
	return n, nil
}

// Documents widens a typed sequence to a Document sequence.
func Documents[D Document](docs iter.Seq[D]) iter.Seq[Document] {
	return func(yield func(Document) bool) {
		for d := range docs {
			if !yield(d) {
				return
			}
		}
	}
}
