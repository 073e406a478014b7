package index

import (
	"context"
	"fmt"
	"iter"
	"regexp"
	"time"
)

const DEFAULT_BATCH_SIZE = 1000

var datasetPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidDataset reports whether name can be used as a dataset: letters, digits, '_' and '-'.
func ValidDataset(name string) bool {
	return datasetPattern.MatchString(name)
}

type Visibility int

const (
	Private Visibility = iota
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "public"
	}
	return "private"
}

// Document is anything that can be stored in an index.
type Document interface {
	DocID() string
	DocType() string
}

// Settings configures a physical index. Raw is stored with the index and never interpreted.
type Settings struct {
	DocType   string            `json:"doc_type"`
	BatchSize int               `json:"batch_size"`
	Raw       map[string]string `json:"raw,omitempty"`
}

func (s Settings) batchSize() int {
	if s.BatchSize <= 0 {
		return DEFAULT_BATCH_SIZE
	}
	return s.BatchSize
}

// Handle identifies a physical index created for a dataset.
type Handle struct {
	Name      string    `json:"name"`
	Dataset   string    `json:"dataset"`
	DocType   string    `json:"doc_type"`
	BatchSize int       `json:"batch_size"`
	CreatedAt time.Time `json:"created_at"`
}

// Client creates physical indices, fills them and makes them visible under a dataset name.
// Documents written by BulkIndex are not readable through the dataset until PublishIndex
// succeeds.
type Client interface {
	CreateIndex(ctx context.Context, dataset string, settings Settings) (Handle, error)
	BulkIndex(ctx context.Context, h Handle, docs iter.Seq[Document]) (int, error)
	PublishIndex(ctx context.Context, dataset string, h Handle, vis Visibility) error
}

// IndexName builds the physical index name osm_<doctype>_<dataset>_<timestamp>.
func IndexName(docType, dataset string, createdAt time.Time) string {
	ts := createdAt.UTC()
	return fmt.Sprintf("osm_%s_%s_%s_%09d", docType, dataset, ts.Format("20060102_150405"), ts.Nanosecond())
}

func NewHandle(dataset string, settings Settings, createdAt time.Time) Handle {
	return Handle{
		Name:      IndexName(settings.DocType, dataset, createdAt),
		Dataset:   dataset,
		DocType:   settings.DocType,
		BatchSize: settings.batchSize(),
		CreatedAt: createdAt,
	}
}
