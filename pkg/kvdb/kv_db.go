package kvdb

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"sort"
	"sync"
	"time"

	"github.com/lintang-b-s/osm-import/pkg/index"

	"github.com/rotisserie/eris"
	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var (
	ErrorsKeyNotExists   = errors.New("key not exists")
	ErrorsIndexNotExists = errors.New("index not exists")
)

const (
	BBOLTDB_META_BUCKET   = "meta"    // index name -> IndexMeta
	BBOLTDB_ALIAS_BUCKET  = "aliases" // dataset -> index name
	BBOLTDB_PUBLIC_BUCKET = "public"  // index name -> dataset, for public indices
)

// IndexMeta describes one physical index.
type IndexMeta struct {
	Name      string         `json:"name"`
	Dataset   string         `json:"dataset"`
	DocType   string         `json:"doc_type"`
	Settings  index.Settings `json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	Count     int            `json:"count"`
	Public    bool           `json:"public"`
}

// KVDB stores every physical index in its own bbolt bucket. A dataset name is an alias that
// points to exactly one published index.
type KVDB struct {
	db  *bbolt.DB
	log *zap.Logger
	sync.Mutex
}

func NewKVDB(db *bbolt.DB, log *zap.Logger) (*KVDB, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{BBOLTDB_META_BUCKET, BBOLTDB_ALIAS_BUCKET, BBOLTDB_PUBLIC_BUCKET} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return eris.Wrapf(err, "kvdb: create bucket %s", name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &KVDB{db: db, log: log}, nil
}

func (db *KVDB) CreateIndex(ctx context.Context, dataset string, settings index.Settings) (index.Handle, error) {
	if settings.DocType == "" {
		return index.Handle{}, eris.Errorf("kvdb: index settings for %s without doc type", dataset)
	}
	if err := ctx.Err(); err != nil {
		return index.Handle{}, eris.Wrap(err, "kvdb: create index")
	}

	db.Lock()
	defer db.Unlock()

	var h index.Handle
	err := db.db.Update(func(tx *bbolt.Tx) error {
		createdAt := time.Now()
		h = index.NewHandle(dataset, settings, createdAt)
		for tx.Bucket([]byte(h.Name)) != nil {
			createdAt = createdAt.Add(time.Nanosecond)
			h = index.NewHandle(dataset, settings, createdAt)
		}

		if _, err := tx.CreateBucket([]byte(h.Name)); err != nil {
			return eris.Wrapf(err, "kvdb: create bucket %s", h.Name)
		}
		return putMeta(tx, IndexMeta{
			Name:      h.Name,
			Dataset:   dataset,
			DocType:   settings.DocType,
			Settings:  settings,
			CreatedAt: createdAt,
		})
	})
	if err != nil {
		return index.Handle{}, err
	}
	return h, nil
}

// BulkIndex writes docs in chunks of the handle's batch size, one transaction per chunk.
// Chunks written before a failure stay in the unpublished index.
func (db *KVDB) BulkIndex(ctx context.Context, h index.Handle, docs iter.Seq[index.Document]) (int, error) {
	batchSize := h.BatchSize
	if batchSize <= 0 {
		batchSize = index.DEFAULT_BATCH_SIZE
	}

	written := 0
	batch := make([]index.Document, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return eris.Wrapf(err, "kvdb: bulk index %s", h.Name)
		}
		if err := db.saveDocs(h.Name, batch); err != nil {
			return err
		}
		written += len(batch)
		batch = batch[:0]
		return nil
	}

	for doc := range docs {
		batch = append(batch, doc)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return written, err
			}
		}
	}
	if err := flush(); err != nil {
		return written, err
	}

	err := db.db.Update(func(tx *bbolt.Tx) error {
		meta, err := getMeta(tx, h.Name)
		if err != nil {
			return err
		}
		meta.Count = written
		return putMeta(tx, meta)
	})
	if err != nil {
		return written, err
	}

	db.log.Debug("bulk index done", zap.String("index", h.Name), zap.Int("documents", written))
	return written, nil
}

func (db *KVDB) saveDocs(name string, docs []index.Document) error {
	return db.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(name))
		if b == nil {
			return eris.Wrapf(ErrorsIndexNotExists, "kvdb: bulk index %s", name)
		}
		for _, doc := range docs {
			id := doc.DocID()
			if id == "" {
				return eris.Errorf("kvdb: %s document without id in %s", doc.DocType(), name)
			}
			docBytes, err := encode(doc)
			if err != nil {
				return eris.Wrapf(err, "kvdb: encode document %s", id)
			}
			if err := b.Put([]byte(id), docBytes); err != nil {
				return eris.Wrapf(err, "kvdb: put document %s", id)
			}
		}
		return nil
	})
}

// PublishIndex points dataset at h and drops the index it pointed to before, in a single
// transaction.
func (db *KVDB) PublishIndex(ctx context.Context, dataset string, h index.Handle, vis index.Visibility) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "kvdb: publish index")
	}

	db.Lock()
	defer db.Unlock()

	var superseded string
	err := db.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(h.Name)) == nil {
			return eris.Wrapf(ErrorsIndexNotExists, "kvdb: publish %s", h.Name)
		}
		meta, err := getMeta(tx, h.Name)
		if err != nil {
			return err
		}

		aliases := tx.Bucket([]byte(BBOLTDB_ALIAS_BUCKET))
		public := tx.Bucket([]byte(BBOLTDB_PUBLIC_BUCKET))

		if old := aliases.Get([]byte(dataset)); old != nil && string(old) != h.Name {
			superseded = string(old)
			if err := dropIndex(tx, superseded); err != nil {
				return err
			}
		}
		if err := aliases.Put([]byte(dataset), []byte(h.Name)); err != nil {
			return eris.Wrapf(err, "kvdb: alias %s", dataset)
		}

		meta.Public = vis == index.Public
		if meta.Public {
			if err := public.Put([]byte(h.Name), []byte(dataset)); err != nil {
				return eris.Wrapf(err, "kvdb: add %s to public alias", h.Name)
			}
		}
		return putMeta(tx, meta)
	})
	if err != nil {
		return err
	}

	if superseded != "" {
		db.log.Info("superseded index dropped", zap.String("dataset", dataset), zap.String("index", superseded))
	}
	return nil
}

func dropIndex(tx *bbolt.Tx, name string) error {
	if tx.Bucket([]byte(name)) != nil {
		if err := tx.DeleteBucket([]byte(name)); err != nil {
			return eris.Wrapf(err, "kvdb: drop index %s", name)
		}
	}
	if err := tx.Bucket([]byte(BBOLTDB_PUBLIC_BUCKET)).Delete([]byte(name)); err != nil {
		return eris.Wrapf(err, "kvdb: remove %s from public alias", name)
	}
	if err := tx.Bucket([]byte(BBOLTDB_META_BUCKET)).Delete([]byte(name)); err != nil {
		return eris.Wrapf(err, "kvdb: delete meta of %s", name)
	}
	return nil
}

// GetDocument decodes the document id of the index published for dataset into out.
func (db *KVDB) GetDocument(ctx context.Context, dataset, id string, out any) error {
	return db.db.View(func(tx *bbolt.Tx) error {
		name := tx.Bucket([]byte(BBOLTDB_ALIAS_BUCKET)).Get([]byte(dataset))
		if name == nil {
			return eris.Wrapf(ErrorsIndexNotExists, "kvdb: dataset %s", dataset)
		}
		b := tx.Bucket(name)
		if b == nil {
			return eris.Wrapf(ErrorsIndexNotExists, "kvdb: index %s", name)
		}
		docBytes := b.Get([]byte(id))
		if docBytes == nil {
			return eris.Wrapf(ErrorsKeyNotExists, "kvdb: document %s in %s", id, name)
		}
		if err := decode(docBytes, out); err != nil {
			return eris.Wrapf(err, "kvdb: decode document %s", id)
		}
		return nil
	})
}

// Aliases returns dataset -> published index name.
func (db *KVDB) Aliases() (map[string]string, error) {
	aliases := make(map[string]string)
	err := db.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(BBOLTDB_ALIAS_BUCKET)).ForEach(func(k, v []byte) error {
			aliases[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return nil, eris.Wrap(err, "kvdb: read aliases")
	}
	return aliases, nil
}

func (db *KVDB) IndexMeta(name string) (meta IndexMeta, err error) {
	err = db.db.View(func(tx *bbolt.Tx) error {
		meta, err = getMeta(tx, name)
		return err
	})
	return
}

// Indices lists every physical index, published or not, sorted by name.
func (db *KVDB) Indices() ([]IndexMeta, error) {
	metas := []IndexMeta{}
	err := db.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(BBOLTDB_META_BUCKET)).ForEach(func(k, v []byte) error {
			var meta IndexMeta
			if err := decode(v, &meta); err != nil {
				return eris.Wrapf(err, "kvdb: decode meta of %s", k)
			}
			metas = append(metas, meta)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].Name < metas[j].Name
	})
	return metas, nil
}

func (db *KVDB) Close() error {
	return db.db.Close()
}

func getMeta(tx *bbolt.Tx, name string) (IndexMeta, error) {
	var meta IndexMeta
	metaBytes := tx.Bucket([]byte(BBOLTDB_META_BUCKET)).Get([]byte(name))
	if metaBytes == nil {
		return meta, eris.Wrapf(ErrorsIndexNotExists, "kvdb: meta of %s", name)
	}
	if err := decode(metaBytes, &meta); err != nil {
		return meta, eris.Wrapf(err, "kvdb: decode meta of %s", name)
	}
	return meta, nil
}

func putMeta(tx *bbolt.Tx, meta IndexMeta) error {
	metaBytes, err := encode(meta)
	if err != nil {
		return eris.Wrapf(err, "kvdb: encode meta of %s", meta.Name)
	}
	if err := tx.Bucket([]byte(BBOLTDB_META_BUCKET)).Put([]byte(meta.Name), metaBytes); err != nil {
		return eris.Wrapf(err, "kvdb: put meta of %s", meta.Name)
	}
	return nil
}

// documents and metadata share the json field names so the HTTP API and the store agree.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(b []byte, out any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.SetCustomStructTag("json")
	return dec.Decode(out)
}
