package index

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"
)

var ErrUnknownIndex = errors.New("unknown index")

// MemoryClient keeps indices in memory. It backs dry runs and tests.
type MemoryClient struct {
	mu       sync.Mutex
	indices  map[string]map[string]Document
	aliases  map[string]string
	public   map[string]bool
	lastTime time.Time
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		indices: make(map[string]map[string]Document),
		aliases: make(map[string]string),
		public:  make(map[string]bool),
	}
}

func (c *MemoryClient) CreateIndex(ctx context.Context, dataset string, settings Settings) (Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if !now.After(c.lastTime) {
		now = c.lastTime.Add(time.Nanosecond)
	}
	c.lastTime = now

	h := NewHandle(dataset, settings, now)
	c.indices[h.Name] = make(map[string]Document)
	return h, nil
}

func (c *MemoryClient) BulkIndex(ctx context.Context, h Handle, docs iter.Seq[Document]) (int, error) {
	n := 0
	for doc := range docs {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if doc.DocID() == "" {
			return n, fmt.Errorf("index %s: document without id", h.Name)
		}

		c.mu.Lock()
		idx, ok := c.indices[h.Name]
		if ok {
			idx[doc.DocID()] = doc
		}
		c.mu.Unlock()
		if !ok {
			return n, fmt.Errorf("%w: %s", ErrUnknownIndex, h.Name)
		}
		n++
	}
	return n, nil
}

func (c *MemoryClient) PublishIndex(ctx context.Context, dataset string, h Handle, vis Visibility) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.indices[h.Name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownIndex, h.Name)
	}
	if old, ok := c.aliases[dataset]; ok && old != h.Name {
		delete(c.indices, old)
		delete(c.public, old)
	}
	c.aliases[dataset] = h.Name
	if vis == Public {
		c.public[h.Name] = true
	}
	return nil
}

// Published returns the documents of the index currently serving dataset.
func (c *MemoryClient) Published(dataset string) (map[string]Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name, ok := c.aliases[dataset]
	if !ok {
		return nil, false
	}
	docs := make(map[string]Document, len(c.indices[name]))
	for id, d := range c.indices[name] {
		docs[id] = d
	}
	return docs, true
}

// IsPublic reports whether the index serving dataset is in the public alias.
func (c *MemoryClient) IsPublic(dataset string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.public[c.aliases[dataset]]
}

// IndexCount returns the number of physical indices, published or not.
func (c *MemoryClient) IndexCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.indices)
}
