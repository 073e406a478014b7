package ingest

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/osm-import/pkg"
	"github.com/lintang-b-s/osm-import/pkg/datastructure"
	"github.com/lintang-b-s/osm-import/pkg/index"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type record struct {
	ID     string  `csv:"id"`
	Number string  `csv:"number"`
	Street string  `csv:"street"`
	Lat    float64 `csv:"lat"`
}

var errBadNumber = errors.New("bad house number")

func toAddress(r record) (datastructure.Address, error) {
	if r.Number == "x" {
		return datastructure.Address{}, errBadNumber
	}
	return datastructure.Address{
		ID:          r.ID,
		HouseNumber: r.Number,
		Street:      datastructure.Street{StreetName: r.Street},
	}, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeGzipFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return path
}

func opts(threads int) Options {
	return Options{Dataset: "fr", HasHeaders: true, Threads: threads}
}

func published(t *testing.T, client *index.MemoryClient) []string {
	t.Helper()
	docs, ok := client.Published("fr")
	require.True(t, ok)
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	return ids
}

func validFiles(t *testing.T, dir string) []string {
	files := []string{}
	for i := 0; i < 3; i++ {
		content := "id,number,street,lat\n"
		for j := 0; j < 50; j++ {
			content += fmt.Sprintf("%d-%d,%d,Rue %d,48.1\n", i, j, j, i)
		}
		files = append(files, writeFile(t, dir, fmt.Sprintf("valid-%d.csv", i), content))
	}
	return files
}

func TestImportAddressesFaultIsolation(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	files := validFiles(t, dir)

	reference := index.NewMemoryClient()
	n, err := ImportAddresses(ctx, reference, opts(4), files, toAddress, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 150, n)

	core, logs := observer.New(zapcore.InfoLevel)
	client := index.NewMemoryClient()
	withMissing := append([]string{filepath.Join(dir, "missing.csv")}, files...)
	n, err = ImportAddresses(ctx, client, opts(4), withMissing, toAddress, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, 150, n)

	assert.ElementsMatch(t, published(t, reference), published(t, client))
	assert.Equal(t, 1, logs.FilterMessage("impossible to read file").Len())
}

func TestImportAddressesRecords(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	file := writeFile(t, dir, "mixed.csv", "id,number,street,lat\n"+
		"1,1,Rue A,48.1\n"+
		"2,2,Rue A,not-a-float\n"+ // decode error
		"3,3,Rue A,48.1,extra\n"+ // field count
		"4,4,,48.1\n"+ // empty street
		"5,x,Rue A,48.1\n"+ // conversion error
		"6,6,Rue B,48.2\n")

	core, logs := observer.New(zapcore.DebugLevel)
	client := index.NewMemoryClient()
	n, err := ImportAddresses(ctx, client, opts(2), []string{file}, toAddress, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"1", "6"}, published(t, client))
	assert.Equal(t, 2, logs.FilterMessage("impossible to read line").Len())
	assert.Equal(t, 1, logs.FilterMessage("address has no street name and has been ignored").Len())
	assert.Equal(t, 1, logs.FilterMessage("address error ignored").Len())
}

func TestImportAddressesOptions(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("gzip", func(t *testing.T) {
		gz := writeGzipFile(t, dir, "a.csv.gz", "id,number,street,lat\n1,1,Rue A,48.1\n2,2,Rue B,48.1\n")
		plain := writeFile(t, dir, "b.csv", "id,number,street,lat\n3,3,Rue C,48.1\n")

		core, logs := observer.New(zapcore.InfoLevel)
		client := index.NewMemoryClient()
		o := opts(2)
		o.Gzip = true
		n, err := ImportAddresses(ctx, client, o, []string{gz, plain}, toAddress, zap.New(core))
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.ElementsMatch(t, []string{"1", "2"}, published(t, client))
		assert.Equal(t, 1, logs.FilterMessage("impossible to read gzip file").Len())
	})

	t.Run("without headers", func(t *testing.T) {
		file := writeFile(t, dir, "noheader.csv", "1,1,Rue A,48.1\n2,2,Rue B,48.1\n")
		client := index.NewMemoryClient()
		o := opts(1)
		o.HasHeaders = false
		n, err := ImportAddresses(ctx, client, o, []string{file}, toAddress, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("empty file", func(t *testing.T) {
		file := writeFile(t, dir, "empty.csv", "")
		client := index.NewMemoryClient()
		n, err := ImportAddresses(ctx, client, opts(1), []string{file}, toAddress, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.Empty(t, published(t, client))
	})
}

type brokenClient struct {
	*index.MemoryClient
	failCreate, failBulk, failPublish bool
}

var errUnavailable = errors.New("index unavailable")

func (c brokenClient) CreateIndex(ctx context.Context, dataset string, s index.Settings) (index.Handle, error) {
	if c.failCreate {
		return index.Handle{}, errUnavailable
	}
	return c.MemoryClient.CreateIndex(ctx, dataset, s)
}

func (c brokenClient) BulkIndex(ctx context.Context, h index.Handle, docs iter.Seq[index.Document]) (int, error) {
	if c.failBulk {
		n := 0
		for range docs {
			n++
			if n == 10 {
				return n, errUnavailable
			}
		}
		return n, errUnavailable
	}
	return c.MemoryClient.BulkIndex(ctx, h, docs)
}

func (c brokenClient) PublishIndex(ctx context.Context, dataset string, h index.Handle, vis index.Visibility) error {
	if c.failPublish {
		return errUnavailable
	}
	return c.MemoryClient.PublishIndex(ctx, dataset, h, vis)
}

func TestImportAddressesFatalErrors(t *testing.T) {
	ctx := context.Background()
	files := validFiles(t, t.TempDir())

	cases := []struct {
		name     string
		client   func(*index.MemoryClient) brokenClient
		wantCode error
	}{
		{name: "create", client: func(m *index.MemoryClient) brokenClient { return brokenClient{MemoryClient: m, failCreate: true} }, wantCode: pkg.ErrCreateIndex},
		{name: "bulk", client: func(m *index.MemoryClient) brokenClient { return brokenClient{MemoryClient: m, failBulk: true} }, wantCode: pkg.ErrBulkIndex},
		{name: "publish", client: func(m *index.MemoryClient) brokenClient { return brokenClient{MemoryClient: m, failPublish: true} }, wantCode: pkg.ErrPublishIndex},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mem := index.NewMemoryClient()
			_, err := ImportAddresses(ctx, mem, opts(2), files[:1], toAddress, zap.NewNop())
			require.NoError(t, err)
			before := published(t, mem)

			_, err = ImportAddresses(ctx, c.client(mem), opts(2), files, toAddress, zap.NewNop())
			require.Error(t, err)
			assert.ErrorIs(t, err, c.wantCode)
			assert.ErrorIs(t, err, errUnavailable)
			assert.True(t, pkg.IsFatal(err))

			assert.ElementsMatch(t, before, published(t, mem))
		})
	}
}
