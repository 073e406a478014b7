package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"iter"
	"os"

	"github.com/lintang-b-s/osm-import/pkg/concurrent"
	"github.com/lintang-b-s/osm-import/pkg/datastructure"
	"github.com/lintang-b-s/osm-import/pkg/index"

	"github.com/jszwec/csvutil"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

type Options struct {
	Dataset    string
	Settings   index.Settings
	HasHeaders bool
	Gzip       bool
	Threads    int
}

type source struct {
	path string
	r    io.Reader
}

type converted struct {
	addr datastructure.Address
	err  error
}

// ImportAddresses loads address records from files into a new index for opts.Dataset and
// publishes it. Unreadable files and records are logged and skipped. Index creation, bulk and
// publish failures are fatal. It returns the number of indexed addresses.
func ImportAddresses[T any](ctx context.Context, client index.Client, opts Options, files []string,
	convert func(T) (datastructure.Address, error), log *zap.Logger) (int, error) {
	if opts.Settings.DocType == "" {
		opts.Settings.DocType = datastructure.ADDRESS_DOC_TYPE
	}

	sources := decompress(open(files, log), opts.Gzip, log)
	records := decode[T](sources, opts.HasHeaders, log)
	addrs := concurrent.ParMap(ctx, records, opts.Threads, func(rec T) converted {
		a, err := convert(rec)
		return converted{addr: a, err: err}
	})

	n, err := index.Import(ctx, client, opts.Dataset, opts.Settings, validate(addrs, log), index.Public, log)
	if err != nil {
		return n, err
	}
	log.Info("importing addresses done", zap.String("dataset", opts.Dataset), zap.Int("addresses", n))
	return n, nil
}

// open yields each readable file and closes it once the consumer is done with it.
func open(files []string, log *zap.Logger) iter.Seq[source] {
	return func(yield func(source) bool) {
		for _, path := range files {
			log.Info("importing file", zap.String("path", path))
			f, err := os.Open(path)
			if err != nil {
				log.Error("impossible to read file", zap.String("path", path), zap.Error(err))
				continue
			}
			more := yield(source{path: path, r: f})
			_ = f.Close()
			if !more {
				return
			}
		}
	}
}

func decompress(in iter.Seq[source], enabled bool, log *zap.Logger) iter.Seq[source] {
	if !enabled {
		return in
	}
	return func(yield func(source) bool) {
		for src := range in {
			zr, err := gzip.NewReader(src.r)
			if err != nil {
				log.Error("impossible to read gzip file", zap.String("path", src.path), zap.Error(err))
				continue
			}
			more := yield(source{path: src.path, r: zr})
			_ = zr.Close()
			if !more {
				return
			}
		}
	}
}

// decode reads the csv records of every source into T. Malformed rows are dropped and the file
// goes on; a read error ends the file.
func decode[T any](in iter.Seq[source], hasHeaders bool, log *zap.Logger) iter.Seq[T] {
	return func(yield func(T) bool) {
		for src := range in {
			if !decodeSource(src, hasHeaders, log, yield) {
				return
			}
		}
	}
}

func decodeSource[T any](src source, hasHeaders bool, log *zap.Logger, yield func(T) bool) bool {
	cr := csv.NewReader(src.r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	var header []string
	if !hasHeaders {
		var zero T
		h, err := csvutil.Header(zero, "csv")
		if err != nil {
			log.Error("impossible to build csv header", zap.String("path", src.path), zap.Error(err))
			return true
		}
		header = h
	}

	dec, err := csvutil.NewDecoder(cr, header...)
	if errors.Is(err, io.EOF) {
		log.Warn("empty file", zap.String("path", src.path))
		return true
	}
	if err != nil {
		log.Error("impossible to read csv header", zap.String("path", src.path), zap.Error(err))
		return true
	}

	lines := 0
	for {
		var rec T
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			log.Debug("file done", zap.String("path", src.path), zap.Int("records", lines))
			return true
		}
		if err != nil {
			if !malformedRecord(err) {
				log.Error("impossible to read file", zap.String("path", src.path), zap.Error(err))
				return true
			}
			log.Warn("impossible to read line", zap.String("path", src.path), zap.Error(err))
			continue
		}
		lines++
		if !yield(rec) {
			return false
		}
	}
}

func malformedRecord(err error) bool {
	var parseErr *csv.ParseError
	var typeErr *csvutil.UnmarshalTypeError
	return errors.As(err, &parseErr) || errors.As(err, &typeErr) || errors.Is(err, csvutil.ErrFieldCount)
}

// validate drops failed conversions and addresses without a street name.
func validate(in iter.Seq[converted], log *zap.Logger) iter.Seq[index.Document] {
	return func(yield func(index.Document) bool) {
		for c := range in {
			if c.err != nil {
				log.Warn("address error ignored", zap.Error(c.err))
				continue
			}
			if c.addr.Street.StreetName == "" {
				log.Warn("address has no street name and has been ignored", zap.String("id", c.addr.ID))
				continue
			}
			if !yield(c.addr) {
				return
			}
		}
	}
}
