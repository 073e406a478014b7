package kv_di

import (
	"time"

	"github.com/lintang-b-s/osm-import/pkg/di/config"
	"github.com/lintang-b-s/osm-import/pkg/kvdb"

	"github.com/rotisserie/eris"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

func New(cfg *config.Config, log *zap.Logger) (*kvdb.KVDB, func(), error) {
	db, err := bolt.Open(cfg.DBPath, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, nil, eris.Wrapf(err, "kv: open %s", cfg.DBPath)
	}

	bboltKV, err := kvdb.NewKVDB(db, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = bboltKV.Close()
	}

	return bboltKV, cleanup, nil
}
