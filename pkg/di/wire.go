//go:build wireinject

//go:generate wire
package di

import (
	"github.com/lintang-b-s/osm-import/pkg/di/config"
	kv_di "github.com/lintang-b-s/osm-import/pkg/di/kv"
	logger_di "github.com/lintang-b-s/osm-import/pkg/di/logger"
	importHttp "github.com/lintang-b-s/osm-import/pkg/http"
	"github.com/lintang-b-s/osm-import/pkg/http/http-router/controllers"
	"github.com/lintang-b-s/osm-import/pkg/http/usecases"
	"github.com/lintang-b-s/osm-import/pkg/kvdb"

	"github.com/google/wire"
	"go.uber.org/zap"
)

var defaultSet = wire.NewSet(
	config.New,
	logger_di.New,
	kv_di.New,
)

var apiSet = wire.NewSet(
	defaultSet,
	NewIndexService,
	importHttp.NewServer,
)

func NewIndexService(log *zap.Logger, db *kvdb.KVDB) controllers.IndexService {
	return usecases.New(log, db)
}

func InitializeAPIServer() (*importHttp.Server, func(), error) {
	panic(wire.Build(apiSet))
}
