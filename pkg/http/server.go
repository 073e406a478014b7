package http

import (
	"context"

	http_router "github.com/lintang-b-s/osm-import/pkg/http/http-router"
	"github.com/lintang-b-s/osm-import/pkg/http/http-router/controllers"
	http_server "github.com/lintang-b-s/osm-import/pkg/http/server"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log          *zap.Logger
	indexService controllers.IndexService
}

func NewServer(log *zap.Logger, indexService controllers.IndexService) *Server {
	return &Server{Log: log, indexService: indexService}
}

// Run serves the API until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "30s")

	config := http_server.Config{
		Port:    viper.GetInt("API_PORT"),
		Timeout: viper.GetDuration("API_TIMEOUT"),
	}

	api := http_router.NewAPI(s.Log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Run(ctx, config, s.indexService)
	})

	return g.Wait()
}
