package http_router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	_ "github.com/lintang-b-s/osm-import/docs"
	"github.com/lintang-b-s/osm-import/pkg/http/http-router/controllers"
	router_helper "github.com/lintang-b-s/osm-import/pkg/http/http-router/router-helper"
	http_server "github.com/lintang-b-s/osm-import/pkg/http/server"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

type API struct {
	log *zap.Logger
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log}
}

// Handler builds the full middleware chain around the index routes.
func (api *API) Handler(indexService controllers.IndexService) http.Handler {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300, //nolint:mnd // ignore
	})

	root := router_helper.NewRouteGroup(router, "/")
	root.Handler(http.MethodGet, "/swagger/*any", httpSwagger.WrapHandler)

	indexRoutes := controllers.New(indexService, api.log)
	indexRoutes.Routes(root.Group("/api"))

	return alice.New(corsHandler.Handler, api.recoverPanic,
		RealIP, Heartbeat("healthz"), Logger(api.log)).Then(router)
}

func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	indexService controllers.IndexService,
) error {
	api.log.Info("Run httprouter API")

	srv := http_server.New(ctx, api.Handler(indexService), config)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	api.log.Info(fmt.Sprintf("API run on port %d", config.Port))

	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
