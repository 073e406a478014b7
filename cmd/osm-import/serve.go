package main

import (
	"time"

	"github.com/lintang-b-s/osm-import/pkg/di"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the published indices over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		server, cleanup, err := di.InitializeAPIServer()
		if err != nil {
			return eris.Wrap(err, "serve: init")
		}
		defer cleanup()

		return server.Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().Int("port", 6060, "API port")
	serveCmd.Flags().Duration("timeout", 30*time.Second, "request timeout")
	_ = viper.BindPFlag("API_PORT", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("API_TIMEOUT", serveCmd.Flags().Lookup("timeout"))
}
