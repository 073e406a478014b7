package main

import (
	"os"

	"github.com/lintang-b-s/osm-import/pkg"
	shortcontext "github.com/lintang-b-s/osm-import/pkg/di/context"
)

// exit status of imports that failed while creating, filling or publishing an index.
const EXIT_FATAL_INDEX = 2

//	@title			osm-import index API
//	@version		1.0
//	@description	read-only access to the street and address indices published by osm-import.
//	@host			localhost:6060
//	@BasePath		/
func main() {
	ctx, stop := shortcontext.New()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	if pkg.IsFatal(err) {
		os.Exit(EXIT_FATAL_INDEX)
	}
	os.Exit(1)
}
