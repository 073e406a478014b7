package main

import (
	"fmt"

	"github.com/lintang-b-s/osm-import/pkg/admin"
	"github.com/lintang-b-s/osm-import/pkg/di/config"
	kv_di "github.com/lintang-b-s/osm-import/pkg/di/kv"
	logger_di "github.com/lintang-b-s/osm-import/pkg/di/logger"
	"github.com/lintang-b-s/osm-import/pkg/index"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfg           *config.Config
	log           *zap.Logger
	logCleanup    func()
	dryRun        bool
	regionsFile   string
	datasetName   string
	privateImport bool
)

var rootCmd = &cobra.Command{
	Use:   "osm-import",
	Short: "Import OpenStreetMap streets and address files into published indices",
	Long: "Builds street documents from an osm pbf extract and address documents from BANO or " +
		"OpenAddresses csv files, bulk loads them into a fresh index and publishes it for its dataset.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.New()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		l, cleanup, err := logger_di.New()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		log, logCleanup = l, cleanup

		if datasetName != "" && !index.ValidDataset(datasetName) {
			return fmt.Errorf("invalid dataset %q: only letters, digits, '_' and '-' are allowed", datasetName)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			logCleanup()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "osm_import.db", "bbolt database holding the indices")
	pf.Uint32("city-level", config.DEFAULT_CITY_LEVEL, "administrative level of cities")
	pf.Int("threads", 4, "worker count of the transform stage")
	pf.Int("batch-size", index.DEFAULT_BATCH_SIZE, "documents per bulk transaction")
	pf.Int("log-level", 0, "-1 debug, 0 info, 1 warn, 2 error")

	_ = viper.BindPFlag("DB_PATH", pf.Lookup("db"))
	_ = viper.BindPFlag("CITY_LEVEL", pf.Lookup("city-level"))
	_ = viper.BindPFlag("THREADS", pf.Lookup("threads"))
	_ = viper.BindPFlag("BATCH_SIZE", pf.Lookup("batch-size"))
	_ = viper.BindPFlag("LOG_LEVEL", pf.Lookup("log-level"))

	for _, cmd := range []*cobra.Command{streetsCmd, banoCmd, openAddressesCmd} {
		f := cmd.Flags()
		f.StringVar(&datasetName, "dataset", "", "logical dataset name the index is published under")
		f.StringVar(&regionsFile, "regions", "", "json file of administrative regions")
		f.BoolVar(&dryRun, "dry-run", false, "index in memory and only report counts")
		_ = cmd.MarkFlagRequired("dataset")
	}

	streetsCmd.Flags().BoolVar(&privateImport, "private", false, "publish without adding the index to the public alias")

	rootCmd.AddCommand(streetsCmd, banoCmd, openAddressesCmd, serveCmd)
}

// newClient opens the destination index store. The cleanup func is never nil.
func newClient() (index.Client, func(), error) {
	if dryRun {
		return index.NewMemoryClient(), func() {}, nil
	}
	db, cleanup, err := kv_di.New(cfg, log)
	if err != nil {
		return nil, func() {}, err
	}
	return db, cleanup, nil
}

func loadFinder() (*admin.GeoFinder, error) {
	if regionsFile == "" {
		log.Warn("no regions file, documents get no administrative region")
		return admin.NewGeoFinder(nil), nil
	}
	regions, err := admin.LoadRegionsFile(regionsFile, log)
	if err != nil {
		return nil, err
	}
	return admin.NewGeoFinder(regions), nil
}

func visibility() index.Visibility {
	if privateImport {
		return index.Private
	}
	return index.Public
}
