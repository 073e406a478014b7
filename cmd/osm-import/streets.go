package main

import (
	"slices"

	"github.com/lintang-b-s/osm-import/pkg/datastructure"
	"github.com/lintang-b-s/osm-import/pkg/geo"
	"github.com/lintang-b-s/osm-import/pkg/index"
	"github.com/lintang-b-s/osm-import/pkg/street"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var osmFile string

var streetsCmd = &cobra.Command{
	Use:     "streets",
	Short:   "Extract streets from an osm pbf or xml file and publish them",
	Example: "  osm-import streets --input ile-de-france.osm.pbf --regions regions.json --dataset fr",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		finder, err := loadFinder()
		if err != nil {
			return eris.Wrap(err, "streets: load regions")
		}

		graph, err := geo.LoadObjects(ctx, osmFile, street.IsStreetObject, log)
		if err != nil {
			return eris.Wrap(err, "streets: load osm objects")
		}

		streets := street.NewExtractor(graph, finder, cfg.CityLevel, log).Streets()
		street.ComputeStreetWeight(streets, cfg.CityLevel)

		client, cleanup, err := newClient()
		if err != nil {
			return eris.Wrap(err, "streets: open index store")
		}
		defer cleanup()

		settings := index.Settings{DocType: datastructure.STREET_DOC_TYPE, BatchSize: cfg.BatchSize}
		n, err := index.Import(ctx, client, datasetName, settings,
			index.Documents(slices.Values(streets)), visibility(), log)
		if err != nil {
			log.Error("street import failed", zap.Error(err))
			return err
		}

		log.Info("importing streets: streets added", zap.Int("streets", n), zap.Bool("dry_run", dryRun))
		return nil
	},
}

func init() {
	streetsCmd.Flags().StringVar(&osmFile, "input", "", "osm file, .osm files are read as xml and anything else as pbf")
	_ = streetsCmd.MarkFlagRequired("input")
}
