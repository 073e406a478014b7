package main

import (
	"github.com/lintang-b-s/osm-import/pkg/address"
	"github.com/lintang-b-s/osm-import/pkg/admin"
	"github.com/lintang-b-s/osm-import/pkg/datastructure"
	"github.com/lintang-b-s/osm-import/pkg/index"
	"github.com/lintang-b-s/osm-import/pkg/ingest"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	withGzip bool
	noHeader bool
)

var banoCmd = &cobra.Command{
	Use:     "bano [files...]",
	Short:   "Import BANO csv files",
	Example: "  osm-import bano --dataset fr --regions regions.json --gzip bano-75.csv.gz bano-92.csv.gz",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return importAddresses(cmd, args, address.NewBanoConverter)
	},
}

var openAddressesCmd = &cobra.Command{
	Use:     "openaddresses [files...]",
	Short:   "Import OpenAddresses csv files",
	Example: "  osm-import openaddresses --dataset fr --regions regions.json fr/countrywide.csv",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return importAddresses(cmd, args, address.NewOpenAddressesConverter)
	},
}

func importAddresses[T any](cmd *cobra.Command, files []string,
	newConverter func(admin.Finder, uint32) address.Converter[T]) error {
	ctx := cmd.Context()

	finder, err := loadFinder()
	if err != nil {
		return eris.Wrapf(err, "%s: load regions", cmd.Name())
	}

	client, cleanup, err := newClient()
	if err != nil {
		return eris.Wrapf(err, "%s: open index store", cmd.Name())
	}
	defer cleanup()

	opts := ingest.Options{
		Dataset:    datasetName,
		Settings:   index.Settings{DocType: datastructure.ADDRESS_DOC_TYPE, BatchSize: cfg.BatchSize},
		HasHeaders: !noHeader,
		Gzip:       withGzip,
		Threads:    cfg.Threads,
	}
	n, err := ingest.ImportAddresses[T](ctx, client, opts, files, newConverter(finder, cfg.CityLevel), log)
	if err != nil {
		log.Error("address import failed", zap.String("source", cmd.Name()), zap.Error(err))
		return err
	}

	log.Info("importing addresses: addresses added", zap.String("source", cmd.Name()), zap.Int("addresses", n),
		zap.Bool("dry_run", dryRun))
	return nil
}

func init() {
	for _, cmd := range []*cobra.Command{banoCmd, openAddressesCmd} {
		cmd.Flags().BoolVar(&withGzip, "gzip", false, "input files are gzip compressed")
		cmd.Flags().BoolVar(&noHeader, "no-header", false, "input files have no header line")
	}
}
