package main

import (
	"fmt"

	"github.com/arloliu/geoblob/column"
	"github.com/arloliu/geoblob/encoding/geojson"
	"github.com/arloliu/geoblob/encoding/wkb"
	"github.com/arloliu/geoblob/encoding/wkt"
	"github.com/arloliu/geoblob/internal/config"
	"github.com/arloliu/geoblob/normalize"
	"github.com/arloliu/geoblob/shapefile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds the state shared by every subcommand.
type app struct {
	configFile string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "geoblob",
		Short: "Convert and store geometries.",
		Long: `geoblob converts geometries between WKT, WKB, GeoJSON and the native blob format,
and stores batches of blobs in compressed column chunks.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.startup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "TOML configuration file location")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level, overrides the configuration file")

	root.AddCommand(
		newConvertCmd(a),
		newInfoCmd(a),
		newShpCmd(a),
		newColumnCmd(a),
	)

	return root
}

// startup loads the configuration and installs the logger in every library package.
func (a *app) startup() error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger

	column.SetLogger(logger.Named("column"))
	shapefile.SetLogger(logger.Named("shapefile"))
	normalize.SetLogger(logger.Named("normalize"))
	wkt.SetLogger(logger.Named("wkt"))
	wkb.SetLogger(logger.Named("wkb"))
	geojson.SetLogger(logger.Named("geojson"))

	logger.Debug("configuration loaded",
		zap.String("file", a.configFile),
		zap.String("compression", cfg.Column.Compression),
		zap.Int("max_depth", cfg.Reader.MaxDepth),
	)

	return nil
}
