// Command init_db initializes the configured niviz-rater databases.
//
// It reads the deployment configuration (NIVIZ_RATER_CONF), and for
// each configured pipeline (or the single one named as argument)
// creates its database, builds the QC index from the files under
// base_dir, and registers the pipeline in the shared registry.
//
// A pipeline that can not be initialized is logged and skipped;
// the exit code is nonzero when any pipeline failed.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/tigrlab/niviz-rater/pkg/bids"
	"github.com/tigrlab/niviz-rater/pkg/configs/rater"
	kdb "github.com/tigrlab/niviz-rater/pkg/db"
	kpg "github.com/tigrlab/niviz-rater/pkg/db/postgres"
	"github.com/tigrlab/niviz-rater/pkg/index"
	"github.com/tigrlab/niviz-rater/pkg/qcspec"
)

const envDBURI = "NIVIZ_RATER_DB"

func main() {
	configPath := flag.String("config", "", "config file path (default: $"+rater.EnvConfigPath+")")
	dbURI := flag.String("db", os.Getenv(envDBURI), "base postgres URI; must point at the shared registry database")
	flag.Parse()

	logger := log.Default()

	if *dbURI == "" {
		logger.Fatalf("no database URI: set %s or pass -db", envDBURI)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	conf, err := rater.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("can not read configuration: %s", err)
	}

	keys := conf.Keys()
	if name := flag.Arg(0); name != "" {
		key, err := rater.ParsePipelineKey(name)
		if err != nil {
			logger.Fatal(err)
		}
		if _, ok := conf.Pipeline(key); !ok {
			logger.Fatalf("pipeline %s is not in the configuration", key)
		}
		keys = []rater.PipelineKey{key}
	}

	registry, err := kpg.NewRegistry(ctx, *dbURI)
	if err != nil {
		logger.Fatalf("can not open registry database: %s", err)
	}
	defer registry.Close()

	exitCode := initializeAll(
		logger, conf, keys,
		func(key rater.PipelineKey, pipeline rater.PipelineConfig) error {
			return initializePipeline(ctx, logger, *dbURI, key, pipeline, registry)
		},
	)
	os.Exit(exitCode)
}

// initializeAll initializes each key in turn.
//
// A failing pipeline is logged and skipped, so that one broken entry
// does not block the rest. It returns 1 when any pipeline failed.
func initializeAll(
	logger *log.Logger,
	conf *rater.Config,
	keys []rater.PipelineKey,
	initialize func(key rater.PipelineKey, pipeline rater.PipelineConfig) error,
) int {
	exitCode := 0
	for _, key := range keys {
		pipeline, _ := conf.Pipeline(key)
		if err := initialize(key, pipeline); err != nil {
			logger.Printf("pipeline %s: %s", key, err)
			exitCode = 1
			continue
		}
		logger.Printf("pipeline %s: initialized", key)
	}
	return exitCode
}

func initializePipeline(
	ctx context.Context,
	logger *log.Logger,
	baseURI string,
	key rater.PipelineKey,
	pipeline rater.PipelineConfig,
	registry kdb.Registry,
) error {
	if err := pipeline.VerifyPaths(); err != nil {
		return err
	}

	entities, err := bids.LoadConfig(pipeline.BidsConfig)
	if err != nil {
		return err
	}

	spec, err := qcspec.Load(pipeline.QCSpec)
	if err != nil {
		return err
	}
	if err := qcspec.Validate(spec, entities); err != nil {
		return err
	}

	files, err := bids.Scan(pipeline.BaseDir, spec.ImageExtensions, entities)
	if err != nil {
		return err
	}
	logger.Printf("pipeline %s: %d files to index", key, len(files))

	if err := kpg.EnsureDatabase(ctx, baseURI, key.String()); err != nil {
		return err
	}
	uri, err := kpg.URIForDatabase(baseURI, key.String())
	if err != nil {
		return err
	}
	db, err := kpg.New(ctx, uri)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Schema().Ensure(ctx); err != nil {
		return err
	}
	if err := index.Build(ctx, db.Index(), spec, files, logger); err != nil {
		return err
	}

	return registry.Register(ctx, key.Study, key.Pipeline, key.String())
}
