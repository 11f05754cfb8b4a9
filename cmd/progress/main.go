package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/otel/trace/noop"

	catalogservice "github.com/platina-lab/platina-lab/app/modules/catalog/application"
	catalogdb "github.com/platina-lab/platina-lab/app/modules/catalog/infrastructure/repositories"
	decoderservice "github.com/platina-lab/platina-lab/app/modules/decoder/application"
	decoderdb "github.com/platina-lab/platina-lab/app/modules/decoder/infrastructure/repositories"
	progressservice "github.com/platina-lab/platina-lab/app/modules/progress/application"
	progressdb "github.com/platina-lab/platina-lab/app/modules/progress/infrastructure/repositories"
	rankingservice "github.com/platina-lab/platina-lab/app/modules/ranking/application"
	resultdb "github.com/platina-lab/platina-lab/app/modules/result/infrastructure/repositories"
	"github.com/platina-lab/platina-lab/config"
	"github.com/platina-lab/platina-lab/internal/observability"
)

// One-shot progress sweep: recompute every decoder's top-50 totals and
// append snapshots for the ones that improved. The running service does this
// on a schedule; this binary exists for cron-style and manual runs.
func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := observability.NewLogger(cfg.Environment)
	tracer := noop.NewTracerProvider().Tracer("progress-sweep")

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())
	defer db.Close()

	catalog := catalogservice.NewCatalogService(&catalogdb.CatalogDBImpl{}, db, logger, tracer)
	decoders := decoderservice.NewDecoderService(&decoderdb.DecoderDBImpl{}, db, logger, observability.NoOpMetrics{}, tracer)
	ranking := rankingservice.NewRankingService(&resultdb.ResultDBImpl{}, catalog, db, logger, tracer)
	progress := progressservice.NewProgressService(
		&progressdb.ProgressDBImpl{},
		ranking,
		decoders,
		db,
		logger,
		observability.NoOpMetrics{},
		tracer,
		cfg.Progress.SweepConcurrency,
	)

	report, err := progress.Sweep(context.Background())
	if err != nil {
		log.Fatalf("sweep failed: %v", err)
	}

	fmt.Printf("Swept %d decoders: %d snapshots appended, %d failed\n",
		report.Decoders, report.Appended, report.Failed)
}
