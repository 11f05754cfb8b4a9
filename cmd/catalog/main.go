package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"

	"github.com/platina-lab/platina-lab/app/modules/catalog/infrastructure/importer"
	catalogdb "github.com/platina-lab/platina-lab/app/modules/catalog/infrastructure/repositories"
	"github.com/platina-lab/platina-lab/config"
)

func main() {
	app := &cli.App{
		Name:  "catalog",
		Usage: "song and pattern reference data tooling",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "path to the configuration file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "replace the catalog from an xlsx workbook",
				ArgsUsage: "<workbook.xlsx>",
				Action:    runImport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runImport(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("workbook path is required")
	}

	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	songs, patterns, err := importer.LoadWorkbook(path)
	if err != nil {
		return fmt.Errorf("failed to load workbook: %w", err)
	}
	fmt.Printf("Parsed %d songs and %d patterns from %s\n", len(songs), len(patterns), path)

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())
	defer db.Close()

	repo := &catalogdb.CatalogDBImpl{}
	if err := repo.ReplaceAll(c.Context, db, songs, patterns); err != nil {
		return fmt.Errorf("failed to replace catalog: %w", err)
	}

	fmt.Println("Catalog import complete!")
	return nil
}
