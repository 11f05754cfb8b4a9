package resultmigrations

import (
	"context"
	"fmt"

	resultdb "github.com/platina-lab/platina-lab/app/modules/result/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating decode_results table...")

		if _, err := db.NewCreateTable().Model((*resultdb.DecodeResult)(nil)).IfNotExists().
			ForeignKey(`("decoder") REFERENCES "decoders" ("name")`).
			ForeignKey(`("song_id") REFERENCES "platina_songs" ("song_id")`).
			Exec(ctx); err != nil {
			return err
		}

		// The ranking engine reads per-decoder slices ordered by patch.
		if _, err := db.NewCreateIndex().
			Model((*resultdb.DecodeResult)(nil)).
			Index("idx_decode_results_ranking").
			Column("decoder", "line", "difficulty").
			ColumnExpr("patch DESC").
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}

		fmt.Println("decode_results table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping decode_results table...")

		if _, err := db.NewDropTable().Model((*resultdb.DecodeResult)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("decode_results table dropped successfully!")
		return nil
	})
}
