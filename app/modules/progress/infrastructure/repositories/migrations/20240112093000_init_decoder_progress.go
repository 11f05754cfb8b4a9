package progressmigrations

import (
	"context"
	"fmt"

	progressdb "github.com/platina-lab/platina-lab/app/modules/progress/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating decoder_progress table...")

		if _, err := db.NewCreateTable().
			Model((*progressdb.Snapshot)(nil)).
			IfNotExists().
			ForeignKey(`("decoder") REFERENCES "decoders" ("name") ON DELETE CASCADE`).
			Exec(ctx); err != nil {
			return err
		}

		// Latest-per-label and history reads both scan this prefix.
		if _, err := db.NewCreateIndex().
			Model((*progressdb.Snapshot)(nil)).
			IfNotExists().
			Index("idx_decoder_progress_lookup").
			Column("decoder", "label", "recorded_at").
			Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Decoder progress table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping decoder_progress table...")

		if _, err := db.NewDropTable().Model((*progressdb.Snapshot)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Decoder progress table dropped successfully!")
		return nil
	})
}
