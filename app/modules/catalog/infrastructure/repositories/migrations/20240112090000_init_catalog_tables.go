package catalogmigrations

import (
	"context"
	"fmt"

	catalogdb "github.com/platina-lab/platina-lab/app/modules/catalog/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating catalog tables...")

		if _, err := db.NewCreateTable().Model((*catalogdb.Song)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*catalogdb.Pattern)(nil)).IfNotExists().
			ForeignKey(`("song_id") REFERENCES "platina_songs" ("song_id")`).
			Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Catalog tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping catalog tables...")

		if _, err := db.NewDropTable().Model((*catalogdb.Pattern)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*catalogdb.Song)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Catalog tables dropped successfully!")
		return nil
	})
}
