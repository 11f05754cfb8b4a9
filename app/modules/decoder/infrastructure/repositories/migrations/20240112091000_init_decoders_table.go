package decodermigrations

import (
	"context"
	"fmt"

	decoderdb "github.com/platina-lab/platina-lab/app/modules/decoder/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating decoders table...")

		if _, err := db.NewCreateTable().Model((*decoderdb.Decoder)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Decoders table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping decoders table...")

		if _, err := db.NewDropTable().Model((*decoderdb.Decoder)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Decoders table dropped successfully!")
		return nil
	})
}
