package progressdb

import (
	"context"
	"fmt"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/uptrace/bun"
)

// ProgressDBImpl implements Repository using bun.
type ProgressDBImpl struct{}

var _ Repository = (*ProgressDBImpl)(nil)

func (r *ProgressDBImpl) Latest(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName) (map[sharedtypes.LineLabel]Snapshot, error) {
	var rows []Snapshot
	err := db.NewSelect().
		Model(&rows).
		DistinctOn("label").
		Where("decoder = ?", decoder).
		Order("label").
		OrderExpr("recorded_at DESC").
		OrderExpr("id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest snapshots: %w", err)
	}

	latest := make(map[sharedtypes.LineLabel]Snapshot, len(rows))
	for _, row := range rows {
		latest[row.Label] = row
	}
	return latest, nil
}

func (r *ProgressDBImpl) Append(ctx context.Context, db bun.IDB, snapshot *Snapshot) error {
	if _, err := db.NewInsert().Model(snapshot).Exec(ctx); err != nil {
		return fmt.Errorf("failed to append snapshot: %w", err)
	}
	return nil
}

func (r *ProgressDBImpl) History(ctx context.Context, db bun.IDB, decoder sharedtypes.DecoderName, label sharedtypes.LineLabel) ([]Snapshot, error) {
	var rows []Snapshot
	err := db.NewSelect().
		Model(&rows).
		Where("decoder = ?", decoder).
		Where("label = ?", label).
		Order("recorded_at ASC").
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot history: %w", err)
	}
	return rows, nil
}
