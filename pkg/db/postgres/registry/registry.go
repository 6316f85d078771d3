// Package registry records initialized pipelines in the shared
// dashboard database, so the host can discover them.
package registry

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	kdb "github.com/tigrlab/niviz-rater/pkg/db"
	kpool "github.com/tigrlab/niviz-rater/pkg/db/postgres/pool"
	xe "github.com/tigrlab/niviz-rater/pkg/errors"
)

type pgRegistry struct { // implements kdb.Registry
	base *pgxpool.Pool
	pool kpool.Pool
}

func New(base *pgxpool.Pool, pool kpool.Pool) *pgRegistry {
	return &pgRegistry{base: base, pool: pool}
}

var _ kdb.Registry = &pgRegistry{}

func (r *pgRegistry) Register(ctx context.Context, study string, pipeline string, displayName string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer conn.Release()

	if _, err := conn.Exec(
		ctx,
		`
		CREATE TABLE IF NOT EXISTS "pipeline" (
			"study" VARCHAR NOT NULL,
			"pipeline" VARCHAR NOT NULL,
			"display_name" VARCHAR NOT NULL,
			"registered_at" TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
			PRIMARY KEY ("study", "pipeline")
		)
		`,
	); err != nil {
		return xe.Wrap(err)
	}

	if _, err := conn.Exec(
		ctx,
		`
		INSERT INTO "pipeline" ("study", "pipeline", "display_name")
		VALUES ($1, $2, $3)
		ON CONFLICT ("study", "pipeline")
		DO UPDATE SET "display_name" = EXCLUDED."display_name"
		`,
		study, pipeline, displayName,
	); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (r *pgRegistry) Close() {
	r.base.Close()
}
