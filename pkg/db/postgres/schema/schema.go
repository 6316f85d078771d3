package schema

import (
	"context"

	kpool "github.com/tigrlab/niviz-rater/pkg/db/postgres/pool"
	xe "github.com/tigrlab/niviz-rater/pkg/errors"
)

type pgSchema struct {
	pool kpool.Pool
}

// New creates the SchemaInterface of a pipeline database.
func New(pool kpool.Pool) *pgSchema {
	return &pgSchema{pool: pool}
}

// tables are created in dependency order.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS "component" (
		"id" SERIAL PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS "rating" (
		"id" SERIAL PRIMARY KEY,
		"name" VARCHAR NOT NULL,
		"component_id" INTEGER NOT NULL REFERENCES "component" ("id")
	)`,
	`CREATE TABLE IF NOT EXISTS "tablerow" (
		"name" VARCHAR PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS "tablecolumn" (
		"name" VARCHAR PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS "entity" (
		"id" SERIAL PRIMARY KEY,
		"name" VARCHAR NOT NULL,
		"rowname_id" VARCHAR NOT NULL REFERENCES "tablerow" ("name"),
		"columnname_id" VARCHAR NOT NULL REFERENCES "tablecolumn" ("name"),
		"component_id" INTEGER NOT NULL REFERENCES "component" ("id"),
		"comment" TEXT NOT NULL DEFAULT '',
		"failed" BOOLEAN,
		"rating_id" INTEGER REFERENCES "rating" ("id")
	)`,
	`CREATE TABLE IF NOT EXISTS "image" (
		"id" SERIAL PRIMARY KEY,
		"path" TEXT NOT NULL UNIQUE,
		"entity_id" INTEGER NOT NULL REFERENCES "entity" ("id")
	)`,
}

func (s *pgSchema) Ensure(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer conn.Release()

	for _, ddl := range tables {
		if _, err := conn.Exec(ctx, ddl); err != nil {
			return xe.Wrap(err)
		}
	}
	return nil
}
