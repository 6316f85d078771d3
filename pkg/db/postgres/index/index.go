package index

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"

	kdb "github.com/tigrlab/niviz-rater/pkg/db"
	kpool "github.com/tigrlab/niviz-rater/pkg/db/postgres/pool"
	xe "github.com/tigrlab/niviz-rater/pkg/errors"
)

type pgIndex struct { // implements kdb.IndexInterface
	pool kpool.Pool
}

// New creates the IndexInterface of a pipeline database.
func New(pool kpool.Pool) *pgIndex {
	return &pgIndex{pool: pool}
}

var _ kdb.IndexInterface = &pgIndex{}

func (i *pgIndex) AddComponent(ctx context.Context) (int, error) {
	conn, err := i.pool.Acquire(ctx)
	if err != nil {
		return 0, xe.Wrap(err)
	}
	defer conn.Release()

	var id int
	if err := conn.QueryRow(
		ctx, `INSERT INTO "component" DEFAULT VALUES RETURNING "id"`,
	).Scan(&id); err != nil {
		return 0, xe.Wrap(err)
	}
	return id, nil
}

func (i *pgIndex) AddRatings(ctx context.Context, componentId int, names []string) error {
	conn, err := i.pool.Acquire(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer conn.Release()

	for _, name := range names {
		if _, err := conn.Exec(
			ctx,
			`INSERT INTO "rating" ("name", "component_id") VALUES ($1, $2)`,
			name, componentId,
		); err != nil {
			return xe.WrapWithNote("rating "+name, err)
		}
	}
	return nil
}

func (i *pgIndex) EnsureRows(ctx context.Context, names []string) error {
	return i.ensureNames(ctx, `INSERT INTO "tablerow" ("name") VALUES ($1)`, names)
}

func (i *pgIndex) EnsureColumns(ctx context.Context, names []string) error {
	return i.ensureNames(ctx, `INSERT INTO "tablecolumn" ("name") VALUES ($1)`, names)
}

// ensureNames inserts each name, skipping ones already known.
//
// Different components legitimately share rows and columns, so
// unique violations are not errors here.
func (i *pgIndex) ensureNames(ctx context.Context, query string, names []string) error {
	conn, err := i.pool.Acquire(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer conn.Release()

	for _, name := range names {
		if _, err := conn.Exec(ctx, query, name); err != nil {
			if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) &&
				pgerr.Code == pgerrcode.UniqueViolation {
				continue
			}
			return xe.WrapWithNote(name, err)
		}
	}
	return nil
}

func (i *pgIndex) AddEntity(ctx context.Context, entity kdb.Entity) (int, error) {
	conn, err := i.pool.Acquire(ctx)
	if err != nil {
		return 0, xe.Wrap(err)
	}
	defer conn.Release()

	var id int
	if err := conn.QueryRow(
		ctx,
		`
		INSERT INTO "entity" ("name", "rowname_id", "columnname_id", "component_id", "comment")
		VALUES ($1, $2, $3, $4, $5)
		RETURNING "id"
		`,
		entity.Name, entity.RowName, entity.ColumnName, entity.ComponentId, entity.Comment,
	).Scan(&id); err != nil {
		return 0, xe.WrapWithNote("entity "+entity.Name, err)
	}
	return id, nil
}

func (i *pgIndex) AddImages(ctx context.Context, entityId int, paths []string) error {
	conn, err := i.pool.Acquire(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer conn.Release()

	for _, path := range paths {
		if _, err := conn.Exec(
			ctx,
			`INSERT INTO "image" ("path", "entity_id") VALUES ($1, $2)`,
			path, entityId,
		); err != nil {
			return xe.WrapWithNote("image "+path, err)
		}
	}
	return nil
}
