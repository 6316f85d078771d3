// Package postgres implements pkg/db on PostgreSQL with pgx.
package postgres

import (
	"context"
	"errors"
	"net/url"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	kdb "github.com/tigrlab/niviz-rater/pkg/db"
	kpgentity "github.com/tigrlab/niviz-rater/pkg/db/postgres/entity"
	kpgindex "github.com/tigrlab/niviz-rater/pkg/db/postgres/index"
	kpool "github.com/tigrlab/niviz-rater/pkg/db/postgres/pool"
	kpgreg "github.com/tigrlab/niviz-rater/pkg/db/postgres/registry"
	kpgschema "github.com/tigrlab/niviz-rater/pkg/db/postgres/schema"
	xe "github.com/tigrlab/niviz-rater/pkg/errors"
)

type raterDBPostgres struct {
	pool     *pgxpool.Pool
	schema   kdb.SchemaInterface
	index    kdb.IndexInterface
	entities kdb.EntityInterface
}

// New opens the database at uri as a pipeline database.
func New(ctx context.Context, uri string) (kdb.RaterDatabase, error) {
	pool, err := pgxpool.Connect(ctx, uri)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	p := kpool.Wrap(pool)
	return &raterDBPostgres{
		pool:     pool,
		schema:   kpgschema.New(p),
		index:    kpgindex.New(p),
		entities: kpgentity.New(p),
	}, nil
}

func (d *raterDBPostgres) Schema() kdb.SchemaInterface {
	return d.schema
}

func (d *raterDBPostgres) Index() kdb.IndexInterface {
	return d.index
}

func (d *raterDBPostgres) Entities() kdb.EntityInterface {
	return d.entities
}

func (d *raterDBPostgres) Close() {
	d.pool.Close()
}

// NewRegistry opens the shared registry database at uri.
func NewRegistry(ctx context.Context, uri string) (kdb.Registry, error) {
	pool, err := pgxpool.Connect(ctx, uri)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return kpgreg.New(pool, kpool.Wrap(pool)), nil
}

// URIForDatabase replaces the database name of a connection URI.
func URIForDatabase(baseURI string, dbname string) (string, error) {
	u, err := url.Parse(baseURI)
	if err != nil {
		return "", xe.Wrap(err)
	}
	u.Path = "/" + dbname
	return u.String(), nil
}

// EnsureDatabase creates the named database when it does not exist.
//
// adminURI must point at an existing database of the same server.
func EnsureDatabase(ctx context.Context, adminURI string, dbname string) error {
	conn, err := pgx.Connect(ctx, adminURI)
	if err != nil {
		return xe.Wrap(err)
	}
	defer conn.Close(ctx)

	// CREATE DATABASE takes no bind parameters.
	query := "CREATE DATABASE " + pgx.Identifier{dbname}.Sanitize()
	if _, err := conn.Exec(ctx, query); err != nil {
		if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) &&
			pgerr.Code == pgerrcode.DuplicateDatabase {
			return nil
		}
		return xe.Wrap(err)
	}
	return nil
}
