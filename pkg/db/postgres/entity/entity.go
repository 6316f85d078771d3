package entity

import (
	"context"
	"errors"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"

	kdb "github.com/tigrlab/niviz-rater/pkg/db"
	kpool "github.com/tigrlab/niviz-rater/pkg/db/postgres/pool"
	xe "github.com/tigrlab/niviz-rater/pkg/errors"
)

type pgEntity struct { // implements kdb.EntityInterface
	pool kpool.Pool
}

// New creates the EntityInterface of a pipeline database.
func New(pool kpool.Pool) *pgEntity {
	return &pgEntity{pool: pool}
}

var _ kdb.EntityInterface = &pgEntity{}

func (e *pgEntity) Summary(ctx context.Context) (kdb.Summary, error) {
	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return kdb.Summary{}, xe.Wrap(err)
	}
	defer conn.Release()

	s := kdb.Summary{}
	if err := conn.QueryRow(
		ctx,
		`
		SELECT
			(SELECT count(*) FROM "entity" WHERE "failed" IS NULL),
			(SELECT count(*) FROM "tablerow"),
			(SELECT count(*) FROM "tablecolumn"),
			(SELECT count(*) FROM "entity")
		`,
	).Scan(&s.Unrated, &s.Rows, &s.Columns, &s.Entities); err != nil {
		return kdb.Summary{}, xe.Wrap(err)
	}
	return s, nil
}

func (e *pgEntity) Spreadsheet(ctx context.Context) (kdb.Spreadsheet, error) {
	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return kdb.Spreadsheet{}, xe.Wrap(err)
	}
	defer conn.Release()

	sheet := kdb.Spreadsheet{Columns: []string{}, Rows: []kdb.Row{}}
	{
		rows, err := conn.Query(
			ctx, `SELECT "name" FROM "tablecolumn" ORDER BY "name"`,
		)
		if err != nil {
			return kdb.Spreadsheet{}, xe.Wrap(err)
		}
		defer rows.Close()
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return kdb.Spreadsheet{}, xe.Wrap(err)
			}
			sheet.Columns = append(sheet.Columns, name)
		}
	}

	rows, err := conn.Query(
		ctx,
		`
		SELECT
			e."id", e."name", e."rowname_id", e."columnname_id",
			COALESCE(r."name", ''), e."failed", e."comment"
		FROM "entity" AS e
		LEFT OUTER JOIN "rating" AS r ON e."rating_id" = r."id"
		ORDER BY e."rowname_id", e."columnname_id", e."name"
		`,
	)
	if err != nil {
		return kdb.Spreadsheet{}, xe.Wrap(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cell    kdb.Cell
			rowName string
			failed  pgtype.Bool
		)
		if err := rows.Scan(
			&cell.EntityId, &cell.Name, &rowName, &cell.ColumnName,
			&cell.Rating, &failed, &cell.Comment,
		); err != nil {
			return kdb.Spreadsheet{}, xe.Wrap(err)
		}
		cell.Status = status(failed)

		if n := len(sheet.Rows); n == 0 || sheet.Rows[n-1].Name != rowName {
			sheet.Rows = append(sheet.Rows, kdb.Row{Name: rowName, Cells: []kdb.Cell{}})
		}
		last := &sheet.Rows[len(sheet.Rows)-1]
		last.Cells = append(last.Cells, cell)
	}

	return sheet, nil
}

func (e *pgEntity) Get(ctx context.Context, id int) (kdb.EntityDetail, error) {
	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return kdb.EntityDetail{}, xe.Wrap(err)
	}
	defer conn.Release()

	detail := kdb.EntityDetail{}
	detail.Id = id

	var (
		failed   pgtype.Bool
		ratingId pgtype.Int4
	)
	if err := conn.QueryRow(
		ctx,
		`
		SELECT
			e."name", e."rowname_id", e."columnname_id", e."component_id",
			e."comment", e."failed", e."rating_id", COALESCE(r."name", '')
		FROM "entity" AS e
		LEFT OUTER JOIN "rating" AS r ON e."rating_id" = r."id"
		WHERE e."id" = $1
		`,
		id,
	).Scan(
		&detail.Name, &detail.RowName, &detail.ColumnName, &detail.ComponentId,
		&detail.Comment, &failed, &ratingId, &detail.RatingName,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return kdb.EntityDetail{}, kdb.ErrMissing
		}
		return kdb.EntityDetail{}, xe.Wrap(err)
	}
	if failed.Status == pgtype.Present {
		detail.Failed = &failed.Bool
	}
	if ratingId.Status == pgtype.Present {
		v := int(ratingId.Int)
		detail.RatingId = &v
	}

	detail.Images = []string{}
	{
		rows, err := conn.Query(
			ctx,
			`SELECT "path" FROM "image" WHERE "entity_id" = $1 ORDER BY "path"`,
			id,
		)
		if err != nil {
			return kdb.EntityDetail{}, xe.Wrap(err)
		}
		defer rows.Close()
		for rows.Next() {
			var path string
			if err := rows.Scan(&path); err != nil {
				return kdb.EntityDetail{}, xe.Wrap(err)
			}
			detail.Images = append(detail.Images, path)
		}
	}

	detail.AvailableRatings = []kdb.Rating{}
	{
		rows, err := conn.Query(
			ctx,
			`
			SELECT "id", "name", "component_id" FROM "rating"
			WHERE "component_id" = $1 ORDER BY "id"
			`,
			detail.ComponentId,
		)
		if err != nil {
			return kdb.EntityDetail{}, xe.Wrap(err)
		}
		defer rows.Close()
		for rows.Next() {
			r := kdb.Rating{}
			if err := rows.Scan(&r.Id, &r.Name, &r.ComponentId); err != nil {
				return kdb.EntityDetail{}, xe.Wrap(err)
			}
			detail.AvailableRatings = append(detail.AvailableRatings, r)
		}
	}

	return detail, nil
}

func (e *pgEntity) RatingOf(ctx context.Context, entityId int, name string) (kdb.Rating, error) {
	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return kdb.Rating{}, xe.Wrap(err)
	}
	defer conn.Release()

	r := kdb.Rating{}
	if err := conn.QueryRow(
		ctx,
		`
		SELECT r."id", r."name", r."component_id"
		FROM "rating" AS r
		INNER JOIN "entity" AS e ON e."component_id" = r."component_id"
		WHERE e."id" = $1 AND r."name" = $2
		`,
		entityId, name,
	).Scan(&r.Id, &r.Name, &r.ComponentId); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return kdb.Rating{}, kdb.ErrMissing
		}
		return kdb.Rating{}, xe.Wrap(err)
	}
	return r, nil
}

func (e *pgEntity) UpdateRating(ctx context.Context, id int, update kdb.RatingUpdate) error {
	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer conn.Release()

	tag, err := conn.Exec(
		ctx,
		`
		UPDATE "entity" SET
			"rating_id" = CASE WHEN $2::bool THEN $3::integer ELSE "rating_id" END,
			"failed"    = CASE WHEN $4::bool THEN $5::bool    ELSE "failed" END,
			"comment"   = CASE WHEN $6::bool THEN $7::text    ELSE "comment" END
		WHERE "id" = $1
		`,
		id,
		update.RatingId != nil, update.RatingId,
		update.Failed != nil, update.Failed,
		update.Comment != nil, update.Comment,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return kdb.ErrMissing
	}
	return nil
}

func status(failed pgtype.Bool) string {
	switch {
	case failed.Status != pgtype.Present:
		return ""
	case failed.Bool:
		return "Fail"
	default:
		return "Pass"
	}
}
