// Package pool wraps pgxpool behind small interfaces, so that query
// code can be exercised against fakes and transactions alike.
package pool

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Queryer sends SQL.
//
// This is the interface extracted from pgxpool.Conn and pgx.Tx.
// When you need more methods found in pgx, add them.
type Queryer interface {
	// Exec sends a SQL command without result rows.
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)

	// Query sends a SQL command with result rows.
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)

	// QueryRow sends a SQL command with a single result row.
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Tx is the subset of pgx.Tx used here.
type Tx interface {
	Queryer

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Conn is a single acquired connection.
type Conn interface {
	Queryer

	Begin(ctx context.Context) (Tx, error)
	Release()
}

// Pool hands out connections.
type Pool interface {
	Acquire(ctx context.Context) (Conn, error)
	Close()
}

// Wrap adapts a *pgxpool.Pool into Pool.
func Wrap(base *pgxpool.Pool) Pool {
	return &pgxPool{base: base}
}

type pgxPool struct {
	base *pgxpool.Pool
}

func (p *pgxPool) Acquire(ctx context.Context) (Conn, error) {
	conn, err := p.base.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxConn{base: conn}, nil
}

func (p *pgxPool) Close() {
	p.base.Close()
}

type pgxConn struct {
	base *pgxpool.Conn
}

func (c *pgxConn) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	return c.base.Exec(ctx, sql, arguments...)
}

func (c *pgxConn) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return c.base.Query(ctx, sql, args...)
}

func (c *pgxConn) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return c.base.QueryRow(ctx, sql, args...)
}

func (c *pgxConn) Begin(ctx context.Context) (Tx, error) {
	tx, err := c.base.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxTx{base: tx}, nil
}

func (c *pgxConn) Release() {
	c.base.Release()
}

type pgxTx struct {
	base pgx.Tx
}

func (tx *pgxTx) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	return tx.base.Exec(ctx, sql, arguments...)
}

func (tx *pgxTx) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return tx.base.Query(ctx, sql, args...)
}

func (tx *pgxTx) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return tx.base.QueryRow(ctx, sql, args...)
}

func (tx *pgxTx) Commit(ctx context.Context) error {
	return tx.base.Commit(ctx)
}

func (tx *pgxTx) Rollback(ctx context.Context) error {
	return tx.base.Rollback(ctx)
}
