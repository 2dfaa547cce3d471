package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"sync"
)

// stubConn is a recording database/sql/driver connection. It captures every
// statement and its arguments and replays a configurable row set, letting the
// store tests assert the exact SQL the store emits without a live server.
type stubConn struct {
	mu       sync.Mutex
	calls    []stubCall
	columns  []string
	rows     [][]driver.Value
	affected int64
	execErr  error
	queryErr error
}

type stubCall struct {
	query string
	args  []driver.Value
}

var (
	_ driver.Conn           = (*stubConn)(nil)
	_ driver.Pinger         = (*stubConn)(nil)
	_ driver.ExecerContext  = (*stubConn)(nil)
	_ driver.QueryerContext = (*stubConn)(nil)
)

func (c *stubConn) record(query string, args []driver.NamedValue) {
	values := make([]driver.Value, len(args))
	for i, a := range args {
		values[i] = a.Value
	}
	c.mu.Lock()
	c.calls = append(c.calls, stubCall{query: query, args: values})
	c.mu.Unlock()
}

func (c *stubConn) lastCall() stubCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.calls) == 0 {
		return stubCall{}
	}
	return c.calls[len(c.calls)-1]
}

func (c *stubConn) setRows(columns []string, rows [][]driver.Value) {
	c.mu.Lock()
	c.columns = columns
	c.rows = rows
	c.mu.Unlock()
}

func (c *stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported by stub")
}

func (c *stubConn) Close() error { return nil }

func (c *stubConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported by stub")
}

func (c *stubConn) Ping(context.Context) error { return nil }

func (c *stubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.record(query, args)
	if c.execErr != nil {
		return nil, c.execErr
	}
	return driver.RowsAffected(c.affected), nil
}

func (c *stubConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.record(query, args)
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := make([][]driver.Value, len(c.rows))
	for i, row := range c.rows {
		rows[i] = append([]driver.Value(nil), row...)
	}
	return &stubRows{columns: append([]string(nil), c.columns...), rows: rows}, nil
}

type stubRows struct {
	columns []string
	rows    [][]driver.Value
	pos     int
}

func (r *stubRows) Columns() []string { return r.columns }

func (r *stubRows) Close() error { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}

type stubConnector struct {
	conn *stubConn
}

func (c *stubConnector) Connect(context.Context) (driver.Conn, error) { return c.conn, nil }

func (c *stubConnector) Driver() driver.Driver { return stubDriver{} }

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("open by name not supported by stub")
}

// openStub wires a fresh stub connection behind the package-level open hook
// and returns it alongside the restore function.
func openStub() (*stubConn, func()) {
	conn := &stubConn{affected: 1}
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) {
		return sql.OpenDB(&stubConnector{conn: conn}), nil
	})
	return conn, restore
}
