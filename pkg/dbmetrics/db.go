package dbmetrics

import (
	"context"
	"database/sql"
	"time"
)

// DBExecutor общий интерфейс для *sql.DB, *sql.Tx и обёрток над ними
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor транзакция
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

// Observer получатель метрик (реализуется pkg/metrics.Metrics)
type Observer interface {
	ObserveDBQuery(operation string, duration time.Duration)
	SetDBStats(db string, open, inUse, idle int, waitCount int64)
}

// DB обёртка над *sql.DB, фиксирующая длительность запросов
type DB struct {
	db       *sql.DB
	observer Observer
}

// Wrap оборачивает *sql.DB. observer может быть nil.
func Wrap(db *sql.DB, observer Observer) *DB {
	return &DB{db: db, observer: observer}
}

// WrapWithDefault оборачивает *sql.DB и запускает сбор статистики пула
// соединений каждые 15 секунд, пока не закрыт stopCh.
func WrapWithDefault(db *sql.DB, observer Observer, name string, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, observer)
	if observer != nil {
		go wrapped.collectStats(name, 15*time.Second, stopCh)
	}
	return wrapped
}

func (d *DB) collectStats(name string, interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		stats := d.db.Stats()
		d.observer.SetDBStats(name, stats.OpenConnections, stats.InUse, stats.Idle, stats.WaitCount)

		select {
		case <-stopCh:
			return
		case <-ticker.C:
		}
	}
}

func (d *DB) observe(operation string, start time.Time) {
	if d.observer != nil {
		d.observer.ObserveDBQuery(operation, time.Since(start))
	}
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer d.observe("exec", time.Now())
	return d.db.ExecContext(ctx, query, args...)
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer d.observe("query", time.Now())
	return d.db.QueryContext(ctx, query, args...)
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer d.observe("query_row", time.Now())
	return d.db.QueryRowContext(ctx, query, args...)
}

// BeginTx начинает транзакцию
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, observer: d.observer}, nil
}

// Tx обёртка над *sql.Tx
type Tx struct {
	tx       *sql.Tx
	observer Observer
}

func (t *Tx) observe(operation string, start time.Time) {
	if t.observer != nil {
		t.observer.ObserveDBQuery(operation, time.Since(start))
	}
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer t.observe("tx_exec", time.Now())
	return t.tx.ExecContext(ctx, query, args...)
}

func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer t.observe("tx_query", time.Now())
	return t.tx.QueryContext(ctx, query, args...)
}

func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer t.observe("tx_query_row", time.Now())
	return t.tx.QueryRowContext(ctx, query, args...)
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}
