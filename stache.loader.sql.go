package stache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// SQLConfig configures a database backed partial store.
type SQLConfig struct {
	// TablePrefix is prepended to the partials table name.
	// Only letters, digits and underscores are accepted.
	// Default: "stache_"
	TablePrefix string

	// QueryTimeout bounds every query.
	// Default: 30 seconds
	QueryTimeout time.Duration

	// MaxOpenConns is the maximum number of open connections.
	// Default: 25 (1 for SQLite)
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime.
	// Default: 5 minutes
	ConnMaxLifetime time.Duration

	// SkipMigrate leaves table creation to the caller (see Migrate).
	// Default: false, the partials table is created on open
	SkipMigrate bool
}

// DefaultSQLConfig returns a configuration with sensible defaults.
func DefaultSQLConfig() SQLConfig {
	return SQLConfig{
		TablePrefix:     DefaultSQLTablePrefix,
		QueryTimeout:    DefaultSQLQueryTimeout,
		MaxOpenConns:    DefaultSQLMaxOpenConns,
		MaxIdleConns:    DefaultSQLMaxIdleConns,
		ConnMaxLifetime: DefaultSQLConnMaxLifetime,
	}
}

// withDefaults fills zero fields.
func (c SQLConfig) withDefaults() SQLConfig {
	d := DefaultSQLConfig()
	if c.TablePrefix == "" {
		c.TablePrefix = d.TablePrefix
	}
	if c.QueryTimeout == 0 {
		c.QueryTimeout = d.QueryTimeout
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = d.MaxOpenConns
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = d.MaxIdleConns
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = d.ConnMaxLifetime
	}
	return c
}

// sqlDialect holds the statements for one database. Each statement has a
// single %s verb for the table name.
type sqlDialect struct {
	name        string
	createTable string
	load        string
	upsert      string
	remove      string
	names       string
}

// SQLLoader stores partials in a single database table:
//
//	<prefix>partials(name PRIMARY KEY, source, updated_at)
//
// It implements PartialStore and is safe for concurrent use.
type SQLLoader struct {
	db      *sql.DB
	dialect sqlDialect
	config  SQLConfig
	table   string
	mu      sync.RWMutex
	closed  bool
}

// newSQLLoader configures the pool, verifies the connection and migrates.
// It takes ownership of db and closes it on failure.
func newSQLLoader(db *sql.DB, dialect sqlDialect, config SQLConfig) (*SQLLoader, error) {
	if !validTablePrefix(config.TablePrefix) {
		db.Close()
		return nil, NewLoaderConfigError(ErrMsgInvalidTablePrefix)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), config.QueryTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, NewLoaderError(ErrMsgDatabaseOpen, dialect.name, err)
	}

	loader := &SQLLoader{
		db:      db,
		dialect: dialect,
		config:  config,
		table:   config.TablePrefix + SQLPartialsTableSuffix,
	}

	if !config.SkipMigrate {
		if err := loader.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}
	return loader, nil
}

// Migrate creates the partials table if it does not exist.
func (l *SQLLoader) Migrate(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, l.query(l.dialect.createTable)); err != nil {
		return NewLoaderError(ErrMsgDatabaseMigrate, l.table, err)
	}
	return nil
}

// Load returns the source stored under name.
func (l *SQLLoader) Load(ctx context.Context, name string) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return "", NewLoaderClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, l.config.QueryTimeout)
	defer cancel()

	var source string
	err := l.db.QueryRowContext(ctx, l.query(l.dialect.load), name).Scan(&source)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", NewPartialNotFoundError(name)
		}
		return "", NewLoaderError(ErrMsgDatabaseQuery, name, err)
	}
	return source, nil
}

// Save creates or replaces a partial.
func (l *SQLLoader) Save(ctx context.Context, name, source string) error {
	if name == "" {
		return NewInvalidPartialNameError(name)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return NewLoaderClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, l.config.QueryTimeout)
	defer cancel()

	if _, err := l.db.ExecContext(ctx, l.query(l.dialect.upsert), name, source, time.Now().UTC()); err != nil {
		return NewLoaderError(ErrMsgDatabaseQuery, name, err)
	}
	return nil
}

// Delete removes a partial.
func (l *SQLLoader) Delete(ctx context.Context, name string) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return NewLoaderClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, l.config.QueryTimeout)
	defer cancel()

	res, err := l.db.ExecContext(ctx, l.query(l.dialect.remove), name)
	if err != nil {
		return NewLoaderError(ErrMsgDatabaseQuery, name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return NewLoaderError(ErrMsgDatabaseQuery, name, err)
	}
	if n == 0 {
		return NewPartialNotFoundError(name)
	}
	return nil
}

// Names returns all partial names in sorted order.
func (l *SQLLoader) Names(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return nil, NewLoaderClosedError()
	}

	ctx, cancel := context.WithTimeout(ctx, l.config.QueryTimeout)
	defer cancel()

	rows, err := l.db.QueryContext(ctx, l.query(l.dialect.names))
	if err != nil {
		return nil, NewLoaderError(ErrMsgDatabaseQuery, l.table, err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, NewLoaderError(ErrMsgDatabaseQuery, l.table, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, NewLoaderError(ErrMsgDatabaseQuery, l.table, err)
	}
	return names, nil
}

// Close closes the database connection.
func (l *SQLLoader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.db.Close()
}

// Table returns the partials table name.
func (l *SQLLoader) Table() string {
	return l.table
}

// DB returns the underlying database handle.
func (l *SQLLoader) DB() *sql.DB {
	return l.db
}

func (l *SQLLoader) query(stmt string) string {
	return fmt.Sprintf(stmt, l.table)
}

func validTablePrefix(prefix string) bool {
	for i := 0; i < len(prefix); i++ {
		ch := prefix[i]
		if !((ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_') {
			return false
		}
	}
	return prefix != ""
}
