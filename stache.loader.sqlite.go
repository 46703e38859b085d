package stache

// sqliteDialect uses ? placeholders; upsert needs SQLite 3.24 or later.
var sqliteDialect = sqlDialect{
	name: LoaderDriverSQLite,
	createTable: `
		CREATE TABLE IF NOT EXISTS %s (
			name       TEXT PRIMARY KEY,
			source     TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	load: `SELECT source FROM %s WHERE name = ?`,
	upsert: `
		INSERT INTO %s (name, source, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE
		SET source = excluded.source, updated_at = excluded.updated_at`,
	remove: `DELETE FROM %s WHERE name = ?`,
	names:  `SELECT name FROM %s ORDER BY name`,
}

// SQLiteLoaderDriver is the driver for creating SQLite backed stores.
type SQLiteLoaderDriver struct{}

func init() {
	RegisterLoaderDriver(LoaderDriverSQLite, &SQLiteLoaderDriver{})
}

// Open creates a SQLite store with the default configuration. The
// connection string is the database file path or DSN.
func (d *SQLiteLoaderDriver) Open(connectionString string) (PartialStore, error) {
	return NewSQLiteLoader(connectionString, DefaultSQLConfig())
}

// NewSQLiteLoader opens a SQLite backed partial store. The pure Go driver is
// used unless the binary is built with the cgo_sqlite tag.
func NewSQLiteLoader(dataSource string, config SQLConfig) (*SQLLoader, error) {
	if dataSource == "" {
		return nil, NewLoaderConfigError(ErrMsgEmptyConnString)
	}
	config = config.withDefaults()
	// A single long-lived connection keeps ":memory:" databases alive.
	config.MaxOpenConns = SQLiteMaxOpenConns
	config.MaxIdleConns = SQLiteMaxOpenConns
	config.ConnMaxLifetime = 0

	db, err := openSQLite(dataSource)
	if err != nil {
		return nil, NewLoaderError(ErrMsgDatabaseOpen, LoaderDriverSQLite, err)
	}
	return newSQLLoader(db, sqliteDialect, config)
}
