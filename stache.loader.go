package stache

import (
	"context"
	"sort"
	"sync"
)

// PartialLoader resolves a partial name to template text. It is called
// synchronously while a partial tag is rendered; its error is returned to
// the Render caller unchanged.
//
// Implementations used by a shared Engine must be safe for concurrent use.
type PartialLoader interface {
	Load(ctx context.Context, name string) (string, error)
}

// PartialLoaderFunc adapts a function to PartialLoader.
type PartialLoaderFunc func(ctx context.Context, name string) (string, error)

// Load calls f.
func (f PartialLoaderFunc) Load(ctx context.Context, name string) (string, error) {
	return f(ctx, name)
}

// PartialStore is a loader whose contents can be listed and changed.
type PartialStore interface {
	PartialLoader

	// Save creates or replaces the partial name.
	Save(ctx context.Context, name, source string) error

	// Delete removes the partial name.
	// Returns ErrPartialNotFound if it doesn't exist.
	Delete(ctx context.Context, name string) error

	// Names returns all partial names in sorted order.
	Names(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}

// LoaderDriver is a factory for partial stores.
// Drivers register themselves during init().
type LoaderDriver interface {
	// Open creates a store from a driver-specific connection string.
	Open(connectionString string) (PartialStore, error)
}

var (
	loaderDriversMu sync.RWMutex
	loaderDrivers   = make(map[string]LoaderDriver)
)

// RegisterLoaderDriver registers a loader driver by name.
// Panics if driver is nil or the name is taken.
func RegisterLoaderDriver(name string, driver LoaderDriver) {
	loaderDriversMu.Lock()
	defer loaderDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilLoaderDriver)
	}
	if _, exists := loaderDrivers[name]; exists {
		panic(ErrMsgLoaderDriverExists + ": " + name)
	}
	loaderDrivers[name] = driver
}

// OpenLoader opens a partial store using the named driver.
//
// Example:
//
//	store, err := stache.OpenLoader("memory", "")
//	store, err := stache.OpenLoader("filesystem", "/path/to/partials")
//	store, err := stache.OpenLoader("sqlite", "file:partials.db")
func OpenLoader(driverName, connectionString string) (PartialStore, error) {
	loaderDriversMu.RLock()
	driver, ok := loaderDrivers[driverName]
	loaderDriversMu.RUnlock()

	if !ok {
		return nil, NewUnknownLoaderDriverError(driverName)
	}
	return driver.Open(connectionString)
}

// ListLoaderDrivers returns the names of all registered drivers in sorted order.
func ListLoaderDrivers() []string {
	loaderDriversMu.RLock()
	defer loaderDriversMu.RUnlock()

	names := make([]string, 0, len(loaderDrivers))
	for name := range loaderDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Loader driver registry messages
const (
	ErrMsgNilLoaderDriver    = "loader driver is nil"
	ErrMsgLoaderDriverExists = "loader driver already registered"
)
