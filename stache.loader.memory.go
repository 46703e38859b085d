package stache

import (
	"context"
	"sort"
	"sync"
)

// MemoryLoader is an in-memory PartialStore.
// It is primarily intended for tests and for partials embedded in a program.
type MemoryLoader struct {
	mu       sync.RWMutex
	partials map[string]string
	closed   bool
}

// MemoryLoaderDriver is the driver for creating MemoryLoader instances.
type MemoryLoaderDriver struct{}

func init() {
	RegisterLoaderDriver(LoaderDriverMemory, &MemoryLoaderDriver{})
}

// Open creates a new MemoryLoader. The connection string is ignored.
func (d *MemoryLoaderDriver) Open(connectionString string) (PartialStore, error) {
	return NewMemoryLoader(nil), nil
}

// NewMemoryLoader creates a loader seeded with a copy of partials.
func NewMemoryLoader(partials map[string]string) *MemoryLoader {
	m := make(map[string]string, len(partials))
	for k, v := range partials {
		m[k] = v
	}
	return &MemoryLoader{partials: m}
}

// Load returns the source stored under name.
func (l *MemoryLoader) Load(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return "", NewLoaderClosedError()
	}
	source, ok := l.partials[name]
	if !ok {
		return "", NewPartialNotFoundError(name)
	}
	return source, nil
}

// Save creates or replaces a partial.
func (l *MemoryLoader) Save(ctx context.Context, name, source string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" {
		return NewInvalidPartialNameError(name)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return NewLoaderClosedError()
	}
	l.partials[name] = source
	return nil
}

// Set is Save without a context, for setup code.
func (l *MemoryLoader) Set(name, source string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.partials[name] = source
}

// Delete removes a partial.
func (l *MemoryLoader) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return NewLoaderClosedError()
	}
	if _, ok := l.partials[name]; !ok {
		return NewPartialNotFoundError(name)
	}
	delete(l.partials, name)
	return nil
}

// Names returns all partial names in sorted order.
func (l *MemoryLoader) Names(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return nil, NewLoaderClosedError()
	}
	names := make([]string, 0, len(l.partials))
	for name := range l.partials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close marks the loader closed and drops its contents.
func (l *MemoryLoader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	l.partials = make(map[string]string)
	return nil
}
