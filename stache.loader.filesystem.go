package stache

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
	"github.com/valyala/fasttemplate"
)

// FilesystemLoader reads partials from files under a root directory.
// A name is mapped to a relative path through a pattern in which [name] is
// replaced by the partial name:
//
//	<root>/
//	  header.mustache        # {{> header}}
//	  shared/footer.mustache # {{> shared/footer}}
//
// Names must stay inside the root.
type FilesystemLoader struct {
	mu      sync.RWMutex
	root    string
	pattern *fasttemplate.Template
	prefix  string // pattern text before [name]
	suffix  string // pattern text after [name]
	closed  bool
}

// FilesystemLoaderDriver is the driver for creating FilesystemLoader instances.
type FilesystemLoaderDriver struct{}

func init() {
	RegisterLoaderDriver(LoaderDriverFilesystem, &FilesystemLoaderDriver{})
}

// Open creates a FilesystemLoader. The connection string is the root path.
func (d *FilesystemLoaderDriver) Open(connectionString string) (PartialStore, error) {
	return NewFilesystemLoader(connectionString, DefaultFilesystemPattern)
}

// NewFilesystemLoader creates a loader rooted at root. An empty pattern
// selects DefaultFilesystemPattern. The root directory is created if missing.
func NewFilesystemLoader(root, pattern string) (*FilesystemLoader, error) {
	if root == "" {
		return nil, NewLoaderConfigError(ErrMsgEmptyLoaderRoot)
	}
	if pattern == "" {
		pattern = DefaultFilesystemPattern
	}

	placeholder := FilesystemPatternStart + FilesystemPatternName + FilesystemPatternEnd
	prefix, suffix, found := strings.Cut(pattern, placeholder)
	if !found {
		return nil, NewLoaderConfigError(ErrMsgPatternMissingName)
	}

	tmpl, err := fasttemplate.NewTemplate(pattern, FilesystemPatternStart, FilesystemPatternEnd)
	if err != nil {
		return nil, NewLoaderError(ErrMsgInvalidPartialName, pattern, err)
	}

	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, NewLoaderError(ErrMsgLoaderFailed, root, err)
	}

	return &FilesystemLoader{
		root:    root,
		pattern: tmpl,
		prefix:  prefix,
		suffix:  suffix,
	}, nil
}

// Root returns the loader root directory.
func (l *FilesystemLoader) Root() string {
	return l.root
}

// Load reads the file mapped from name.
func (l *FilesystemLoader) Load(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := l.path(name)
	if err != nil {
		return "", err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return "", NewLoaderClosedError()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", NewPartialNotFoundError(name)
		}
		return "", NewLoaderError(ErrMsgLoaderFailed, name, err)
	}
	return string(data), nil
}

// Save writes the partial atomically, creating parent directories.
func (l *FilesystemLoader) Save(ctx context.Context, name, source string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := l.path(name)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return NewLoaderClosedError()
	}
	if err := os.MkdirAll(filepath.Dir(path), FilesystemDirPermissions); err != nil {
		return NewLoaderError(ErrMsgLoaderFailed, name, err)
	}
	if err := atomic.WriteFile(path, strings.NewReader(source)); err != nil {
		return NewLoaderError(ErrMsgLoaderFailed, name, err)
	}
	return nil
}

// Delete removes the file mapped from name.
func (l *FilesystemLoader) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := l.path(name)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return NewLoaderClosedError()
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewPartialNotFoundError(name)
		}
		return NewLoaderError(ErrMsgLoaderFailed, name, err)
	}
	return nil
}

// Names walks the root and returns the names of files matching the pattern.
func (l *FilesystemLoader) Names(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return nil, NewLoaderClosedError()
	}

	var names []string
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !strings.HasPrefix(rel, l.prefix) || !strings.HasSuffix(rel, l.suffix) {
			return nil
		}
		name := strings.TrimSuffix(strings.TrimPrefix(rel, l.prefix), l.suffix)
		if name != "" {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, NewLoaderError(ErrMsgLoaderFailed, l.root, err)
	}
	sort.Strings(names)
	return names, nil
}

// Close marks the loader closed. Files are left in place.
func (l *FilesystemLoader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	return nil
}

// path maps name through the pattern and checks it stays under the root.
func (l *FilesystemLoader) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `\:*?"<>|`) {
		return "", NewInvalidPartialNameError(name)
	}
	rel := l.pattern.ExecuteString(map[string]interface{}{
		FilesystemPatternName: name,
	})
	rel = filepath.FromSlash(rel)
	if !filepath.IsLocal(rel) {
		return "", NewInvalidPartialNameError(name)
	}
	return filepath.Join(l.root, rel), nil
}

// Filesystem permissions
const (
	FilesystemDirPermissions = 0o755
)
