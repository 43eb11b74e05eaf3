package jsonconfig

import (
	"os"
	"sync"

	"github.com/ygrebnov/jsonconfig/streams"
)

const defaultFileMode os.FileMode = 0o644

// Options controls serialization and missing-file handling. Treat values as
// immutable: pass a pointer to mean "explicitly supplied" and build a new value
// to change anything.
type Options struct {
	// Settings is passed through to the Serializer untouched.
	Settings Settings
	// Serializer encodes and decodes documents. Nil means JSON.
	Serializer Serializer
	// CreateNew makes Load build a default instance when the file is missing.
	CreateNew bool
	// SaveNew makes Load persist an instance built because of CreateNew.
	SaveNew bool
	// CreateDirs makes Save create missing parent directories.
	CreateDirs bool
	// FileMode is the permission of written files. Zero means 0644.
	FileMode os.FileMode
	// FS is the filesystem used for all I/O. Nil means the OS filesystem.
	FS FileSystem
	// Streams receives "loaded/created/saved" notes and Try* warnings.
	Streams streams.Streams
}

func (o Options) serializer() Serializer {
	if o.Serializer == nil {
		return JSON{}
	}
	return o.Serializer
}

func (o Options) fs() FileSystem {
	if o.FS == nil {
		return OSFileSystem{}
	}
	return o.FS
}

func (o Options) fileMode() os.FileMode {
	if o.FileMode == 0 {
		return defaultFileMode
	}
	return o.FileMode
}

// PathProvider lets a configuration type override its default file path.
type PathProvider interface {
	ConfigPath() string
}

// OptionsProvider lets a configuration type override the process-wide default
// options. Returning nil falls through to DefaultOptions.
type OptionsProvider interface {
	ConfigOptions() *Options
}

var (
	defaultsMu sync.RWMutex
	defaults   = Options{
		Settings:   DefaultSettings(),
		CreateNew:  true,
		CreateDirs: true,
	}
)

// DefaultOptions returns the process-wide default options used by every call
// that resolves no explicit, bound or per-type options.
func DefaultOptions() Options {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return defaults
}

// SetDefaultOptions replaces the process-wide default options. The change is
// observed by subsequent calls only. Concurrent callers must order their own
// updates; the lock only keeps individual reads and writes consistent.
func SetDefaultOptions(o Options) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaults = o
}

// resolveOptions picks the first non-nil of explicit, bound and the per-type
// override of typed, falling back to DefaultOptions.
func resolveOptions(explicit, bound *Options, typed any) Options {
	if explicit != nil {
		return *explicit
	}
	if bound != nil {
		return *bound
	}
	if p, ok := typed.(OptionsProvider); ok {
		if o := p.ConfigOptions(); o != nil {
			return *o
		}
	}
	return DefaultOptions()
}
