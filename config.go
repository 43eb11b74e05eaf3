package jsonconfig

import (
	"errors"
	"fmt"
	"reflect"

	modellib "github.com/ygrebnov/model"
)

// Exported error categories returned by this package. These are used with wrapping
// so callers can detect error classes using errors.Is/As.
//   - ErrRead: failure to inspect or read an existing config file.
//   - ErrParse: failure to decode an existing config file.
//   - ErrDefaults: failure to apply `default` tags to a new instance.
//   - ErrFormat: failure to encode a config (e.g., unsupported type).
//   - ErrEnsureConfigDir: failure to create parent directories for a config file.
//   - ErrWrite: failure to write the config file to disk.
var (
	ErrRead            = errors.New("read config file")
	ErrParse           = errors.New("parse config file")
	ErrDefaults        = errors.New("apply config defaults")
	ErrFormat          = errors.New("format config")
	ErrEnsureConfigDir = errors.New("ensure config dir")
	ErrWrite           = errors.New("write to config file")
)

// Base carries the bookkeeping of a configuration instance: the path it was
// loaded from and the options bound to it. Embed it in a struct to make the
// struct a Config. Its fields are unexported and never serialized.
type Base struct {
	path    string
	options *Options
}

// Path returns the path bound to the instance, or "" if none.
func (b *Base) Path() string {
	if b == nil {
		return ""
	}
	return b.path
}

// Options returns the options bound to the instance, or nil when calls should
// fall back to per-type or process-wide defaults.
func (b *Base) Options() *Options {
	if b == nil {
		return nil
	}
	return b.options
}

// Bind sets the instance's home path and a copy of opts. Save uses them when
// called without an explicit path or options.
func (b *Base) Bind(path string, opts *Options) {
	b.path = path
	b.options = nil
	if opts != nil {
		o := *opts
		b.options = &o
	}
}

func (b *Base) configBase() *Base { return b }

// Config is implemented by pointers to structs embedding Base.
type Config interface {
	configBase() *Base
}

// Load reads the configuration of type T from path using opts. An empty path
// and nil opts are resolved as described in the package documentation.
//
// Load returns (nil, nil) when the file is missing and CreateNew is off, and
// when the file holds a null or empty document.
func Load[T any, PT interface {
	*T
	Config
}](path string, opts *Options) (*T, error) {
	var probe PT = new(T)
	if probe.configBase() == nil {
		return nil, fmt.Errorf("%w: %s embeds *Base, embed Base by value", ErrFormat, typeName(probe))
	}
	o := resolveOptions(opts, nil, probe)
	p := resolvePath(path, "", probe, o)

	found, err := exists(o.fs(), p)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrRead, p, err)
	}

	if found {
		cfg, err := read[T](p, o)
		if err != nil || cfg == nil {
			return nil, err
		}
		pc := PT(cfg)
		pc.configBase().Bind(p, opts)
		o.note("loaded %s from %s", typeName(pc), p)
		if h, ok := any(pc).(Loaded); ok {
			h.OnLoaded(p)
		}
		ready(pc, p)
		return cfg, nil
	}

	if !o.CreateNew {
		return nil, nil
	}

	cfg, err := newDefault[T]()
	if err != nil {
		return nil, err
	}
	pc := PT(cfg)
	pc.configBase().Bind(p, opts)
	o.note("created new %s for %s", typeName(pc), p)
	if h, ok := any(pc).(Created); ok {
		h.OnCreated(p)
	}
	if o.SaveNew {
		if err := save(pc, p, o); err != nil {
			return nil, err
		}
	}
	ready(pc, p)
	return cfg, nil
}

// TryLoad is Load with failures reported as ok == false. A missing file with
// CreateNew off is not a failure: it yields (nil, true).
func TryLoad[T any, PT interface {
	*T
	Config
}](path string, opts *Options) (*T, bool) {
	cfg, err := Load[T, PT](path, opts)
	if err != nil {
		resolveOptions(opts, nil, PT(new(T))).warn(err)
		return nil, false
	}
	return cfg, true
}

// Save writes cfg to path using opts. An empty path and nil opts fall back to
// the values bound to cfg, then to per-type and process-wide defaults. The
// file is fully overwritten. Save does not rebind cfg.
func Save(cfg Config, path string, opts *Options) error {
	b, err := baseOf(cfg)
	if err != nil {
		return err
	}
	o := resolveOptions(opts, b.options, cfg)
	return save(cfg, resolvePath(path, b.path, cfg, o), o)
}

// TrySave is Save with failures reported as false.
func TrySave(cfg Config, path string, opts *Options) bool {
	if err := Save(cfg, path, opts); err != nil {
		var bound *Options
		if b, berr := baseOf(cfg); berr == nil {
			bound = b.options
		}
		resolveOptions(opts, bound, cfg).warn(err)
		return false
	}
	return true
}

// Marshal encodes cfg with its effective options, exactly as Save would write
// it, without touching the filesystem.
func Marshal(cfg Config) ([]byte, error) {
	b, err := baseOf(cfg)
	if err != nil {
		return nil, err
	}
	return marshal(cfg, resolveOptions(nil, b.options, cfg))
}

// Text renders cfg as its current document for inspection. It returns "" if
// cfg cannot be encoded.
func Text(cfg Config) string {
	data, err := Marshal(cfg)
	if err != nil {
		return ""
	}
	return string(data)
}

func read[T any](p string, o Options) (*T, error) {
	data, err := o.fs().ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrRead, p, err)
	}
	var cfg *T
	if err := o.serializer().Unmarshal(data, &cfg, o.Settings); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrParse, p, err)
	}
	return cfg, nil
}

// newDefault builds a zero T and fills zero fields from `default` struct tags.
func newDefault[T any]() (*T, error) {
	cfg := new(T)
	m, err := modellib.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDefaults, err)
	}
	if err := m.SetDefaults(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDefaults, err)
	}
	return cfg, nil
}

func save(cfg Config, p string, o Options) error {
	if h, ok := cfg.(Saving); ok {
		h.OnSaving(p)
	}

	data, err := marshal(cfg, o)
	if err != nil {
		return err
	}

	fsys := o.fs()
	if o.CreateDirs {
		if err := ensurePath(fsys, p); err != nil {
			return errors.Join(ErrEnsureConfigDir, err)
		}
	}
	if err := fsys.WriteFile(p, data, o.fileMode()); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, p, err)
	}
	o.note("saved %s to %s", typeName(cfg), p)

	if h, ok := cfg.(Saved); ok {
		h.OnSaved(p)
	}
	return nil
}

func marshal(cfg any, o Options) (data []byte, retErr error) {
	// Guard against panics from encoders (e.g., a MarshalJSON method that panics).
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("%w: %v", ErrFormat, r)
		}
	}()

	data, err := o.serializer().Marshal(cfg, o.Settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return data, nil
}

func ready(cfg any, p string) {
	if h, ok := cfg.(Ready); ok {
		h.OnReady(p)
	}
}

// resolvePath picks the first non-empty of explicit, bound and the per-type
// override, falling back to "<TypeName><ext>" in the working directory.
func resolvePath(explicit, bound string, typed any, o Options) string {
	if explicit != "" {
		return explicit
	}
	if bound != "" {
		return bound
	}
	if p, ok := typed.(PathProvider); ok {
		if s := p.ConfigPath(); s != "" {
			return s
		}
	}
	return typeName(typed) + o.serializer().Ext()
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}

// baseOf returns the Base of cfg, failing for nil configs and for types that
// embed a nil *Base.
func baseOf(cfg Config) (*Base, error) {
	if isNil(cfg) {
		return nil, fmt.Errorf("%w: nil config", ErrFormat)
	}
	b := cfg.configBase()
	if b == nil {
		return nil, fmt.Errorf("%w: %s has a nil *Base", ErrFormat, typeName(cfg))
	}
	return b, nil
}

func isNil(cfg Config) bool {
	if cfg == nil {
		return true
	}
	v := reflect.ValueOf(cfg)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func (o Options) note(format string, args ...any) {
	if o.Streams == nil || o.Streams.Out() == nil {
		return
	}
	fmt.Fprintf(o.Streams.Out(), "jsonconfig: "+format+"\n", args...)
}

func (o Options) warn(err error) {
	if o.Streams == nil || o.Streams.ErrOut() == nil {
		return
	}
	fmt.Fprintf(o.Streams.ErrOut(), "jsonconfig: warning: %v\n", err)
}
