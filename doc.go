// Package jsonconfig loads and saves application configuration objects as JSON
// documents on local disk.
//
// Any struct gains load/save behavior by embedding Base:
//
//	type AppSettings struct {
//	    jsonconfig.Base
//	    Name    string `json:"name" default:"app"`
//	    Retries int    `json:"retries" default:"3"`
//	}
//
//	cfg, err := jsonconfig.Load[AppSettings]("", nil) // reads AppSettings.json
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if cfg == nil {
//	    // no file and CreateNew disabled
//	}
//	cfg.Retries++
//	if err := jsonconfig.Save(cfg, "", nil); err != nil {
//	    log.Fatal(err)
//	}
//
// Every call accepts an optional path ("" means omitted) and optional *Options
// (nil means omitted). They are resolved freshly on each call:
//  1. Path: explicit, then the path bound to the instance (Save only), then
//     PathProvider.ConfigPath, then "<TypeName>.json" in the working directory.
//  2. Options: explicit, then the options bound to the instance (Save only),
//     then OptionsProvider.ConfigOptions, then the process-wide DefaultOptions.
//
// Load binds the effective path and the explicit options, if any, to the
// returned instance. Save never rebinds; call Base.Bind to move an instance to
// a new home.
//
// A missing file is not an error: Load returns (nil, nil) unless CreateNew is
// set, in which case a default instance is built (zero value plus `default`
// struct tags, via github.com/ygrebnov/model) and, with SaveNew, written out.
// A file holding the JSON literal null, or nothing at all, also yields nil.
//
// TryLoad and TrySave report failures as a false status instead of an error.
//
// Types may observe the lifecycle by implementing Loaded, Created, Ready,
// Saving and Saved.
package jsonconfig
