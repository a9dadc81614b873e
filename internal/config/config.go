package config

import (
	"fmt"
	"io"
	"time"

	"github.com/dshills/sourcebuf/internal/config/loader"
	"github.com/dshills/sourcebuf/internal/engine"
	"github.com/dshills/sourcebuf/internal/engine/history"
	"github.com/dshills/sourcebuf/internal/engine/lines"
	"github.com/dshills/sourcebuf/internal/engine/search"
	"github.com/dshills/sourcebuf/internal/logging"
	projectloader "github.com/dshills/sourcebuf/internal/project/loader"
	"github.com/dshills/sourcebuf/internal/project/watcher"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "SOURCEBUF_"

// Config is the complete set of settings.
type Config struct {
	Store   StoreConfig   `toml:"store" yaml:"store"`
	History HistoryConfig `toml:"history" yaml:"history"`
	View    ViewConfig    `toml:"view" yaml:"view"`
	Search  SearchConfig  `toml:"search" yaml:"search"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Files   FilesConfig   `toml:"files" yaml:"files"`
	Watch   WatchConfig   `toml:"watch" yaml:"watch"`
}

// StoreConfig selects the line store.
type StoreConfig struct {
	// Kind is "contiguous", "linked" or "paged".
	Kind string `toml:"kind" yaml:"kind"`

	// BucketSize is the lines per bucket of a paged store.
	BucketSize int `toml:"bucket_size" yaml:"bucket_size"`
}

// HistoryConfig controls undo/redo.
type HistoryConfig struct {
	// MaxEntries bounds the undo stack. 0 means unbounded.
	MaxEntries int `toml:"max_entries" yaml:"max_entries"`

	// RedoPolicy is "preserve" (redo survives new edits) or "clear".
	RedoPolicy string `toml:"redo_policy" yaml:"redo_policy"`
}

// ViewConfig controls windowed reads.
type ViewConfig struct {
	// InitialWindow is the size of the first page after a load.
	InitialWindow int `toml:"initial_window" yaml:"initial_window"`

	// ScrollLines is how far one scroll step moves in the viewer.
	ScrollLines int `toml:"scroll_lines" yaml:"scroll_lines"`
}

// SearchConfig selects the search algorithm.
type SearchConfig struct {
	// Algorithm is "linear" or "naive".
	Algorithm string `toml:"algorithm" yaml:"algorithm"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `toml:"level" yaml:"level"`
}

// FilesConfig controls file loading.
type FilesConfig struct {
	// MaxSize is the largest file, in bytes, that will be loaded.
	MaxSize int64 `toml:"max_size" yaml:"max_size"`
}

// WatchConfig controls reloading files changed on disk.
type WatchConfig struct {
	// Enabled turns the file watcher on.
	Enabled bool `toml:"enabled" yaml:"enabled"`

	// DebounceMS is the quiet period before a change is applied.
	DebounceMS int `toml:"debounce_ms" yaml:"debounce_ms"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Kind:       engine.DefaultKind.String(),
			BucketSize: engine.DefaultBucketSize,
		},
		History: HistoryConfig{
			MaxEntries: 0,
			RedoPolicy: history.RedoPreserve.String(),
		},
		View: ViewConfig{
			InitialWindow: engine.DefaultInitialWindow,
			ScrollLines:   1,
		},
		Search:  SearchConfig{Algorithm: search.Linear.String()},
		Logging: LoggingConfig{Level: "info"},
		Files:   FilesConfig{MaxSize: projectloader.DefaultMaxFileSize},
		Watch:   WatchConfig{Enabled: false, DebounceMS: 100},
	}
}

// Load resolves the configuration from defaults, the file at path and the
// environment. An empty path or a missing file leaves the defaults in place.
// Unknown keys in the file are an error.
func Load(path string) (Config, error) {
	return LoadFS(loader.DefaultFS(), path)
}

// LoadFS is Load reading the file through fsys.
func LoadFS(fsys loader.FileSystem, path string) (Config, error) {
	cfg := Default()

	if path != "" {
		fl, err := loader.ForPath(fsys, path)
		if err != nil {
			return cfg, err
		}
		m, err := fl.Load()
		if err != nil {
			return cfg, err
		}
		if err := decode(m, &cfg, true, path); err != nil {
			return cfg, err
		}
	}

	env, err := loader.NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		return cfg, err
	}
	if err := decode(env, &cfg, false, "environment"); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// Parse reads a TOML document from r over the defaults. No environment
// overrides are applied.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	m, err := loader.NewTOMLLoader("").LoadFromReader(r)
	if err != nil {
		return cfg, err
	}
	if err := decode(m, &cfg, true, "<reader>"); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func decode(m map[string]any, cfg *Config, strict bool, source string) error {
	if len(m) == 0 {
		return nil
	}
	if err := loader.DecodeTOML(m, cfg, strict); err != nil {
		return &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := lines.ParseKind(c.Store.Kind); err != nil {
		return &ValidationError{Path: "store.kind", Message: "unknown store kind", Value: c.Store.Kind}
	}
	if c.Store.BucketSize <= 0 {
		return &ValidationError{Path: "store.bucket_size", Message: "must be positive", Value: c.Store.BucketSize}
	}
	if c.History.MaxEntries < 0 {
		return &ValidationError{Path: "history.max_entries", Message: "must not be negative", Value: c.History.MaxEntries}
	}
	if _, err := history.ParsePolicy(c.History.RedoPolicy); err != nil {
		return &ValidationError{Path: "history.redo_policy", Message: "unknown redo policy", Value: c.History.RedoPolicy}
	}
	if c.View.InitialWindow <= 0 {
		return &ValidationError{Path: "view.initial_window", Message: "must be positive", Value: c.View.InitialWindow}
	}
	if c.View.ScrollLines <= 0 {
		return &ValidationError{Path: "view.scroll_lines", Message: "must be positive", Value: c.View.ScrollLines}
	}
	if _, err := search.ParseAlgorithm(c.Search.Algorithm); err != nil {
		return &ValidationError{Path: "search.algorithm", Message: "unknown algorithm", Value: c.Search.Algorithm}
	}
	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		return &ValidationError{Path: "logging.level", Message: "unknown level", Value: c.Logging.Level}
	}
	if c.Files.MaxSize <= 0 {
		return &ValidationError{Path: "files.max_size", Message: "must be positive", Value: c.Files.MaxSize}
	}
	if c.Watch.DebounceMS < 0 {
		return &ValidationError{Path: "watch.debounce_ms", Message: "must not be negative", Value: c.Watch.DebounceMS}
	}
	return nil
}

// LogLevel returns the configured level, falling back to info.
func (c Config) LogLevel() logging.Level {
	level, ok := logging.ParseLevel(c.Logging.Level)
	if !ok {
		return logging.LevelInfo
	}
	return level
}

// HandlerOptions converts the configuration into engine options.
// Call Validate first; invalid names fall back to the engine defaults.
func (c Config) HandlerOptions(logger *logging.Logger) []engine.Option {
	opts := []engine.Option{
		engine.WithBucketSize(c.Store.BucketSize),
		engine.WithInitialWindow(c.View.InitialWindow),
		engine.WithMaxUndoEntries(c.History.MaxEntries),
	}
	if kind, err := lines.ParseKind(c.Store.Kind); err == nil {
		opts = append(opts, engine.WithKind(kind))
	}
	if policy, err := history.ParsePolicy(c.History.RedoPolicy); err == nil {
		opts = append(opts, engine.WithRedoPolicy(policy))
	}
	if alg, err := search.ParseAlgorithm(c.Search.Algorithm); err == nil {
		opts = append(opts, engine.WithSearchAlgorithm(alg))
	}
	if logger != nil {
		opts = append(opts, engine.WithLogger(logger))
	}
	return opts
}

// LoaderOptions converts the configuration into file loader options.
func (c Config) LoaderOptions(logger *logging.Logger) []projectloader.Option {
	return []projectloader.Option{
		projectloader.WithMaxFileSize(c.Files.MaxSize),
		projectloader.WithLogger(logger),
	}
}

// WatcherOptions converts the configuration into file watcher options.
func (c Config) WatcherOptions(logger *logging.Logger) []watcher.Option {
	return []watcher.Option{
		watcher.WithDebounceDelay(time.Duration(c.Watch.DebounceMS) * time.Millisecond),
		watcher.WithLogger(logger),
	}
}

// String implements fmt.Stringer.
func (c Config) String() string {
	return fmt.Sprintf("Config{store=%s/%d history=%d/%s window=%d search=%s log=%s}",
		c.Store.Kind, c.Store.BucketSize, c.History.MaxEntries, c.History.RedoPolicy,
		c.View.InitialWindow, c.Search.Algorithm, c.Logging.Level)
}
