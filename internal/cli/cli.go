// Package cli holds the setup shared by the discogo command line tools.
package cli

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/hupe1980/discogo"
	"github.com/hupe1980/discogo/blobstore"
	"github.com/hupe1980/discogo/index"
	"github.com/hupe1980/discogo/internal/config"
	"github.com/hupe1980/discogo/prom"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// Flags are the persistent flags of every tool.
type Flags struct {
	ConfigPath string
	Store      string
	LogLevel   string
	LogFormat  string
}

// Register adds the persistent flags to cmd.
func (f *Flags) Register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.ConfigPath, "config", "", "path to a YAML config file")
	pf.StringVar(&f.Store, "store", "", "blob store: local, s3 or minio (overrides config)")
	pf.StringVar(&f.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&f.LogFormat, "log-format", "", "log format: text or json")
}

// Env is the runtime environment of a tool invocation.
type Env struct {
	Config   *config.Config
	Logger   *discogo.Logger
	Store    blobstore.BlobStore
	Registry *prometheus.Registry
	Metrics  *prom.Collector
}

// Setup loads the configuration, applies flag overrides and builds the
// logger, store and metrics.
func Setup(ctx context.Context, f *Flags) (*Env, error) {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return nil, err
	}
	if f.Store != "" {
		cfg.Store.Type = f.Store
	}
	if f.LogLevel != "" {
		cfg.Logging.Level = f.LogLevel
	}
	if f.LogFormat != "" {
		cfg.Logging.Format = f.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := cfg.Store.NewBlobStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating %s store: %w", cfg.Store.Type, err)
	}

	reg := prometheus.NewRegistry()
	return &Env{
		Config:   cfg,
		Logger:   cfg.Logging.NewLogger(),
		Store:    store,
		Registry: reg,
		Metrics:  prom.New(reg),
	}, nil
}

// Options returns the discogo options for this environment.
func (e *Env) Options() []discogo.Option {
	l := e.Config.Limits
	return []discogo.Option{
		discogo.WithLogger(e.Logger),
		discogo.WithMetricsCollector(e.Metrics),
		discogo.WithMemoryLimit(l.MemoryBytes),
		discogo.WithMaxConcurrentQueries(l.MaxConcurrentQueries),
		discogo.WithBlobReadLimit(l.ReadBytesPerSec),
	}
}

// Open opens the index name, mapping it directly when the store is local.
func (e *Env) Open(ctx context.Context, name string) (*discogo.DB, error) {
	if e.Config.Store.IsLocal() && e.Config.Store.Local.Root == "" {
		return discogo.Open(name, e.Options()...)
	}
	return discogo.OpenBlob(ctx, e.Store, name, e.Options()...)
}

// LoadView builds the view name against db.
func (e *Env) LoadView(ctx context.Context, db *discogo.DB, name string) (*index.View, error) {
	if e.Config.Store.IsLocal() && e.Config.Store.Local.Root == "" {
		return db.LoadView(name)
	}
	return db.LoadViewBlob(ctx, e.Store, path.Clean(name))
}

// Finish writes the metrics textfile when one is configured.
func (e *Env) Finish() error {
	if e.Config.Metrics.Textfile == "" {
		return nil
	}
	return prom.WriteTextfile(e.Config.Metrics.Textfile, e.Registry)
}

// PrintCursor writes one value per line to w. A cursor for a missing key
// yields discogo.ErrNotFound.
func PrintCursor(w io.Writer, cur *index.Cursor) error {
	defer cur.Close()

	if cur.NotFound() {
		return discogo.ErrNotFound
	}
	for v := range cur.All() {
		if _, err := fmt.Fprintf(w, "%s\n", v); err != nil {
			return err
		}
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("cursor failed: %w", err)
	}
	return nil
}

// PrintInfo writes the features of an index in aligned human readable form.
func PrintInfo(w io.Writer, f index.Features) error {
	_, err := fmt.Fprintf(w,
		"Total size:              %d bytes\n"+
			"Items size:              %d bytes\n"+
			"Values size:             %d bytes\n"+
			"Number of keys:          %d\n"+
			"Number of items:         %d\n"+
			"Number of unique values: %d\n"+
			"Compressed?              %s\n"+
			"Hashed?                  %s\n"+
			"Multiset?                %s\n",
		f.TotalSize, f.ItemsSize, f.ValuesSize,
		f.NumKeys, f.NumItems, f.NumUniqueValues,
		index.BoolLabel(f.Compressed), index.BoolLabel(f.Hashed), index.BoolLabel(f.Multiset),
	)
	return err
}
