package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/sourcebuf/internal/app"
	"github.com/dshills/sourcebuf/internal/config"
	"github.com/dshills/sourcebuf/internal/logging"
	"github.com/dshills/sourcebuf/internal/project/loader"
	"github.com/dshills/sourcebuf/internal/project/vfs"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	logLevel   string
	store      string
}

// session is what a subcommand works with once flags and config are resolved.
type session struct {
	cfg    config.Config
	logger *logging.Logger
	ws     *app.Workspace
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "sourcebuf",
		Short: "View and edit text files through a windowed, versioned buffer",
		Long: `sourcebuf loads a file into a versioned line store and serves it in
windows of lines. Every edit is recorded so it can be undone, and only
the lines on screen are ever read from the store.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a TOML or YAML configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.store, "store", "", "line store (contiguous, linked, paged)")

	root.AddCommand(
		newViewCmd(opts),
		newSearchCmd(opts),
		newReplaceCmd(opts),
		newRunCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// resolveConfig loads the config file and applies flag overrides.
func (o *options) resolveConfig(adjust func(*config.Config)) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.store != "" {
		cfg.Store.Kind = o.store
	}
	if adjust != nil {
		adjust(&cfg)
	}
	return cfg, cfg.Validate()
}

// open resolves configuration and builds a workspace logging to stderr.
func (o *options) open(stderr io.Writer, adjust func(*config.Config)) (*session, error) {
	cfg, err := o.resolveConfig(adjust)
	if err != nil {
		return nil, err
	}
	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel(),
		Output: stderr,
		Prefix: "sourcebuf",
	})
	ws := app.NewWorkspace(
		app.WithLogger(logger),
		app.WithLoader(loader.New(vfs.NewOSFS(), cfg.LoaderOptions(logger)...)),
		app.WithHandlerOptions(cfg.HandlerOptions(logger)...),
	)
	return &session{cfg: cfg, logger: logger, ws: ws}, nil
}

// writeDocument prints the document in its on-disk format.
func writeDocument(w io.Writer, doc *app.Document) error {
	format := doc.Format()
	text := loader.JoinLines(doc.Handler.AllLines(), format.LineEnding, format.TrailingNewline)
	_, err := io.WriteString(w, text)
	return err
}

// finish saves the document when write is set and prints it otherwise.
func finish(cmd *cobra.Command, s *session, name string, write bool) error {
	doc, err := s.ws.Get(name)
	if err != nil {
		return err
	}
	if write {
		return s.ws.Save(name)
	}
	return writeDocument(cmd.OutOrStdout(), doc)
}
