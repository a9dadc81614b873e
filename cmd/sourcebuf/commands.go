package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/sourcebuf/internal/config"
	"github.com/dshills/sourcebuf/internal/engine"
	"github.com/dshills/sourcebuf/internal/project/watcher"
	"github.com/dshills/sourcebuf/internal/script"
	"github.com/dshills/sourcebuf/internal/viewer"
)

func newViewCmd(opts *options) *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Page through a file",
		Long: `Open FILE in a terminal pager.

Keys: j/k or arrows scroll, space/b or PgDn/PgUp page, g/G jump to the
start or end, / searches, n/N move between matches, u undoes, Ctrl-R
redoes, q or Esc quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("view needs a terminal")
			}
			s, err := opts.open(cmd.ErrOrStderr(), func(c *config.Config) {
				if follow {
					c.Watch.Enabled = true
				}
			})
			if err != nil {
				return err
			}
			if _, err := s.ws.Open(args[0]); err != nil {
				return err
			}
			doc, err := s.ws.Get(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if s.cfg.Watch.Enabled {
				wt, err := watcher.New(s.cfg.WatcherOptions(s.logger)...)
				if err != nil {
					return err
				}
				defer wt.Close()
				go func() { _ = s.ws.Follow(ctx, wt) }()
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			defer screen.Fini()

			v := viewer.New(doc.Handler,
				viewer.WithScrollLines(s.cfg.View.ScrollLines),
				viewer.WithLogger(s.logger),
			)
			return viewer.Run(ctx, screen, v)
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "reload the file when it changes on disk")
	return cmd
}

func newSearchCmd(opts *options) *cobra.Command {
	var naive, count bool

	cmd := &cobra.Command{
		Use:   "search FILE PATTERN",
		Short: "Print the position of every occurrence of PATTERN",
		Long: `Print LINE:COLUMN for every occurrence of PATTERN in FILE, one per
line. Both numbers start at 1 and the column counts characters. Matches
never span lines and may overlap.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.ErrOrStderr(), func(c *config.Config) {
				if naive {
					c.Search.Algorithm = "naive"
				}
			})
			if err != nil {
				return err
			}
			pg, err := s.ws.Open(args[0])
			if err != nil {
				return err
			}

			found, err := s.ws.Search(engine.SearchRequest{Pattern: args[1], FileName: pg.FileName})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if count {
				fmt.Fprintln(out, len(found))
				return nil
			}
			for _, c := range found {
				fmt.Fprintf(out, "%d:%d\n", c.Line+1, c.Column+1)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&naive, "naive", false, "use the naive search algorithm")
	cmd.Flags().BoolVar(&count, "count", false, "print only the number of matches")
	return cmd
}

func newReplaceCmd(opts *options) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "replace FILE PATTERN REPLACEMENT",
		Short: "Replace every occurrence of PATTERN",
		Long: `Replace every occurrence of PATTERN in FILE with REPLACEMENT and print
the result, or write it back to FILE with --write. Matches never span lines.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.ErrOrStderr(), nil)
			if err != nil {
				return err
			}
			pg, err := s.ws.Open(args[0])
			if err != nil {
				return err
			}
			err = s.ws.SearchReplace(engine.SearchReplaceRequest{
				Pattern:     args[1],
				Replacement: args[2],
				FileName:    pg.FileName,
			})
			if err != nil {
				return err
			}
			return finish(cmd, s, pg.FileName, write)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to FILE")
	return cmd
}

func newRunCmd(opts *options) *cobra.Command {
	var (
		write   bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run FILE SCRIPT",
		Short: "Run a Lua edit script against a file",
		Long: `Load FILE, run the Lua SCRIPT against it and print the result, or write
it back to FILE with --write. The script drives the buffer through the
global buf table (buf.lines, buf.search, buf.edit, buf.replace, buf.undo,
buf.redo, buf.copy, buf.paste). print output goes to stderr.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.ErrOrStderr(), nil)
			if err != nil {
				return err
			}
			pg, err := s.ws.Open(args[0])
			if err != nil {
				return err
			}
			doc, err := s.ws.Get(pg.FileName)
			if err != nil {
				return err
			}

			st := script.NewState(doc.Handler,
				script.WithOutput(cmd.ErrOrStderr()),
				script.WithLogger(s.logger),
				script.WithTimeout(timeout),
			)
			defer st.Close()
			if err := st.RunFile(cmd.Context(), args[1]); err != nil {
				return err
			}
			return finish(cmd, s, pg.FileName, write)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to FILE")
	cmd.Flags().DurationVar(&timeout, "timeout", script.DefaultTimeout, "abort the script after this long (0 disables)")
	return cmd
}

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.resolveConfig(nil)
			if err != nil {
				return err
			}
			data, err := toml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
