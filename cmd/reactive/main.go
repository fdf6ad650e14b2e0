package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactive/internal/config"
	"github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/internal/logging"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globals holds the persistent flags and what PersistentPreRunE builds
// from them.
type globals struct {
	configPath string
	logLevel   string
	logFormat  string
	noColor    bool

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		errors.Fprint(os.Stderr, cliError(err))
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "reactive",
		Short: "Fine-grained reactive values for Go",
		Long: `reactive runs and inspects graphs of reactive values.

State cells hold values, computed values derive from them and are
re-evaluated lazily, and effects re-run when what they read changes.
Commands:

  • demo     run the sample scenarios
  • inspect  serve a live graph over HTTP
  • explain  describe an error code`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load(stderr)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&g.configPath, "config", "c", "", "Config file (default reactive.json or reactive.yaml in the working directory)")
	flags.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn or error (default from config)")
	flags.StringVar(&g.logFormat, "log-format", "", "Log format: text or json (default from config)")
	flags.BoolVar(&g.noColor, "no-color", false, "Disable colored error output")

	rootCmd.AddCommand(
		demoCmd(g),
		inspectCmd(g),
		explainCmd(),
		versionCmd(),
	)
	return rootCmd
}

// load reads the config, applies flag overrides and builds the logger.
func (g *globals) load(stderr io.Writer) error {
	if g.noColor {
		errors.DisableColors()
	}

	var err error
	if g.configPath != "" {
		g.cfg, err = config.LoadFile(g.configPath)
	} else {
		g.cfg, err = config.Load(".")
	}
	if err != nil {
		return err
	}

	if g.logLevel != "" {
		g.cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		g.cfg.Log.Format = g.logFormat
	}
	if err := g.cfg.Validate(); err != nil {
		return err
	}

	g.logger, err = logging.New(logging.Options{
		Level:  g.cfg.Log.Level,
		Format: g.cfg.Log.Format,
		Output: stderr,
	})
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}
	return nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// cliError maps cobra's unknown command error to its code. Other errors
// are returned unchanged.
func cliError(err error) error {
	if msg := err.Error(); strings.HasPrefix(msg, "unknown command") {
		return errors.New(errors.CodeUnknownCommand).WithCause(msg)
	}
	return err
}
