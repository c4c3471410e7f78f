// Package cli implements the symcore command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/symcore"
	"github.com/njchilds90/symcore/internal/config"
	"github.com/njchilds90/symcore/internal/logging"
)

var Version = "dev"

type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
}

// Context carries what PersistentPreRunE initialized to the subcommands.
type Context struct {
	Config *config.Config
	Logger *zap.Logger
	Output string
}

type contextKey struct{}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	cmd := &cobra.Command{
		Use:     "symcore",
		Short:   "Canonical symbolic algebra from the command line",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file (yaml, json or toml)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "json", "output format (json, yaml)")

	cmd.AddCommand(newCallCmd(), newToolsCmd(), newRenderCmd())
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	switch opts.OutputFormat {
	case "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", opts.OutputFormat)
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	logger, err := logging.New(config.LogConfig{Level: cfg.Log.Level, Format: "console"})
	if err != nil {
		return err
	}
	symcore.SetLogger(logger)
	symcore.SetDefaultCache(symcore.NewCache(cfg.Engine.CacheCapacity))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, contextKey{}, &Context{
		Config: cfg,
		Logger: logger,
		Output: opts.OutputFormat,
	}))
	return nil
}

// FromCommand returns the Context set up by the root command.
func FromCommand(cmd *cobra.Command) (*Context, error) {
	if ctx := cmd.Context(); ctx != nil {
		if c, ok := ctx.Value(contextKey{}).(*Context); ok {
			return c, nil
		}
	}
	return nil, fmt.Errorf("cli context not initialized")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// Print writes v in the selected output format.
func Print(w io.Writer, format string, v interface{}) error {
	if format == "yaml" {
		// Round-trip through JSON so that yaml sees the json field names.
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic interface{}
		if err := json.Unmarshal(b, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readInput reads the named file, or stdin for "" and "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
