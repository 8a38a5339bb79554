// cmd/srcdocs/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/julianshen/srcdocs/internal/config"
	"github.com/julianshen/srcdocs/internal/docs"
	"github.com/julianshen/srcdocs/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// options holds the flags shared by every command.
type options struct {
	dest       string
	configPath string
	verbose    bool
}

func versionString() string {
	return fmt.Sprintf("srcdocs %s (commit: %s, built: %s)", version, commit, date)
}

func main() {
	if err := rootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "srcdocs [source...]",
		Short: "Extract doc comments into markdown files",
		Long: `Walks through all files in the given sources and searches for doc comments.
A comment containing "@file <path>" on its own line is appended to that path
under --dest. "@order <num>" controls the position of the comment within the
file; content is sorted from lowest to highest order, ties keeping scan
order. Other "@" tags are excluded from the output and only take effect
through templates defined in the config file (.srcdocs.toml in --dest, or
--config). The config file also defines comment syntaxes per extension.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(stderr, opts.verbose)
			defer logger.Sync() //nolint:errcheck

			cfg, err := opts.pipelineConfig(args, logger)
			if err != nil {
				return err
			}
			if _, err := docs.Run(cmd.Context(), cfg); err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Successfully generated documentation.")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetContext(context.Background())

	cmd.PersistentFlags().StringVarP(&opts.dest, "dest", "d", ".", "root directory where markdown files are generated")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "show detailed messages about document processing")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (default <dest>/.srcdocs.toml)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
		},
	}

	cmd.AddCommand(versionCmd)
	cmd.AddCommand(previewCmd(opts))
	cmd.AddCommand(watchCmd(opts))

	return cmd
}

// pipelineConfig loads the configuration and builds the run settings for
// the given sources.
func (o *options) pipelineConfig(sources []string, logger *zap.Logger) (docs.Config, error) {
	cfg, path, err := config.Resolve(o.dest, o.configPath)
	if err != nil {
		return docs.Config{}, fmt.Errorf("loading config: %w", err)
	}
	if path != "" {
		logger.Debug("using config file", zap.String("path", path))
	}

	table, err := cfg.SyntaxTable()
	if err != nil {
		return docs.Config{}, err
	}
	engine, err := cfg.Engine(logger)
	if err != nil {
		return docs.Config{}, err
	}

	return docs.Config{
		Sources:  sources,
		Dest:     o.dest,
		Syntaxes: table,
		Engine:   engine,
		Logger:   logger,
	}, nil
}
