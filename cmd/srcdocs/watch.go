// cmd/srcdocs/watch.go
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/julianshen/srcdocs/internal/docs"
	"github.com/julianshen/srcdocs/internal/logging"
)

func watchCmd(opts *options) *cobra.Command {
	var debounceFlag time.Duration

	cmd := &cobra.Command{
		Use:   "watch [source...]",
		Short: "Regenerate documentation whenever a source file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(cmd.ErrOrStderr(), opts.verbose)
			defer logger.Sync() //nolint:errcheck

			cfg, err := opts.pipelineConfig(args, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return docs.Watch(ctx, cfg, debounceFlag, nil)
		},
	}

	cmd.Flags().DurationVar(&debounceFlag, "debounce", docs.DefaultDebounce, "quiet period before regenerating after a change")

	return cmd
}
