// cmd/srcdocs/preview.go
package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/julianshen/srcdocs/internal/docs"
	"github.com/julianshen/srcdocs/internal/logging"
	"github.com/julianshen/srcdocs/internal/output"
)

const defaultWrapWidth = 100

func previewCmd(opts *options) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "preview [source...]",
		Short: "Print the generated documentation without writing it",
		Long: `Run extraction and templates like the root command, but print every
generated document instead of writing it under --dest.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(cmd.ErrOrStderr(), opts.verbose)
			defer logger.Sync() //nolint:errcheck

			cfg, err := opts.pipelineConfig(args, logger)
			if err != nil {
				return err
			}
			documents, err := docs.Build(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			name, width := resolveFormat(formatFlag, cmd.OutOrStdout())
			f, err := output.New(name, width)
			if err != nil {
				return err
			}
			out, err := f.Format(documents)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "auto", "output format: auto, markdown, json, pretty")

	return cmd
}

// resolveFormat maps "auto" to "pretty" on a terminal and "markdown"
// otherwise. The wrap width follows the terminal when it is known.
func resolveFormat(name string, w io.Writer) (string, int) {
	width := defaultWrapWidth
	f, isFile := w.(*os.File)
	tty := isFile && term.IsTerminal(int(f.Fd()))
	if tty {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			width = cols
		}
	}
	if name != "auto" {
		return name, width
	}
	if tty {
		return "pretty", width
	}
	return "markdown", width
}
