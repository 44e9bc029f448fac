// Package cmd holds the statline subcommands.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grovetools/statline/cli"
	"github.com/grovetools/statline/logging"
	statnvim "github.com/grovetools/statline/nvim"
)

// NewServeCmd creates the serve command: attach to Neovim over stdio and run
// the status line until the editor detaches.
func NewServeCmd() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Attach to Neovim over stdio and serve the status line",
		Long: `Runs statline as a Neovim RPC plugin. Neovim starts this command with
jobstart and talks msgpack-rpc over stdin/stdout, so all logging goes to a
file instead of the standard streams.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			handler := cli.NewErrorHandler(opts.Verbose)

			// stdout carries the RPC stream; stderr is invisible once nvim
			// owns the job. Everything logs to a file.
			f, err := openLogFile(logFile)
			if err != nil {
				return handler.Handle(err)
			}
			defer f.Close()
			logging.SetOutput(f)

			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return handler.Handle(err)
			}

			cwd, err := os.Getwd()
			if err != nil {
				return handler.Handle(err)
			}

			if err := statnvim.Serve(cfg, cwd); err != nil {
				return handler.Handle(err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "Path to the log file (default: cache dir)")

	return cmd
}

// openLogFile opens the serve log, defaulting to the user cache directory.
func openLogFile(path string) (*os.File, error) {
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		dir = filepath.Join(dir, "statline")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "statline.log")
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
