package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itsmostafa/userdocs/internal/build"
	"github.com/spf13/cobra"
)

var debounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the documentation whenever a source file changes",
	Long:  `Build once, then watch the base directory and rebuild after every change until interrupted.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := buildOptions(cmd)
		if err != nil {
			return err
		}
		opts.Debounce = debounce

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return build.Watch(ctx, opts, cmd.OutOrStdout())
	},
}

func init() {
	watchCmd.Flags().DurationVar(&debounce, "debounce", build.DefaultDebounce, "Quiet period before rebuilding")
	rootCmd.AddCommand(watchCmd)
}
