package cmd

import (
	"errors"

	"github.com/itsmostafa/userdocs/internal/build"
	"github.com/spf13/cobra"
)

var checkOnly bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate documentation pages and tag indices",
	Long: `Scan the base directory for documentation blocks, write one page per block,
one index page per tag combination and the tags.json, indexfiles.json and
toc-tree.json side files to the output directory.

With --check nothing is written; the command fails if any output is missing
or out of date.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := buildOptions(cmd)
		if err != nil {
			return err
		}
		opts.Check = checkOnly

		report, err := build.Run(cmd.Context(), opts)
		if errors.Is(err, build.ErrStale) {
			build.FormatStale(cmd.OutOrStdout(), report.Stale)
			build.FormatReport(cmd.OutOrStdout(), report)
			return err
		}
		if err != nil {
			return err
		}

		build.FormatReport(cmd.OutOrStdout(), report)
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&checkOnly, "check", false, "Compare generated output with the output directory instead of writing")
	rootCmd.AddCommand(buildCmd)
}
