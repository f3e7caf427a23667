package cmd

import (
	"github.com/itsmostafa/userdocs/internal/build"
	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the tags found in the sources",
	Long:  `Scan the base directory and print every tag with the files that declare it. Nothing is written.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := buildOptions(cmd)
		if err != nil {
			return err
		}

		idx, _, _, err := build.Scan(opts)
		if err != nil {
			return err
		}
		build.FormatTags(cmd.OutOrStdout(), idx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
