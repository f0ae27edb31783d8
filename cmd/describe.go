package cmd

import (
	"fmt"
	"os"

	"projgen/pkg/describe"
	"projgen/pkg/generate"
	"projgen/pkg/logging"

	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Show how every target's files are classified",
	Long: `Scan and classify every target and print the kind slots as a tree.
Nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ws, err := generate.New(appFs, logger).Build(cfg)
		if err != nil {
			return err
		}

		glyphs := describe.ASCII
		if f, ok := cmd.OutOrStdout().(*os.File); ok && logging.IsTerminal(f) {
			glyphs = describe.Box
		}
		fmt.Fprint(cmd.OutOrStdout(), describe.Tree(ws, glyphs))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(describeCmd)
}
