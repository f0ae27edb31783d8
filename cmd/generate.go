package cmd

import (
	"errors"
	"fmt"

	"projgen/pkg/generate"

	"github.com/spf13/cobra"
)

var (
	unityFlag   bool
	bucketsFlag int
	outFlag     string
	xcodeFlag   bool
	msvcFlag    bool
	jobsFlag    int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate IDE projects for every target",
	Long: `Scan and classify every target of the workspace, run the unity pass when
enabled and write one project file per target into the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ov, err := overridesFromFlags(cmd)
		if err != nil {
			return err
		}
		ov.Apply(cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		g := generate.New(appFs, logger)
		g.Workers = jobsFlag
		summary, err := g.Run(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, t := range summary.Targets {
			fmt.Fprintf(out, "%s (%s): %d files -> %s\n", t.Label, t.Format, t.Files, t.Output)
			if cfg.Unity {
				fmt.Fprintf(out, "  unity: %s\n", t.Unity)
			}
		}
		return nil
	},
}

func overridesFromFlags(cmd *cobra.Command) (generate.Overrides, error) {
	var ov generate.Overrides
	flags := cmd.Flags()
	if flags.Changed("unity") {
		v := unityFlag
		ov.Unity = &v
	}
	if flags.Changed("buckets") {
		if bucketsFlag < 1 {
			return ov, fmt.Errorf("--buckets must be at least 1, got %d", bucketsFlag)
		}
		ov.Buckets = bucketsFlag
	}
	ov.OutDir = outFlag
	switch {
	case xcodeFlag && msvcFlag:
		return ov, errors.New("--xcode and --msvc are mutually exclusive")
	case xcodeFlag:
		ov.Format = "xcode"
	case msvcFlag:
		ov.Format = "msvc"
	}
	return ov, nil
}

func init() {
	generateCmd.Flags().BoolVar(&unityFlag, "unity", false, "batch translation units into unity aggregates")
	generateCmd.Flags().IntVar(&bucketsFlag, "buckets", 0, "files per unity aggregate (default from config, 4)")
	generateCmd.Flags().StringVarP(&outFlag, "out", "o", "", "output directory for project files")
	generateCmd.Flags().BoolVar(&xcodeFlag, "xcode", false, "generate Xcode projects for every target")
	generateCmd.Flags().BoolVar(&msvcFlag, "msvc", false, "generate Visual Studio projects for every target")
	generateCmd.Flags().IntVarP(&jobsFlag, "jobs", "j", 0, "targets scanned in parallel (default one per CPU)")

	RootCmd.AddCommand(generateCmd)
}
