package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"projgen/pkg/config"
	"projgen/pkg/platform"
	"projgen/pkg/unity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cacheDirFlag string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear generated unity aggregates",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the aggregates in the cache directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := cacheDir()
		if err != nil {
			return err
		}
		files, err := unity.NewFsCache(appFs).List(dir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, f := range files {
			fmt.Fprintf(out, "%s\t%d\t%s\n", f.Name(), f.Size(), f.ModTime().Format("2006-01-02 15:04:05"))
		}
		fmt.Fprintf(out, "%d aggregates in %s\n", len(files), dir)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every aggregate from the cache directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := cacheDir()
		if err != nil {
			return err
		}
		n, err := unity.NewFsCache(appFs).Clear(dir)
		if err != nil {
			return err
		}
		logger.Info("Cleared unity cache", zap.String("dir", dir), zap.Int("removed", n))
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d aggregates from %s\n", n, dir)
		return nil
	},
}

// cacheDir resolves the cache directory: flag, then config, then environment
// and default. A missing config file is not an error here.
func cacheDir() (string, error) {
	if cacheDirFlag != "" {
		return platform.ExpandPath(cacheDirFlag)
	}
	cfg, err := loadConfig()
	if err == nil {
		return cfg.CacheDir, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if env := os.Getenv(config.EnvCacheDir); env != "" {
		return env, nil
	}
	return config.DefaultCacheDir, nil
}

func init() {
	cacheCmd.PersistentFlags().StringVar(&cacheDirFlag, "dir", "", "cache directory (default from config)")
	cacheCmd.AddCommand(cacheListCmd, cacheClearCmd)
	RootCmd.AddCommand(cacheCmd)
}
