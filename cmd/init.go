package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/corpeningc/sitetool/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default file lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = filepath.Join(workDir, config.DefaultFileName)
		}

		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		// Start from the loaded config so a --force rewrite keeps edits
		if err := cfg.Save(path); err != nil {
			return err
		}
		logger.Debug("Wrote config", zap.String("path", path))
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
}
