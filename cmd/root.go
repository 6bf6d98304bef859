package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/corpeningc/sitetool/internal/config"
	"github.com/corpeningc/sitetool/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	workDir    string
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "sitetool",
	Short:         "Maintenance tasks for the site working tree",
	Long:          "Strips leftover merge-conflict markers and checks optimisation follow-ups",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = filepath.Join(workDir, config.DefaultFileName)
		}

		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}

		logger, err = logging.New(cfg.Logging.Level, verbose)
		if err != nil {
			return err
		}
		logger.Debug("Loaded config", zap.String("path", path), zap.String("dir", workDir))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", ".", "working tree the file paths are relative to")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <dir>/"+config.DefaultFileName+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(shellCmd)
}

// ExitStatus carries a non-zero exit status for a command that has already
// printed its own output.
type ExitStatus struct {
	Code int
}

func (e *ExitStatus) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func ExitCode(err error) int {
	var status *ExitStatus
	if errors.As(err, &status) {
		return status.Code
	}
	return 1
}
