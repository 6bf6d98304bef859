package cmd

import (
	"fmt"

	"github.com/corpeningc/sitetool/internal/checklist"
	"github.com/corpeningc/sitetool/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkStrict bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check which optimisation follow-ups are still pending",
	RunE: func(cmd *cobra.Command, args []string) error {
		results := checklist.Run(workDir, checklist.DefaultTasks(cfg.Check))
		for _, r := range results {
			logger.Debug("Checked task",
				zap.String("task", r.Task.Name),
				zap.Bool("done", r.Done),
				zap.Error(r.Err))
		}

		fmt.Print(ui.RenderChecklist(results))

		if checkStrict && !checklist.AllComplete(results) {
			return &ExitStatus{Code: 1}
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "exit 1 when any task is pending")
}
