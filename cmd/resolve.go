package cmd

import (
	"fmt"

	"github.com/corpeningc/sitetool/internal/conflict"
	"github.com/corpeningc/sitetool/internal/git"
	"github.com/corpeningc/sitetool/internal/resolve"
	"github.com/corpeningc/sitetool/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resolveFlags struct {
	strict      bool
	keep        string
	dryRun      bool
	fromGit     bool
	pick        bool
	preview     bool
	stage       bool
	failOnError bool
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [files...]",
	Short: "Strip merge-conflict markers, keeping our side",
	Long: "Rewrites each file with every conflict section replaced by one side " +
		"(ours unless --keep says otherwise). Files come from the arguments, " +
		"from git's unmerged paths with --git, or from the config file list.",
	RunE: runResolve,
}

func init() {
	f := resolveCmd.Flags()
	f.BoolVar(&resolveFlags.strict, "strict", false, "report nested or malformed markers as errors")
	f.StringVar(&resolveFlags.keep, "keep", "", "side to keep: ours, theirs or both (default from config)")
	f.BoolVarP(&resolveFlags.dryRun, "dry-run", "n", false, "report what would change without writing")
	f.BoolVar(&resolveFlags.fromGit, "git", false, "resolve the files git reports as unmerged")
	f.BoolVarP(&resolveFlags.pick, "pick", "i", false, "choose the files interactively")
	f.BoolVar(&resolveFlags.preview, "preview", false, "browse the conflicts without writing")
	f.BoolVar(&resolveFlags.stage, "stage", false, "git add the files that were resolved")
	f.BoolVar(&resolveFlags.failOnError, "fail-on-error", false, "exit 1 when any file could not be processed")
}

func runResolve(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	dir := workDir
	files := args
	if len(files) == 0 && resolveFlags.fromGit {
		repo := git.New(workDir)
		if dir, err = repo.Root(); err != nil {
			return err
		}
		if files, err = repo.GetConflictedFiles(); err != nil {
			return fmt.Errorf("failed to list unmerged files: %w", err)
		}
	}
	if len(files) == 0 && !resolveFlags.fromGit {
		files = cfg.Resolve.Files
	}

	if len(files) == 0 {
		fmt.Println("No files to resolve.")
		return nil
	}

	if resolveFlags.pick {
		files, err = ui.SelectFiles("Select files to resolve:", files)
		if err != nil {
			return fmt.Errorf("error selecting files: %w", err)
		}
		if len(files) == 0 {
			fmt.Println("No files selected.")
			return nil
		}
	}

	runner := resolve.NewRunner(dir, opts, logger)
	runner.DryRun = resolveFlags.dryRun || resolveFlags.preview
	logger.Debug("Resolving files",
		zap.Strings("files", files),
		zap.Stringer("keep", opts.Choice),
		zap.Bool("strict", opts.Policy == conflict.Strict))

	report := runner.Run(files)

	if resolveFlags.preview {
		return ui.PreviewConflicts(report, opts.Choice)
	}

	fmt.Print(ui.RenderReport(report, runner.DryRun))

	if resolveFlags.stage && !runner.DryRun {
		if resolved := report.Resolved(); len(resolved) > 0 {
			if err := git.New(dir).AddFiles(resolved); err != nil {
				return fmt.Errorf("error staging resolved files: %w", err)
			}
			fmt.Printf("Staged %d files.\n", len(resolved))
		}
	}

	if resolveFlags.failOnError && report.HasErrors() {
		return &ExitStatus{Code: 1}
	}
	return nil
}

// resolveOptions starts from the config and applies any flags the user set.
func resolveOptions(cmd *cobra.Command) (conflict.Options, error) {
	opts := cfg.ResolveOptions()

	if cmd.Flags().Changed("keep") {
		choice, err := conflict.ParseChoice(resolveFlags.keep)
		if err != nil {
			return opts, err
		}
		opts.Choice = choice
	}
	if cmd.Flags().Changed("strict") {
		opts.Policy = conflict.ShortestMatch
		if resolveFlags.strict {
			opts.Policy = conflict.Strict
		}
	}
	return opts, nil
}
