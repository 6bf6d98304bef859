package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/corpeningc/sitetool/internal/git"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive sitetool shell",
	Long:  "Launch an interactive shell for running sitetool commands without repeating the 'sitetool' prefix",
	Run: func(cmd *cobra.Command, args []string) {
		runInteractiveShell()
	},
}

type shellAction int

const (
	shellContinue shellAction = iota
	shellHandled
	shellExit
)

func runInteractiveShell() {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	historyFile := getHistoryFilePath()
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	line.SetCompleter(func(line string) (c []string) {
		for _, name := range getCommandNames() {
			if strings.HasPrefix(name, strings.ToLower(line)) {
				c = append(c, name)
			}
		}
		return
	})

	fmt.Println("sitetool interactive shell. Type 'exit' or press Ctrl+D to quit.")
	fmt.Println("Type 'help' to see available commands.")

	persistent := snapshotFlags(rootCmd.PersistentFlags())
	repo := git.New(workDir)
	for {
		branch, err := repo.GetCurrentBranch()
		if err != nil {
			branch = "no git"
		}

		input, err := line.Prompt(fmt.Sprintf("[%s]> ", branch))
		if err != nil {
			// EOF or Ctrl+C
			fmt.Println()
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)

		action := handleSpecialCommand(input)
		if action == shellExit {
			fmt.Println("Goodbye!")
			break
		}
		if action == shellHandled {
			continue
		}

		executeCommand(input, persistent)
	}

	if f, err := os.Create(historyFile); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
}

func handleSpecialCommand(input string) shellAction {
	switch strings.ToLower(input) {
	case "exit", "quit":
		return shellExit
	case "clear", "cls":
		fmt.Print("\033[H\033[2J")
		return shellHandled
	case "help":
		rootCmd.Help()
		return shellHandled
	}
	return shellContinue
}

func executeCommand(input string, persistent flagSnapshot) {
	parts := parseCommandLine(input)
	if len(parts) == 0 {
		return
	}
	if parts[0] == "shell" {
		fmt.Println("Already in the shell.")
		return
	}

	rootCmd.SetArgs(parts)

	// Errors are reported but never end the shell session
	if err := rootCmd.Execute(); err != nil {
		if _, ok := err.(*ExitStatus); !ok {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		if logger != nil {
			logger.Debug("Shell command failed", zap.String("input", input), zap.Error(err))
		}
	}

	rootCmd.SetArgs([]string{})
	resetLocalFlags(rootCmd)
	persistent.restore(rootCmd.PersistentFlags())
}

// resetLocalFlags puts every subcommand flag back to its default so one
// shell command does not leak options into the next.
func resetLocalFlags(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		sub.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
			f.Value.Set(f.DefValue)
			f.Changed = false
		})
		resetLocalFlags(sub)
	}
}

type flagState struct {
	value   string
	changed bool
}

// flagSnapshot records flag values so persistent flags such as --dir can go
// back to what the shell was started with after each command.
type flagSnapshot map[string]flagState

func snapshotFlags(flags *pflag.FlagSet) flagSnapshot {
	snap := flagSnapshot{}
	flags.VisitAll(func(f *pflag.Flag) {
		snap[f.Name] = flagState{value: f.Value.String(), changed: f.Changed}
	})
	return snap
}

func (s flagSnapshot) restore(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if state, ok := s[f.Name]; ok {
			f.Value.Set(state.value)
			f.Changed = state.changed
		}
	})
}

func parseCommandLine(input string) []string {
	// Split on spaces but respect quotes
	var parts []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)

	for _, char := range input {
		switch {
		case (char == '"' || char == '\'') && !inQuotes:
			inQuotes = true
			quoteChar = char
		case char == quoteChar && inQuotes:
			inQuotes = false
			quoteChar = 0
		case char == ' ' && !inQuotes:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

func getCommandNames() []string {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "shell" {
			continue
		}
		names = append(names, cmd.Name())
	}
	return names
}

func getHistoryFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sitetool_history"
	}
	return filepath.Join(homeDir, ".sitetool_history")
}
