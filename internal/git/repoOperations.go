package git

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type GitRepo struct {
	WorkDir string
}

func formatCommandError(operation string, err error, stdout, stderr bytes.Buffer) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s failed: %v\nStdout: %s\nStderr: %s",
		operation, err, stdout.String(), stderr.String())
}

func New(workDir string) *GitRepo {
	return &GitRepo{WorkDir: workDir}
}

func (repo *GitRepo) run(operation string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Env = os.Environ()
	cmd.Dir = repo.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return "", formatCommandError(operation, err, stdout, stderr)
	}
	return stdout.String(), nil
}

func (repo *GitRepo) GetCurrentBranch() (string, error) {
	output, err := repo.run("get current branch", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// Root returns the top level directory of the repository.
func (repo *GitRepo) Root() (string, error) {
	output, err := repo.run("find repository root", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}
