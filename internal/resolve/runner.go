// Package resolve runs the conflict resolver over a list of files in a
// working tree, one file at a time, and records a status for each.
package resolve

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/corpeningc/sitetool/internal/conflict"
	"go.uber.org/zap"
)

type Status int

const (
	StatusResolved Status = iota
	StatusClean
	StatusNotFound
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusResolved:
		return "resolved"
	case StatusClean:
		return "clean"
	case StatusNotFound:
		return "not found"
	default:
		return "error"
	}
}

type FileResult struct {
	Path       string
	Status     Status
	Conflicts  int
	Unresolved int
	Sections   []conflict.Section
	Err        error
}

type Runner struct {
	WorkDir string
	Options conflict.Options
	DryRun  bool
	Logger  *zap.Logger
}

func NewRunner(workDir string, opts conflict.Options, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{WorkDir: workDir, Options: opts, Logger: logger}
}

// Run processes paths in order. A failure on one file is recorded in its
// result and never stops the rest of the batch.
func (r *Runner) Run(paths []string) Report {
	report := Report{Results: make([]FileResult, 0, len(paths))}
	for _, path := range paths {
		res := r.resolveFile(path)
		r.log(res)
		report.Results = append(report.Results, res)
	}
	return report
}

func (r *Runner) resolveFile(path string) FileResult {
	res := FileResult{Path: path}
	full := r.fullPath(path)

	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.Status = StatusNotFound
			return res
		}
		return failed(res, err)
	}
	if info.IsDir() {
		return failed(res, fmt.Errorf("%s is a directory", path))
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return failed(res, err)
	}

	out, err := conflict.Resolve(string(data), r.Options)
	if err != nil {
		return failed(res, fmt.Errorf("%s: %w", path, err))
	}
	res.Sections = out.Sections
	res.Conflicts = len(out.Sections)
	res.Unresolved = out.Unresolved

	if !out.Changed {
		res.Status = StatusClean
		return res
	}

	if !r.DryRun {
		if err := writeFileAtomic(full, []byte(out.Text), info.Mode().Perm()); err != nil {
			return failed(res, err)
		}
	}
	res.Status = StatusResolved
	return res
}

func (r *Runner) fullPath(path string) string {
	if filepath.IsAbs(path) || r.WorkDir == "" {
		return path
	}
	return filepath.Join(r.WorkDir, path)
}

func (r *Runner) log(res FileResult) {
	fields := []zap.Field{
		zap.String("path", res.Path),
		zap.Stringer("status", res.Status),
		zap.Int("conflicts", res.Conflicts),
	}
	switch res.Status {
	case StatusError:
		r.Logger.Error("Failed to resolve file", append(fields, zap.Error(res.Err))...)
	case StatusNotFound:
		r.Logger.Warn("File not found", fields...)
	default:
		if res.Unresolved > 0 {
			r.Logger.Warn("Left unresolved conflict markers in place",
				append(fields, zap.Int("unresolved", res.Unresolved))...)
			return
		}
		r.Logger.Debug("Processed file", append(fields, zap.Bool("dry_run", r.DryRun))...)
	}
}

func failed(res FileResult, err error) FileResult {
	res.Status = StatusError
	res.Err = err
	return res
}

// writeFileAtomic replaces path with data through a temp file in the same
// directory, so readers see either the old or the new content. A symlink is
// followed so the link itself survives.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	path = target

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
