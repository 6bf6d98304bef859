// Package checklist inspects a site working tree for the follow-up steps
// that remain after an optimisation pass.
package checklist

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/corpeningc/sitetool/internal/config"
)

type CheckFunc func(root string) (bool, []string, error)

type Task struct {
	Name   string
	Action string
	Check  CheckFunc
}

type TaskResult struct {
	Task    Task
	Done    bool
	Details []string
	Err     error
}

var htmlHref = regexp.MustCompile(`href\s*=\s*[{]?\s*["'\x60]([^"'\x60]*\.html)(?:[#?][^"'\x60]*)?["'\x60]`)

var sourceExts = map[string]bool{
	".js":  true,
	".jsx": true,
	".ts":  true,
	".tsx": true,
}

// DefaultTasks builds the optimisation checklist from the check settings.
func DefaultTasks(cfg config.CheckConfig) []Task {
	return []Task{
		{
			Name:   "Update Navbar imports",
			Action: "Replace Navbar imports with NavbarOptimized in all page components",
			Check:  FilesWithout(cfg.NavbarFiles, cfg.NavbarImport, "needs Navbar update"),
		},
		{
			Name:   "Check for .html links",
			Action: "Search for .html in href attributes and update to React Router paths",
			Check:  NoHTMLLinks(cfg.LinkRoots),
		},
		{
			Name:   "Verify build configuration",
			Action: fmt.Sprintf("%s should have %s configuration", cfg.BuildConfig, cfg.BuildMarker),
			Check:  FileContains(cfg.BuildConfig, cfg.BuildMarker),
		},
	}
}

// Run evaluates every task against root. A task whose check errors counts
// as not done.
func Run(root string, tasks []Task) []TaskResult {
	results := make([]TaskResult, 0, len(tasks))
	for _, task := range tasks {
		done, details, err := task.Check(root)
		results = append(results, TaskResult{
			Task:    task,
			Done:    done && err == nil,
			Details: details,
			Err:     err,
		})
	}
	return results
}

func AllComplete(results []TaskResult) bool {
	for _, r := range results {
		if !r.Done {
			return false
		}
	}
	return true
}

// FilesWithout passes when none of the existing files contain needle.
// Each offending file is reported with hint appended. Missing files are
// skipped.
func FilesWithout(files []string, needle, hint string) CheckFunc {
	return func(root string) (bool, []string, error) {
		var offenders []string
		for _, file := range files {
			data, err := os.ReadFile(filepath.Join(root, file))
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return false, offenders, fmt.Errorf("failed to read %s: %w", file, err)
			}
			if strings.Contains(string(data), needle) {
				offenders = append(offenders, file+" "+hint)
			}
		}
		return len(offenders) == 0, offenders, nil
	}
}

// FileContains passes when file exists and contains needle.
func FileContains(file, needle string) CheckFunc {
	return func(root string) (bool, []string, error) {
		data, err := os.ReadFile(filepath.Join(root, file))
		if err != nil {
			if os.IsNotExist(err) {
				return false, []string{file + " not found"}, nil
			}
			return false, nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		return strings.Contains(string(data), needle), nil, nil
	}
}

// NoHTMLLinks passes when no source file under roots has an href pointing
// at a .html page. Each hit is reported as path:line.
func NoHTMLLinks(roots []string) CheckFunc {
	return func(root string) (bool, []string, error) {
		var hits []string
		for _, dir := range roots {
			base := filepath.Join(root, dir)
			err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					if d.Name() == "node_modules" || d.Name() == "dist" {
						return filepath.SkipDir
					}
					return nil
				}
				if !sourceExts[filepath.Ext(path)] {
					return nil
				}
				found, err := scanHTMLLinks(path)
				if err != nil {
					return err
				}
				rel, relErr := filepath.Rel(root, path)
				if relErr != nil {
					rel = path
				}
				for _, hit := range found {
					hits = append(hits, fmt.Sprintf("%s:%d links to %s", filepath.ToSlash(rel), hit.line, hit.target))
				}
				return nil
			})
			if err != nil && !os.IsNotExist(err) {
				return false, hits, fmt.Errorf("failed to scan %s: %w", dir, err)
			}
		}
		return len(hits) == 0, hits, nil
	}
}

type linkHit struct {
	line   int
	target string
}

func scanHTMLLinks(path string) ([]linkHit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var hits []linkHit
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		for _, m := range htmlHref.FindAllStringSubmatch(scanner.Text(), -1) {
			if isExternal(m[1]) {
				continue
			}
			hits = append(hits, linkHit{line: line, target: m[1]})
		}
	}
	return hits, scanner.Err()
}

func isExternal(target string) bool {
	return strings.HasPrefix(target, "http://") ||
		strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "//")
}
