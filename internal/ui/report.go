package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/corpeningc/sitetool/internal/checklist"
	"github.com/corpeningc/sitetool/internal/resolve"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// RenderReport formats one status line per file followed by a summary line.
func RenderReport(report resolve.Report, dryRun bool) string {
	var b strings.Builder

	for _, res := range report.Results {
		b.WriteString(statusLine(res, dryRun))
		b.WriteString("\n")
	}

	s := report.Summary()
	summary := fmt.Sprintf("%d resolved, %d clean, %d not found, %d errors",
		s.Resolved, s.Clean, s.NotFound, s.Errors)
	if dryRun {
		summary += " (dry run, nothing written)"
	}
	b.WriteString("\n")
	b.WriteString(summaryStyle.Render(summary))
	b.WriteString("\n")
	return b.String()
}

func statusLine(res resolve.FileResult, dryRun bool) string {
	switch res.Status {
	case resolve.StatusResolved:
		line := okStyle.Render("resolved") + "  " + res.Path
		detail := fmt.Sprintf(" (%d %s", res.Conflicts, plural(res.Conflicts, "conflict", "conflicts"))
		if dryRun {
			detail += ", not written"
		}
		detail += ")"
		line += mutedStyle.Render(detail)
		if res.Unresolved > 0 {
			line += warnStyle.Render(fmt.Sprintf(" %d unresolved", res.Unresolved))
		}
		return line
	case resolve.StatusClean:
		line := mutedStyle.Render("clean") + "     " + res.Path
		if res.Unresolved > 0 {
			line += warnStyle.Render(fmt.Sprintf(" %d unresolved", res.Unresolved))
		}
		return line
	case resolve.StatusNotFound:
		return warnStyle.Render("not found") + " " + res.Path
	default:
		return errorStyle.Render("error: "+errMessage(res.Err)) + " " + res.Path
	}
}

// RenderChecklist formats checklist results with the action hint under
// each unfinished task and the next steps.
func RenderChecklist(results []checklist.TaskResult) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Checking optimization status..."))
	b.WriteString("\n\n")

	for _, r := range results {
		if r.Done {
			b.WriteString(okStyle.Render("[x]") + " " + r.Task.Name + "\n")
			continue
		}
		b.WriteString(errorStyle.Render("[ ]") + " " + r.Task.Name + "\n")
		for _, detail := range r.Details {
			b.WriteString(mutedStyle.Render("    "+detail) + "\n")
		}
		if r.Err != nil {
			b.WriteString(errorStyle.Render("    error: "+r.Err.Error()) + "\n")
		}
		b.WriteString("    -> " + r.Task.Action + "\n")
	}

	b.WriteString("\n" + strings.Repeat("=", 60) + "\n\n")

	if checklist.AllComplete(results) {
		b.WriteString(okStyle.Render("All optimizations complete! Ready to build.") + "\n\n")
		b.WriteString("Next steps:\n")
		b.WriteString("  1. npm run build\n")
		b.WriteString("  2. npm run preview\n")
		b.WriteString("  3. Test all routes\n")
		b.WriteString("  4. Deploy to production\n")
	} else {
		b.WriteString(warnStyle.Render("Some tasks still need attention. See above for details.") + "\n\n")
		b.WriteString("After completing manual tasks:\n")
		b.WriteString("  1. Run this check again to verify\n")
		b.WriteString("  2. npm run build\n")
		b.WriteString("  3. npm run preview\n")
	}

	return b.String()
}

func errMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
