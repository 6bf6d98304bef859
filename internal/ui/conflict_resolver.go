package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/corpeningc/sitetool/internal/conflict"
	"github.com/corpeningc/sitetool/internal/resolve"
)

// ConflictPreviewModel shows, file by file, which side of every conflict
// would be kept. It never writes anything.
type ConflictPreviewModel struct {
	files            []resolve.FileResult
	resolution       conflict.ResolutionChoice
	currentFileIndex int
	viewport         viewport.Model
	ready            bool

	titleStyle   lipgloss.Style
	headerStyle  lipgloss.Style
	keptStyle    lipgloss.Style
	droppedStyle lipgloss.Style
	baseStyle    lipgloss.Style
	errorStyle   lipgloss.Style
	helpStyle    lipgloss.Style
}

func NewConflictPreviewModel(report resolve.Report, resolution conflict.ResolutionChoice) ConflictPreviewModel {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle()

	return ConflictPreviewModel{
		files:      report.Results,
		resolution: resolution,
		viewport:   vp,

		titleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true),

		headerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),

		keptStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")),

		droppedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Strikethrough(true),

		baseStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),

		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

func (m ConflictPreviewModel) Init() tea.Cmd {
	return nil
}

func (m ConflictPreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 4 // Title + help + borders
		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, msg.Height-headerHeight)
			m.viewport.Style = lipgloss.NewStyle()
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = msg.Height - headerHeight
		}
		m.viewport.SetContent(m.renderFile())

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit

		case "n", "tab":
			if m.currentFileIndex < len(m.files)-1 {
				m.currentFileIndex++
				m.viewport.SetContent(m.renderFile())
				m.viewport.GotoTop()
			}
			return m, nil

		case "p", "shift+tab":
			if m.currentFileIndex > 0 {
				m.currentFileIndex--
				m.viewport.SetContent(m.renderFile())
				m.viewport.GotoTop()
			}
			return m, nil

		case "d", "ctrl+d":
			m.viewport.HalfViewDown()

		case "u", "ctrl+u":
			m.viewport.HalfViewUp()

		case "g", "home":
			m.viewport.GotoTop()

		case "G", "end":
			m.viewport.GotoBottom()
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m ConflictPreviewModel) View() string {
	if len(m.files) == 0 {
		return m.helpStyle.Render("No files to preview. q: quit")
	}
	if !m.ready {
		return "Loading conflicts..."
	}

	var sections []string

	title := fmt.Sprintf("Conflict Preview - %s (%d/%d, keeping %s)",
		m.CurrentFile(), m.currentFileIndex+1, len(m.files), m.resolution)
	sections = append(sections, m.titleStyle.Render(title))
	sections = append(sections, m.viewport.View())

	help := m.helpStyle.Render("j/k: scroll | d/u: half page | n/p: next/prev file | g/G: top/bottom | q: quit")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ConflictPreviewModel) CurrentFile() string {
	if len(m.files) == 0 {
		return ""
	}
	return m.files[m.currentFileIndex].Path
}

func (m ConflictPreviewModel) renderFile() string {
	if len(m.files) == 0 {
		return ""
	}
	res := m.files[m.currentFileIndex]

	switch res.Status {
	case resolve.StatusNotFound:
		return m.errorStyle.Render("File not found.")
	case resolve.StatusError:
		return m.errorStyle.Render("Cannot resolve: " + errMessage(res.Err))
	}

	if len(res.Sections) == 0 {
		msg := "No conflict markers found."
		if res.Unresolved > 0 {
			msg = fmt.Sprintf("%d start %s without a matching end; left as is.",
				res.Unresolved, plural(res.Unresolved, "marker", "markers"))
		}
		return m.baseStyle.Render(msg)
	}

	keepOurs := m.resolution != conflict.ChooseTheirs
	keepTheirs := m.resolution != conflict.ChooseOurs

	var b strings.Builder
	for i, s := range res.Sections {
		header := fmt.Sprintf("Conflict %d, lines %d-%d", i+1, s.StartLine, s.EndLine)
		b.WriteString(m.headerStyle.Render(header))
		b.WriteString("\n")

		b.WriteString(m.side("ours "+s.OurLabel, s.OurChanges, keepOurs))
		if s.BaseContent != "" {
			b.WriteString(m.headerStyle.Render("  base"))
			b.WriteString("\n")
			for _, line := range contentLines(s.BaseContent) {
				b.WriteString(m.baseStyle.Render("    " + line))
				b.WriteString("\n")
			}
		}
		b.WriteString(m.side("theirs "+s.TheirLabel, s.TheirChanges, keepTheirs))
		b.WriteString("\n")
	}
	return b.String()
}

func (m ConflictPreviewModel) side(title, content string, kept bool) string {
	var b strings.Builder

	style, mark := m.droppedStyle, "- "
	if kept {
		style, mark = m.keptStyle, "+ "
	}

	b.WriteString(m.headerStyle.Render("  " + strings.TrimSpace(title)))
	b.WriteString("\n")
	for _, line := range contentLines(content) {
		b.WriteString(style.Render("  " + mark + line))
		b.WriteString("\n")
	}
	return b.String()
}

func contentLines(content string) []string {
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

func PreviewConflicts(report resolve.Report, resolution conflict.ResolutionChoice) error {
	m := NewConflictPreviewModel(report, resolution)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
