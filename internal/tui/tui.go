// Package tui is the interactive terminal front end: a form for the job
// posting and a scrollable view of the generated proposal versions.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/bidcraft/internal/model"
)

// Generator is the part of the proposal pipeline the TUI needs.
type Generator interface {
	Generate(req model.Request) ([]model.Proposal, error)
}

// Defaults pre-fills the form and sets how many versions are generated.
type Defaults struct {
	Experience string
	Name       string
	Variants   int
}

type viewState int

const (
	viewForm viewState = iota
	viewResult
)

// Form fields in tab order.
const (
	fieldJob = iota
	fieldExperience
	fieldName
	fieldCount
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("34")). // green
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("245"))

	activeLabelStyle = labelStyle.
				Foreground(lipgloss.Color("39"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39"))

	versionStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("28"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))
)

const (
	formStatus   = " tab next field  ctrl+s generate  ctrl+c quit"
	resultStatus = " n/p switch version  r regenerate  ↑/↓ scroll  b/esc back  q quit"
)

const errBlankJob = "Paste a job description first."

type tuiModel struct {
	generator Generator
	variants  int

	job        textarea.Model
	experience textinput.Model
	name       textinput.Model
	focus      int
	formError  string

	view      viewState
	proposals []model.Proposal
	current   int
	viewport  viewport.Model

	width  int
	height int
	ready  bool
}

func newModel(gen Generator, d Defaults) tuiModel {
	job := textarea.New()
	job.Placeholder = "Paste the full job posting here..."
	job.ShowLineNumbers = false
	job.CharLimit = 0
	job.SetHeight(8)
	job.Focus()

	exp := textinput.New()
	exp.Placeholder = "annotated 5000 images for an AI startup"
	exp.CharLimit = 500
	exp.SetValue(d.Experience)

	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 100
	name.SetValue(d.Name)

	return tuiModel{
		generator:  gen,
		variants:   max(d.Variants, 1),
		job:        job,
		experience: exp,
		name:       name,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		if m.view == viewResult {
			return m.updateResultView(msg)
		}
		return m.updateFormView(msg)
	}

	return m.forwardToFocused(msg)
}

func (m tuiModel) updateFormView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m, m.setFocus((m.focus + 1) % fieldCount)
	case "shift+tab":
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case "ctrl+s":
		return m.generate()
	}
	return m.forwardToFocused(msg)
}

func (m tuiModel) updateResultView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "b":
		m.view = viewForm
		return m, m.setFocus(m.focus)
	case "n", "right", "tab":
		m.showVersion(m.current + 1)
		return m, nil
	case "p", "left", "shift+tab":
		m.showVersion(m.current - 1)
		return m, nil
	case "r":
		return m.generate()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m tuiModel) forwardToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case fieldJob:
		m.job, cmd = m.job.Update(msg)
	case fieldExperience:
		m.experience, cmd = m.experience.Update(msg)
	case fieldName:
		m.name, cmd = m.name.Update(msg)
	}
	return m, cmd
}

// setFocus moves keyboard focus to field i and blurs the others.
func (m *tuiModel) setFocus(i int) tea.Cmd {
	m.focus = i
	m.job.Blur()
	m.experience.Blur()
	m.name.Blur()
	switch i {
	case fieldExperience:
		return m.experience.Focus()
	case fieldName:
		return m.name.Focus()
	default:
		return m.job.Focus()
	}
}

func (m tuiModel) generate() (tea.Model, tea.Cmd) {
	if strings.TrimSpace(m.job.Value()) == "" {
		m.formError = errBlankJob
		m.view = viewForm
		return m, nil
	}

	proposals, err := m.generator.Generate(model.Request{
		JobDescription: m.job.Value(),
		Experience:     m.experience.Value(),
		AuthorName:     m.name.Value(),
		Variants:       m.variants,
	})
	if err != nil {
		if errors.Is(err, model.ErrEmptyJobDescription) {
			m.formError = errBlankJob
		} else {
			m.formError = fmt.Sprintf("could not generate proposals: %v", err)
		}
		m.view = viewForm
		return m, nil
	}

	m.formError = ""
	m.proposals = proposals
	m.view = viewResult
	m.showVersion(0)
	return m, nil
}

// showVersion selects proposal i, wrapping around at either end.
func (m *tuiModel) showVersion(i int) {
	n := len(m.proposals)
	if n == 0 {
		return
	}
	m.current = (i%n + n) % n
	m.viewport.SetContent(m.renderProposal())
	m.viewport.GotoTop()
}

func (m *tuiModel) recalcLayout() {
	contentWidth := max(m.width-4, 20)

	// Title (2 lines) + version header (2) + border (2) + status bar (1).
	vpHeight := max(m.height-7, 5)

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}

	m.job.SetWidth(contentWidth)
	m.experience.Width = contentWidth - 2
	m.name.Width = contentWidth - 2

	if len(m.proposals) > 0 {
		m.viewport.SetContent(m.renderProposal())
	}
}

func (m tuiModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewResult {
		return m.viewResult()
	}
	return m.viewForm()
}

func (m tuiModel) viewForm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Proposal Generator"))
	b.WriteByte('\n')

	label := func(i int, text string) string {
		if m.focus == i {
			return activeLabelStyle.Render(text)
		}
		return labelStyle.Render(text)
	}

	b.WriteString(label(fieldJob, "Job description"))
	b.WriteByte('\n')
	b.WriteString(m.job.View())
	b.WriteString("\n\n")
	b.WriteString(label(fieldExperience, "Similar experience (optional)"))
	b.WriteByte('\n')
	b.WriteString(m.experience.View())
	b.WriteString("\n\n")
	b.WriteString(label(fieldName, "Your name (optional)"))
	b.WriteByte('\n')
	b.WriteString(m.name.View())
	b.WriteString("\n\n")

	if m.formError != "" {
		b.WriteString(errorStyle.Render("⚠ " + m.formError))
		b.WriteString("\n\n")
	}

	b.WriteString(statusBarStyle.Width(m.width).Render(formStatus))
	return b.String()
}

func (m tuiModel) viewResult() string {
	p := m.proposals[m.current]

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		versionStyle.Render(fmt.Sprintf("Version %d of %d", p.Version, len(m.proposals))),
		"  ",
		categoryStyle.Render(fmt.Sprintf("%s · %d words", p.Category.Title(), p.WordCount)),
	)

	content := activeBorderStyle.Width(m.width - 2).Render(m.viewport.View())
	statusBar := statusBarStyle.Width(m.width).Render(resultStatus)

	return titleStyle.Render("Your Proposals") + "\n" + header + "\n" + content + "\n" + statusBar
}

func (m tuiModel) renderProposal() string {
	p := m.proposals[m.current]
	width := max(m.viewport.Width-2, 20)

	paragraphs := strings.Split(p.Text, "\n")
	for i, para := range paragraphs {
		paragraphs[i] = wordWrap(para, width)
	}
	return strings.Join(paragraphs, "\n")
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

// Run launches the interactive generator and blocks until the user quits.
func Run(gen Generator, d Defaults) error {
	p := tea.NewProgram(newModel(gen, d), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
