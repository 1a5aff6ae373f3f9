// Package wizard implements the interactive five-step resume tailoring TUI.
package wizard

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/resumetailor/internal/ai"
	"github.com/amishk599/resumetailor/internal/model"
	"github.com/amishk599/resumetailor/internal/render"
)

// Step identifies a wizard screen.
type Step int

const (
	StepWelcome Step = iota
	StepJobDesc
	StepResume
	StepRecommendations
	StepTailored
)

const stepCount = 5

// Generator runs one completion and returns the recorded result.
type Generator interface {
	Generate(ctx context.Context, jobDescription, resume string, mode ai.Mode) model.Completion
}

// Options configures a wizard run.
type Options struct {
	Generator Generator
	Copier    render.Copier
	// ExportDir is where "e" writes HTML exports. Defaults to the working directory.
	ExportDir string

	// Prefilled textarea contents.
	JobDescription string
	Resume         string
}

// completionMsg is sent when an async completion finishes.
type completionMsg struct {
	mode       ai.Mode
	completion model.Completion
}

type wizardModel struct {
	step    Step
	jobDesc textarea.Model
	resume  textarea.Model
	result  viewport.Model
	spinner spinner.Model
	loading bool

	recommendations string
	tailored        string

	flash    string
	flashErr bool

	width  int
	height int

	gen       Generator
	copier    render.Copier
	exportDir string
	now       func() time.Time
}

func newTextarea(placeholder, value string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetValue(value)
	return ta
}

func newModel(opts Options) wizardModel {
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	m := wizardModel{
		step:      StepWelcome,
		jobDesc:   newTextarea("Paste the job description here...", opts.JobDescription),
		resume:    newTextarea("Paste your resume here...", opts.Resume),
		result:    viewport.New(76, 16),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(flashStyle)),
		gen:       opts.Generator,
		copier:    opts.Copier,
		exportDir: exportDir,
		now:       time.Now,
	}
	m.resize(80, 24)
	return m
}

func (m wizardModel) Init() tea.Cmd {
	return nil
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case completionMsg:
		m.loading = false
		if msg.mode == ai.ModeTailor {
			m.tailored = msg.completion.Result
			m.step = StepTailored
		} else {
			m.recommendations = msg.completion.Result
			m.step = StepRecommendations
		}
		m.showResult()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// Inputs are frozen while a request is outstanding.
		if m.loading {
			return m, nil
		}
		switch m.step {
		case StepWelcome:
			return m.updateWelcome(msg)
		case StepJobDesc:
			return m.updateJobDesc(msg)
		case StepResume:
			return m.updateResume(msg)
		case StepRecommendations:
			return m.updateRecommendations(msg)
		case StepTailored:
			return m.updateTailored(msg)
		}
	}

	return m, nil
}

func (m wizardModel) updateWelcome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter":
		return m.goTo(StepJobDesc)
	}
	return m, nil
}

func (m wizardModel) updateJobDesc(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+n":
		if isBlank(m.jobDesc.Value()) {
			return m, nil
		}
		return m.goTo(StepResume)
	case "esc":
		return m.goTo(StepWelcome)
	}

	var cmd tea.Cmd
	m.jobDesc, cmd = m.jobDesc.Update(msg)
	return m, cmd
}

func (m wizardModel) updateResume(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+n":
		if isBlank(m.resume.Value()) || isBlank(m.jobDesc.Value()) {
			return m, nil
		}
		m.resume.Blur()
		return m.startCompletion(ai.ModeRecommend)
	case "esc":
		return m.goTo(StepJobDesc)
	}

	var cmd tea.Cmd
	m.resume, cmd = m.resume.Update(msg)
	return m, cmd
}

func (m wizardModel) updateRecommendations(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "t":
		return m.startCompletion(ai.ModeTailor)
	case "n":
		return m.goTo(StepWelcome)
	case "esc", "b":
		return m.goTo(StepResume)
	}

	var cmd tea.Cmd
	m.result, cmd = m.result.Update(msg)
	return m, cmd
}

func (m wizardModel) updateTailored(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "c":
		m.copyTailored()
		return m, nil
	case "e":
		m.exportTailored()
		return m, nil
	case "s":
		m.jobDesc.Reset()
		m.resume.Reset()
		m.recommendations = ""
		m.tailored = ""
		return m.goTo(StepWelcome)
	case "esc", "b":
		return m.goTo(StepRecommendations)
	}

	var cmd tea.Cmd
	m.result, cmd = m.result.Update(msg)
	return m, cmd
}

// goTo switches screens and moves focus to the screen's input, if any.
func (m wizardModel) goTo(step Step) (tea.Model, tea.Cmd) {
	m.step = step
	m.flash = ""
	m.jobDesc.Blur()
	m.resume.Blur()

	var cmd tea.Cmd
	switch step {
	case StepJobDesc:
		cmd = m.jobDesc.Focus()
	case StepResume:
		cmd = m.resume.Focus()
	case StepRecommendations, StepTailored:
		m.showResult()
	}
	return m, cmd
}

func (m wizardModel) startCompletion(mode ai.Mode) (tea.Model, tea.Cmd) {
	m.loading = true
	m.flash = ""
	return m, tea.Batch(m.spinner.Tick, m.generateCmd(mode))
}

func (m wizardModel) generateCmd(mode ai.Mode) tea.Cmd {
	gen := m.gen
	jd, resume := m.jobDesc.Value(), m.resume.Value()
	return func() tea.Msg {
		return completionMsg{mode: mode, completion: gen.Generate(context.Background(), jd, resume, mode)}
	}
}

func (m *wizardModel) copyTailored() {
	if isBlank(m.tailored) {
		m.setFlash("nothing to copy yet", true)
		return
	}
	if m.copier == nil {
		m.setFlash("clipboard is not available", true)
		return
	}
	method, err := m.copier.Copy(m.tailored)
	if err != nil {
		m.setFlash(fmt.Sprintf("copy failed: %v", err), true)
		return
	}
	m.setFlash(fmt.Sprintf("Copied to clipboard via %s", method), false)
}

func (m *wizardModel) exportTailored() {
	if isBlank(m.tailored) {
		m.setFlash("nothing to export yet", true)
		return
	}
	name := fmt.Sprintf("tailored-resume-%s.html", m.now().Format("20060102-150405"))
	path := filepath.Join(m.exportDir, name)
	if err := render.ExportHTML(path, "Tailored Resume", m.tailored); err != nil {
		m.setFlash(fmt.Sprintf("export failed: %v", err), true)
		return
	}
	m.setFlash("Exported to "+path, false)
}

func (m *wizardModel) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashErr = isErr
}

func (m *wizardModel) resize(width, height int) {
	m.width = width
	m.height = height

	// Banner, progress, title, hint and status bar plus card padding.
	inner := max(width-8, 20)
	body := max(height-14, 5)

	m.jobDesc.SetWidth(inner)
	m.jobDesc.SetHeight(body)
	m.resume.SetWidth(inner)
	m.resume.SetHeight(body)
	m.result.Width = inner
	m.result.Height = body

	if m.step == StepRecommendations || m.step == StepTailored {
		m.showResult()
	}
}

// showResult renders the current step's markdown into the viewport.
func (m *wizardModel) showResult() {
	text := m.recommendations
	if m.step == StepTailored {
		text = m.tailored
	}
	m.result.SetContent(render.Terminal(text, m.result.Width))
	m.result.GotoTop()
}

func (m wizardModel) View() string {
	var body string
	switch m.step {
	case StepWelcome:
		body = m.viewWelcome()
	case StepJobDesc:
		body = m.viewInput("Paste the job description", m.jobDesc, "ctrl+n next  esc back")
	case StepResume:
		body = m.viewInput("Paste your resume", m.resume, "ctrl+n analyze  esc back")
	case StepRecommendations:
		body = m.viewResult("Recommendations", "t tailor resume  n new job  esc/b back  ↑/↓ scroll")
	case StepTailored:
		body = m.viewResult("Tailored Resume", "c copy  e export html  s start over  esc/b back  ↑/↓ scroll")
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		bannerStyle.Render("Resume Tailor"),
		"  ",
		progress(m.step),
	)
	statusBar := statusBarStyle.Width(m.width).Render(fmt.Sprintf(" step %d of %d  ctrl+c quit", int(m.step)+1, stepCount))

	return header + "\n" + cardStyle.Width(m.width-2).Render(body) + "\n" + statusBar
}

func (m wizardModel) viewWelcome() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tailor your resume to any job"))
	b.WriteByte('\n')
	b.WriteString(textStyle.Render("Paste a job description and your resume. You get targeted\nrecommendations first, then a rewritten resume you can copy or export."))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("enter start  q quit"))
	return b.String()
}

func (m wizardModel) viewInput(title string, ta textarea.Model, hint string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteByte('\n')
	b.WriteString(promptStyle.Render(ta.View()))
	b.WriteString("\n\n")
	b.WriteString(badgeStyle.Render(fmt.Sprintf("%d words", wordCount(ta.Value()))))
	b.WriteString("  ")
	if m.loading {
		b.WriteString(m.spinner.View() + " Analyzing your resume...")
	} else {
		b.WriteString(hintStyle.Render(hint))
	}
	return b.String()
}

func (m wizardModel) viewResult(title, hint string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteByte('\n')
	b.WriteString(m.result.View())
	b.WriteString("\n\n")
	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Tailoring your resume...")
	case m.flash != "" && m.flashErr:
		b.WriteString(errorStyle.Render(m.flash))
	case m.flash != "":
		b.WriteString(flashStyle.Render(m.flash))
	default:
		b.WriteString(hintStyle.Render(hint))
	}
	return b.String()
}

// progress renders one dot per step, filled up to the current one.
func progress(step Step) string {
	dots := make([]string, stepCount)
	for i := range dots {
		if i <= int(step) {
			dots[i] = dotActiveStyle.Render("●")
		} else {
			dots[i] = dotInactiveStyle.Render("○")
		}
	}
	return strings.Join(dots, " ")
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// RunWizard launches the wizard in the alternate screen and blocks until the
// user quits.
func RunWizard(opts Options) error {
	p := tea.NewProgram(newModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
