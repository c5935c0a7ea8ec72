package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/usecase"
)

type pane int

const (
	paneSummary pane = iota
	paneAPIResponse
	paneMissingKeys
	paneCount
)

var paneTitles = [paneCount]string{"Summary", "API Response", "Missing Keys"}

const minPaneHeight = 3

type model struct {
	theme Theme
	deps  Deps

	input   textinput.Model
	spinner spinner.Model
	panes   [paneCount]viewport.Model
	focus   pane

	width  int
	height int

	busy    bool
	pending <-chan tea.Msg
	cancel  context.CancelFunc

	// Page targets, written only through targetWriteMsg and loadingMsg.
	loading         bool
	apiResponse     string
	endpoint        string
	summaryHTML     string
	missingKeysHTML string
	message         string

	last    usecase.Submission
	hasLast bool
}

func Run(deps Deps) error {
	m := wrapSafe(newModel(deps), deps.Logger)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	t := DefaultTheme()

	in := textinput.New()
	in.Placeholder = "Enter Query"
	in.Prompt = "> "
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := model{
		theme:   t,
		deps:    deps,
		input:   in,
		spinner: sp,
	}
	for i := range m.panes {
		m.panes[i] = viewport.New(76, minPaneHeight)
	}
	m.refreshPanes()
	return m
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case loadingMsg:
		m.loading = msg.visible
		if m.loading {
			return m, tea.Batch(listenPage(m.pending), m.spinner.Tick)
		}
		return m, listenPage(m.pending)

	case targetWriteMsg:
		m.applyWrite(msg)
		return m, listenPage(m.pending)

	case submitDoneMsg:
		if m.cancel != nil {
			m.cancel()
		}
		m.cancel = nil
		m.pending = nil
		m.busy = false
		m.loading = false
		m.last = msg.sub
		m.hasLast = true
		if m.deps.Logger != nil && m.deps.Debug {
			m.deps.Logger.Debug("tui.submit.done",
				"id", msg.sub.ID,
				"outcome", string(msg.sub.Outcome),
				"err", msg.err,
			)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit

		case "esc":
			if m.busy {
				if m.cancel != nil {
					m.cancel()
				}
				return m, nil
			}
			return m, tea.Quit

		case "enter":
			return m.submit()

		case "tab":
			m.focus = (m.focus + 1) % paneCount
			return m, nil

		case "shift+tab":
			m.focus = (m.focus + paneCount - 1) % paneCount
			return m, nil

		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.panes[m.focus], cmd = m.panes[m.focus].Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch, cmd := startSubmit(ctx, m.deps, m.input.Value())
	m.busy = true
	m.pending = ch
	m.cancel = cancel
	return m, cmd
}

func (m *model) applyWrite(w targetWriteMsg) {
	switch w.target {
	case targetAPIResponse:
		m.apiResponse = w.text
	case targetEndpoint:
		m.endpoint = w.text
	case targetSummary:
		m.summaryHTML = w.text
	case targetMissingKeys:
		m.missingKeysHTML = w.text
	case targetResponse:
		m.message = w.text
	}
	m.refreshPanes()
}

func (m *model) refreshPanes() {
	m.panes[paneSummary].SetContent(renderSummary(m.theme, m.summaryHTML))
	m.panes[paneAPIResponse].SetContent(m.apiResponse)
	m.panes[paneMissingKeys].SetContent(renderMissingKeys(m.missingKeysHTML))
}

func (m *model) resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	m.width, m.height = w, h

	inner := w - 8
	if inner < 20 {
		inner = 20
	}
	m.input.Width = inner

	// header, input, endpoint, message, status and help take about 14 rows;
	// each pane adds two border rows.
	ph := (h - 14 - 2*int(paneCount)) / int(paneCount)
	if ph < minPaneHeight {
		ph = minPaneHeight
	}
	for i := range m.panes {
		m.panes[i].Width = inner
		m.panes[i].Height = ph
	}
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)

	var b strings.Builder
	b.WriteString(m.theme.Title.Render("querydesk"))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render(m.banner()))
	b.WriteString("\n")
	if m.deps.Warning != nil {
		b.WriteString(m.theme.Warning.Render("⚠ " + userMessage(m.deps.Warning)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.input.View())
	if m.loading {
		b.WriteString("  ")
		b.WriteString(m.spinner.View())
		b.WriteString(" Loading...")
	}
	b.WriteString("\n\n")

	if m.endpoint != "" {
		b.WriteString(clampString(m.endpoint, m.lineWidth()))
		b.WriteString("\n")
	}

	for i := range m.panes {
		p := pane(i)
		style := m.theme.Pane
		if p == m.focus {
			style = m.theme.Focused
		}
		b.WriteString(m.theme.Label.Render(paneTitles[p]))
		b.WriteString("\n")
		b.WriteString(style.Render(m.panes[p].View()))
		b.WriteString("\n")
	}

	if m.message != "" {
		b.WriteString(m.theme.Message.Render(m.message))
		b.WriteString("\n")
	}
	if m.hasLast {
		b.WriteString(m.theme.Help.Render(renderStatus(m.last)))
		b.WriteString("\n")
	}

	help := "enter submit • tab switch pane • ↑/↓ scroll • esc quit"
	if m.busy {
		help = "esc cancel • ctrl+c quit"
	}
	b.WriteString(m.theme.Help.Render(help))

	return wrap.Render(b.String())
}

func (m model) banner() string {
	parts := []string{}
	if m.deps.Endpoint != "" {
		parts = append(parts, "Backend: "+m.deps.Endpoint)
	}
	if m.deps.Environment != "" {
		parts = append(parts, "Env: "+m.deps.Environment)
	}
	if m.deps.WorkspaceRoot != "" {
		parts = append(parts, fmt.Sprintf("Workspace: %s", m.deps.WorkspaceRoot))
	}
	if len(parts) == 0 {
		return "Ask the backend in plain language"
	}
	return strings.Join(parts, " • ")
}

func (m model) lineWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width - 4
}
