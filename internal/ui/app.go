package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fetchlab/fetchlab/internal/demo"
	"github.com/fetchlab/fetchlab/internal/prefs"
)

const snapshotTick = 150 * time.Millisecond

// Options configures the UI.
type Options struct {
	Context       context.Context
	Pages         []*Page
	ThemeName     string
	PrefsPath     string
	StartPage     string
	TranscriptDir string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx           context.Context
	pages         []*Page
	prefsPath     string
	transcriptDir string

	theme  Theme
	active int
	width  int
	height int
	ready  bool

	snapshot demo.Snapshot

	spinner    spinner.Model
	progress   progress.Model
	transcript viewport.Model

	showHelp bool
	notice   string
	noticeAt time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = themeOrder[0]
	}
	theme := GetTheme(themeName)

	active := 0
	for i, p := range opts.Pages {
		if p.Slug == opts.StartPage {
			active = i
			break
		}
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	pr := progress.New(progress.WithGradient(theme.Accent, theme.Success))

	return Model{
		ctx:           ctx,
		pages:         opts.Pages,
		prefsPath:     opts.PrefsPath,
		transcriptDir: opts.TranscriptDir,
		theme:         theme,
		active:        active,
		spinner:       sp,
		progress:      pr,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(),
		m.snapshotCmd(),
		m.spinner.Tick,
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.transcript = viewport.New(msg.Width, 8)
			m.ready = true
		}
		m.layout()
		m.refreshTranscript()
		return m, nil

	case tickMsg:
		if time.Since(m.noticeAt) > 4*time.Second {
			m.notice = ""
		}
		return m, tea.Batch(tickCmd(), m.snapshotCmd())

	case snapshotMsg:
		prev := len(m.snapshot.Logs)
		m.snapshot = demo.Snapshot(msg)
		m.refreshTranscript()
		if len(m.snapshot.Logs) != prev {
			m.transcript.GotoBottom()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help.
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.savePrefs()
		return m, tea.Quit

	case "h", "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.progress = progress.New(progress.WithGradient(m.theme.Accent, m.theme.Success))
		m.layout()
		m.savePrefs()
		return m, nil

	case "tab", "right":
		return m.switchPage((m.active + 1) % len(m.pages))

	case "shift+tab", "left":
		return m.switchPage((m.active - 1 + len(m.pages)) % len(m.pages))

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		if idx < len(m.pages) {
			return m.switchPage(idx)
		}
		return m, nil

	case "r", "enter":
		if m.page().Controller().Start(m.ctx) {
			m.notice = ""
		}
		return m, m.snapshotCmd()

	case "x":
		m.page().Controller().Reset()
		return m, m.snapshotCmd()

	case "s":
		page := m.page()
		if page.HasScenarios() {
			if page.CycleScenario() {
				m.setNotice("scenario: " + page.ScenarioName())
			} else {
				m.setNotice("cannot switch scenario mid-run")
			}
		}
		return m, m.snapshotCmd()

	case "f":
		if cache := m.page().Refetcher(); cache != nil {
			cache.MarkRefetch()
			if m.page().Controller().Start(m.ctx) {
				m.setNotice("refetching past the cache")
			}
		}
		return m, m.snapshotCmd()

	case "w":
		path, err := writeTranscript(m.transcriptDir, m.page(), m.snapshot)
		if err != nil {
			m.setNotice("export failed: " + err.Error())
		} else {
			m.setNotice("transcript written to " + path)
		}
		return m, nil

	case "j", "down":
		m.transcript.LineDown(1)
		return m, nil

	case "k", "up":
		m.transcript.LineUp(1)
		return m, nil

	case "g", "home":
		m.transcript.GotoTop()
		return m, nil

	case "G", "end":
		m.transcript.GotoBottom()
		return m, nil
	}

	return m, nil
}

func (m Model) switchPage(idx int) (tea.Model, tea.Cmd) {
	m.active = idx
	m.snapshot = m.page().Controller().Snapshot()
	m.refreshTranscript()
	m.transcript.GotoBottom()
	return m, m.snapshotCmd()
}

func (m *Model) page() *Page {
	return m.pages[m.active]
}

func (m *Model) setNotice(text string) {
	m.notice = text
	m.noticeAt = time.Now()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{
		Theme:    m.theme.Name,
		LastPage: m.page().Slug,
	})
}

// Messages

type tickMsg time.Time

type snapshotMsg demo.Snapshot

// Commands

func tickCmd() tea.Cmd {
	return tea.Tick(snapshotTick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) snapshotCmd() tea.Cmd {
	ctrl := m.pages[m.active].Controller()
	return func() tea.Msg {
		return snapshotMsg(ctrl.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(opts Options) error {
	model := New(opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(opts.Context))
	_, err := p.Run()
	return err
}
