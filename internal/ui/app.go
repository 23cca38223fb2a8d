package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pulsar/internal/console"
	"github.com/five82/pulsar/internal/entity"
	"github.com/five82/pulsar/internal/prefs"
	"github.com/five82/pulsar/internal/state"
	"github.com/five82/pulsar/internal/store"
)

// DefaultLinkInterval is how often the relay status in the header refreshes.
const DefaultLinkInterval = time.Second

// Options configures the UI.
type Options struct {
	Context context.Context
	Console *console.Console
	// Link is nil when no relay is polled.
	Link      *state.Store
	Prefs     prefs.Prefs
	PrefsPath string
	Filter    string
	Order     store.Order
	PollTick  time.Duration
}

type promptKind int

const (
	promptNone promptKind = iota
	promptSearch
	promptFilter
	promptRemoveAll
)

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	console   *console.Console
	link      *state.Store
	prefs     prefs.Prefs
	prefsPath string
	pollTick  time.Duration
	keys      keyMap

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	status   string
	isError  bool

	// Transcript
	viewport  viewport.Model
	doc       document
	focusLink int
	follow    bool

	// List state mirrored from the console
	filter   string
	order    store.Order
	onlyPins bool

	// Search
	query      string
	matchCount int
	selected   int

	// current is the index of the entity last selected or opened, or -1.
	current int

	prompt promptKind
	input  textinput.Model

	details      *entity.Entity
	detailsIndex int
	detailsView  viewport.Model

	linkState state.Snapshot
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultLinkInterval
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	ti := textinput.New()
	ti.CharLimit = 256

	return Model{
		ctx:       ctx,
		console:   opts.Console,
		link:      opts.Link,
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.Prefs.Theme),
		doc:       newDocument(),
		focusLink: -1,
		follow:    opts.Prefs.Follow,
		filter:    opts.Filter,
		order:     opts.Order,
		selected:  -1,
		current:   -1,
		input:     ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.console != nil {
		cmds = append(cmds, waitForEvent(m.console.Events()))
	}
	if m.link != nil {
		cmds = append(cmds, fetchLinkCmd(m.link))
	}
	return tea.Batch(cmds...)
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
			m.viewport = viewport.New(m.width, m.bodyHeight())
			m.ready = true
		}
		m.layout()
		m.doc.dirty = true
		m.repaint()
		return m, nil

	case consoleEventMsg:
		m.handleEvent(console.Event(msg))
		return m, waitForEvent(m.console.Events())

	case consoleClosedMsg:
		return m, tea.Quit

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.pollTick)}
		if m.link != nil {
			cmds = append(cmds, fetchLinkCmd(m.link))
		}
		return m, tea.Batch(cmds...)

	case linkMsg:
		m.linkState = state.Snapshot(msg)
		return m, nil
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
	if m.details != nil {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.renderDetails(), m.renderFooter())
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.viewport.View(), m.renderFooter())
}

// bodyHeight is the height left for the transcript: one header and one
// footer line.
func (m Model) bodyHeight() int {
	return max(m.height-2, 1)
}

func (m *Model) layout() {
	m.viewport.Width = m.width
	m.viewport.Height = m.bodyHeight()
	m.viewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	if m.details != nil {
		m.detailsView.Width = max(m.width-4, 1)
		m.detailsView.Height = max(m.bodyHeight()-2, 1)
	}
}

// repaint re-renders the transcript lines when they changed.
func (m *Model) repaint() {
	if !m.ready || !m.doc.needsPaint() {
		return
	}
	m.doc.paint(m.theme.Styles(), m.focusLink)
	if m.doc.text.Len() == 0 {
		m.viewport.SetContent(m.theme.Styles().MutedText.Render("No entities"))
		return
	}
	m.viewport.SetContent(strings.Join(m.doc.lines, "\n"))
}

// handleEvent applies one console event.
func (m *Model) handleEvent(ev console.Event) {
	switch ev.Kind {
	case console.EventReload:
		m.doc.reset(ev.Text, ev.Count)
		m.focusLink = -1
		m.current = -1
		m.repaint()
		if ev.Follow {
			m.scrollToNewest()
		}
	case console.EventAppend:
		m.doc.extend(ev.Text, ev.Count)
		m.repaint()
		if ev.Follow {
			m.scrollToNewest()
		}
	case console.EventSearch:
		m.query = ev.Query
		m.matchCount = len(ev.Matches)
		m.selected = ev.Selected
		m.doc.setHighlights(ev.Highlights, ev.Selected)
		m.repaint()
	case console.EventSelect:
		m.current = ev.Index
		m.selected = ev.Selected
		m.doc.setHighlights(m.doc.highlights, ev.Selected)
		m.repaint()
		m.reveal(ev.Offset)
	case console.EventDetails:
		m.openDetails(ev.Entity, ev.Index)
	case console.EventError:
		if ev.Err != nil {
			m.setStatus(ev.Err.Error(), true)
		}
	}
}

// reveal scrolls so that the line holding off sits mid-screen.
func (m *Model) reveal(off int) {
	line := m.doc.lineOf(off)
	m.viewport.SetYOffset(max(line-m.viewport.Height/2, 0))
	m.setFollow(false, false)
}

func (m *Model) scrollToNewest() {
	if m.order == store.OrderNewest {
		m.viewport.GotoTop()
		return
	}
	m.viewport.GotoBottom()
}

// setFollow updates follow mode; persist saves it as a preference.
func (m *Model) setFollow(follow, persist bool) {
	if persist {
		m.prefs.Follow = follow
		m.savePrefs()
	}
	if m.follow == follow {
		return
	}
	m.follow = follow
	if m.console != nil {
		m.console.SetFollow(follow)
	}
}

func (m *Model) setStatus(text string, isError bool) {
	m.status = text
	m.isError = isError
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.setStatus("save preferences: "+err.Error(), true)
	}
}

// Messages

type tickMsg time.Time

type linkMsg state.Snapshot

type consoleEventMsg console.Event

type consoleClosedMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchLinkCmd(link *state.Store) tea.Cmd {
	return func() tea.Msg {
		return linkMsg(link.Snapshot())
	}
}

func waitForEvent(events <-chan console.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return consoleClosedMsg{}
		}
		return consoleEventMsg(ev)
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
