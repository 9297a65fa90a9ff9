package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskfx/internal/ipc"
)

// refreshMsg carries one poll of the daemon.
type refreshMsg struct {
	status   *ipc.StatusData
	monitors *ipc.MonitorsData
	effects  *ipc.EffectsData
	err      error
}

type tickMsg time.Time

// model is the root bubbletea model for the dashboard.
type model struct {
	client   Client
	interval time.Duration

	activeTab Tab

	monitorsTable table.Model
	effectsTable  table.Model

	// Daemon state
	connected bool
	status    *ipc.StatusData
	lastError string

	// Terminal dimensions
	width  int
	height int
}

func newModel(client Client, interval time.Duration) model {
	return model{
		client:        client,
		interval:      interval,
		activeTab:     TabStatus,
		monitorsTable: newTable(monitorColumns),
		effectsTable:  newTable(effectColumns),
	}
}

func newTable(cols []table.Column) table.Model {
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("62")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62"))
	t.SetStyles(styles)
	return t
}

func (m model) fetch() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		var msg refreshMsg
		if msg.status, msg.err = client.GetStatus(); msg.err != nil {
			return msg
		}
		if msg.monitors, msg.err = client.GetMonitors(); msg.err != nil {
			return msg
		}
		msg.effects, msg.err = client.GetEffects()
		return msg
	}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	return max(m.height-4, 1)
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.apply(msg)
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetch(), m.tick())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabStatus
			return m, nil
		case "2":
			m.activeTab = TabMonitors
			return m, nil
		case "3":
			m.activeTab = TabEffects
			return m, nil
		case "r":
			return m, m.fetch()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := m.contentHeight()
		m.monitorsTable.SetHeight(h)
		m.effectsTable.SetHeight(h)
		m.monitorsTable.SetWidth(m.width)
		m.effectsTable.SetWidth(m.width)
		return m, nil
	}

	// Delegate scrolling to the visible table
	var cmd tea.Cmd
	switch m.activeTab {
	case TabMonitors:
		m.monitorsTable, cmd = m.monitorsTable.Update(msg)
	case TabEffects:
		m.effectsTable, cmd = m.effectsTable.Update(msg)
	}
	return m, cmd
}

func (m *model) apply(msg refreshMsg) {
	if msg.err != nil {
		m.connected = false
		m.status = nil
		m.lastError = msg.err.Error()
		m.monitorsTable.SetRows(nil)
		m.effectsTable.SetRows(nil)
		return
	}
	m.connected = true
	m.lastError = ""
	m.status = msg.status
	m.monitorsTable.SetRows(monitorRows(msg.monitors))
	m.effectsTable.SetRows(effectRows(msg.effects))
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	mode, active := "", 0
	if m.status != nil {
		mode, active = m.status.Mode, m.status.ActiveEffects
	}
	statusBar := renderStatusBar(m.connected, mode, active, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	var content string
	switch {
	case !m.connected:
		content = renderDisconnected(m.lastError, m.width, m.contentHeight())
	case m.activeTab == TabStatus:
		content = renderStatus(m.status, m.width)
	case m.activeTab == TabMonitors:
		content = m.monitorsTable.View()
	case m.activeTab == TabEffects:
		content = m.effectsTable.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
