package tui

import (
	"fmt"

	"fetchlist/internal/config"
	"fetchlist/internal/listview"
	"fetchlist/internal/log"
	"fetchlist/internal/model"
	"fetchlist/internal/state"
	"fetchlist/internal/tui/common"
	"fetchlist/internal/tui/components"
	"fetchlist/internal/tui/messages"
	"fetchlist/internal/tui/styles"
	"fetchlist/internal/tui/views"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the list screen. It only reads state from the store and asks it
// to refresh; it never writes state itself.
type Model struct {
	store *state.Store
	sub   *state.Subscription
	title string

	// Core state
	state    model.ViewState
	mode     common.Mode
	showHelp bool
	filter   *listview.Filter

	tree   *components.GroupTree
	status *components.StatusBar
	search textinput.Model
	help   help.Model
	keys   keyMap
}

type Option func(*Model)

// WithTitle overrides the screen title.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithExpandAll starts with every group expanded.
func WithExpandAll(expand bool) Option {
	return func(m *Model) {
		if expand {
			m.tree.Expansion.ExpandAll()
		}
	}
}

// New subscribes to the store. The first cycle starts from Init.
func New(store *state.Store, opts ...Option) *Model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "name glob, e.g. Item 2*"
	search.CharLimit = 64

	m := &Model{
		store:  store,
		sub:    store.Subscribe(),
		title:  config.DefaultTitle,
		state:  model.Loading(),
		mode:   common.Normal,
		tree:   components.NewGroupTree(false),
		status: components.NewStatusBar(),
		search: search,
		help:   help.New(),
		keys:   defaultKeyMap(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.status.SetLoading(true)
	m.status.SetText("Loading...")
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	store := m.store
	return tea.Batch(
		m.status.Tick(),
		waitForState(m.sub),
		func() tea.Msg {
			store.Start()
			return nil
		},
	)
}

// waitForState blocks on the subscription and turns the next publication
// into a message.
func waitForState(sub *state.Subscription) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-sub.C()
		if !ok {
			return messages.StoreClosedMsg{}
		}
		return messages.StateMsg{State: st}
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.StateMsg:
		m.applyState(msg.State)
		return m, waitForState(m.sub)

	case messages.StoreClosedMsg:
		return m, nil

	case messages.ConfigReloadedMsg:
		if msg.Config != nil {
			styles.Apply(msg.Config)
			if msg.Config.UI.Title != "" {
				m.title = msg.Config.UI.Title
			}
		}
		m.status.SetText("Configuration reloaded")
		return m, nil

	case messages.ErrorMsg:
		log.LogWithError(msg.Err).Warn("tui error")
		m.status.SetText(msg.Err.Error())
		return m, nil

	case spinner.TickMsg:
		return m, m.status.Update(msg)

	case tea.WindowSizeMsg:
		m.tree.Update(msg)
		m.help.Width = msg.Width
		m.search.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		if m.mode == common.Search {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}
	return m, nil
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.sub.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Refresh):
		m.store.Refresh()
	case key.Matches(msg, m.keys.Search):
		m.mode = common.Search
		m.search.SetValue(m.filter.Pattern())
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.ClearSearch):
		m.setFilter(nil)
	}

	if !m.state.IsSuccess() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.tree.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.tree.MoveDown()
	case key.Matches(msg, m.keys.Toggle):
		m.tree.Toggle()
	case key.Matches(msg, m.keys.Open):
		m.tree.Open()
	case key.Matches(msg, m.keys.Close):
		m.tree.Close()
	case key.Matches(msg, m.keys.ExpandAll):
		m.tree.ExpandAll()
	case key.Matches(msg, m.keys.CollapseAll):
		m.tree.CollapseAll()
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.sub.Close()
		return m, tea.Quit
	case tea.KeyEsc:
		m.mode = common.Normal
		m.search.Blur()
		m.search.SetValue("")
		m.setFilter(nil)
		return m, nil
	case tea.KeyEnter:
		m.mode = common.Normal
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	f, err := listview.NewFilter(m.search.Value())
	if err != nil {
		// Keep the last valid filter while the pattern is incomplete
		m.status.SetText("Incomplete pattern")
		return m, cmd
	}
	m.setFilter(f)
	return m, cmd
}

func (m *Model) setFilter(f *listview.Filter) {
	m.filter = f
	if m.state.IsSuccess() {
		m.rebuildTree()
		m.status.SetText(m.summary())
	}
}

func (m *Model) applyState(st model.ViewState) {
	m.state = st
	m.status.SetLoading(st.IsLoading())

	switch st.Phase {
	case model.PhaseLoading:
		m.status.SetText("Loading...")
	case model.PhaseError:
		m.status.SetText("")
	case model.PhaseSuccess:
		m.rebuildTree()
		m.status.SetText(m.summary())
	}
}

func (m *Model) rebuildTree() {
	groups := listview.GroupByListID(m.state.Items)
	m.tree.SetGroups(m.filter.Apply(groups))
}

func (m *Model) summary() string {
	shown := listview.Count(m.tree.Groups)
	text := fmt.Sprintf("%d groups, %d items", len(m.tree.Groups), shown)
	if m.filter.Active() {
		text = fmt.Sprintf("%s matching %q (of %d)", text, m.filter.Pattern(), len(m.state.Items))
	}
	return text
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m)
}

// Getters

func (m *Model) Title() string {
	return m.title
}

func (m *Model) State() model.ViewState {
	return m.state
}

func (m *Model) Mode() common.Mode {
	return m.mode
}

func (m *Model) ShowHelp() bool {
	return m.showHelp
}

func (m *Model) Tree() *components.GroupTree {
	return m.tree
}

func (m *Model) Filter() *listview.Filter {
	return m.filter
}

func (m *Model) StatusView() string {
	return m.status.View()
}

func (m *Model) SearchView() string {
	if m.mode == common.Search {
		return styles.Theme.Search.Render(m.search.View())
	}
	if m.filter.Active() {
		return styles.Theme.Help.Render(fmt.Sprintf("filter: %s (esc to clear)", m.filter.Pattern()))
	}
	return ""
}

func (m *Model) TreeView() string {
	return m.tree.View()
}

func (m *Model) HelpView() string {
	return m.help.View(m.keys)
}
