package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/monty/internal/models"
	"github.com/desertthunder/monty/internal/repositories"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	TableListView ViewState = iota
	RowListView
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	store     *repositories.Store
	tables    []*models.Table
	width     int
	height    int
	tableList list.Model
	rowList   list.Model
	selected  *models.Table
	loading   bool
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model browsing tables of store. A nil tables slice browses every table.
func NewModel(ctx context.Context, store *repositories.Store, tables []*models.Table) *Model {
	if tables == nil {
		tables = models.Tables()
	}
	return &Model{
		ctx:       ctx,
		view:      TableListView,
		store:     store,
		tables:    tables,
		tableList: newList(nil, "Tables"),
		rowList:   newList(nil, ""),
		loading:   true,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

func newList(items []list.Item, title string) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	return l
}

// ViewState returns the view currently shown.
func (m *Model) ViewState() ViewState {
	return m.view
}

// Err returns the last load error, if any.
func (m *Model) Err() error {
	return m.err
}

// Init initializes the TUI by counting the rows of every table.
func (m *Model) Init() tea.Cmd {
	return m.loadTables()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tableList.SetSize(msg.Width-4, msg.Height-8)
		m.rowList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case TableListView:
			return m.handleTableListKeys(msg)
		case RowListView:
			return m.handleRowListKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	m.loading = false

	switch msg.kind {
	case MsgTablesLoaded:
		data := msg.data.(tablesLoaded)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		items := make([]list.Item, len(data.items))
		for i, it := range data.items {
			items[i] = it
		}
		cmd := m.tableList.SetItems(items)
		return m, cmd

	case MsgRowsLoaded:
		data := msg.data.(rowsLoaded)
		if data.err != nil {
			m.err = data.err
			m.view = TableListView
			return m, nil
		}
		m.err = nil
		items := make([]list.Item, len(data.rows))
		for i, row := range data.rows {
			items[i] = rowItem{table: data.table, row: row}
		}
		m.rowList = newList(items, fmt.Sprintf("%s (%d rows)", data.table.Name, len(data.rows)))
		m.rowList.SetSize(m.width-4, m.height-8)
		m.selected = data.table
		m.view = RowListView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to reload, q to quit", m.err))
	}
	if m.loading {
		return styles.title.Render("Loading tables...")
	}

	switch m.view {
	case TableListView:
		return m.renderTableList()
	case RowListView:
		return m.renderRowList()
	default:
		return ""
	}
}

func (m *Model) handleTableListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tableList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.tableList, cmd = m.tableList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		m.loading = true
		m.err = nil
		return m, m.loadTables()
	case key.Matches(msg, m.keys.enter):
		if it, ok := m.tableList.SelectedItem().(tableItem); ok {
			m.loading = true
			return m, m.loadRows(it.table)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tableList, cmd = m.tableList.Update(msg)
	return m, cmd
}

func (m *Model) handleRowListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.rowList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.rowList, cmd = m.rowList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		if m.rowList.FilterState() == list.FilterApplied {
			m.rowList.ResetFilter()
			return m, nil
		}
		m.view = TableListView
		m.selected = nil
		return m, m.loadTables()
	case key.Matches(msg, m.keys.reload):
		if m.selected != nil {
			m.loading = true
			return m, m.loadRows(m.selected)
		}
	}

	var cmd tea.Cmd
	m.rowList, cmd = m.rowList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case TableListView:
		m.tableList, cmd = m.tableList.Update(msg)
	case RowListView:
		m.rowList, cmd = m.rowList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadTables() tea.Cmd {
	return func() tea.Msg {
		items := make([]tableItem, 0, len(m.tables))
		for _, t := range m.tables {
			n, err := m.store.Count(m.ctx, t)
			if err != nil {
				return tablesLoadedMsg(nil, err)
			}
			items = append(items, tableItem{table: t, count: n})
		}
		return tablesLoadedMsg(items, nil)
	}
}

func (m *Model) loadRows(t *models.Table) tea.Cmd {
	return func() tea.Msg {
		rows, err := m.store.Select(m.ctx, t, nil)
		return rowsLoadedMsg(t, rows, err)
	}
}

func (m *Model) renderTableList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.filter, m.keys.reload, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.tableList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderRowList() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.filter, m.keys.reload, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.rowList.View(), m.help.ShortHelpView(helpKeys))
}
