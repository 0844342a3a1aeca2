package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/monty/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgTablesLoaded MsgKind = iota
	MsgRowsLoaded
)

type tablesLoaded struct {
	items []tableItem
	err   error
}

type rowsLoaded struct {
	table *models.Table
	rows  []models.Row
	err   error
}

// tablesLoadedMsg is the constructor for [MsgTablesLoaded]
func tablesLoadedMsg(items []tableItem, err error) Msg {
	return Msg{kind: MsgTablesLoaded, data: tablesLoaded{items, err}}
}

// rowsLoadedMsg is the constructor for [MsgRowsLoaded]
func rowsLoadedMsg(t *models.Table, rows []models.Row, err error) Msg {
	return Msg{kind: MsgRowsLoaded, data: rowsLoaded{t, rows, err}}
}
