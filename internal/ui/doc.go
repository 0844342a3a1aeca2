// Package ui implements an interactive terminal browser for the store using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [TableListView] : Every table with its row count
//  2. [RowListView] : The rows of the selected table
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving data loads via the Msg union type.
// Loads run as commands against a [repositories.Store] so the UI never blocks on the database.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, /, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
