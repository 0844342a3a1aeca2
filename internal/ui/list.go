package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/monty/internal/formatter"
	"github.com/desertthunder/monty/internal/models"
)

var (
	_ list.Item = tableItem{}
	_ list.Item = rowItem{}
)

// tableItem wraps a [models.Table] and its row count to implement [list.Item].
type tableItem struct {
	table *models.Table
	count int64
}

func (i tableItem) FilterValue() string { return i.table.Name }
func (i tableItem) Title() string       { return i.table.Name }
func (i tableItem) Description() string {
	desc := fmt.Sprintf("%d rows", i.count)
	if i.table.Exposed() {
		desc = fmt.Sprintf("%s • /%s/v1", desc, i.table.Resource)
	}
	return desc
}

// rowItem wraps a [models.Row] to implement [list.Item].
type rowItem struct {
	table *models.Table
	row   models.Row
}

func (i rowItem) FilterValue() string { return formatter.RowTitle(i.table, i.row) }
func (i rowItem) Title() string       { return formatter.RowTitle(i.table, i.row) }
func (i rowItem) Description() string {
	desc := "#" + i.row.Text(models.IDColumn)
	if summary := formatter.RowSummary(i.table, i.row); summary != "" {
		desc = fmt.Sprintf("%s • %s", desc, summary)
	}
	return desc
}
