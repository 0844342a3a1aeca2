package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/monty/internal/models"
	"github.com/desertthunder/monty/internal/repositories"
	tu "github.com/desertthunder/monty/internal/testing"
)

func setupModel(t *testing.T) (*Model, *repositories.Store) {
	t.Helper()
	ctx := context.Background()
	store := repositories.NewStore(tu.NewTestDB(t))

	for _, name := range []string{"AC/DC", "Accept"} {
		if _, err := store.Insert(ctx, models.Artists, models.Row{"ArtistName": name}); err != nil {
			t.Fatalf("failed to insert artist: %v", err)
		}
	}

	m := NewModel(ctx, store, nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, store
}

// run executes cmd synchronously and feeds its message back into the model.
func run(m *Model, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	_, next := m.Update(cmd())
	return next
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel(t *testing.T) {
	t.Run("Loads Tables With Counts", func(t *testing.T) {
		m, _ := setupModel(t)
		if !strings.Contains(m.View(), "Loading") {
			t.Errorf("expected loading view before Init")
		}

		run(m, m.Init())

		items := m.tableList.Items()
		if len(items) != len(models.Tables()) {
			t.Fatalf("expected %d tables, got %d", len(models.Tables()), len(items))
		}
		first := items[0].(tableItem)
		if first.table != models.Artists || first.count != 2 {
			t.Errorf("expected Artists with 2 rows, got %s with %d", first.table, first.count)
		}
		if !strings.Contains(first.Description(), "2 rows • /artists/v1") {
			t.Errorf("unexpected description %q", first.Description())
		}
	})

	t.Run("Enter Opens Rows And Esc Goes Back", func(t *testing.T) {
		m, _ := setupModel(t)
		run(m, m.Init())

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		run(m, cmd)

		if m.ViewState() != RowListView {
			t.Fatalf("expected row view, got %d", m.ViewState())
		}
		rows := m.rowList.Items()
		if len(rows) != 2 || rows[0].(rowItem).Title() != "AC/DC" {
			t.Errorf("unexpected rows %v", rows)
		}
		if !strings.Contains(m.rowList.Title, "Artists (2 rows)") {
			t.Errorf("unexpected title %q", m.rowList.Title)
		}

		_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if m.ViewState() != TableListView {
			t.Errorf("expected table view after esc, got %d", m.ViewState())
		}
		if cmd == nil {
			t.Error("expected a reload of table counts")
		}
	})

	t.Run("Quit", func(t *testing.T) {
		m, _ := setupModel(t)
		run(m, m.Init())

		_, cmd := m.Update(keyRunes("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})

	t.Run("Load Error", func(t *testing.T) {
		m, store := setupModel(t)
		store.DB().Close()

		run(m, m.Init())

		if m.Err() == nil {
			t.Fatal("expected a load error")
		}
		if !strings.Contains(m.View(), "Error:") {
			t.Errorf("expected error view, got %q", m.View())
		}
	})
}

func TestItems(t *testing.T) {
	t.Run("Row Without Name Column", func(t *testing.T) {
		it := rowItem{table: models.PlaylistTracks, row: models.Row{"Id": int64(4), "PlaylistId": int64(1), "TrackId": int64(2)}}

		if it.Title() != "#4" {
			t.Errorf("expected #4, got %q", it.Title())
		}
		if it.Description() != "#4 • PlaylistId=1, TrackId=2" {
			t.Errorf("unexpected description %q", it.Description())
		}
	})

	t.Run("Unexposed Table", func(t *testing.T) {
		it := tableItem{table: models.Invoices, count: 0}
		if it.Description() != "0 rows" {
			t.Errorf("unexpected description %q", it.Description())
		}
	})
}
