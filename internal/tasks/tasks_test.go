package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/monty/internal/models"
	"github.com/desertthunder/monty/internal/repositories"
	"github.com/desertthunder/monty/internal/shared"
	tu "github.com/desertthunder/monty/internal/testing"
)

func setupEngine(t *testing.T) (*DataEngine, *repositories.Store) {
	t.Helper()
	store := repositories.NewStore(tu.NewTestDB(t))
	return NewDataEngine(store, nil), store
}

// writeSeedFiles writes a small catalog and its manifest to dir and returns the manifest path.
func writeSeedFiles(t *testing.T, dir string) string {
	t.Helper()
	tu.MustWriteFile(t, dir, "artists.csv", "Id,ArtistName\n1,AC/DC\n2,Accept\n")
	tu.MustWriteFile(t, dir, "albums.csv", "Id,AlbumTitle,ArtistId\n1,For Those About To Rock We Salute You,1\n2,Balls to the Wall,2\n")
	tu.MustWriteFile(t, dir, "employees.csv",
		"Id,Lastname,Firstname,Title,ReportsTo,Birthdate,Hiredate,Address,City,State,Country,Postalcode,Phone,Fax,Email\n"+
			"1,Adams,Andrew,General Manager,,2/18/1962,8/14/2002,11120 Jasper Ave NW,Edmonton,AB,Canada,T5K 2N1,,,andrew@example.com\n"+
			"2,Edwards,Nancy,Sales Manager,1,12/8/1958,5/1/2002,,Calgary,AB,Canada,,,,nancy@example.com\n")
	return tu.MustWriteFile(t, dir, "manifest.csv", "artists.csv\nalbums.csv\nemployees.csv\n")
}

func count(t *testing.T, s *repositories.Store, table *models.Table) int64 {
	t.Helper()
	n, err := s.Count(context.Background(), table)
	if err != nil {
		t.Fatalf("failed to count %s: %v", table.Name, err)
	}
	return n
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{ReadManifest, "read_manifest"},
		{SeedTable, "seed_table"},
		{FetchTable, "fetch_table"},
		{ExportTable, "export_table"},
		{WriteManifest, "write_manifest"},
		{Phase(99), ""},
	}

	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestTableForFile(t *testing.T) {
	tests := []struct {
		name    string
		want    *models.Table
		wantErr bool
	}{
		{name: "artists.csv", want: models.Artists},
		{name: "Artists.csv", want: models.Artists},
		{name: "data/media_types.csv", want: models.MediaTypes},
		{name: "invoice-items.csv", want: models.InvoiceItems},
		{name: "playlisttracks.csv", want: models.PlaylistTracks},
		{name: "songs.csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TableForFile(tt.name)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrUnknownTable) {
					t.Errorf("expected ErrUnknownTable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("Loads Manifest In Order", func(t *testing.T) {
		e, store := setupEngine(t)
		manifest := writeSeedFiles(t, t.TempDir())

		progress := make(chan ProgressUpdate, 20)
		result, err := e.Seed(ctx, progress, manifest)
		if err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
		close(progress)

		if len(result.Files) != 3 || result.TotalRows != 6 {
			t.Errorf("expected 3 files and 6 rows, got %d files and %d rows", len(result.Files), result.TotalRows)
		}
		if result.Files[0].Table != "Artists" || result.Files[2].Table != "Employees" {
			t.Errorf("expected manifest order, got %+v", result.Files)
		}
		if n := count(t, store, models.Albums); n != 2 {
			t.Errorf("expected 2 albums, got %d", n)
		}

		var phases []string
		for u := range progress {
			phases = append(phases, u.Phase.String())
		}
		if len(phases) != 7 || phases[0] != "read_manifest" {
			t.Errorf("unexpected progress phases %v", phases)
		}
	})

	t.Run("Normalizes Dates And Nulls", func(t *testing.T) {
		e, store := setupEngine(t)
		manifest := writeSeedFiles(t, t.TempDir())

		if _, err := e.Seed(ctx, nil, manifest); err != nil {
			t.Fatalf("Seed failed: %v", err)
		}

		rows, err := store.Select(ctx, models.Employees, repositories.ByID(1))
		if err != nil {
			t.Fatalf("failed to select: %v", err)
		}
		if rows[0]["Birthdate"] != "1962-02-18" || rows[0]["Hiredate"] != "2002-08-14" {
			t.Errorf("expected normalized dates, got %v / %v", rows[0]["Birthdate"], rows[0]["Hiredate"])
		}
		if rows[0]["ReportsTo"] != nil || rows[0]["Phone"] != nil {
			t.Errorf("expected NULLs for empty cells, got %v / %v", rows[0]["ReportsTo"], rows[0]["Phone"])
		}
	})

	t.Run("Unknown File Writes Nothing", func(t *testing.T) {
		e, store := setupEngine(t)
		dir := t.TempDir()
		tu.MustWriteFile(t, dir, "artists.csv", "ArtistName\nAC/DC\n")
		manifest := tu.MustWriteFile(t, dir, "manifest.csv", "artists.csv\nsongs.csv\n")

		if _, err := e.Seed(ctx, nil, manifest); !errors.Is(err, shared.ErrUnknownTable) {
			t.Fatalf("expected ErrUnknownTable, got %v", err)
		}
		if n := count(t, store, models.Artists); n != 0 {
			t.Errorf("expected no rows, got %d", n)
		}
	})

	t.Run("Failing File Rolls Back Only Itself", func(t *testing.T) {
		e, store := setupEngine(t)
		dir := t.TempDir()
		tu.MustWriteFile(t, dir, "artists.csv", "ArtistName\nAC/DC\n")
		tu.MustWriteFile(t, dir, "albums.csv", "AlbumTitle,ArtistId\nGood,1\nOrphan,99\n")
		manifest := tu.MustWriteFile(t, dir, "manifest.csv", "artists.csv\nalbums.csv\n")

		result, err := e.Seed(ctx, nil, manifest)
		if !errors.Is(err, repositories.ErrForeignKey) {
			t.Fatalf("expected ErrForeignKey, got %v", err)
		}
		if len(result.Files) != 1 {
			t.Errorf("expected one committed file, got %d", len(result.Files))
		}
		if n := count(t, store, models.Artists); n != 1 {
			t.Errorf("expected the artist to stay, got %d", n)
		}
		if n := count(t, store, models.Albums); n != 0 {
			t.Errorf("expected no albums, got %d", n)
		}
	})

	t.Run("Missing Manifest", func(t *testing.T) {
		e, _ := setupEngine(t)

		_, err := e.Seed(ctx, nil, filepath.Join(t.TempDir(), "nope.csv"))
		if err == nil || !strings.Contains(err.Error(), "failed to open manifest") {
			t.Errorf("expected open error, got %v", err)
		}
	})

	t.Run("Bad Header", func(t *testing.T) {
		e, _ := setupEngine(t)
		dir := t.TempDir()
		tu.MustWriteFile(t, dir, "genres.csv", "Id,Name\n1,Rock\n")
		manifest := tu.MustWriteFile(t, dir, "manifest.csv", "genres.csv\n")

		if _, err := e.Seed(ctx, nil, manifest); err == nil || !strings.Contains(err.Error(), "invalid CSV header") {
			t.Errorf("expected header error, got %v", err)
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		e, _ := setupEngine(t)
		manifest := writeSeedFiles(t, t.TempDir())

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		if _, err := e.Seed(cctx, nil, manifest); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestSendProgress(t *testing.T) {
	e := NewDataEngine(nil, nil)

	e.sendProgress(nil, ProgressUpdate{Message: "dropped"})

	ch := make(chan ProgressUpdate, 1)
	e.sendProgress(ch, ProgressUpdate{Message: "first"})
	e.sendProgress(ch, ProgressUpdate{Message: "second"})

	if got := <-ch; got.Message != "first" {
		t.Errorf("expected first update, got %q", got.Message)
	}
	select {
	case u := <-ch:
		t.Errorf("expected full channel to drop updates, got %q", u.Message)
	default:
	}
}
