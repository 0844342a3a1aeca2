package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/monty/internal/models"
	"github.com/desertthunder/monty/internal/repositories"
	"github.com/desertthunder/monty/internal/shared"
	tu "github.com/desertthunder/monty/internal/testing"
)

// setupTestApp creates an App over an in-memory database with rate limiting disabled
func setupTestApp(t *testing.T) (*App, http.Handler) {
	t.Helper()

	store := repositories.NewStore(tu.NewTestDB(t))
	cfg := shared.DefaultConfig()
	cfg.Server.RateLimit = 0

	app := NewApp(store, log.New(io.Discard), cfg)
	return app, NewRouter(app)
}

// setupFileApp creates an App over a SQLite file so requests can hold separate connections
func setupFileApp(t *testing.T) (*App, http.Handler) {
	t.Helper()

	db, err := shared.NewDatabase(filepath.Join(t.TempDir(), "monty.db"))
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db, shared.DriverSQLite); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	store := repositories.NewStore(db, repositories.WithDriver(shared.DriverSQLite))
	cfg := shared.DefaultConfig()
	cfg.Server.RateLimit = 0

	app := NewApp(store, log.New(io.Discard), cfg)
	return app, NewRouter(app)
}

// doConcurrently sends n identical requests at once and tallies the response codes.
func doConcurrently(t *testing.T, h http.Handler, n int, method, path, body string) map[int]int {
	t.Helper()

	codes := make(chan int, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			codes <- do(t, h, method, path, body).Code
		}()
	}
	close(start)
	wg.Wait()
	close(codes)

	tally := make(map[int]int)
	for c := range codes {
		tally[c]++
	}
	return tally
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeRows(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var rows []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("failed to decode rows from %q: %v", rec.Body.String(), err)
	}
	return rows
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body from %q: %v", rec.Body.String(), err)
	}
	return body
}

func mustInsert(t *testing.T, app *App, table *models.Table, row models.Row) int64 {
	t.Helper()
	id, err := app.Store.Insert(context.Background(), table, row)
	if err != nil {
		t.Fatalf("failed to insert into %s: %v", table.Name, err)
	}
	return id
}

func count(t *testing.T, app *App, table *models.Table) int64 {
	t.Helper()
	n, err := app.Store.Count(context.Background(), table)
	if err != nil {
		t.Fatalf("failed to count %s: %v", table.Name, err)
	}
	return n
}

func TestServiceRoutes(t *testing.T) {
	t.Run("Welcome", func(t *testing.T) {
		_, h := setupTestApp(t)

		rec := do(t, h, http.MethodGet, "/", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var msg string
		if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil || msg != "Welcome to Monty" {
			t.Errorf("unexpected welcome body %q", rec.Body.String())
		}
	})

	t.Run("Health", func(t *testing.T) {
		_, h := setupTestApp(t)

		rec := do(t, h, http.MethodGet, "/health", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var status HealthStatus
		if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
			t.Fatalf("failed to decode health: %v", err)
		}
		if status.Status != "ok" || status.Driver != shared.DriverSQLite {
			t.Errorf("unexpected health %+v", status)
		}
	})

	t.Run("Health Degraded", func(t *testing.T) {
		app, h := setupTestApp(t)
		app.Store.DB().Close()

		rec := do(t, h, http.MethodGet, "/health", "")
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", rec.Code)
		}
	})

	t.Run("Unknown Path", func(t *testing.T) {
		_, h := setupTestApp(t)

		if rec := do(t, h, http.MethodGet, "/invoices/v1", ""); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("Method Not Allowed", func(t *testing.T) {
		_, h := setupTestApp(t)

		if rec := do(t, h, http.MethodPatch, "/albums/v1/id/1", "{}"); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("Request Id", func(t *testing.T) {
		_, h := setupTestApp(t)

		rec := do(t, h, http.MethodGet, "/", "")
		if rec.Header().Get(RequestIDHeader) == "" {
			t.Error("expected a request id header")
		}
	})

	t.Run("Rate Limited", func(t *testing.T) {
		store := repositories.NewStore(tu.NewTestDB(t))
		cfg := shared.DefaultConfig()
		cfg.Server.RateLimit = 1
		cfg.Server.Burst = 2
		h := NewRouter(NewApp(store, log.New(io.Discard), cfg))

		codes := []int{}
		for range 3 {
			codes = append(codes, do(t, h, http.MethodGet, "/", "").Code)
		}
		if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
			t.Errorf("expected 200, 200, 429, got %v", codes)
		}
	})
}

func TestAlbumScenario(t *testing.T) {
	app, h := setupTestApp(t)
	mustInsert(t, app, models.Artists, models.Row{"ArtistName": "AC/DC"})

	body := `{"AlbumTitle":"Test Album","ArtistId":1}`

	rec := do(t, h, http.MethodPost, "/albums/v1/name/name", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var echoed map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &echoed); err != nil {
		t.Fatalf("failed to decode echo: %v", err)
	}
	if len(echoed) != 2 || echoed["AlbumTitle"] != "Test Album" || echoed["ArtistId"] != float64(1) {
		t.Errorf("expected payload echo, got %v", echoed)
	}

	rec = do(t, h, http.MethodPost, "/albums/v1/name/name", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on repeated POST, got %d", rec.Code)
	}

	path := "/albums/v1/name/" + url.PathEscape("Test Album")
	rec = do(t, h, http.MethodGet, path, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	found := decodeRows(t, rec)
	if len(found) != 1 {
		t.Fatalf("expected one-element list, got %d", len(found))
	}

	rec = do(t, h, http.MethodDelete, path, "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	deleted := decodeRows(t, rec)
	if len(deleted) != 1 || deleted[0]["Id"] != found[0]["Id"] || deleted[0]["AlbumTitle"] != "Test Album" {
		t.Errorf("expected the deleted row with its Id, got %v", deleted)
	}

	if rec = do(t, h, http.MethodDelete, path, ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on repeated DELETE, got %d", rec.Code)
	}
}

func TestResource(t *testing.T) {
	t.Run("Get All Empty", func(t *testing.T) {
		_, h := setupTestApp(t)

		rec := do(t, h, http.MethodGet, "/genres/v1", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if got := decodeError(t, rec).Detail; got != "No genre found" {
			t.Errorf("unexpected detail %q", got)
		}

		rec = do(t, h, http.MethodGet, "/mediatypes/v1", "")
		if got := decodeError(t, rec).Detail; got != "No mediatype found" {
			t.Errorf("unexpected detail %q", got)
		}
	})

	t.Run("Get All", func(t *testing.T) {
		app, h := setupTestApp(t)
		mustInsert(t, app, models.Genres, models.Row{"GenreName": "Rock"})
		mustInsert(t, app, models.Genres, models.Row{"GenreName": "Jazz"})

		for _, path := range []string{"/genres/v1", "/genres/v1/"} {
			rec := do(t, h, http.MethodGet, path, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("%s: expected 200, got %d", path, rec.Code)
			}
			if rows := decodeRows(t, rec); len(rows) != 2 {
				t.Errorf("%s: expected 2 rows, got %d", path, len(rows))
			}
		}
	})

	t.Run("Post Then Get By Id", func(t *testing.T) {
		_, h := setupTestApp(t)

		rec := do(t, h, http.MethodPost, "/artists/v1/name/name", `{"ArtistName":"Aerosmith"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}

		rec = do(t, h, http.MethodGet, "/artists/v1/id/1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		rows := decodeRows(t, rec)
		if len(rows) != 1 || rows[0]["ArtistName"] != "Aerosmith" {
			t.Errorf("expected submitted values, got %v", rows)
		}
		for _, col := range []string{"Id", "DateCreated", "DateUpdated"} {
			if _, ok := rows[0][col]; !ok {
				t.Errorf("expected %s in response", col)
			}
		}
	})

	t.Run("Get By Id Not Found", func(t *testing.T) {
		_, h := setupTestApp(t)

		rec := do(t, h, http.MethodGet, "/albums/v1/id/99", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if got := decodeError(t, rec).Detail; got != "Album 99 not found" {
			t.Errorf("unexpected detail %q", got)
		}
	})

	t.Run("Get By Id Not Integer", func(t *testing.T) {
		_, h := setupTestApp(t)

		for _, method := range []string{http.MethodGet, http.MethodDelete} {
			rec := do(t, h, method, "/albums/v1/id/abc", "")
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("%s: expected 422, got %d", method, rec.Code)
			}
		}
	})

	t.Run("Wildcard Name", func(t *testing.T) {
		app, h := setupTestApp(t)
		for _, name := range []string{"Foo Fighters", "Foobar", "Bar Foo"} {
			mustInsert(t, app, models.Artists, models.Row{"ArtistName": name})
		}

		rec := do(t, h, http.MethodGet, "/artists/v1/name/Foo%25", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		rows := decodeRows(t, rec)
		if len(rows) != 2 {
			t.Fatalf("expected 2 prefix matches, got %d", len(rows))
		}
		for _, r := range rows {
			if !strings.HasPrefix(r["ArtistName"].(string), "Foo") {
				t.Errorf("unexpected match %v", r["ArtistName"])
			}
		}
	})

	t.Run("Name With Slash", func(t *testing.T) {
		app, h := setupTestApp(t)
		mustInsert(t, app, models.Artists, models.Row{"ArtistName": "AC/DC"})

		rec := do(t, h, http.MethodGet, "/artists/v1/name/AC/DC", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("Post Validation", func(t *testing.T) {
		_, h := setupTestApp(t)

		rec := do(t, h, http.MethodPost, "/albums/v1/name/name", `{"AlbumTitle":""}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		body := decodeError(t, rec)
		if len(body.Errors) != 2 {
			t.Errorf("expected 2 field errors, got %v", body.Errors)
		}

		rec = do(t, h, http.MethodPost, "/albums/v1/name/name", `{"AlbumTitle":`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected 422 for malformed JSON, got %d", rec.Code)
		}

		rec = do(t, h, http.MethodPost, "/albums/v1/name/name", `{"AlbumTitle":"x","ArtistId":"one"}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected 422 for a mistyped field, got %d", rec.Code)
		}
	})

	t.Run("Post Unique Violation", func(t *testing.T) {
		app, h := setupTestApp(t)
		mustInsert(t, app, models.Customers, models.Row{"Lastname": "Smith", "Firstname": "Jo", "Email": "jo@example.com"})

		rec := do(t, h, http.MethodPost, "/customers/v1/name/name", `{"Lastname":"Other","Firstname":"Al","Email":"jo@example.com"}`)
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409 for a duplicate email, got %d", rec.Code)
		}
	})

	t.Run("Post Same Title Different Artist", func(t *testing.T) {
		app, h := setupTestApp(t)
		mustInsert(t, app, models.Artists, models.Row{"ArtistName": "A"})
		mustInsert(t, app, models.Artists, models.Row{"ArtistName": "B"})

		if rec := do(t, h, http.MethodPost, "/albums/v1/name/name", `{"AlbumTitle":"Greatest Hits","ArtistId":1}`); rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if rec := do(t, h, http.MethodPost, "/albums/v1/name/name", `{"AlbumTitle":"Greatest Hits","ArtistId":2}`); rec.Code != http.StatusCreated {
			t.Errorf("expected 201 for another artist, got %d", rec.Code)
		}
	})

	t.Run("Post Foreign Key Failure", func(t *testing.T) {
		app, h := setupTestApp(t)

		body := `{"TrackName":"Test Track 1","AlbumId":999,"MediaTypeId":1,"GenreId":1,"Composer":"Test Composer","Milliseconds":1000,"Bytes":1000,"UnitPrice":0.99}`
		rec := do(t, h, http.MethodPost, "/tracks/v1/name/name", body)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if got := decodeError(t, rec).Detail; got != "Database Error. Please check application logs" {
			t.Errorf("unexpected detail %q", got)
		}
		if n := count(t, app, models.Tracks); n != 0 {
			t.Errorf("expected nothing persisted, got %d rows", n)
		}
	})

	t.Run("Post Employee With Null Dates", func(t *testing.T) {
		_, h := setupTestApp(t)

		body := `{"Lastname":"Employee 1","Firstname":"Temp","Title":"Temp Employee","ReportsTo":null,"Birthdate":null,"Hiredate":null,"Email":"temp1@example.com"}`
		rec := do(t, h, http.MethodPost, "/employees/v1/name/name", body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = do(t, h, http.MethodGet, "/employees/v1/name/Employee%25", "")
		rows := decodeRows(t, rec)
		if len(rows) != 1 || rows[0]["Birthdate"] != nil {
			t.Errorf("expected one employee with a null birthdate, got %v", rows)
		}
	})

	t.Run("Put By Id", func(t *testing.T) {
		app, h := setupTestApp(t)
		id := mustInsert(t, app, models.Genres, models.Row{"GenreName": "Rock"})

		rec := do(t, h, http.MethodPut, "/genres/v1/id/1", `{"GenreName":"Rock And Roll"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}

		rows, _ := app.Store.Select(context.Background(), models.Genres, repositories.ByID(id))
		if rows[0]["GenreName"] != "Rock And Roll" {
			t.Errorf("expected updated name, got %v", rows[0]["GenreName"])
		}
	})

	t.Run("Put Missing Leaves Table Unchanged", func(t *testing.T) {
		app, h := setupTestApp(t)
		mustInsert(t, app, models.Genres, models.Row{"GenreName": "Rock"})
		before := count(t, app, models.Genres)

		if rec := do(t, h, http.MethodPut, "/genres/v1/id/42", `{"GenreName":"Jazz"}`); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
		if rec := do(t, h, http.MethodPut, "/genres/v1/name/Blues", `{"GenreName":"Jazz"}`); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}

		if after := count(t, app, models.Genres); after != before {
			t.Errorf("expected row count %d, got %d", before, after)
		}
	})

	t.Run("Put By Name Updates First Match", func(t *testing.T) {
		app, h := setupTestApp(t)
		artist := mustInsert(t, app, models.Artists, models.Row{"ArtistName": "A"})
		album := mustInsert(t, app, models.Albums, models.Row{"AlbumTitle": "Album", "ArtistId": artist})
		genre := mustInsert(t, app, models.Genres, models.Row{"GenreName": "Rock"})
		media := mustInsert(t, app, models.MediaTypes, models.Row{"MediaTypeName": "MPEG"})
		for range 2 {
			mustInsert(t, app, models.Tracks, models.Row{"TrackName": "Dup", "AlbumId": album, "MediaTypeId": media, "GenreId": genre, "UnitPrice": 0.99})
		}

		body := `{"TrackName":"Renamed","AlbumId":1,"MediaTypeId":1,"GenreId":1,"UnitPrice":1.99}`
		if rec := do(t, h, http.MethodPut, "/tracks/v1/name/Dup", body); rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		rows, _ := app.Store.Select(context.Background(), models.Tracks, nil)
		if rows[0]["TrackName"] != "Renamed" || rows[1]["TrackName"] != "Dup" {
			t.Errorf("expected only the first match to change, got %v / %v", rows[0]["TrackName"], rows[1]["TrackName"])
		}
	})

	t.Run("Put Conflict", func(t *testing.T) {
		app, h := setupTestApp(t)
		mustInsert(t, app, models.Genres, models.Row{"GenreName": "Rock"})
		mustInsert(t, app, models.Genres, models.Row{"GenreName": "Jazz"})

		if rec := do(t, h, http.MethodPut, "/genres/v1/name/Jazz", `{"GenreName":"Rock"}`); rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("Delete By Id", func(t *testing.T) {
		app, h := setupTestApp(t)
		mustInsert(t, app, models.Playlists, models.Row{"PlaylistName": "Music"})

		rec := do(t, h, http.MethodDelete, "/playlists/v1/id/1", "")
		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", rec.Code)
		}

		if rec = do(t, h, http.MethodGet, "/playlists/v1/id/1", ""); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", rec.Code)
		}
		if n := count(t, app, models.Playlists); n != 0 {
			t.Errorf("expected empty table, got %d", n)
		}
	})

	t.Run("Delete By Wildcard", func(t *testing.T) {
		app, h := setupTestApp(t)
		for _, name := range []string{"Temp 1", "Temp 2", "Keep"} {
			mustInsert(t, app, models.MediaTypes, models.Row{"MediaTypeName": name})
		}

		rec := do(t, h, http.MethodDelete, "/mediatypes/v1/name/Temp%25", "")
		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", rec.Code)
		}
		if rows := decodeRows(t, rec); len(rows) != 2 {
			t.Errorf("expected 2 deleted rows, got %d", len(rows))
		}
		if n := count(t, app, models.MediaTypes); n != 1 {
			t.Errorf("expected 1 remaining row, got %d", n)
		}
	})

	t.Run("Delete Referenced Row", func(t *testing.T) {
		app, h := setupTestApp(t)
		artist := mustInsert(t, app, models.Artists, models.Row{"ArtistName": "A"})
		mustInsert(t, app, models.Albums, models.Row{"AlbumTitle": "Album", "ArtistId": artist})

		if rec := do(t, h, http.MethodDelete, "/artists/v1/id/1", ""); rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if n := count(t, app, models.Artists); n != 1 {
			t.Errorf("expected the artist to remain, got %d rows", n)
		}
	})

	t.Run("Concurrent Post", func(t *testing.T) {
		app, h := setupFileApp(t)
		const n = 20

		got := doConcurrently(t, h, n, http.MethodPost, "/artists/v1/name/x", `{"ArtistName":"Same"}`)

		if got[http.StatusCreated] != 1 || got[http.StatusConflict] != n-1 {
			t.Errorf("expected one 201 and %d 409s, got %v", n-1, got)
		}
		if c := count(t, app, models.Artists); c != 1 {
			t.Errorf("expected 1 artist, got %d", c)
		}
	})

	t.Run("Concurrent Delete", func(t *testing.T) {
		app, h := setupFileApp(t)
		const n = 20
		mustInsert(t, app, models.Artists, models.Row{"ArtistName": "Same"})
		mustInsert(t, app, models.Artists, models.Row{"ArtistName": "Other"})

		got := doConcurrently(t, h, n, http.MethodDelete, "/artists/v1/name/Same", "")

		if got[http.StatusAccepted] != 1 || got[http.StatusNotFound] != n-1 {
			t.Errorf("expected one 202 and %d 404s, got %v", n-1, got)
		}
		if c := count(t, app, models.Artists); c != 1 {
			t.Errorf("expected 1 artist left, got %d", c)
		}
	})
}

func TestResourceExtras(t *testing.T) {
	t.Run("Albums By Artist", func(t *testing.T) {
		app, h := setupTestApp(t)
		artist := mustInsert(t, app, models.Artists, models.Row{"ArtistName": "A"})
		mustInsert(t, app, models.Albums, models.Row{"AlbumTitle": "One", "ArtistId": artist})
		mustInsert(t, app, models.Albums, models.Row{"AlbumTitle": "Two", "ArtistId": artist})

		rec := do(t, h, http.MethodGet, "/albums/v1/artist/1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rows := decodeRows(t, rec); len(rows) != 2 {
			t.Errorf("expected 2 albums, got %d", len(rows))
		}

		rec = do(t, h, http.MethodGet, "/albums/v1/artist/99", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if got := decodeError(t, rec).Detail; got != "Artist Id 99 not found" {
			t.Errorf("unexpected detail %q", got)
		}
	})

	t.Run("Customer Search", func(t *testing.T) {
		app, h := setupTestApp(t)
		mustInsert(t, app, models.Customers, models.Row{"Lastname": "Smith", "Firstname": "Jo", "City": "Paris", "Email": "jo@example.com"})
		mustInsert(t, app, models.Customers, models.Row{"Lastname": "Smythe", "Firstname": "Al", "City": "Oslo", "Email": "al@example.com"})
		mustInsert(t, app, models.Customers, models.Row{"Lastname": "Jones", "Firstname": "Bo", "City": "Paris", "Email": "bo@example.com"})

		tc := []struct {
			name  string
			query string
			code  int
			rows  int
		}{
			{name: "single", query: "lastname=Smith", code: http.StatusOK, rows: 1},
			{name: "wildcard", query: "lastname=Sm%25", code: http.StatusOK, rows: 2},
			{name: "combined", query: "lastname=Sm%25&city=Paris", code: http.StatusOK, rows: 1},
			{name: "no match", query: "city=Rome", code: http.StatusNotFound},
			{name: "no params", query: "", code: http.StatusUnprocessableEntity},
			{name: "unknown param only", query: "title=Boss", code: http.StatusUnprocessableEntity},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				rec := do(t, h, http.MethodGet, "/customers/v1/search?"+tt.query, "")
				if rec.Code != tt.code {
					t.Fatalf("expected %d, got %d: %s", tt.code, rec.Code, rec.Body.String())
				}
				if tt.rows > 0 {
					if rows := decodeRows(t, rec); len(rows) != tt.rows {
						t.Errorf("expected %d rows, got %d", tt.rows, len(rows))
					}
				}
			})
		}
	})

	t.Run("Employee Search", func(t *testing.T) {
		app, h := setupTestApp(t)
		mustInsert(t, app, models.Employees, models.Row{"Lastname": "Adams", "Firstname": "Andrew", "Title": "General Manager", "Email": "andrew@example.com"})

		rec := do(t, h, http.MethodGet, "/employees/v1/search?title=General%25", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rows := decodeRows(t, rec); len(rows) != 1 {
			t.Errorf("expected 1 row, got %d", len(rows))
		}
	})

	t.Run("Routes", func(t *testing.T) {
		app, _ := setupTestApp(t)
		h := NewResource(app, models.Albums, resourceOptions(models.Albums)...)

		routes := h.Routes()
		if len(routes) != 10 {
			t.Errorf("expected 10 album routes, got %d: %v", len(routes), routes)
		}
		if h.Prefix() != "/albums/v1" {
			t.Errorf("unexpected prefix %s", h.Prefix())
		}
	})
}

func TestServer(t *testing.T) {
	t.Run("Serve And Shutdown", func(t *testing.T) {
		_, h := setupTestApp(t)
		cfg := shared.DefaultConfig().Server

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to listen: %v", err)
		}

		srv := NewServer(cfg, h, log.New(io.Discard))
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- srv.Serve(ctx, ln) }()

		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}

		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("expected clean shutdown, got %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("server did not shut down")
		}
	})

	t.Run("Addr", func(t *testing.T) {
		cfg := shared.DefaultConfig().Server
		srv := NewServer(cfg, http.NotFoundHandler(), log.New(io.Discard))
		if srv.Addr() != "127.0.0.1:8000" {
			t.Errorf("unexpected addr %s", srv.Addr())
		}
	})
}
