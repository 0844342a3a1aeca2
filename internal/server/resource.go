package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/desertthunder/monty/internal/models"
	"github.com/desertthunder/monty/internal/repositories"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

var (
	errNotFound = errors.New("not found")
	errExists   = errors.New("already exists")
)

// SearchParam maps a query parameter of a search route onto a column.
type SearchParam struct {
	Query  string
	Column string
}

// Resource serves the CRUD routes of one table under /{resource}/v1.
type Resource struct {
	app    *App
	table  *models.Table
	search []SearchParam
	routes map[string]http.HandlerFunc
}

// ResourceOption adds optional routes to a [Resource].
type ResourceOption func(*Resource)

// WithLookup adds GET /{resource}/v1/{segment}/{id}, matching rows whose column equals the integer id.
//
// label names the id in the not found message, e.g. "Artist Id".
func WithLookup(segment, column, label string) ResourceOption {
	return func(h *Resource) {
		h.routes[h.pattern(http.MethodGet, "/"+segment+"/{id}")] = h.lookup(column, label)
	}
}

// WithSearch adds GET /{resource}/v1/search, ANDing every supplied parameter.
func WithSearch(params ...SearchParam) ResourceOption {
	return func(h *Resource) {
		h.search = params
		h.routes[h.pattern(http.MethodGet, "/search")] = h.searchRows
	}
}

// NewResource creates the handler for an exposed table.
func NewResource(app *App, t *models.Table, opts ...ResourceOption) *Resource {
	h := &Resource{app: app, table: t, routes: make(map[string]http.HandlerFunc)}

	h.routes[h.pattern(http.MethodGet, "")] = h.list
	h.routes[h.pattern(http.MethodGet, "/{$}")] = h.list
	h.routes[h.pattern(http.MethodGet, "/id/{id}")] = h.getByID
	h.routes[h.pattern(http.MethodGet, "/name/{name...}")] = h.getByName
	h.routes[h.pattern(http.MethodPost, "/name/{name...}")] = h.create
	h.routes[h.pattern(http.MethodPut, "/id/{id}")] = h.updateByID
	h.routes[h.pattern(http.MethodPut, "/name/{name...}")] = h.updateByName
	h.routes[h.pattern(http.MethodDelete, "/id/{id}")] = h.deleteByID
	h.routes[h.pattern(http.MethodDelete, "/name/{name...}")] = h.deleteByName

	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Prefix returns the path prefix of the resource, e.g. "/albums/v1".
func (h *Resource) Prefix() string {
	return "/" + h.table.Resource + "/v1"
}

func (h *Resource) pattern(method, suffix string) string {
	return method + " " + h.Prefix() + suffix
}

// Routes implements [Handler].
func (h *Resource) Routes() []string {
	out := make([]string, 0, len(h.routes))
	for p := range h.routes {
		out = append(out, p)
	}
	return out
}

// ServeHTTP dispatches on the pattern the mux matched.
func (h *Resource) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fn, ok := h.routes[r.Pattern]
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	fn(w, r)
}

func (h *Resource) list(w http.ResponseWriter, r *http.Request) {
	h.respondRows(w, r, repositories.Where(models.IDColumn, "%"), fmt.Sprintf("No %s found", strings.ToLower(h.table.Entity)))
}

func (h *Resource) getByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	h.respondRows(w, r, repositories.ByID(id), fmt.Sprintf("%s %d not found", h.table.Entity, id))
}

func (h *Resource) getByName(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	h.respondRows(w, r, repositories.Where(h.table.NameColumn, name), fmt.Sprintf("%s %s not found", h.table.Entity, name))
}

func (h *Resource) lookup(column, label string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}
		h.respondRows(w, r, repositories.Exact(column, id), fmt.Sprintf("%s %d not found", label, id))
	}
}

func (h *Resource) searchRows(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repositories.Filter{}
	for _, p := range h.search {
		if v := q.Get(p.Query); v != "" {
			f = f.Where(p.Column, v)
		}
	}

	if len(f) == 0 {
		names := make([]string, len(h.search))
		for i, p := range h.search {
			names[i] = p.Query
		}
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("at least one search parameter is required: %v", names))
		return
	}
	h.respondRows(w, r, f, fmt.Sprintf("No %s found matching %s", strings.ToLower(h.table.Entity), r.URL.RawQuery))
}

// respondRows writes the rows matching f, or a 404 with notFound when there are none.
func (h *Resource) respondRows(w http.ResponseWriter, r *http.Request, f repositories.Filter, notFound string) {
	rows, err := h.app.Store.Select(r.Context(), h.table, f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(rows) == 0 {
		writeError(w, http.StatusNotFound, notFound)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Resource) create(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	fields := payload.Fields()

	err := h.app.Store.Tx(r.Context(), func(tx *repositories.Store) error {
		existing, err := tx.Select(r.Context(), h.table, repositories.MatchRow(fields))
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return errExists
		}
		_, err = tx.Insert(r.Context(), h.table, fields)
		return err
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, payload)
}

func (h *Resource) updateByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	h.update(w, r, repositories.ByID(id), fmt.Sprintf("%s %d not found", h.table.Entity, id))
}

func (h *Resource) updateByName(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	h.update(w, r, repositories.Where(h.table.NameColumn, name), fmt.Sprintf("%s %s not found", h.table.Entity, name))
}

// update applies the request body to the first row matching f.
func (h *Resource) update(w http.ResponseWriter, r *http.Request, f repositories.Filter, notFound string) {
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}

	err := h.app.Store.Tx(r.Context(), func(tx *repositories.Store) error {
		target, err := locate(r.Context(), tx, h.table, f)
		if err != nil {
			return err
		}
		id, _ := target[0].ID()
		_, err = tx.Update(r.Context(), h.table, repositories.ByID(id), payload.Fields())
		return err
	})
	if errors.Is(err, errNotFound) {
		writeError(w, http.StatusNotFound, notFound)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, payload)
}

func (h *Resource) deleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	h.delete(w, r, repositories.ByID(id), fmt.Sprintf("%s %d not found", h.table.Entity, id))
}

func (h *Resource) deleteByName(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	h.delete(w, r, repositories.Where(h.table.NameColumn, name), fmt.Sprintf("%s %s not found", h.table.Entity, name))
}

// delete removes every row matching f and echoes them.
func (h *Resource) delete(w http.ResponseWriter, r *http.Request, f repositories.Filter, notFound string) {
	var prior []models.Row
	err := h.app.Store.Tx(r.Context(), func(tx *repositories.Store) error {
		rows, err := locate(r.Context(), tx, h.table, f)
		if err != nil {
			return err
		}
		prior = rows
		_, err = tx.Delete(r.Context(), h.table, f)
		return err
	})
	if errors.Is(err, errNotFound) {
		writeError(w, http.StatusNotFound, notFound)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, prior)
}

// locate returns the rows matching f, or errNotFound.
func locate(ctx context.Context, s *repositories.Store, t *models.Table, f repositories.Filter) ([]models.Row, error) {
	rows, err := s.Select(ctx, t, f)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errNotFound
	}
	return rows, nil
}

// decode reads and validates the request body. It writes the error response itself.
func (h *Resource) decode(w http.ResponseWriter, r *http.Request) (models.Payload, bool) {
	payload := h.table.NewPayload()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "request body could not be read")
		return nil, false
	}
	if err := json.Unmarshal(body, payload); err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid request body: %v", err))
		return nil, false
	}

	if err := h.app.Validate(payload); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			writeValidation(w, verr)
		} else {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		}
		return nil, false
	}
	return payload, true
}

// pathID parses the {id} path segment, writing a 422 when it is not an integer.
func (h *Resource) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorBody{
			Detail: fmt.Sprintf("%s id must be an integer", h.table.Entity),
			Errors: []models.FieldError{{Field: "id", Tag: "int", Message: fmt.Sprintf("%q is not an integer", raw)}},
		})
		return 0, false
	}
	return id, true
}

// fail maps a data layer error onto a response.
func (h *Resource) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errExists), errors.Is(err, repositories.ErrConflict):
		writeError(w, http.StatusConflict, fmt.Sprintf("%s already exists", h.table.Entity))
	case errors.Is(err, repositories.ErrUnknownColumn):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.app.Logger.Error("request failed",
			"table", h.table.Name,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFrom(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, databaseErrorDetail)
	}
}
