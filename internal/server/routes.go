package server

import (
	"net/http"
	"time"

	"github.com/desertthunder/monty/internal/models"
	"github.com/desertthunder/monty/internal/shared"
)

// rateLimitExpiry drops a client's bucket after this long without requests.
const rateLimitExpiry = 3 * time.Minute

var customerSearch = []SearchParam{
	{Query: "lastname", Column: "Lastname"},
	{Query: "firstname", Column: "Firstname"},
	{Query: "company", Column: "Company"},
	{Query: "address", Column: "Address"},
	{Query: "city", Column: "City"},
	{Query: "state", Column: "State"},
	{Query: "country", Column: "Country"},
	{Query: "postal", Column: "Postalcode"},
	{Query: "phone", Column: "Phone"},
	{Query: "email", Column: "Email"},
}

var employeeSearch = []SearchParam{
	{Query: "lastname", Column: "Lastname"},
	{Query: "firstname", Column: "Firstname"},
	{Query: "title", Column: "Title"},
	{Query: "address", Column: "Address"},
	{Query: "city", Column: "City"},
	{Query: "state", Column: "State"},
	{Query: "country", Column: "Country"},
	{Query: "postal", Column: "Postalcode"},
	{Query: "phone", Column: "Phone"},
	{Query: "email", Column: "Email"},
}

// resourceOptions lists the routes some resources serve beyond the common set.
func resourceOptions(t *models.Table) []ResourceOption {
	switch t {
	case models.Albums:
		return []ResourceOption{WithLookup("artist", "ArtistId", "Artist Id")}
	case models.Customers:
		return []ResourceOption{WithSearch(customerSearch...)}
	case models.Employees:
		return []ResourceOption{WithSearch(employeeSearch...)}
	default:
		return nil
	}
}

// NewRouter wires middleware, every resource router and the service routes.
func NewRouter(app *App) *BasicRouter {
	r := NewBasicRouter()

	r.Use(RequestID, AccessLog(shared.WithLogger(app.Logger, "component", "http")), Recover(app.Logger))
	if limit := app.Config.Server.RateLimit; limit > 0 {
		r.Use(NewRateLimiter(limit, app.Config.Server.Burst, rateLimitExpiry).Middleware)
	}

	for _, t := range models.Resources() {
		r.Handler(NewResource(app, t, resourceOptions(t)...))
	}

	r.HandleFunc(http.MethodGet, "/{$}", app.welcome)
	r.HandleFunc(http.MethodGet, "/health", app.health)
	return r
}

func (a *App) welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "Welcome to Monty")
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Driver   string `json:"driver"`
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{Status: "ok", Database: "ok", Driver: a.Store.Driver()}

	if err := shared.PingDatabase(r.Context(), a.Store.DB(), 2*time.Second); err != nil {
		a.Logger.Error("health check failed", "error", err)
		status.Status = "degraded"
		status.Database = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
