package server

import (
	"encoding/json"
	"net/http"

	"github.com/desertthunder/monty/internal/models"
)

const databaseErrorDetail = "Database Error. Please check application logs"

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Detail string              `json:"detail"`
	Errors []models.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorBody{Detail: detail})
}

func writeValidation(w http.ResponseWriter, verr *models.ValidationError) {
	writeJSON(w, http.StatusUnprocessableEntity, ErrorBody{Detail: "validation failed", Errors: verr.Errors})
}
