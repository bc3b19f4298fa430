// Package httpapi exposes the back-office modules over HTTP/JSON. Routing
// uses gorilla/mux; request bodies are validated with go-playground/validator
// and errors map onto the shared sentinel errors.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dev-tanvu/mateluxy-backend/internal/common"
)

// Response is the uniform JSON envelope.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(Response{
		Success: statusCode < 400,
		Data:    data,
	})
}

func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

func Error(w http.ResponseWriter, statusCode int, err string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(Response{
		Success: false,
		Error:   err,
	})
}

func BadRequest(w http.ResponseWriter, err string) {
	Error(w, http.StatusBadRequest, err)
}

func Unauthorized(w http.ResponseWriter, err string) {
	Error(w, http.StatusUnauthorized, err)
}

// ServiceError maps the shared sentinels onto HTTP statuses; anything
// unmatched is a 500 with a generic message so internals never leak.
func ServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrForbidden):
		Error(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, common.ErrConflict):
		Error(w, http.StatusConflict, "already exists")
	case errors.Is(err, common.ErrValidation):
		Error(w, http.StatusBadRequest, "invalid input")
	default:
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
