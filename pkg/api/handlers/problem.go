// Package handlers provides the HTTP handlers for the cubby API.
package handlers

import (
	"encoding/json"
	"net/http"
)

// problemContentType is the media type for RFC 7807 problem responses.
const problemContentType = "application/problem+json"

// Problem is an RFC 7807 "problem details" response body.
// https://tools.ietf.org/html/rfc7807
type Problem struct {
	// Type is a URI reference identifying the problem type; "about:blank"
	// when there is nothing more specific to point at.
	Type string `json:"type,omitempty"`

	// Title summarizes the problem type in a short phrase.
	Title string `json:"title"`

	// Status echoes the HTTP status code of the response.
	Status int `json:"status"`

	// Detail explains this particular occurrence.
	Detail string `json:"detail,omitempty"`
}

// writeBody encodes body as JSON with the given content type and status.
func writeBody(w http.ResponseWriter, contentType string, status int, body any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteProblem writes an RFC 7807 problem response.
func WriteProblem(w http.ResponseWriter, status int, title, detail string) {
	writeBody(w, problemContentType, status, &Problem{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// statusProblem writes a problem response titled after the status code.
func statusProblem(w http.ResponseWriter, status int, detail string) {
	WriteProblem(w, status, http.StatusText(status), detail)
}

// Shorthands for the standard HTTP error responses.

// BadRequest reports malformed request parameters or body (400).
func BadRequest(w http.ResponseWriter, detail string) {
	statusProblem(w, http.StatusBadRequest, detail)
}

// Unauthorized reports a missing or unusable credential (401).
func Unauthorized(w http.ResponseWriter, detail string) {
	statusProblem(w, http.StatusUnauthorized, detail)
}

// Forbidden reports a valid credential without sufficient rights (403).
func Forbidden(w http.ResponseWriter, detail string) {
	statusProblem(w, http.StatusForbidden, detail)
}

// NotFound reports that the target resource does not exist (404).
func NotFound(w http.ResponseWriter, detail string) {
	statusProblem(w, http.StatusNotFound, detail)
}

// Conflict reports a state collision such as a duplicate name (409).
func Conflict(w http.ResponseWriter, detail string) {
	statusProblem(w, http.StatusConflict, detail)
}

// InternalServerError reports an unexpected server-side failure (500).
func InternalServerError(w http.ResponseWriter, detail string) {
	statusProblem(w, http.StatusInternalServerError, detail)
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	writeBody(w, "application/json", status, data)
}

// WriteJSONOK writes a 200 OK JSON response.
func WriteJSONOK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

// WriteJSONCreated writes a 201 Created JSON response.
func WriteJSONCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, data)
}

// WriteNoContent writes a 204 No Content response.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
