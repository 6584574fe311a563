// Package health provides shared types for health check responses.
package health

import "time"

// Response mirrors the body served by the API health probes.
type Response struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	StartedAt time.Time         `json:"started_at"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Healthy reports whether the probe answered with a healthy status.
func (r *Response) Healthy() bool {
	return r.Status == "healthy"
}
