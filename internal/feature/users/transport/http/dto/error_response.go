package dto

import "time"

// ErrorResponse is the envelope returned for every non-2xx outcome.
// Timestamp is UTC and serializes as ISO-8601 with timezone.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Message   string    `json:"message"`
}
