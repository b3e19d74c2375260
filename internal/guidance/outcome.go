// Package guidance runs the chat pipeline: admission, validation, generation
// with fallbacks, verse retrieval, and persistence.
package guidance

import "github.com/hyperjump/shepherd/internal/models"

// Status is the terminal state of one guidance request.
type Status string

const (
	// StatusSuccess means generation produced the response text.
	StatusSuccess Status = "success"
	// StatusDegraded means a fallback text was substituted for the response.
	StatusDegraded Status = "degraded"
	// StatusRejected means the request was refused before any side effect.
	StatusRejected Status = "rejected"
)

// RejectReason says why a request was refused.
type RejectReason string

const (
	RejectEmptyInput       RejectReason = "empty_input"
	RejectInvalidSessionID RejectReason = "invalid_session_id"
	RejectRateLimited      RejectReason = "rate_limited"
)

// DegradeReason says which generation failure triggered the fallback.
type DegradeReason string

const (
	DegradeTimeout     DegradeReason = "generation_timeout"
	DegradeShortOutput DegradeReason = "generation_short"
	DegradeUnavailable DegradeReason = "generation_unavailable"
)

// Outcome is the tagged result of one request. Status selects which fields
// are meaningful: RejectReason only for StatusRejected, DegradeReason only
// for StatusDegraded, Citations only for StatusSuccess.
type Outcome struct {
	Status        Status
	RejectReason  RejectReason
	DegradeReason DegradeReason
	SessionID     string
	Language      string
	Text          string
	Citations     []models.Citation
}

// FallbackSet holds the three degraded-mode replies for one language.
type FallbackSet struct {
	Delayed     string
	Rephrase    string
	Unavailable string
}
