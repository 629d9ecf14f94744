// Package errors provides standardized error handling for the SmartMatch service.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Input errors: rejected before any scoring or network work.
	ErrCodeInvalidPayload ErrorCode = "INVALID_PAYLOAD"
	ErrCodeMissingOrigin  ErrorCode = "MISSING_ORIGIN"
	ErrCodeInvalidOrigin  ErrorCode = "INVALID_ORIGIN"
	ErrCodeInvalidRadius  ErrorCode = "INVALID_RADIUS"
	ErrCodeInvalidWeight  ErrorCode = "INVALID_WEIGHT"

	// Transport errors: recovered invisibly through the local fallback.
	ErrCodeRemoteRankingUnreachable ErrorCode = "REMOTE_RANKING_UNREACHABLE"
	ErrCodeRemoteRankingTimeout     ErrorCode = "REMOTE_RANKING_TIMEOUT"
	ErrCodeRemoteRankingBadStatus   ErrorCode = "REMOTE_RANKING_BAD_STATUS"
	ErrCodeRemoteRankingMalformed   ErrorCode = "REMOTE_RANKING_MALFORMED"

	// Storage errors.
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeCandidateQueryFailed     ErrorCode = "CANDIDATE_QUERY_FAILED"
	ErrCodePriceStatsUnavailable    ErrorCode = "PRICE_STATS_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// IsInputError reports whether err is a StandardError carrying one of the
// input error codes. Only input errors stop the recommendation flow;
// everything else degrades to the local ranking.
func IsInputError(err error) bool {
	var stdErr *StandardError
	if !errors.As(err, &stdErr) {
		return false
	}
	switch stdErr.Code {
	case ErrCodeInvalidPayload, ErrCodeMissingOrigin, ErrCodeInvalidOrigin, ErrCodeInvalidRadius, ErrCodeInvalidWeight:
		return true
	}
	return false
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidPayloadError creates a non-retryable input error for a
// request body that cannot be decoded at all.
func NewInvalidPayloadError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPayload,
		Message:   "Request payload could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingOriginError creates a non-retryable input error.
func NewMissingOriginError() *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingOrigin,
		Message:   "Search origin is required",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidOriginError creates a non-retryable input error for
// out-of-range coordinates.
func NewInvalidOriginError(lat, lng float64) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidOrigin,
		Message:   "Search origin is outside valid coordinate range",
		Details:   fmt.Sprintf("lat: %f, lng: %f", lat, lng),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRadiusError creates a non-retryable input error.
func NewInvalidRadiusError(radiusKm float64) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRadius,
		Message:   "Search radius must be positive",
		Details:   fmt.Sprintf("radiusKm: %f", radiusKm),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidWeightError creates a non-retryable input error.
func NewInvalidWeightError(name string, value float64) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidWeight,
		Message:   "Ranking weight must be within [0,1]",
		Details:   fmt.Sprintf("%s: %f", name, value),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRemoteRankingUnreachableError creates a retryable transport error.
func NewRemoteRankingUnreachableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRemoteRankingUnreachable,
		Message:   "Remote ranking service unreachable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRemoteRankingTimeoutError creates a retryable transport error.
func NewRemoteRankingTimeoutError(timeout time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeRemoteRankingTimeout,
		Message:   "Remote ranking call exceeded its time budget",
		Details:   fmt.Sprintf("timeout: %s", timeout),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRemoteRankingBadStatusError creates a retryable transport error for a
// non-2xx response.
func NewRemoteRankingBadStatusError(status int) *StandardError {
	return &StandardError{
		Code:      ErrCodeRemoteRankingBadStatus,
		Message:   "Remote ranking service returned a non-success status",
		Details:   fmt.Sprintf("status: %d", status),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRemoteRankingMalformedError creates a non-retryable transport error
// for a response that does not carry a valid item list.
func NewRemoteRankingMalformedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRemoteRankingMalformed,
		Message:   "Remote ranking response is malformed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCandidateQueryFailedError creates a retryable query error.
func NewCandidateQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCandidateQueryFailed,
		Message:   "Candidate listing query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPriceStatsUnavailableError creates a retryable stats error. Callers
// are expected to fall back to pool-derived percentiles.
func NewPriceStatsUnavailableError(city string, err error) *StandardError {
	details := fmt.Sprintf("city: %s", city)
	if err != nil {
		details = fmt.Sprintf("city: %s, error: %s", city, err.Error())
	}
	return &StandardError{
		Code:      ErrCodePriceStatsUnavailable,
		Message:   "Price percentile statistics unavailable",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
