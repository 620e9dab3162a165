// Package apierr writes the JSON error envelope every endpoint shares:
//
//	{"error": {"kind": "...", "message": "...", "fields": {...}, "names": [...]}}
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/volunteerhub/internal/app/reconcile"
)

// Kinds that are not reconcile kinds.
const (
	KindBadRequest   = "bad_request"
	KindValidation   = "validation"
	KindUnauthorized = "unauthorized"
	KindForbidden    = "forbidden"
	KindNotFound     = "not_found"
	KindMethod       = "method_not_allowed"
	KindRateLimited  = "rate_limited"
	KindInternal     = "internal"
)

// Detail is the inner error object.
type Detail struct {
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Names   []string          `json:"names,omitempty"`
}

// Body is the envelope.
type Body struct {
	Error Detail `json:"error"`
}

// Write sends status and d as JSON.
func Write(w http.ResponseWriter, status int, d Detail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Body{Error: d})
}

func BadRequest(w http.ResponseWriter, msg string) {
	Write(w, http.StatusBadRequest, Detail{Kind: KindBadRequest, Message: msg})
}

// Validation reports per-field messages with 400.
func Validation(w http.ResponseWriter, fields map[string]string) {
	Write(w, http.StatusBadRequest, Detail{Kind: KindValidation, Message: "please correct the highlighted fields", Fields: fields})
}

func Unauthorized(w http.ResponseWriter) {
	Write(w, http.StatusUnauthorized, Detail{Kind: KindUnauthorized, Message: "sign in required"})
}

func Forbidden(w http.ResponseWriter) {
	Write(w, http.StatusForbidden, Detail{Kind: KindForbidden, Message: "you do not have permission to do that"})
}

func NotFound(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "not found"
	}
	Write(w, http.StatusNotFound, Detail{Kind: KindNotFound, Message: msg})
}

// TooManyRequests reports a rate-limited caller with 429.
func TooManyRequests(w http.ResponseWriter) {
	Write(w, http.StatusTooManyRequests, Detail{Kind: KindRateLimited, Message: "too many requests, try again shortly"})
}

// Internal hides err from the client. Callers log it first.
func Internal(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "something went wrong"
	}
	Write(w, http.StatusInternalServerError, Detail{Kind: KindInternal, Message: msg})
}

// StatusFor maps a reconcile kind to an HTTP status.
func StatusFor(k reconcile.Kind) int {
	switch k {
	case reconcile.MissingTarget:
		return http.StatusBadRequest
	case reconcile.DuplicateConflict, reconcile.InFlight:
		return http.StatusConflict
	case reconcile.FetchFailure, reconcile.PartialFailure, reconcile.CommitFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Reconcile writes a *reconcile.Error. The wrapped cause is not sent.
// It reports false if err is not a reconcile error.
func Reconcile(w http.ResponseWriter, err error) bool {
	var re *reconcile.Error
	if !errors.As(err, &re) {
		return false
	}
	msg := re.Detail
	if msg == "" {
		msg = string(re.Kind)
	}
	Write(w, StatusFor(re.Kind), Detail{Kind: string(re.Kind), Message: msg, Names: re.Names})
	return true
}
