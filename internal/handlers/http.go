package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/campuslabs/unionvote/internal/errors"
	"github.com/campuslabs/unionvote/internal/services"
)

// Error codes for standardized API error responses
const (
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeConflict       = "CONFLICT"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeInternalServer = "INTERNAL_SERVER_ERROR"
	ErrCodeAlreadyVoted   = "ALREADY_VOTED"
	ErrCodeUnknownPost    = "UNKNOWN_POST"
	ErrCodeNoCandidates   = "NO_CANDIDATES"
	ErrCodeTie            = "TIE"
)

// APIError represents an error with an HTTP status code and error code
type APIError struct {
	Status  int         `json:"-"`
	Code    string      `json:"code"`
	Message string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrBadRequest     = &APIError{Status: http.StatusBadRequest, Code: ErrCodeBadRequest, Message: "Bad request"}
	ErrUnauthorized   = &APIError{Status: http.StatusUnauthorized, Code: ErrCodeUnauthorized, Message: "Unauthorized"}
	ErrNotFound       = &APIError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: "Not found"}
	ErrInternalServer = &APIError{Status: http.StatusInternalServerError, Code: ErrCodeInternalServer, Message: "Internal server error"}
)

// NewAPIError creates a new API error with custom message and code
func NewAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

// BadRequest creates a 400 error with custom message
func BadRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: ErrCodeBadRequest, Message: message}
}

// Unauthorized creates a 401 error with custom message
func Unauthorized(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: ErrCodeUnauthorized, Message: message}
}

// NotFound creates a 404 error with custom message
func NotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: message}
}

// Conflict creates a 409 error with custom message
func Conflict(message string) *APIError {
	return &APIError{Status: http.StatusConflict, Code: ErrCodeConflict, Message: message}
}

// InternalError creates a 500 error, logs the original error
func InternalError(err error) *APIError {
	log.Printf("Internal error: %v", err)
	return &APIError{Status: http.StatusInternalServerError, Code: ErrCodeInternalServer, Message: "Internal server error"}
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondOK writes a 200 OK JSON response
func respondOK(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, data)
}

// respondCreated writes a 201 Created JSON response
func respondCreated(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusCreated, data)
}

// respondSuccess writes a 200 OK with a message
func respondSuccess(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusOK, map[string]string{"message": message})
}

// respondError writes an error response
func respondError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*APIError); ok {
		respondJSON(w, apiErr.Status, apiErr)
		return
	}
	// Convert service errors to appropriate API errors
	apiErr := ToAPIError(err)
	respondJSON(w, apiErr.Status, apiErr)
}

// decodeJSON decodes JSON from request body into the target
func decodeJSON(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if err == io.EOF {
			return BadRequest("Request body is empty")
		}
		return BadRequest("Invalid JSON: " + err.Error())
	}
	return nil
}

// parseIntParam extracts and parses an integer URL parameter
func parseIntParam(r *http.Request, name string) (int, error) {
	param := chi.URLParam(r, name)
	if param == "" {
		return 0, BadRequest("Missing " + name + " parameter")
	}
	id, err := strconv.Atoi(param)
	if err != nil {
		return 0, BadRequest("Invalid " + name + " parameter")
	}
	return id, nil
}

// memberFromRequest reads the caller's identity from the headers set by the
// campus gateway. Identity issuance itself happens upstream.
func memberFromRequest(r *http.Request) (id, name string, err error) {
	id = r.Header.Get("X-Member-ID")
	if id == "" {
		return "", "", Unauthorized("Member identity required")
	}
	name = r.Header.Get("X-Member-Name")
	return id, name, nil
}

// ToAPIError converts service errors to appropriate API errors
func ToAPIError(err error) *APIError {
	// A blocked announcement carries the tied candidates as details so the
	// caller can display who is tied
	var tieErr *services.TieError
	if stderrors.As(err, &tieErr) {
		tied := make([]map[string]interface{}, len(tieErr.Candidates))
		for i, c := range tieErr.Candidates {
			tied[i] = map[string]interface{}{"id": c.ID, "name": c.Name, "votes": c.Votes}
		}
		return &APIError{
			Status:  http.StatusConflict,
			Code:    ErrCodeTie,
			Message: tieErr.Error(),
			Details: map[string]interface{}{"post": tieErr.Post, "votes": tieErr.Votes, "tied_candidates": tied},
		}
	}

	// Known service outcomes
	if svcErr, ok := err.(*services.ServiceError); ok {
		switch svcErr {
		case services.ErrAlreadyVoted:
			return &APIError{Status: http.StatusConflict, Code: ErrCodeAlreadyVoted, Message: svcErr.Message}
		case services.ErrCandidateNotFound:
			return NotFound(svcErr.Message)
		case services.ErrNoCandidates:
			return &APIError{Status: http.StatusBadRequest, Code: ErrCodeNoCandidates, Message: svcErr.Message}
		case services.ErrUnknownPost:
			return &APIError{Status: http.StatusBadRequest, Code: ErrCodeUnknownPost, Message: svcErr.Message}
		case services.ErrMissingMember:
			return Unauthorized(svcErr.Message)
		}
		return BadRequest(svcErr.Message)
	}

	// Application errors carry a kind
	var appErr *errors.Error
	if stderrors.As(err, &appErr) {
		switch appErr.Kind {
		case errors.ErrNotFound:
			return NotFound(appErr.Message)
		case errors.ErrValidation:
			return &APIError{Status: http.StatusBadRequest, Code: ErrCodeValidation, Message: appErr.Message}
		case errors.ErrConflict:
			return Conflict(appErr.Message)
		default:
			return InternalError(err)
		}
	}

	return InternalError(err)
}
