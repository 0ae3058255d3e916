package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/services/source"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// Details holds one line per problem for errors that collect several,
	// such as card source validation
	Details []string `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeProfileNotFound     = "PROFILE_NOT_FOUND"
	CodeInvalidRules        = "INVALID_RULES"
	CodeRulesLocked         = "RULES_LOCKED"
	CodeUnknownGameMode     = "UNKNOWN_GAME_MODE"
	CodeInvalidGridSize     = "INVALID_GRID_SIZE"
	CodeSourceNotFound      = "SOURCE_NOT_FOUND"
	CodeInvalidSource       = "INVALID_SOURCE"
	CodeInvalidDocument     = "INVALID_DOCUMENT"
	CodeWrongDocumentType   = "WRONG_DOCUMENT_TYPE"
	CodeDownloadFailed      = "DOWNLOAD_FAILED"
	CodeNotEnoughCategories = "NOT_ENOUGH_CATEGORIES"
	CodeSelectionExhausted  = "SELECTION_EXHAUSTED"
	CodeCardNotFound        = "CARD_NOT_FOUND"
	CodeInvalidCardIndex    = "INVALID_CARD_INDEX"
	CodeStarTile            = "STAR_TILE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

func newError(status int, code string, err error) *httpError {
	return &httpError{status, APIError{Code: code, Message: err.Error()}}
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var validation *source.ValidationErrors
	if errors.As(err, &validation) {
		return &httpError{http.StatusUnprocessableEntity, APIError{
			Code:    CodeInvalidSource,
			Message: source.ErrInvalidSource.Error(),
			Details: validation.Lines(),
		}}
	}

	var status *source.StatusError
	if errors.As(err, &status) {
		return newError(http.StatusBadGateway, CodeDownloadFailed, status)
	}

	switch {
	case errors.Is(err, model.ErrProfileNotFound):
		return newError(http.StatusNotFound, CodeProfileNotFound, model.ErrProfileNotFound)
	case errors.Is(err, model.ErrSourceNotFound):
		return newError(http.StatusNotFound, CodeSourceNotFound, model.ErrSourceNotFound)
	case errors.Is(err, model.ErrCardNotFound):
		return newError(http.StatusNotFound, CodeCardNotFound, model.ErrCardNotFound)

	case errors.Is(err, model.ErrRulesLocked):
		return newError(http.StatusConflict, CodeRulesLocked, err)
	case errors.Is(err, model.ErrInvalidRules):
		return newError(http.StatusBadRequest, CodeInvalidRules, err)
	case errors.Is(err, model.ErrUnknownGameMode):
		return newError(http.StatusBadRequest, CodeUnknownGameMode, err)
	case errors.Is(err, model.ErrInvalidGridSize):
		return newError(http.StatusUnprocessableEntity, CodeInvalidGridSize, err)

	case errors.Is(err, model.ErrNotEnoughCategories):
		return newError(http.StatusUnprocessableEntity, CodeNotEnoughCategories, err)
	case errors.Is(err, model.ErrSelectionExhausted):
		return newError(http.StatusUnprocessableEntity, CodeSelectionExhausted, err)

	case errors.Is(err, model.ErrInvalidCardIndex):
		return newError(http.StatusBadRequest, CodeInvalidCardIndex, err)
	case errors.Is(err, model.ErrStarTile):
		return newError(http.StatusConflict, CodeStarTile, model.ErrStarTile)

	case errors.Is(err, source.ErrInvalidDocument):
		return newError(http.StatusBadRequest, CodeInvalidDocument, err)
	case errors.Is(err, source.ErrWrongDocumentType):
		return newError(http.StatusUnprocessableEntity, CodeWrongDocumentType, err)
	case errors.Is(err, source.ErrUnexpectedResponse):
		return newError(http.StatusBadGateway, CodeDownloadFailed, err)

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(format string, args ...any) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: fmt.Sprintf(format, args...)}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "A profile token is required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
