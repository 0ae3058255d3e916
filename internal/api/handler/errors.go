package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mcoot/backlogbingo/internal/api/apierr"
)

// MaxDocumentBytes caps uploaded card sources and imported cards
const MaxDocumentBytes = 1 << 20

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// decodeJSON decodes a request body into dst, rejecting unknown fields. An
// empty body leaves dst untouched when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxDocumentBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return apierr.NewInvalidRequestError("invalid request body")
	}
	return nil
}

// readDocument reads an uploaded document body
func readDocument(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxDocumentBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apierr.NewInvalidRequestError("document exceeds %d bytes", MaxDocumentBytes)
		}
		return nil, apierr.NewInvalidRequestError("could not read request body")
	}
	if len(data) == 0 {
		return nil, apierr.NewInvalidRequestError("request body is empty")
	}
	return data, nil
}
