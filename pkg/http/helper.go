package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "contactnorm/pkg/errors"
)

// DecodeJSON decodes exactly one JSON value from the request body into dst.
// Unknown fields are rejected.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperrors.RequestTooLarge(int(maxErr.Limit))
		case errors.Is(err, io.EOF):
			return apperrors.InvalidInput("request body is empty")
		default:
			return apperrors.InvalidInput("invalid JSON body: " + err.Error())
		}
	}
	if dec.More() {
		return apperrors.InvalidInput("request body must contain a single JSON value")
	}
	return nil
}
