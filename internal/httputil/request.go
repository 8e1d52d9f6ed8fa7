package httputil

import (
	"errors"
	"io"
	"net/http"

	"studyflow/internal/domain"
)

// ReadBody reads the full request body, enforcing the given byte limit.
// Returns domain.ErrPayloadTooLarge when the body exceeds the limit so
// callers can reject oversized uploads before doing any work with them.
func ReadBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, domain.ErrPayloadTooLarge
		}
		return nil, err
	}

	return body, nil
}
