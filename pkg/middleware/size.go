package middleware

import (
	"net/http"

	apperrors "frontdesk/pkg/errors"
)

// MaxRequestSize caps request bodies. A declared length over the limit is
// refused up front; an undeclared one fails when the decoder reads past it.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				_ = apperrors.WriteError(w, apperrors.New(
					apperrors.CodePayloadTooLarge,
					"Request body too large",
					http.StatusRequestEntityTooLarge,
				))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
