package middleware

import (
	"io"
	"net/http"
)

// DrainAndCloseRequest drains and closes the request body after the
// handler ran. The explorer endpoints are GET-only and never read bodies
// themselves, but a leftover body would block connection reuse.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body == nil {
				return
			}
			_, _ = io.Copy(io.Discard, r.Body)
			_ = r.Body.Close()
		})
	}
}
