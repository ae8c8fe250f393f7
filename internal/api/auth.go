package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// requireToken rejects requests whose bearer token does not match the
// configured one.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(r.Header.Get("Authorization")) {
			s.logger.Warn("Rejected unauthenticated API request", map[string]interface{}{
				"method": r.Method,
				"path":   r.URL.Path,
			})
			w.Header().Set("WWW-Authenticate", `Bearer realm="promptstudio-workers"`)
			writeJSON(w, http.StatusUnauthorized, errorBody{
				Code:    "UNAUTHORIZED",
				Message: "a valid bearer token is required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authorized(header string) bool {
	if s.token == "" || !strings.HasPrefix(header, bearerPrefix) {
		return false
	}
	presented := strings.TrimPrefix(header, bearerPrefix)
	return subtle.ConstantTimeCompare([]byte(presented), []byte(s.token)) == 1
}
