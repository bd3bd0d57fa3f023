package auth

import (
	"encoding/json"
	"net/http"

	"github.com/openhwmon/nct7904-go/internal/models"
)

const apiKeyHeader = "api-key"

// Middleware returns an http.Handler middleware that enforces
// authentication. In open mode (no key configured), all requests pass
// through. Otherwise the api-key header or query parameter must match.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.IsOpenMode() {
			next.ServeHTTP(w, r)
			return
		}

		if key := r.Header.Get(apiKeyHeader); s.VerifyKey(key) {
			next.ServeHTTP(w, r)
			return
		}
		if key := r.URL.Query().Get(apiKeyHeader); key != "" && s.VerifyKey(key) {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(models.ErrUnauthorized)
	})
}
