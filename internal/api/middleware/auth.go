package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
)

// APIKeyAuth returns middleware that requires a Bearer token listed in keys.
// With no keys configured every request is rejected.
func APIKeyAuth(keys []string) func(next http.Handler) http.Handler {
	digests := keyDigests(keys)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip auth for OPTIONS requests (CORS preflight)
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			apiKey, ok := bearerToken(authHeader)
			if !ok {
				writeError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			if !validKey(digests, apiKey) {
				writeError(w, http.StatusUnauthorized, "invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func keyDigests(keys []string) [][32]byte {
	digests := make([][32]byte, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			digests = append(digests, sha256.Sum256([]byte(k)))
		}
	}
	return digests
}

// validKey compares digests so the comparison time does not depend on key length
func validKey(digests [][32]byte, key string) bool {
	sum := sha256.Sum256([]byte(key))
	ok := 0
	for _, d := range digests {
		ok |= subtle.ConstantTimeCompare(d[:], sum[:])
	}
	return ok == 1
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
