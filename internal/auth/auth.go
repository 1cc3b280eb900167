package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"net/http"
	"strings"
)

// HeaderName carries the admin key on privileged API requests.
const HeaderName = "X-Admin-Key"

// Election-themed words for key generation
var keyWords = []string{
	"ballot", "tally", "quorum", "mandate", "caucus",
	"podium", "gavel", "motion", "charter", "ledger",
	"banner", "campus", "union", "senate", "delegate",
	"verdict", "count", "roll", "slate",
}

// Auth gates the admin API behind a shared key. The key is either
// supplied at startup or generated and logged once.
type Auth struct {
	key string
}

// New creates a new Auth instance with the given admin key
func New(key string) *Auth {
	return &Auth{key: key}
}

// GenerateKey creates a random 3-word admin key
func GenerateKey() string {
	words := make([]string, 3)
	for i := range words {
		idx := randomInt(len(keyWords))
		words[i] = keyWords[idx]
	}
	return strings.Join(words, "-")
}

// Validate checks a presented key against the configured one
func (a *Auth) Validate(key string) bool {
	if key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(a.key)) == 1
}

// KeyFromRequest extracts and validates the admin key from a request
func (a *Auth) KeyFromRequest(r *http.Request) bool {
	return a.Validate(r.Header.Get(HeaderName))
}

// RequireAdminAPI middleware for privileged endpoints (returns 401)
func (a *Auth) RequireAdminAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.KeyFromRequest(r) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"UNAUTHORIZED","error":"Unauthorized - admin key required"}`))
	})
}

// randomInt returns a random int in [0, max)
func randomInt(max int) int {
	bytes := make([]byte, 1)
	rand.Read(bytes)
	return int(bytes[0]) % max
}
