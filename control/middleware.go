package control

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/sagarc03/lanshare"
)

const bearerPrefix = "Bearer "

// TokenMiddleware requires a bearer token matching tokenHash, a bcrypt hash.
// An empty tokenHash disables the check.
func TokenMiddleware(tokenHash string) func(http.Handler) http.Handler {
	if tokenHash == "" {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	hash := []byte(tokenHash)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value := r.Header.Get("Authorization")
			if !strings.HasPrefix(value, bearerPrefix) {
				w.Header().Set("WWW-Authenticate", "Bearer")
				HandleError(w, lanshare.ErrUnauthorized)
				return
			}

			token := strings.TrimPrefix(value, bearerPrefix)
			if err := bcrypt.CompareHashAndPassword(hash, []byte(token)); err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				HandleError(w, lanshare.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// HashToken returns the bcrypt hash to store for token.
func HashToken(token string) (string, error) {
	if token == "" {
		return "", lanshare.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}
