package lanshare

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"
	"sync"
)

// DefaultRealm is the realm advertised in WWW-Authenticate challenges.
const DefaultRealm = "FileServer"

const basicPrefix = "Basic "

// CredentialStore holds the optional username/password pair guarding the
// file server. The zero value is not usable; use NewCredentialStore.
type CredentialStore struct {
	mu       sync.RWMutex
	username string
	password string
	realm    string
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{realm: DefaultRealm}
}

// SetCredentials replaces the stored pair. Passing two empty strings turns
// authentication off.
func (c *CredentialStore) SetCredentials(username, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.username = username
	c.password = password
}

// HasCredentials reports whether both username and password are non-empty.
func (c *CredentialStore) HasCredentials() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.username != "" && c.password != ""
}

func (c *CredentialStore) Realm() string {
	return c.realm
}

// Validate checks a raw Authorization header value. When no credentials are
// configured every input is accepted.
func (c *CredentialStore) Validate(header string) bool {
	c.mu.RLock()
	username, password := c.username, c.password
	c.mu.RUnlock()

	if username == "" || password == "" {
		return true
	}

	encoded, ok := strings.CutPrefix(header, basicPrefix)
	if !ok {
		return false
	}
	encoded = strings.Trim(encoded, " \t\r\n")

	user, pass, ok := strings.Cut(string(DecodeBase64Lenient(encoded)), ":")
	if !ok {
		return false
	}

	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1

	return userOK && passOK
}

// DecodeBase64Lenient decodes standard base64, stopping at the first '=' or
// character outside the alphabet. A trailing partial group yields as many
// whole bytes as it carries; malformed input never fails.
func DecodeBase64Lenient(s string) []byte {
	end := len(s)
	for i := 0; i < len(s); i++ {
		if !isBase64Char(s[i]) {
			end = i
			break
		}
	}

	valid := s[:end]
	if len(valid)%4 == 1 {
		valid = valid[:len(valid)-1]
	}

	out, err := base64.RawStdEncoding.DecodeString(valid)
	if err != nil {
		return nil
	}

	return out
}

func isBase64Char(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == '+' || b == '/':
		return true
	default:
		return false
	}
}
