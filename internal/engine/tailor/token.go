package tailor

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

// ErrInvalidToken covers unknown, expired and already-consumed tokens.
var ErrInvalidToken = errors.New("invalid or expired tailor token")

const tokenTTL = 30 * time.Minute

// now is swapped out in tests to drive expiry.
var now = time.Now

type tokenEntry struct {
	text      string
	expiresAt time.Time
}

var (
	tokenMu sync.Mutex
	tokens  = make(map[string]tokenEntry)
)

// IssueToken binds tailored text to a fresh single-use token.
// Expired entries are swept on every issue and consume.
func IssueToken(text string) (token string, ttl time.Duration) {
	tokenMu.Lock()
	defer tokenMu.Unlock()
	sweepLocked()

	token = uuid.NewString()
	tokens[token] = tokenEntry{text: text, expiresAt: now().Add(tokenTTL)}
	engine.IncrTokensIssued()
	return token, tokenTTL
}

// Consume validates and pops a token, returning the bound text.
// A token works at most once; reuse returns ErrInvalidToken.
func Consume(token string) (string, error) {
	tokenMu.Lock()
	defer tokenMu.Unlock()
	sweepLocked()

	entry, ok := tokens[token]
	if !ok {
		return "", ErrInvalidToken
	}
	delete(tokens, token)
	if now().After(entry.expiresAt) {
		return "", ErrInvalidToken
	}
	engine.IncrTokensConsumed()
	return entry.text, nil
}

func sweepLocked() {
	t := now()
	for token, entry := range tokens {
		if t.After(entry.expiresAt) {
			delete(tokens, token)
		}
	}
}
