package tailor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	text := "tailored resume text"
	token, ttl := IssueToken(text)

	require.NotEmpty(t, token)
	require.Equal(t, 30*time.Minute, ttl)

	got, err := Consume(token)
	require.NoError(t, err)
	require.Equal(t, text, got)
}

func TestTokenSingleUse(t *testing.T) {
	token, _ := IssueToken("once only")

	_, err := Consume(token)
	require.NoError(t, err)

	_, err = Consume(token)
	require.ErrorIs(t, err, ErrInvalidToken, "second consumption must fail")
}

func TestTokenUnknown(t *testing.T) {
	_, err := Consume("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpiry(t *testing.T) {
	base := time.Now()
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })

	token, _ := IssueToken("short lived")

	now = func() time.Time { return base.Add(tokenTTL + time.Minute) }

	_, err := Consume(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenSweepOnIssue(t *testing.T) {
	base := time.Now()
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })

	expired, _ := IssueToken("old")

	now = func() time.Time { return base.Add(tokenTTL + time.Minute) }
	fresh, _ := IssueToken("new")

	tokenMu.Lock()
	_, stillThere := tokens[expired]
	tokenMu.Unlock()
	require.False(t, stillThere, "expired token must be swept on issue")

	got, err := Consume(fresh)
	require.NoError(t, err)
	require.Equal(t, "new", got)
}
