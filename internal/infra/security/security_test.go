package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	"github.com/bryanwahyu/estatehub/internal/domain/users"
)

func TestJWTRoundTrip(t *testing.T) {
	j := NewJWT("s3cret", time.Hour)
	p := users.Principal{ID: "u-1", Role: users.RoleAgent}

	tok, err := j.Issue(p)
	require.NoError(t, err)

	got, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestJWTRejects(t *testing.T) {
	j := NewJWT("s3cret", time.Hour)
	tok, err := j.Issue(users.Principal{ID: "u-1", Role: users.RoleUser})
	require.NoError(t, err)

	_, err = NewJWT("other", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = j.Parse("garbage")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	later := NewJWT("s3cret", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.Parse(tok)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{User: users.Principal{ID: "x", Role: users.RoleAdmin}}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = j.Parse(none)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestBcrypt(t *testing.T) {
	b := Bcrypt{Cost: bcrypt.MinCost}
	h, err := b.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", h)
	assert.NoError(t, b.Compare(h, "correct horse"))
	assert.Error(t, b.Compare(h, "wrong"))
}
