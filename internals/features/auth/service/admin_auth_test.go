package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAdminAuthenticator_Plain(t *testing.T) {
	a := NewAdminAuthenticator("s3cret", "")

	assert.NoError(t, a.Validate("s3cret"))
	assert.ErrorIs(t, a.Validate("s3cret "), ErrInvalidAdminPassword)
	assert.ErrorIs(t, a.Validate(""), ErrInvalidAdminPassword)
}

func TestAdminAuthenticator_Hash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	a := NewAdminAuthenticator("ignored", string(hash))
	assert.NoError(t, a.Validate("hashed-pass"))
	assert.ErrorIs(t, a.Validate("ignored"), ErrInvalidAdminPassword)
}

func TestAdminAuthenticator_Unconfigured(t *testing.T) {
	a := NewAdminAuthenticator("", "")
	assert.False(t, a.Configured())
	assert.ErrorIs(t, a.Validate("anything"), ErrInvalidAdminPassword)
}
