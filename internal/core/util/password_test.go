package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret-password")

	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hashed)
	assert.NoError(t, ComparePassword("s3cret-password", hashed))
	assert.Error(t, ComparePassword("wrong-password", hashed))
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73))

	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
