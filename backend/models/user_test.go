package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserValidateOK(t *testing.T) {
	u := User{Name: "Alice", Email: "alice@example.com", Password: "secret1"}
	assert.NoError(t, u.Validate())
}

func TestUserValidateLowercasesEmail(t *testing.T) {
	u := User{Name: "Alice", Email: "Alice@Example.COM", Password: "secret1"}
	assert.NoError(t, u.Validate())
	assert.Equal(t, "alice@example.com", u.Email)
}

func TestUserValidateNameBounds(t *testing.T) {
	u := User{Name: "Al", Email: "alice@example.com", Password: "secret1"}
	assert.Error(t, u.Validate())

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	u = User{Name: string(long), Email: "alice@example.com", Password: "secret1"}
	assert.Error(t, u.Validate())
}

func TestUserValidateEmailFormat(t *testing.T) {
	u := User{Name: "Alice", Email: "not-an-email", Password: "secret1"}
	assert.Error(t, u.Validate())
}

func TestUserValidatePasswordLength(t *testing.T) {
	u := User{Name: "Alice", Email: "alice@example.com", Password: "short"}
	assert.Error(t, u.Validate())
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("alice@example.com"))
	assert.False(t, ValidEmail("foo@"))
	assert.False(t, ValidEmail("not-an-email"))
}

func TestUserPublicOmitsPassword(t *testing.T) {
	u := User{ID: "u1", Name: "Alice", Email: "alice@example.com", Password: "hash", Role: RoleUser, QuizCoins: 42}
	public := u.Public()

	assert.Equal(t, "u1", public["id"])
	assert.Equal(t, 42, public["quizCoins"])
	assert.NotContains(t, public, "password")
}
