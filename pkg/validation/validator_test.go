package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmail(t *testing.T) {
	for _, ok := range []string{"a@x.com", "first.last+tag@sub.example.org"} {
		assert.True(t, IsEmail(ok), ok)
	}
	for _, bad := range []string{"", "plain", "a@", "@x.com", "a x@y.com"} {
		assert.False(t, IsEmail(bad), bad)
	}
}

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone_number" validate:"omitempty,phone"`
	Name  string `json:"name" validate:"max=3"`
}

func TestToDetails_ValidationErrors(t *testing.T) {
	err := engine().Struct(sample{Email: "nope", Phone: "123", Name: "toolong"})

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be a valid phone number", details["phone_number"])
	assert.Equal(t, "must be at most 3 characters long", details["name"])
}

func TestToDetails_JSONErrors(t *testing.T) {
	var v map[string]any
	err := json.Unmarshal([]byte(`{"a":`), &v)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	var n struct {
		N int `json:"n"`
	}
	err = json.Unmarshal([]byte(`{"n":"x"}`), &n)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("eof")))
}

type credentials struct {
	Password string `json:"password" validate:"pwdlen"`
}

func TestPasswordLengthCountsBytes(t *testing.T) {
	assert.NoError(t, engine().Struct(credentials{Password: strings.Repeat("x", 72)}))

	err := engine().Struct(credentials{Password: strings.Repeat("x", 73)})
	assert.Equal(t, "must be at most 72 bytes long", ToDetails(err)["password"])

	// 40 runes, 80 bytes
	err = engine().Struct(credentials{Password: strings.Repeat("é", 40)})
	assert.Equal(t, "must be at most 72 bytes long", ToDetails(err)["password"])
}
