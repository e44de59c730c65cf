package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"

	"github.com/oksasatya/recruitment-accounts/internal/application"
)

func TestTrusted(t *testing.T) {
	id, err := Trusted{}.VerifyGoogle(context.Background(), application.GoogleAssertion{Name: " G ", Email: " g@x.com "})
	require.NoError(t, err)
	assert.Equal(t, application.Identity{Email: "g@x.com", Name: "G"}, id)

	_, err = Trusted{}.VerifyGoogle(context.Background(), application.GoogleAssertion{Email: "nope"})
	assert.ErrorIs(t, err, application.ErrInvalidEmail)
}

func stubValidator(claims map[string]any, err error) *IDToken {
	v := NewIDToken("client-1")
	v.validate = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		if err != nil {
			return nil, err
		}
		if token != "cred" || audience != "client-1" {
			return nil, errors.New("unexpected token or audience")
		}
		return &idtoken.Payload{Audience: audience, Claims: claims}, nil
	}
	return v
}

func TestIDToken(t *testing.T) {
	ctx := context.Background()

	t.Run("uses the token email over the posted one", func(t *testing.T) {
		v := stubValidator(map[string]any{"email": "real@x.com", "email_verified": true, "name": "Real"}, nil)
		id, err := v.VerifyGoogle(ctx, application.GoogleAssertion{Email: "claimed@x.com", Credential: "cred"})
		require.NoError(t, err)
		assert.Equal(t, "real@x.com", id.Email)
		assert.Equal(t, "Real", id.Name)
	})

	t.Run("falls back to the posted name", func(t *testing.T) {
		v := stubValidator(map[string]any{"email": "real@x.com", "email_verified": true}, nil)
		id, err := v.VerifyGoogle(ctx, application.GoogleAssertion{Name: "Posted", Credential: "cred"})
		require.NoError(t, err)
		assert.Equal(t, "Posted", id.Name)
	})

	t.Run("rejections", func(t *testing.T) {
		cases := map[string]*IDToken{
			"unverified email": stubValidator(map[string]any{"email": "real@x.com", "email_verified": false}, nil),
			"no email":         stubValidator(map[string]any{"email_verified": true}, nil),
			"invalid token":    stubValidator(nil, errors.New("idtoken: token expired")),
		}
		for name, v := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := v.VerifyGoogle(ctx, application.GoogleAssertion{Credential: "cred"})
				assert.Error(t, err)
			})
		}
	})

	t.Run("missing credential", func(t *testing.T) {
		v := stubValidator(nil, nil)
		_, err := v.VerifyGoogle(ctx, application.GoogleAssertion{Email: "g@x.com"})
		assert.Error(t, err)
	})
}
