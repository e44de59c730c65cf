// Package identity decides which Google sign-in assertions are believed.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"

	"github.com/oksasatya/recruitment-accounts/internal/application"
	"github.com/oksasatya/recruitment-accounts/pkg/validation"
)

// Trusted accepts the posted email as is. It is only suitable behind a
// frontend that already completed Google sign-in.
type Trusted struct{}

func (Trusted) VerifyGoogle(_ context.Context, a application.GoogleAssertion) (application.Identity, error) {
	email := strings.TrimSpace(a.Email)
	if !validation.IsEmail(email) {
		return application.Identity{}, application.ErrInvalidEmail
	}
	return application.Identity{Email: email, Name: strings.TrimSpace(a.Name)}, nil
}

// IDToken validates a Google ID token for the configured client id and uses
// the email it asserts instead of the posted one.
type IDToken struct {
	ClientID string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewIDToken(clientID string) *IDToken {
	return &IDToken{ClientID: clientID, validate: idtoken.Validate}
}

func (v *IDToken) VerifyGoogle(ctx context.Context, a application.GoogleAssertion) (application.Identity, error) {
	if strings.TrimSpace(a.Credential) == "" {
		return application.Identity{}, errors.New("missing google credential")
	}
	payload, err := v.validate(ctx, a.Credential, v.ClientID)
	if err != nil {
		return application.Identity{}, fmt.Errorf("validate id token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if !validation.IsEmail(email) {
		return application.Identity{}, errors.New("id token has no usable email")
	}
	if verified, _ := payload.Claims["email_verified"].(bool); !verified {
		return application.Identity{}, errors.New("google email not verified")
	}

	name, _ := payload.Claims["name"].(string)
	if name == "" {
		name = strings.TrimSpace(a.Name)
	}
	return application.Identity{Email: email, Name: name}, nil
}
