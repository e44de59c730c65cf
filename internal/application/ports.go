package application

import (
	"context"
	"io"

	"github.com/oksasatya/recruitment-accounts/internal/domain/entity"
)

// GoogleAssertion is what a client posts to Google sign-in. Credential is a
// Google ID token when the deployment verifies one; Name and Email are the
// caller's claims.
type GoogleAssertion struct {
	Name       string
	Email      string
	Credential string
}

// Identity is an email ownership the verifier is willing to vouch for.
type Identity struct {
	Email string
	Name  string
}

// IdentityVerifier decides whether a Google sign-in assertion is trusted.
type IdentityVerifier interface {
	VerifyGoogle(ctx context.Context, a GoogleAssertion) (Identity, error)
}

// Notifier sends account lifecycle emails.
type Notifier interface {
	Welcome(ctx context.Context, p *entity.Profile) error
	AccountDeleted(ctx context.Context, email, name string) error
}

// ProfileIndex keeps a searchable copy of profiles.
type ProfileIndex interface {
	Index(ctx context.Context, p *entity.Profile) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, query string, size int) ([]entity.Profile, error)
}

// FileStore persists uploaded files and returns their public URL.
type FileStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

type nopNotifier struct{}

func (nopNotifier) Welcome(context.Context, *entity.Profile) error        { return nil }
func (nopNotifier) AccountDeleted(context.Context, string, string) error { return nil }

type nopIndex struct{}

func (nopIndex) Index(context.Context, *entity.Profile) error { return nil }
func (nopIndex) Remove(context.Context, string) error         { return nil }
func (nopIndex) Search(context.Context, string, int) ([]entity.Profile, error) {
	return []entity.Profile{}, nil
}
