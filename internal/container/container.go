// Package container holds the components built once at startup and hands
// them to the router modules.
package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recruitment-accounts/config"
	"github.com/oksasatya/recruitment-accounts/internal/application"
	repo "github.com/oksasatya/recruitment-accounts/internal/domain/repository"
	"github.com/oksasatya/recruitment-accounts/pkg/helpers"
)

// Container is constructed in main; nothing in it is a package-level singleton.
// Optional integrations (Redis, Files, Index, Notifier) may be nil.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Redis  *redis.Client

	Users    repo.UserRepository
	Ledger   repo.RevocationLedger
	Hasher   *helpers.PasswordHasher
	Tokens   *helpers.JWTManager
	Identity application.IdentityVerifier
	Files    application.FileStore
	Index    application.ProfileIndex
	Notifier application.Notifier

	Auth     *application.AuthService
	Profiles *application.UserService
}

// Build creates the services from the infrastructure already set on c.
func (c *Container) Build() *Container {
	c.Auth = application.NewAuthService(c.Users, c.Hasher, c.Tokens, c.Ledger, c.Identity, c.Notifier, c.Index, c.Logger)
	c.Profiles = application.NewUserService(c.Users, c.Files, c.Index, c.Logger)
	return c
}
