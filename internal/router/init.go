package router

import (
	"github.com/oksasatya/recruitment-accounts/internal/container"
	handlers "github.com/oksasatya/recruitment-accounts/internal/interface/http"
	"github.com/oksasatya/recruitment-accounts/internal/router/modules"
)

// InitModules builds the handlers from c and adds every module to r.
// Call once during startup, after c.Build.
func InitModules(r *Registry, c *container.Container) {
	authHandler := handlers.NewAuthHandler(c.Auth, c.Logger)
	userHandler := handlers.NewUserHandler(
		c.Profiles,
		c.Auth,
		c.Logger,
		c.Config.CookieDomain,
		c.Config.CookieSecure,
	)

	r.Add(modules.NewAuthModule(authHandler, c.Redis))
	r.Add(modules.NewUserModule(userHandler, c.Auth, c.Redis))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Redis, c.Ledger))
	}
}
