package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/recruitment-accounts/internal/interface/http"
	"github.com/oksasatya/recruitment-accounts/internal/interface/middleware"
)

// UserModule wires the authenticated profile routes:
// GET/PUT /users/me, POST /users/me/photo, POST /users/me/resume,
// GET /users/search and DELETE /users/:id.
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    middleware.Authenticator
	RDB     *redis.Client
}

func NewUserModule(h *handlers.UserHandler, auth middleware.Authenticator, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Auth: auth, RDB: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Auth))
	auth.Use(
		middleware.RateLimit(m.RDB, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/users/me", m.Handler.GetProfile)
		auth.PUT("/users/me", m.Handler.UpdateProfile)
		auth.POST("/users/me/photo", m.Handler.UploadPhoto)
		auth.POST("/users/me/resume", m.Handler.UploadResume)
		auth.GET("/users/search", m.Handler.Search)
		auth.DELETE("/users/:id", m.Handler.Delete)
		// older clients delete with GET
		auth.GET("/users/delete/:id", m.Handler.Delete)
	}
}
