package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/recruitment-accounts/internal/interface/middleware"
)

// sizer is implemented by ledgers that can report how many tokens they hold.
type sizer interface {
	Len() int
}

type DebugModule struct {
	RDB    *redis.Client
	Ledger any
}

func NewDebugModule(rdb *redis.Client, ledger any) *DebugModule {
	return &DebugModule{RDB: rdb, Ledger: ledger}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	if s, ok := m.Ledger.(sizer); ok && expvar.Get("revoked_tokens") == nil {
		expvar.Publish("revoked_tokens", expvar.Func(func() any { return s.Len() }))
	}
	// per-IP limit, except for scrapers on private addresses
	rl := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
