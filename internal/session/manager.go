package session

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const contextKey = "session_id"

// Manager issues anonymous session cookies and keeps their redis entries alive.
type Manager struct {
	cookieName string
	ttl        time.Duration
	secure     bool
	redis      *redis.Client
	log        *zap.Logger
}

func NewManager(cfg config.Config, client *redis.Client, log *zap.Logger) *Manager {
	return &Manager{
		cookieName: cfg.SessionCookie,
		ttl:        cfg.SessionTTL,
		secure:     cfg.SessionSecure,
		redis:      client,
		log:        log.Named("session"),
	}
}

func (m *Manager) CookieName() string {
	return m.cookieName
}

// Middleware resolves the caller's session id, minting a new cookie when none
// is present. Redis keeps a TTL entry per session; store failures are logged
// and do not fail the request, since handlers only need the id itself.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(m.cookieName)
		if err != nil || strings.TrimSpace(id) == "" {
			id = uuid.NewString()
			m.store(c.Request.Context(), id)
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(m.cookieName, id, int(m.ttl.Seconds()), "/", "", m.secure, true)
		} else {
			m.refresh(c.Request.Context(), id)
		}

		c.Set(contextKey, id)
		c.Next()
	}
}

func (m *Manager) store(ctx context.Context, id string) {
	if err := m.redis.Set(ctx, "session:"+id, "active", m.ttl).Err(); err != nil {
		m.log.Warn("session store write failed", zap.Error(err))
	}
}

func (m *Manager) refresh(ctx context.Context, id string) {
	if err := m.redis.Expire(ctx, "session:"+id, m.ttl).Err(); err != nil {
		m.log.Warn("session ttl refresh failed", zap.Error(err))
	}
}

// FromContext returns the session id placed by Middleware.
func FromContext(c *gin.Context) string {
	if v, ok := c.Get(contextKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

var Module = fx.Module("session",
	fx.Provide(NewManager),
)
