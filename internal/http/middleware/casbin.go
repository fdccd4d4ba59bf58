package middleware

import (
	"net/http"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CasbinMiddleware defines the interface for Casbin authorization middleware
type CasbinMiddleware interface {
	Enforce() gin.HandlerFunc
}

// CasbinMW authorizes the token role against route patterns
type CasbinMW struct {
	enforcer domain.CasbinEnforcer
	logger   *zap.Logger
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(enforcer domain.CasbinEnforcer, logger *zap.Logger) *CasbinMW {
	return &CasbinMW{enforcer: enforcer, logger: logger}
}

// Enforce checks role_{role} against the matched route pattern and method
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ContextRole)
		roleName, _ := role.(string)
		if !ok || roleName == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Role not found in token"})
			return
		}

		// Match the route pattern so /admin/profiles/:id policies apply
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		allowed, err := mw.enforcer.Enforce("role_"+roleName, path, c.Request.Method)
		if err != nil {
			mw.logger.Error("authorization check failed", zap.String("path", path), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}

var _ CasbinMiddleware = (*CasbinMW)(nil)
