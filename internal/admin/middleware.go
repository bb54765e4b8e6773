package admin

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/models"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/session"
)

const sessionKey = "pathx.session"

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("admin request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// requireSession resolves the bearer token into an operator session and
// makes the token available to downstream services through the request
// context.
func (h *Handler) requireSession(c *gin.Context) {
	if c.Request.Method == http.MethodOptions {
		c.Next()
		return
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		abort(c, http.StatusUnauthorized, "sign in to PathX to use the admin panel")
		return
	}

	ctx := session.WithToken(c.Request.Context(), strings.TrimSpace(parts[1]))
	sess, err := h.sessions.Current(ctx)
	if err != nil {
		h.logger.Debug("session rejected", zap.Error(err))
		abort(c, http.StatusUnauthorized, "session is missing or expired")
		return
	}

	c.Request = c.Request.WithContext(ctx)
	c.Set(sessionKey, sess)
	c.Next()
}

func (h *Handler) requireSuperAdmin(c *gin.Context) {
	sess := currentSession(c)
	profile, ok, err := h.promoter.Profile(c.Request.Context(), sess.ID)
	if err != nil {
		h.logger.Error("profile lookup failed", zap.String("user_id", sess.ID), zap.Error(err))
		abort(c, http.StatusServiceUnavailable, "could not verify admin role")
		return
	}
	if !ok || profile.Role != models.RoleSuperAdmin {
		abort(c, http.StatusForbidden, "super_admin role required")
		return
	}
	c.Next()
}

func currentSession(c *gin.Context) models.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(models.Session); ok {
			return sess
		}
	}
	return models.Session{}
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, response{Success: false, Error: message})
}
