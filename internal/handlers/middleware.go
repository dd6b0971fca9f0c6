package handlers

import (
	"net/http"
	"time"

	"blog/internal/service"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

const sessionEndedMessage = "Your session has ended. Please log in again."

// requestLogger writes one structured line per request.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"ip", c.ClientIP(),
	)
}

// loadIdentity resolves the session cookie for every request. A cookie that
// cannot be honoured ends the session: it is revoked, cleared, and the
// visitor is sent to the login page.
func (h *Handler) loadIdentity(c *gin.Context) {
	token, _ := c.Cookie(h.opts.CookieName)

	id, err := h.services.ResolveIdentity(c.Request.Context(), token)
	if err != nil {
		h.serverError(c, "identity_resolve_failed", err)
		return
	}

	if id.State == service.Invalid {
		if h.log != nil {
			h.log.Infow("session_invalid", "session_id", id.SessionID, "path", c.Request.URL.Path)
		}
		if err := h.services.Logout(c.Request.Context(), token); err != nil && h.log != nil {
			h.log.Warnw("session_revoke_failed", "session_id", id.SessionID, "err", err)
		}
		h.clearSessionCookie(c)
		h.setFlash(c, sessionEndedMessage)
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}

	c.Set(identityKey, id)
	c.Next()
}

// requireLogin sends anonymous visitors to the login page.
func (h *Handler) requireLogin(c *gin.Context) {
	if !currentIdentity(c).IsAuthenticated() {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}
	c.Next()
}

// adminOnly rejects every identity that may not manage posts, anonymous
// visitors included.
func (h *Handler) adminOnly(c *gin.Context) {
	id := currentIdentity(c)
	if !id.CanManagePosts() {
		if h.log != nil {
			h.log.Infow("admin_only_forbidden", "user_id", id.UserID(), "path", c.Request.URL.Path)
		}
		h.renderError(c, http.StatusForbidden)
		c.Abort()
		return
	}
	c.Next()
}

func currentIdentity(c *gin.Context) service.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(service.Identity); ok {
			return id
		}
	}
	return service.AnonymousIdentity
}
