package handlers

import (
	"crypto/md5"
	"embed"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	flashCookie = "flash"
	flashMaxAge = 60
)

var richTextPolicy = bluemonday.UGCPolicy()

func parseTemplates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"richtext": richText,
		"gravatar": gravatarURL,
	}).ParseFS(templateFS, "templates/*.html"))
}

// richText renders stored rich text with unsafe markup stripped.
func richText(s string) template.HTML {
	return template.HTML(richTextPolicy.Sanitize(s))
}

func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=100&d=retro&r=g", hex.EncodeToString(sum[:]))
}

// render executes a page template with the identity and pending flash
// message added to data.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = formErrors{}
	}
	if _, ok := data["PageTitle"]; !ok {
		data["PageTitle"] = "Blog"
	}
	data["Identity"] = currentIdentity(c)
	data["Flash"] = h.takeFlash(c)
	c.HTML(status, name, data)
}

func (h *Handler) renderError(c *gin.Context, status int) {
	h.render(c, status, "error.html", gin.H{
		"PageTitle": http.StatusText(status),
		"Status":    status,
		"Message":   errorMessage(status),
	})
}

func errorMessage(status int) string {
	switch status {
	case http.StatusNotFound:
		return "The page you were looking for does not exist."
	case http.StatusForbidden:
		return "You do not have permission to access this page."
	default:
		return "Something went wrong. Please try again later."
	}
}

// serverError logs err under event and answers 500.
func (h *Handler) serverError(c *gin.Context, event string, err error, kv ...any) {
	if h.log != nil {
		h.log.Errorw(event, append([]any{"err", err, "path", c.Request.URL.Path}, kv...)...)
	}
	h.renderError(c, http.StatusInternalServerError)
	c.Abort()
}

func (h *Handler) notFound(c *gin.Context) {
	h.renderError(c, http.StatusNotFound)
}

func init() {
	// flashes travel as []interface{} inside the gob-encoded cookie
	gob.Register([]interface{}{})
}

// newFlashStore keeps flash messages in a short-lived cookie signed with
// the application secret.
func newFlashStore(opts Options) sessions.Store {
	store := cookie.NewStore([]byte(opts.SecretKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   flashMaxAge,
		Secure:   opts.SecureCookie,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

func (h *Handler) setFlash(c *gin.Context, msg string) {
	s := sessions.Default(c)
	s.AddFlash(msg)
	if err := s.Save(); err != nil && h.log != nil {
		h.log.Warnw("flash_save_failed", "err", err)
	}
}

// takeFlash returns the pending flash messages and clears them.
func (h *Handler) takeFlash(c *gin.Context) []string {
	s := sessions.Default(c)
	pending := s.Flashes()
	if len(pending) == 0 {
		return nil
	}
	if err := s.Save(); err != nil && h.log != nil {
		h.log.Warnw("flash_save_failed", "err", err)
	}
	out := make([]string, 0, len(pending))
	for _, f := range pending {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.opts.CookieName, token, int(h.opts.SessionTTL.Seconds()), "/", "", h.opts.SecureCookie, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.opts.CookieName, "", -1, "/", "", h.opts.SecureCookie, true)
}
