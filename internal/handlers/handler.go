package handlers

import (
	"html/template"
	"net/http"
	"time"

	"blog/internal/logger"
	"blog/internal/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Options tunes the session and flash cookies.
type Options struct {
	// SecretKey signs the flash cookie.
	SecretKey    string
	CookieName   string
	SecureCookie bool
	SessionTTL   time.Duration
}

func (o Options) withDefaults() Options {
	if o.CookieName == "" {
		o.CookieName = "session"
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = 24 * time.Hour
	}
	return o
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
	tmpl     *template.Template
	flashes  sessions.Store
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	useFormFieldNames()
	opts = opts.withDefaults()
	return &Handler{
		services: services,
		log:      log,
		opts:     opts,
		tmpl:     parseTemplates(),
		flashes:  newFlashStore(opts),
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), sessions.Sessions(flashCookie, h.flashes), h.requestLogger, h.loadIdentity)
	router.SetHTMLTemplate(h.tmpl)
	router.RedirectTrailingSlash = true
	router.HandleMethodNotAllowed = false

	h.registerPageRoutes(router)
	h.registerAuthRoutes(router)
	h.registerPostRoutes(router)

	router.NoRoute(h.notFound)
	return router
}

func (h *Handler) registerPageRoutes(r *gin.Engine) {
	r.GET("/", h.listPosts)
	r.GET("/about", h.staticPage("about.html", "About"))
	r.GET("/contact", h.staticPage("contact.html", "Contact"))
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	r.GET("/register", h.registerPage)
	r.POST("/register", h.register)
	r.GET("/login", h.loginPage)
	r.POST("/login", h.login)
	r.GET("/logout", h.logout)
	r.POST("/logout", h.logout)
}

func (h *Handler) registerPostRoutes(r *gin.Engine) {
	member := r.Group("/", h.requireLogin)
	{
		member.GET("/post/:id", h.showPost)
		member.POST("/post/:id", h.addComment)
	}

	admin := r.Group("/", h.adminOnly)
	{
		admin.GET("/new-post", h.newPostPage)
		admin.POST("/new-post", h.createPost)
		admin.GET("/edit-post/:id", h.editPostPage)
		admin.POST("/edit-post/:id", h.updatePost)
		admin.GET("/delete/:id", h.deletePost)
		admin.POST("/delete/:id", h.deletePost)
	}
}

func (h *Handler) staticPage(name, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.render(c, http.StatusOK, name, gin.H{"PageTitle": title})
	}
}
