package handlers

import (
	"errors"
	"net/http"

	"blog/internal/service"

	"github.com/gin-gonic/gin"
)

const invalidCredentialsMessage = "Invalid credentials"

func (h *Handler) registerPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", gin.H{"PageTitle": "Register", "Form": registerForm{}})
}

func (h *Handler) register(c *gin.Context) {
	var form registerForm
	errs, err := bindForm(c, &form)
	if err != nil {
		h.badRequest(c, "register.html", "Register", registerForm{}, err)
		return
	}
	in := service.Registration{Name: form.Name, Email: form.Email, Password: form.Password}
	// never echo the password back into the page
	form.Password = ""
	if errs != nil {
		h.render(c, http.StatusBadRequest, "register.html", gin.H{"PageTitle": "Register", "Form": form, "Errors": errs})
		return
	}

	u, err := h.services.Register(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			if h.log != nil {
				h.log.Infow("auth_register_email_taken", "email", form.Email)
			}
			h.render(c, http.StatusConflict, "register.html", gin.H{
				"PageTitle": "Register",
				"Form":      form,
				"Errors":    formErrors{"email": "An account with this email already exists."},
			})
			return
		}
		h.serverError(c, "auth_register_failed", err, "email", form.Email)
		return
	}

	if h.log != nil {
		h.log.Infow("auth_registered", "user_id", u.ID, "role", u.Role)
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *Handler) loginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{"PageTitle": "Log In", "Form": loginForm{}})
}

func (h *Handler) login(c *gin.Context) {
	var form loginForm
	errs, err := bindForm(c, &form)
	if err != nil {
		h.badRequest(c, "login.html", "Log In", loginForm{}, err)
		return
	}
	password := form.Password
	form.Password = ""
	if errs != nil {
		h.render(c, http.StatusBadRequest, "login.html", gin.H{"PageTitle": "Log In", "Form": form, "Errors": errs})
		return
	}

	sess, err := h.services.Login(c.Request.Context(), form.Email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			if h.log != nil {
				h.log.Infow("auth_login_failed", "email", form.Email)
			}
			h.setFlash(c, invalidCredentialsMessage)
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		h.serverError(c, "auth_login_error", err)
		return
	}

	h.setSessionCookie(c, sess.Token)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) logout(c *gin.Context) {
	token, _ := c.Cookie(h.opts.CookieName)
	if err := h.services.Logout(c.Request.Context(), token); err != nil && h.log != nil {
		h.log.Warnw("auth_logout_failed", "err", err)
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/")
}

// badRequest answers an unreadable form body.
func (h *Handler) badRequest(c *gin.Context, page, title string, values any, err error) {
	if h.log != nil {
		h.log.Infow("form_bad_request_body", "path", c.Request.URL.Path, "err", err)
	}
	h.render(c, http.StatusBadRequest, page, gin.H{"PageTitle": title, "Form": values})
}
