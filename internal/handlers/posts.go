package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"blog/internal/models"
	"blog/internal/service"

	"github.com/gin-gonic/gin"
)

// postID reads the :id path segment. Anything but a positive integer is
// answered with 404, matching an unknown id.
func (h *Handler) postID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.notFound(c)
		return 0, false
	}
	return id, true
}

// loadPost fetches the post for the current request, answering 404 or 500
// itself when it cannot.
func (h *Handler) loadPost(c *gin.Context, id int) (models.Post, bool) {
	p, err := h.services.GetPost(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			h.notFound(c)
			return models.Post{}, false
		}
		h.serverError(c, "post_get_failed", err, "post_id", id)
		return models.Post{}, false
	}
	return p, true
}

func (h *Handler) showPost(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}
	p, ok := h.loadPost(c, id)
	if !ok {
		return
	}
	h.renderPost(c, http.StatusOK, p, commentForm{}, nil)
}

func (h *Handler) renderPost(c *gin.Context, status int, p models.Post, form commentForm, errs formErrors) {
	h.render(c, status, "post.html", gin.H{
		"PageTitle": p.Title,
		"Post":      p,
		"Form":      form,
		"Errors":    errs,
	})
}

func (h *Handler) addComment(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	var form commentForm
	errs, err := bindForm(c, &form)
	if err != nil || errs != nil {
		if err != nil && h.log != nil {
			h.log.Infow("form_bad_request_body", "path", c.Request.URL.Path, "err", err)
		}
		p, ok := h.loadPost(c, id)
		if !ok {
			return
		}
		h.renderPost(c, http.StatusBadRequest, p, form, errs)
		return
	}

	userID := currentIdentity(c).UserID()
	if _, err := h.services.AddComment(c.Request.Context(), userID, id, form.Body); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			h.notFound(c)
			return
		}
		h.serverError(c, "comment_create_failed", err, "post_id", id, "user_id", userID)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) newPostPage(c *gin.Context) {
	h.renderPostEditor(c, http.StatusOK, 0, postForm{}, nil)
}

// renderPostEditor shows the authoring form; postID > 0 selects edit mode.
func (h *Handler) renderPostEditor(c *gin.Context, status, postID int, form postForm, errs formErrors) {
	title, action := "New Post", "/new-post"
	if postID > 0 {
		title, action = "Edit Post", fmt.Sprintf("/edit-post/%d", postID)
	}
	h.render(c, status, "make-post.html", gin.H{
		"PageTitle": title,
		"IsEdit":    postID > 0,
		"Action":    action,
		"Form":      form,
		"Errors":    errs,
	})
}

func (h *Handler) createPost(c *gin.Context) {
	var form postForm
	errs, err := bindForm(c, &form)
	if err != nil || errs != nil {
		h.rejectPostForm(c, 0, form, errs, err)
		return
	}

	authorID := currentIdentity(c).UserID()
	id, err := h.services.CreatePost(c.Request.Context(), authorID, form.input())
	if err != nil {
		if errors.Is(err, service.ErrDuplicateTitle) {
			h.renderPostEditor(c, http.StatusConflict, 0, form, formErrors{"title": "A post with this title already exists."})
			return
		}
		h.serverError(c, "post_create_failed", err, "title", form.Title)
		return
	}

	if h.log != nil {
		h.log.Infow("post_created", "post_id", id, "author_id", authorID)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) editPostPage(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}
	p, ok := h.loadPost(c, id)
	if !ok {
		return
	}
	form := postForm{Title: p.Title, Subtitle: p.Subtitle, ImgURL: p.ImgURL, Body: p.Body}
	h.renderPostEditor(c, http.StatusOK, id, form, nil)
}

func (h *Handler) updatePost(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}
	if _, ok := h.loadPost(c, id); !ok {
		return
	}

	var form postForm
	errs, err := bindForm(c, &form)
	if err != nil || errs != nil {
		h.rejectPostForm(c, id, form, errs, err)
		return
	}

	editorID := currentIdentity(c).UserID()
	if err := h.services.UpdatePost(c.Request.Context(), id, editorID, form.input()); err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			h.notFound(c)
		case errors.Is(err, service.ErrDuplicateTitle):
			h.renderPostEditor(c, http.StatusConflict, id, form, formErrors{"title": "A post with this title already exists."})
		default:
			h.serverError(c, "post_update_failed", err, "post_id", id)
		}
		return
	}

	if h.log != nil {
		h.log.Infow("post_updated", "post_id", id, "editor_id", editorID)
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/post/%d", id))
}

func (h *Handler) rejectPostForm(c *gin.Context, postID int, form postForm, errs formErrors, err error) {
	if err != nil && h.log != nil {
		h.log.Infow("form_bad_request_body", "path", c.Request.URL.Path, "err", err)
	}
	h.renderPostEditor(c, http.StatusBadRequest, postID, form, errs)
}

func (h *Handler) deletePost(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}
	if err := h.services.DeletePost(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			h.notFound(c)
			return
		}
		h.serverError(c, "post_delete_failed", err, "post_id", id)
		return
	}

	if h.log != nil {
		h.log.Infow("post_deleted", "post_id", id)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (f *postForm) input() service.PostInput {
	return service.PostInput{Title: f.Title, Subtitle: f.Subtitle, ImgURL: f.ImgURL, Body: f.Body}
}
