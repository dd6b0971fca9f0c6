package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.services.ListPosts(c.Request.Context())
	if err != nil {
		h.serverError(c, "posts_list_failed", err)
		return
	}
	h.render(c, http.StatusOK, "index.html", gin.H{"Posts": posts})
}
